package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"rpn/internal/stdlib"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

func addCorpusSeeds(f *testing.F) {
	addBootstrapSeeds(f)
	addScenarioSeeds(f)
	addTestdataSeeds(f)
	f.Add([]byte{})
	f.Add([]byte("1 2+3-\n"))
	f.Add([]byte("{ { } } }\n"))
	f.Add([]byte("\\"))
	f.Add([]byte("(unterminated"))
	f.Add([]byte("-.5.5 --1 .-"))
}

func addBootstrapSeeds(f *testing.F) {
	for _, script := range stdlib.Scripts {
		f.Add([]byte(script))
	}
}

// addScenarioSeeds берёт входы из таблицы сценариев драйвера
func addScenarioSeeds(f *testing.F) {
	path := filepath.Join("..", "driver", "testdata", "scenarios.yaml")
	// #nosec G304 -- path is a fixed repository location
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var scenarios []struct {
		Input string `yaml:"input"`
	}
	if err := yaml.Unmarshal(data, &scenarios); err != nil {
		return
	}
	for _, sc := range scenarios {
		f.Add(clampSeed([]byte(sc.Input)))
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.rpn файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".rpn" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
