// Package config loads rpn.toml and applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/xyproto/env/v2"
)

// FileName is the name searched for when no explicit path is given.
const FileName = "rpn.toml"

// Config is the merged configuration.
type Config struct {
	Eval   EvalConfig   `toml:"eval"`
	REPL   REPLConfig   `toml:"repl"`
	Output OutputConfig `toml:"output"`

	// Path of the file the values came from; empty when only defaults apply.
	Path string `toml:"-"`
}

type EvalConfig struct {
	OnError      string `toml:"on_error"`
	OnParseError string `toml:"on_parse_error"`
	MaxDepth     int    `toml:"max_depth"`
}

type REPLConfig struct {
	Prompt      string `toml:"prompt"`
	History     bool   `toml:"history"`
	HistoryFile string `toml:"history_file"`
}

type OutputConfig struct {
	Color string `toml:"color"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Eval: EvalConfig{
			OnError:      "continue",
			OnParseError: "discard",
			MaxDepth:     10000,
		},
		REPL: REPLConfig{
			Prompt:      "> ",
			History:     true,
			HistoryFile: defaultHistoryFile(),
		},
		Output: OutputConfig{Color: "auto"},
	}
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rpn_history")
}

// Find walks up from startDir looking for rpn.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load resolves the configuration: defaults, then the file (explicit path or
// the nearest rpn.toml above startDir), then environment variables.
func Load(explicit, startDir string) (Config, error) {
	cfg := Default()

	path := explicit
	if path == "" {
		found, ok, err := Find(startDir)
		if err != nil {
			return Config{}, err
		}
		if ok {
			path = found
		}
	}
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
		cfg.Path = path
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decodeFile накладывает значения из файла поверх cfg; отсутствующие ключи
// сохраняют значения по умолчанию.
func decodeFile(path string, cfg *Config) error {
	var file Config
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if meta.IsDefined("eval", "on_error") {
		cfg.Eval.OnError = file.Eval.OnError
	}
	if meta.IsDefined("eval", "on_parse_error") {
		cfg.Eval.OnParseError = file.Eval.OnParseError
	}
	if meta.IsDefined("eval", "max_depth") {
		cfg.Eval.MaxDepth = file.Eval.MaxDepth
	}
	if meta.IsDefined("repl", "prompt") {
		cfg.REPL.Prompt = file.REPL.Prompt
	}
	if meta.IsDefined("repl", "history") {
		cfg.REPL.History = file.REPL.History
	}
	if meta.IsDefined("repl", "history_file") {
		cfg.REPL.HistoryFile = expandHome(file.REPL.HistoryFile)
	}
	if meta.IsDefined("output", "color") {
		cfg.Output.Color = file.Output.Color
	}
	return nil
}

func applyEnv(cfg *Config) {
	// env кэширует окружение при первом обращении
	env.Load()
	cfg.Eval.OnError = env.Str("RPN_ON_ERROR", cfg.Eval.OnError)
	cfg.Eval.OnParseError = env.Str("RPN_ON_PARSE_ERROR", cfg.Eval.OnParseError)
	cfg.Eval.MaxDepth = env.Int("RPN_MAX_DEPTH", cfg.Eval.MaxDepth)
	cfg.REPL.Prompt = env.Str("RPN_PROMPT", cfg.REPL.Prompt)
	if env.Has("RPN_HISTORY_FILE") {
		cfg.REPL.HistoryFile = expandHome(env.Str("RPN_HISTORY_FILE"))
	}
	if env.Bool("RPN_NO_HISTORY") {
		cfg.REPL.History = false
	}
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	switch strings.ToLower(c.Eval.OnError) {
	case "continue", "abort":
	default:
		return fmt.Errorf("eval.on_error: unsupported value %q (expected continue|abort)", c.Eval.OnError)
	}
	switch strings.ToLower(c.Eval.OnParseError) {
	case "discard", "partial":
	default:
		return fmt.Errorf("eval.on_parse_error: unsupported value %q (expected discard|partial)", c.Eval.OnParseError)
	}
	if c.Eval.MaxDepth <= 0 {
		return fmt.Errorf("eval.max_depth must be positive, got %d", c.Eval.MaxDepth)
	}
	switch strings.ToLower(c.Output.Color) {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("output.color: unsupported value %q (expected auto|on|off)", c.Output.Color)
	}
	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[1:])
		}
	}
	return p
}
