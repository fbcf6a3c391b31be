package version

import (
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	if Tagline == "" {
		t.Error("Tagline should not be empty")
	}
}

func TestCurrent_StripsColor(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "\x1b[33;1m1\x1b[0m.\x1b[32;1m2\x1b[0m.3-dev"
	GitCommit = "abc123"
	defer func() { GitCommit = "" }()

	info := Current()
	if info.Version != "1.2.3-dev" {
		t.Errorf("Version = %q, want %q", info.Version, "1.2.3-dev")
	}
	if info.GitCommit != "abc123" {
		t.Errorf("GitCommit = %q", info.GitCommit)
	}
}

func TestCurrent_PlainVersion(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	for _, v := range []string{"0.1.0", "1.0.0-beta.1", "1.2.3-rc.1+build.123"} {
		Version = v
		if got := Current().Version; got != v {
			t.Errorf("Current().Version = %q, want %q", got, v)
		}
	}
}
