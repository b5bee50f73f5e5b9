package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestGetUsesOverrides(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version = " 1.2.3 "
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	info := Get()
	if info.Version != "1.2.3" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.GitCommit != "abc123def456" {
		t.Errorf("GitCommit = %q", info.GitCommit)
	}
	if info.BuildDate != "2024-01-15T10:30:00Z" {
		t.Errorf("BuildDate = %q", info.BuildDate)
	}
}

func TestGetDefaultsEmptyVersion(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = ""
	if got := Get().Version; got != "dev" {
		t.Errorf("Version = %q, want dev", got)
	}
}

func TestColored(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })

	tests := []string{
		"0.1.0",
		"0.1.0-dev",
		"1.2.3-rc.1+build.123",
		"dev",
		"1.2",
	}
	for _, v := range tests {
		if got := Colored(v); got != v {
			t.Errorf("Colored(%q) without color = %q", v, got)
		}
	}
}
