package version

import (
	"testing"

	"github.com/fatih/color"
)

func withPlainColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestBanner(t *testing.T) {
	withPlainColor(t)
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	tests := []struct {
		version, commit, date string
		want                  string
	}{
		{"0.1.0-dev", "", "", "ferrite 0.1.0-dev"},
		{"1.2.3", "abc123", "", "ferrite 1.2.3 (abc123)"},
		{"1.2.3", "abc123", "2026-01-15", "ferrite 1.2.3 (abc123, 2026-01-15)"},
		{"weird", "", "", "ferrite weird"},
	}
	for _, tt := range tests {
		Version, GitCommit, BuildDate = tt.version, tt.commit, tt.date
		if got := Banner(); got != tt.want {
			t.Errorf("Banner() = %q, want %q", got, tt.want)
		}
	}
}
