package version

import (
	"strings"
	"testing"
)

func TestInfo_Format(t *testing.T) {
	orig, origC, origD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = orig, origC, origD })

	Version, Commit, Date = "1.2.3", "abc123", "2025-01-01"

	got := Info("iam-analyzer")
	want := "iam-analyzer version 1.2.3\ncommit: abc123\nbuilt: 2025-01-01\n"
	if got != want {
		t.Errorf("Info = %q; want %q", got, want)
	}
}

func TestInfo_Defaults(t *testing.T) {
	if !strings.Contains(Info("x"), "dev") {
		t.Errorf("default version missing from %q", Info("x"))
	}
}
