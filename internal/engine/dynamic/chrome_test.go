package dynamic

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestFindChrome_EnvOverride(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("exec bit check differs on windows")
	}

	path := filepath.Join(t.TempDir(), "fake-chrome")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CHROME_PATH", path)

	if got := FindChrome(); got != path {
		t.Errorf("FindChrome() = %q, want %q", got, path)
	}
}

func TestIsExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("exec bit check differs on windows")
	}
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain")
	os.WriteFile(plain, []byte("x"), 0o644)
	if isExecutable(plain) {
		t.Error("non-executable file reported executable")
	}
	if isExecutable(dir) {
		t.Error("directory reported executable")
	}
	if isExecutable(filepath.Join(dir, "missing")) {
		t.Error("missing file reported executable")
	}
}

func TestCandidates(t *testing.T) {
	linux := candidates("linux", "/home/u")
	if linux[0] != "/usr/bin/google-chrome-stable" {
		t.Errorf("first linux candidate = %q", linux[0])
	}
	if !strings.HasPrefix(linux[len(linux)-1], "/home/u/") {
		t.Errorf("expected a home-relative candidate, got %q", linux[len(linux)-1])
	}

	mac := candidates("darwin", "")
	for _, p := range mac {
		if !strings.HasPrefix(p, "/Applications/") {
			t.Errorf("unexpected mac candidate %q without HOME", p)
		}
	}
}

func TestAllocatorOptions(t *testing.T) {
	f := New(Options{UserAgent: "UA", ChromePath: "/opt/chrome"})
	base := len(f.allocatorOptions(nil))

	pool := mustPool(t, "proxy.local:3128")
	if got := len(f.allocatorOptions(pool.Next())); got != base+1 {
		t.Errorf("options with proxy = %d, want %d", got, base+1)
	}
}
