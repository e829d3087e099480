package paths

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestExpand_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := Expand("~/a/b")
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("Expand = %q, want %q", got, want)
	}
}

func TestExpand_BareTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := Expand("~")
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	if got != home {
		t.Fatalf("Expand = %q, want %q", got, home)
	}
}

func TestExpand_AbsolutePathUnchanged(t *testing.T) {
	dir := t.TempDir()
	got, err := Expand("  " + dir + "  ")
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	if got != dir {
		t.Fatalf("Expand = %q, want %q", got, dir)
	}
}

func TestExpand_EmptyErrors(t *testing.T) {
	if _, err := Expand("   "); err == nil {
		t.Fatalf("Expand returned nil error, want error")
	}
}

func TestResolve_BlankUsesFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := Resolve("", DefaultSettingsPath)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	want := filepath.Join(home, ".config", "kkshell", "ini", "settings.ini")
	if got != want {
		t.Fatalf("Resolve = %q, want %q", got, want)
	}
}

func TestMustExpand_ReturnsInputOnError(t *testing.T) {
	if got := MustExpand(""); got != "" {
		t.Fatalf("MustExpand(\"\") = %q, want empty", got)
	}
	t.Setenv("HOME", t.TempDir())
	if got := MustExpand("~/x"); !strings.HasSuffix(got, filepath.FromSlash("/x")) {
		t.Fatalf("MustExpand = %q, want suffix /x", got)
	}
}
