package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env")
	content := `
# comment line
PLAIN=value
export EXPORTED=exp
QUOTED="with spaces"
SINGLE='single'
EMPTY=
=nokey
not-an-assignment
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"PLAIN", "EXPORTED", "QUOTED", "SINGLE", "EMPTY"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	if err := loadEnvFile(path); err != nil {
		t.Fatalf("loadEnvFile: %v", err)
	}
	checks := map[string]string{
		"PLAIN":    "value",
		"EXPORTED": "exp",
		"QUOTED":   "with spaces",
		"SINGLE":   "single",
		"EMPTY":    "",
	}
	for k, want := range checks {
		if got := os.Getenv(k); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
}

func TestLoadEnvFileDoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env")
	os.WriteFile(path, []byte("KEEP=file"), 0644)
	t.Setenv("KEEP", "process")

	loadEnvFile(path)
	if got := os.Getenv("KEEP"); got != "process" {
		t.Errorf("KEEP = %q, want process", got)
	}
}

func TestTrimOptionalQuotes(t *testing.T) {
	tests := []struct{ in, want string }{
		{`"a"`, "a"},
		{`'b'`, "b"},
		{`plain`, "plain"},
		{`"unbalanced`, `"unbalanced`},
		{`x`, "x"},
	}
	for _, tt := range tests {
		if got := trimOptionalQuotes(tt.in); got != tt.want {
			t.Errorf("trimOptionalQuotes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
