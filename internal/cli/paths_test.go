package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestXDGOverrides(t *testing.T) {
	tests := []struct {
		env string
		fn  func() (string, error)
	}{
		{"XDG_CACHE_HOME", cacheDir},
		{"XDG_CONFIG_HOME", configDir},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			base := t.TempDir()
			t.Setenv(tt.env, base)

			dir, err := tt.fn()
			if err != nil {
				t.Fatal(err)
			}
			if want := filepath.Join(base, appName); dir != want {
				t.Errorf("dir = %q, want %q", dir, want)
			}
		})
	}
}

func TestWithSuffix(t *testing.T) {
	tests := []struct {
		input, suffix, want string
	}{
		{"tree.json", ".layout.json", "tree.layout.json"},
		{"dir/tree", ".layout.json", "dir/tree.layout.json"},
		{"a.b.json", ".svg", "a.b.svg"},
	}
	for _, tt := range tests {
		if got := withSuffix(tt.input, tt.suffix); got != tt.want {
			t.Errorf("withSuffix(%q, %q) = %q, want %q", tt.input, tt.suffix, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		output  string
		formats []string
		want    map[string]string
	}{
		{
			name:    "single format uses output verbatim",
			input:   "tree.json",
			output:  "poster.svg",
			formats: []string{"svg"},
			want:    map[string]string{"svg": "poster.svg"},
		},
		{
			name:    "single format defaults next to input",
			input:   "data/tree.json",
			formats: []string{"png"},
			want:    map[string]string{"png": "data/tree.png"},
		},
		{
			name:    "several formats share a base",
			input:   "tree.json",
			output:  "out/family.svg",
			formats: []string{"svg", "dot"},
			want:    map[string]string{"svg": "out/family.svg", "dot": "out/family.dot"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.input, tt.output, tt.formats)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for f, p := range tt.want {
				if got[f] != p {
					t.Errorf("%s: got %q, want %q", f, got[f], p)
				}
			}
		})
	}
}
