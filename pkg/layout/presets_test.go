package layout

import (
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/matzehuels/famtree/pkg/errors"
)

func TestPreset(t *testing.T) {
	tests := []struct {
		name    string
		want    float64
		wantErr bool
	}{
		{"", 140, false},
		{PresetCompact, 120, false},
		{PresetComfortable, 140, false},
		{PresetSpacious, 160, false},
		{"huge", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Preset(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Preset(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err != nil {
				if !apperrors.Is(err, apperrors.ErrCodeInvalidPreset) {
					t.Errorf("error code = %s", apperrors.GetCode(err))
				}
				return
			}
			if cfg.NodeWidth != tt.want {
				t.Errorf("NodeWidth = %g, want %g", cfg.NodeWidth, tt.want)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("built-in preset invalid: %v", err)
			}
		})
	}
}

func TestPresetNames(t *testing.T) {
	got := strings.Join(PresetNames(), ",")
	if got != "comfortable,compact,spacious" {
		t.Errorf("PresetNames() = %s", got)
	}
}

func TestLoadPresets(t *testing.T) {
	const doc = `
[presets.poster]
based_on = "spacious"
node_width = 200

[presets.tight]
h_gap = 10
max_row_width = 2000
`
	ps, err := LoadPresets(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadPresets() error = %v", err)
	}

	poster, err := ps.Get("poster")
	if err != nil {
		t.Fatal(err)
	}
	if poster.NodeWidth != 200 || poster.NodeHeight != 80 || poster.Name != "poster" {
		t.Errorf("poster = %+v", poster)
	}

	tight, _ := ps.Get("tight")
	if tight.HGap != 10 || tight.VGap != 120 || tight.MaxRowWidth != 2000 {
		t.Errorf("tight = %+v, want comfortable base with overrides", tight)
	}

	if _, err := ps.Get(PresetCompact); err != nil {
		t.Errorf("built-ins should remain: %v", err)
	}
	if len(ps.Names()) != 5 {
		t.Errorf("Names() = %v", ps.Names())
	}
}

func TestLoadPresetsErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad toml", "[presets.x\n"},
		{"unknown base", "[presets.x]\nbased_on = \"nope\"\n"},
		{"negative gap", "[presets.x]\nv_gap = -5\n"},
		{"zero width", "[presets.x]\nnode_width = 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadPresets(strings.NewReader(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadPresetFileMissing(t *testing.T) {
	ps, err := LoadPresetFile(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("LoadPresetFile() error = %v", err)
	}
	if len(ps) != 3 {
		t.Errorf("len = %d, want built-ins only", len(ps))
	}
}

func TestDefaultPresetsIsCopy(t *testing.T) {
	ps := DefaultPresets()
	ps[PresetCompact] = Config{}
	if MustPreset(PresetCompact).NodeWidth != 120 {
		t.Error("mutating DefaultPresets leaked into built-ins")
	}
}
