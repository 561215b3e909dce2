package layout

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/famtree/pkg/errors"
)

// presetFile is the on-disk shape of a presets file:
//
//	[presets.poster]
//	based_on = "comfortable"
//	node_width = 180
//	v_gap = 200
type presetFile struct {
	Presets map[string]presetSpec `toml:"presets"`
}

// presetSpec uses pointers so omitted keys inherit from the base preset.
type presetSpec struct {
	BasedOn     string   `toml:"based_on"`
	NodeWidth   *float64 `toml:"node_width"`
	NodeHeight  *float64 `toml:"node_height"`
	HGap        *float64 `toml:"h_gap"`
	VGap        *float64 `toml:"v_gap"`
	SpouseGap   *float64 `toml:"spouse_gap"`
	Padding     *float64 `toml:"padding"`
	FamilyGap   *float64 `toml:"family_gap"`
	MaxRowWidth *float64 `toml:"max_row_width"`
}

// Presets is a set of named layout configurations: the built-in presets plus
// any loaded from a TOML file.
type Presets map[string]Config

// DefaultPresets returns a copy of the built-in presets.
func DefaultPresets() Presets {
	return maps.Clone(Presets(builtinPresets))
}

// Get returns the named preset. An empty name selects DefaultPreset.
func (p Presets) Get(name string) (Config, error) {
	if name == "" {
		name = DefaultPreset
	}
	cfg, ok := p[name]
	if !ok {
		return Config{}, apperrors.New(apperrors.ErrCodeInvalidPreset, "unknown preset %q (available: %v)", name, p.Names())
	}
	return cfg, nil
}

// Names returns preset names in sorted order.
func (p Presets) Names() []string {
	return slices.Sorted(maps.Keys(p))
}

// LoadPresets decodes user presets from TOML and merges them over the
// built-in ones. A user preset may override a built-in name. Each preset
// starts from its based_on preset (default: comfortable) and is validated.
func LoadPresets(r io.Reader) (Presets, error) {
	var file presetFile
	if _, err := toml.NewDecoder(r).Decode(&file); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "decode presets")
	}

	out := DefaultPresets()
	// Resolve in sorted order so based_on chains between user presets are
	// deterministic; a preset may only build on built-ins or names sorted
	// before it.
	for _, name := range slices.Sorted(maps.Keys(file.Presets)) {
		spec := file.Presets[name]
		base := spec.BasedOn
		if base == "" {
			base = DefaultPreset
		}
		cfg, ok := out[base]
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeInvalidPreset, "preset %q: unknown based_on %q", name, base)
		}
		cfg.Name = name
		spec.apply(&cfg)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		out[name] = cfg
	}
	return out, nil
}

// LoadPresetFile reads presets from path. A missing file yields the
// built-in presets.
func LoadPresetFile(path string) (Presets, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return DefaultPresets(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return LoadPresets(f)
}

func (s presetSpec) apply(cfg *Config) {
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&cfg.NodeWidth, s.NodeWidth)
	set(&cfg.NodeHeight, s.NodeHeight)
	set(&cfg.HGap, s.HGap)
	set(&cfg.VGap, s.VGap)
	set(&cfg.SpouseGap, s.SpouseGap)
	set(&cfg.Padding, s.Padding)
	set(&cfg.FamilyGap, s.FamilyGap)
	set(&cfg.MaxRowWidth, s.MaxRowWidth)
}
