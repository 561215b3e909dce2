package layout

import (
	"slices"

	apperrors "github.com/matzehuels/famtree/pkg/errors"
)

// Built-in preset names.
const (
	PresetCompact     = "compact"
	PresetComfortable = "comfortable"
	PresetSpacious    = "spacious"

	// DefaultPreset is used when a caller does not name one.
	DefaultPreset = PresetComfortable
)

// Config holds the geometry of one layout pass. It is passed by value into
// every call; switching preset means running a new pass with a new Config,
// never rescaling existing coordinates.
type Config struct {
	Name string `json:"name" toml:"-"`

	NodeWidth  float64 `json:"node_width" toml:"node_width"`
	NodeHeight float64 `json:"node_height" toml:"node_height"`
	HGap       float64 `json:"h_gap" toml:"h_gap"`           // between neighbouring units
	VGap       float64 `json:"v_gap" toml:"v_gap"`           // between generations, centre to centre
	SpouseGap  float64 `json:"spouse_gap" toml:"spouse_gap"` // between members of one unit
	Padding    float64 `json:"padding" toml:"padding"`
	FamilyGap  float64 `json:"family_gap" toml:"family_gap"` // between components

	// MaxRowWidth wraps components onto a new row once the running width
	// would exceed it. Zero keeps every component on one row.
	MaxRowWidth float64 `json:"max_row_width,omitempty" toml:"max_row_width"`
}

var builtinPresets = map[string]Config{
	PresetCompact: {
		Name:       PresetCompact,
		NodeWidth:  120,
		NodeHeight: 60,
		HGap:       30,
		VGap:       100,
		SpouseGap:  10,
		Padding:    60,
		FamilyGap:  60,
	},
	PresetComfortable: {
		Name:       PresetComfortable,
		NodeWidth:  140,
		NodeHeight: 70,
		HGap:       50,
		VGap:       120,
		SpouseGap:  20,
		Padding:    100,
		FamilyGap:  100,
	},
	PresetSpacious: {
		Name:       PresetSpacious,
		NodeWidth:  160,
		NodeHeight: 80,
		HGap:       80,
		VGap:       160,
		SpouseGap:  30,
		Padding:    120,
		FamilyGap:  160,
	},
}

// Preset returns the built-in preset with the given name.
// An empty name selects DefaultPreset.
func Preset(name string) (Config, error) {
	if name == "" {
		name = DefaultPreset
	}
	cfg, ok := builtinPresets[name]
	if !ok {
		return Config{}, apperrors.New(apperrors.ErrCodeInvalidPreset,
			"unknown preset %q (must be one of: %s, %s, %s)", name, PresetCompact, PresetComfortable, PresetSpacious)
	}
	return cfg, nil
}

// MustPreset is like Preset but panics on an unknown name. It is meant for
// built-in names known at compile time.
func MustPreset(name string) Config {
	cfg, err := Preset(name)
	if err != nil {
		panic(err)
	}
	return cfg
}

// PresetNames returns the built-in preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(builtinPresets))
	for name := range builtinPresets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate checks that node sizes are positive and gaps are non-negative.
func (c Config) Validate() error {
	if c.NodeWidth <= 0 || c.NodeHeight <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "node size must be positive (got %gx%g)", c.NodeWidth, c.NodeHeight)
	}
	gaps := []struct {
		name  string
		value float64
	}{
		{"h_gap", c.HGap},
		{"v_gap", c.VGap},
		{"spouse_gap", c.SpouseGap},
		{"padding", c.Padding},
		{"family_gap", c.FamilyGap},
		{"max_row_width", c.MaxRowWidth},
	}
	for _, g := range gaps {
		if g.value < 0 {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "%s must not be negative (got %g)", g.name, g.value)
		}
	}
	return nil
}

// UnitWidth is the width of a family unit with n members laid side by side.
func (c Config) UnitWidth(n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n)*c.NodeWidth + float64(n-1)*c.SpouseGap
}

// MemberStride is the centre-to-centre distance between unit members.
func (c Config) MemberStride() float64 {
	return c.NodeWidth + c.SpouseGap
}
