// Package pipeline runs the layout → render pipeline for famtree.
//
// This package implements the pipeline shared by the CLI and the HTTP
// server. By centralizing it, both entry points resolve presets, log layout
// warnings, fire instrumentation hooks and cache artifacts the same way.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: position every person with the family-tree layout engine
//  2. Render: draw the positioned project in one or more formats (SVG, PNG,
//     PDF, DOT)
//
// Layout is cheap and always recomputed. Rendered artifacts are cached by a
// hash of the positioned project, the layout configuration and the render
// options, so an unchanged tree is never redrawn.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, project, pipeline.Options{
//	    Preset:  "compact",
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	res, positioned, err := runner.Layout(ctx, project, opts)
//	artifacts, err := runner.Render(ctx, positioned, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/famtree/pkg/cache"
	apperrors "github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/layout"
	"github.com/matzehuels/famtree/pkg/render"
	"github.com/matzehuels/famtree/pkg/render/nodelink"
	"github.com/matzehuels/famtree/pkg/render/svg"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultScale is the PNG scale factor (2x for high-DPI displays).
	DefaultScale = 2.0

	// MaxScale bounds PNG scale requests.
	MaxScale = 8.0
)

// Drawing styles for SVG, PNG and PDF output.
const (
	StyleCards = "cards" // person cards with family edges
	StyleGraph = "graph" // Graphviz node-link drawing at the computed positions
)

// DefaultFormats is used when no format is requested.
var DefaultFormats = []string{string(render.FormatSVG)}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Preset         string `json:"preset,omitempty"`
	PreserveManual bool   `json:"preserve_manual,omitempty"` // keep dragged positions
	SkipLayout     bool   `json:"skip_layout,omitempty"`     // render stored positions as-is

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Style     string   `json:"style,omitempty"`
	EdgeStyle string   `json:"edge_style,omitempty"`
	Theme     string   `json:"theme,omitempty"`
	Query     string   `json:"query,omitempty"`
	Country   string   `json:"country,omitempty"`
	City      string   `json:"city,omitempty"`
	NoBadges  bool     `json:"no_badges,omitempty"`
	Selected  string   `json:"selected,omitempty"`
	Scale     float64  `json:"scale,omitempty"`
	Detailed  bool     `json:"detailed,omitempty"` // DOT labels with years and origin

	// Runtime options (not serialized)
	Presets layout.Presets `json:"-"` // nil means the built-in presets
	Logger  *log.Logger    `json:"-"`

	// cfg is the resolved preset, set by ValidateAndSetDefaults.
	cfg       layout.Config
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Project is a positioned copy of the input; the input is never modified.
	Project *family.Project

	// Layout is the layout pass result, nil when SkipLayout was set.
	Layout *layout.Result

	// LayoutHash is the content hash used for artifact cache keys.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether rendering hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	People     int
	Relations  int
	Warnings   int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for the render stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are supported. Empty is valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if _, err := render.ParseFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateScale checks a PNG scale factor. Zero means the default.
func ValidateScale(scale float64) error {
	if scale < 0 || scale > MaxScale {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "scale must be between 0 and %g, got %g", MaxScale, scale)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults resolves the preset, normalizes format names and
// applies defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Presets == nil {
		o.Presets = layout.DefaultPresets()
	}
	cfg, err := o.Presets.Get(o.Preset)
	if err != nil {
		return err
	}
	o.cfg = cfg
	o.Preset = cfg.Name

	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	formats := make([]string, 0, len(o.Formats))
	seen := make(map[render.Format]bool, len(o.Formats))
	for _, name := range o.Formats {
		f, err := render.ParseFormat(name)
		if err != nil {
			return err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, string(f))
		}
	}
	o.Formats = formats

	switch o.Style {
	case "":
		o.Style = StyleCards
	case StyleCards, StyleGraph:
	default:
		return apperrors.New(apperrors.ErrCodeInvalidInput, "unknown style %q (want %s or %s)", o.Style, StyleCards, StyleGraph)
	}

	style, err := svg.ParseEdgeStyle(o.EdgeStyle)
	if err != nil {
		return err
	}
	o.EdgeStyle = string(style)
	if o.Theme == "" {
		o.Theme = svg.DefaultTheme
	}
	if _, err := svg.LookupTheme(o.Theme); err != nil {
		return err
	}
	if err := ValidateScale(o.Scale); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Config returns the resolved layout configuration. It is the zero Config
// before ValidateAndSetDefaults.
func (o *Options) Config() layout.Config { return o.cfg }

// Filter returns the render filter.
func (o *Options) Filter() svg.Filter {
	return svg.Filter{Query: o.Query, Country: o.Country, City: o.City}
}

// SVGOptions returns the card renderer options.
func (o *Options) SVGOptions() svg.Options {
	return svg.Options{
		Config:     o.cfg,
		EdgeStyle:  svg.EdgeStyle(o.EdgeStyle),
		Theme:      o.Theme,
		Filter:     o.Filter(),
		HideBadges: o.NoBadges,
		Selected:   o.Selected,
	}
}

func (o *Options) dotOptions() nodelink.Options {
	return nodelink.Options{Config: o.cfg, Detailed: o.Detailed}
}

// ArtifactKeyOpts returns cache key options for one format. Options that do
// not change a format's bytes are left out so they do not split the cache.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	if format == string(render.FormatDOT) {
		return cache.ArtifactKeyOpts{Format: format, Detailed: o.Detailed}
	}
	if o.Style == StyleGraph {
		k := cache.ArtifactKeyOpts{Format: format, Style: o.Style, Detailed: o.Detailed}
		if format == string(render.FormatPNG) {
			k.Scale = o.Scale
		}
		return k
	}
	k := cache.ArtifactKeyOpts{
		Format:    format,
		EdgeStyle: o.EdgeStyle,
		Theme:     o.Theme,
		Query:     o.Query,
		Country:   o.Country,
		City:      o.City,
		NoBadges:  o.NoBadges,
		Selected:  o.Selected,
	}
	if format == string(render.FormatPNG) {
		k.Scale = o.Scale
	}
	return k
}
