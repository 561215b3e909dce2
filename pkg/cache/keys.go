package cache

import "fmt"

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Style     string  `json:"style,omitempty"`
	EdgeStyle string  `json:"edge_style,omitempty"`
	Theme     string  `json:"theme,omitempty"`
	Query     string  `json:"query,omitempty"`
	Country   string  `json:"country,omitempty"`
	City      string  `json:"city,omitempty"`
	NoBadges  bool    `json:"no_badges,omitempty"`
	Selected  string  `json:"selected,omitempty"`
	Detailed  bool    `json:"detailed,omitempty"` // DOT only
	Scale     float64 `json:"scale,omitempty"` // PNG only
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key of a rendered artifact for the positioned
	// project with the given content hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(fmt.Sprintf("artifact:%s", opts.Format), layoutHash, opts)
}
