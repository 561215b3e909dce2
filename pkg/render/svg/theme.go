package svg

import (
	"slices"

	apperrors "github.com/matzehuels/famtree/pkg/errors"
)

// Theme is a colour scheme.
type Theme struct {
	Name       string
	Background string
	Card       string
	Male       string
	Female     string
	Stroke     string
	Selected   string
	Text       string
	Muted      string
	Badge      string
	Edge       string
	SpouseEdge string
}

var themes = map[string]Theme{
	"light": {
		Name:       "light",
		Background: "#fafaf7",
		Card:       "#ffffff",
		Male:       "#e8f1fb",
		Female:     "#fbeaf0",
		Stroke:     "#c9cfc4",
		Selected:   "#2c5f2d",
		Text:       "#1f2a1f",
		Muted:      "#6b7566",
		Badge:      "#2c5f2d",
		Edge:       "#8a9485",
		SpouseEdge: "#c0707f",
	},
	"dark": {
		Name:       "dark",
		Background: "#1b1f1b",
		Card:       "#272c27",
		Male:       "#22303f",
		Female:     "#3a2530",
		Stroke:     "#4a524a",
		Selected:   "#97c459",
		Text:       "#eef2ea",
		Muted:      "#a3ab9f",
		Badge:      "#97c459",
		Edge:       "#7d867a",
		SpouseEdge: "#d48a99",
	},
}

// DefaultTheme is used for an empty theme name.
const DefaultTheme = "light"

// LookupTheme returns the named theme.
func LookupTheme(name string) (Theme, error) {
	if name == "" {
		name = DefaultTheme
	}
	t, ok := themes[name]
	if !ok {
		return Theme{}, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown theme %q", name)
	}
	return t, nil
}

// ThemeNames returns the available themes, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func (t Theme) fill(gender string) string {
	switch gender {
	case "Male":
		return t.Male
	case "Female":
		return t.Female
	}
	return t.Card
}
