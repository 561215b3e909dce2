package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"

	apperrors "github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/layout"
)

// EdgeStyle selects how relations are drawn.
type EdgeStyle string

const (
	EdgeCurved     EdgeStyle = "curved"
	EdgeOrthogonal EdgeStyle = "orthogonal"
)

// ParseEdgeStyle accepts "curved", "orthogonal" or "" (curved).
func ParseEdgeStyle(s string) (EdgeStyle, error) {
	switch EdgeStyle(s) {
	case "", EdgeCurved:
		return EdgeCurved, nil
	case EdgeOrthogonal:
		return EdgeOrthogonal, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidInput, "unknown edge style %q (want curved or orthogonal)", s)
}

// Options configures Render. The zero value draws the default preset's card
// size with curved connectors in the light theme.
type Options struct {
	Config     layout.Config // card size; zero means layout.DefaultPreset
	EdgeStyle  EdgeStyle
	Theme      string
	Filter     Filter
	HideBadges bool   // omit the origin line on cards
	Selected   string // person id drawn highlighted
}

const (
	margin     = 20.0
	cornerRad  = 8.0
	maxName    = 15
	maxOrigin  = 12
	sameRowEps = 0.5
)

const stylesheet = `
    .card { stroke-width: 1.5; }
    .card.selected { stroke-width: 3; }
    .name { font: 600 13px system-ui, sans-serif; }
    .years { font: 11px system-ui, sans-serif; }
    .origin { font: 10px system-ui, sans-serif; }
    .edge { fill: none; stroke-width: 2; }
    .spouse-edge { stroke-dasharray: 6 4; }`

// Render draws p. Only people matching opts.Filter are drawn, and a relation
// is drawn only when both ends are visible. Relations pointing at unknown
// people are ignored.
func Render(p *family.Project, opts Options) ([]byte, error) {
	cfg := opts.Config
	if cfg.NodeWidth <= 0 || cfg.NodeHeight <= 0 {
		cfg = layout.MustPreset(layout.DefaultPreset)
	}
	style, err := ParseEdgeStyle(string(opts.EdgeStyle))
	if err != nil {
		return nil, err
	}
	theme, err := LookupTheme(opts.Theme)
	if err != nil {
		return nil, err
	}

	d := newDrawing(p, opts.Filter, cfg)

	var buf bytes.Buffer
	box := d.viewBox()
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		box.MinX, box.MinY, box.Width(), box.Height(), box.Width(), box.Height())
	renderDefs(&buf, theme)
	fmt.Fprintf(&buf, `  <rect class="background" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		box.MinX, box.MinY, box.Width(), box.Height(), theme.Background)

	buf.WriteString("  <g class=\"edges\">\n")
	for _, e := range d.edges(style) {
		renderEdge(&buf, e, theme)
	}
	buf.WriteString("  </g>\n  <g class=\"nodes\">\n")
	for _, person := range d.people {
		renderCard(&buf, person, cfg, theme, !opts.HideBadges, person.ID == opts.Selected)
	}
	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes(), nil
}

// drawing holds the visible subset of a project.
type drawing struct {
	cfg       layout.Config
	people    []*family.Person
	byID      map[string]*family.Person
	relations []family.Relation
}

func newDrawing(p *family.Project, f Filter, cfg layout.Config) *drawing {
	d := &drawing{cfg: cfg, byID: make(map[string]*family.Person)}
	for _, person := range f.Apply(p.People) {
		if person == nil {
			continue
		}
		if _, dup := d.byID[person.ID]; dup {
			continue
		}
		d.byID[person.ID] = person
		d.people = append(d.people, person)
	}
	for _, r := range p.Relations {
		if d.byID[r.AID] != nil && d.byID[r.BID] != nil && r.AID != r.BID {
			d.relations = append(d.relations, r)
		}
	}
	return d
}

func (d *drawing) viewBox() layout.Rect {
	if len(d.people) == 0 {
		return layout.Rect{MaxX: 2 * margin, MaxY: 2 * margin}
	}
	r := layout.Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, p := range d.people {
		r.MinX = math.Min(r.MinX, p.X-d.cfg.NodeWidth/2)
		r.MinY = math.Min(r.MinY, p.Y-d.cfg.NodeHeight/2)
		r.MaxX = math.Max(r.MaxX, p.X+d.cfg.NodeWidth/2)
		r.MaxY = math.Max(r.MaxY, p.Y+d.cfg.NodeHeight/2)
	}
	return layout.Rect{MinX: r.MinX - margin, MinY: r.MinY - margin, MaxX: r.MaxX + margin, MaxY: r.MaxY + margin}
}

func renderDefs(buf *bytes.Buffer, t Theme) {
	buf.WriteString("  <defs>\n")
	buf.WriteString(`    <filter id="cardShadow" x="-50%" y="-50%" width="200%" height="200%">` + "\n")
	buf.WriteString(`      <feDropShadow dx="0" dy="2" stdDeviation="3" flood-opacity="0.1"/>` + "\n")
	buf.WriteString("    </filter>\n")
	buf.WriteString(`    <filter id="cardSelectedShadow" x="-50%" y="-50%" width="200%" height="200%">` + "\n")
	fmt.Fprintf(buf, `      <feDropShadow dx="0" dy="4" stdDeviation="8" flood-color="%s" flood-opacity="0.3"/>`+"\n", t.Selected)
	buf.WriteString("    </filter>\n  </defs>\n")
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", stylesheet)
}

func renderCard(buf *bytes.Buffer, p *family.Person, cfg layout.Config, t Theme, badges, selected bool) {
	w, h := cfg.NodeWidth, cfg.NodeHeight
	class, stroke, shadow := "card", t.Stroke, "cardShadow"
	if selected {
		class, stroke, shadow = "card selected", t.Selected, "cardSelectedShadow"
	}
	if p.HasManualPos {
		class += " manual"
	}

	fmt.Fprintf(buf, `    <g id="person-%s" data-person-id="%s">`+"\n", escapeXML(p.ID), escapeXML(p.ID))
	fmt.Fprintf(buf, `      <rect class="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f" fill="%s" stroke="%s" filter="url(#%s)"/>`+"\n",
		class, p.X-w/2, p.Y-h/2, w, h, cornerRad, t.fill(p.Gender), stroke, shadow)
	text(buf, "name", p.X, p.Y-h/14, t.Text, truncate(p.DisplayName(), maxName))
	if years := yearsLabel(p); years != "" {
		text(buf, "years", p.X, p.Y+h/7, t.Muted, years)
	}
	if badges {
		if origin := originLabel(p); origin != "" {
			text(buf, "origin", p.X, p.Y+h*5/14, t.Badge, truncate(origin, maxOrigin))
		}
	}
	buf.WriteString("    </g>\n")
}

func text(buf *bytes.Buffer, class string, x, y float64, fill, s string) {
	fmt.Fprintf(buf, `      <text class="%s" x="%.1f" y="%.1f" text-anchor="middle" fill="%s">%s</text>`+"\n",
		class, x, y, fill, escapeXML(s))
}

func yearsLabel(p *family.Person) string {
	if p.BirthYear == "" {
		return ""
	}
	if p.DeathYear != "" {
		return p.BirthYear + "-" + p.DeathYear
	}
	return p.BirthYear
}

func originLabel(p *family.Person) string {
	if p.OriginCity != "" {
		return p.OriginCity
	}
	return p.OriginCountry
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
