package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/layout"
	"github.com/matzehuels/famtree/pkg/render"
)

// pointsPerInch converts layout units (treated as points) to Graphviz inches.
const pointsPerInch = 72.0

// Options configures node-link diagram rendering.
type Options struct {
	// Config supplies the card size. Zero means layout.DefaultPreset.
	Config layout.Config
	// Detailed adds years and origin to node labels. When false, only the
	// name is shown.
	Detailed bool
}

// ToDOT converts a positioned project to Graphviz DOT with every node
// pinned. Relations with unknown or identical endpoints are skipped, as are
// repeated person ids after the first.
func ToDOT(p *family.Project, opts Options) string {
	cfg := opts.Config
	if cfg.NodeWidth <= 0 || cfg.NodeHeight <= 0 {
		cfg = layout.MustPreset(layout.DefaultPreset)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph famtree {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  overlap=true;\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fillcolor=white, fixedsize=true, width=%s, height=%s, fontsize=11];\n",
		inches(cfg.NodeWidth), inches(cfg.NodeHeight))
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("\n")

	seen := make(map[string]bool, len(p.People))
	for _, person := range p.People {
		if person == nil || seen[person.ID] {
			continue
		}
		seen[person.ID] = true
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(person, opts.Detailed)),
			fmt.Sprintf("pos=\"%s,%s!\"", inches(person.X), inches(-person.Y)),
		}
		if person.HasManualPos {
			attrs = append(attrs, "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", person.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, r := range p.Relations {
		if !seen[r.AID] || !seen[r.BID] || r.AID == r.BID {
			continue
		}
		switch r.Type {
		case family.ParentChild:
			fmt.Fprintf(&buf, "  %q -> %q;\n", r.AID, r.BID)
		case family.Spouse:
			fmt.Fprintf(&buf, "  %q -> %q [dir=none, style=dashed, color=\"#c0707f\"];\n", r.AID, r.BID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(p *family.Person, detailed bool) string {
	if !detailed {
		return p.DisplayName()
	}
	lines := []string{p.DisplayName()}
	if span := p.Lifespan(); span != "" {
		lines = append(lines, span)
	}
	if p.OriginCity != "" || p.OriginCountry != "" {
		lines = append(lines, strings.Trim(p.OriginCity+", "+p.OriginCountry, ", "))
	}
	return strings.Join(lines, "\n")
}

func inches(v float64) string {
	return strconv.FormatFloat(v/pointsPerInch, 'f', 4, 64)
}

// RenderSVG renders DOT with the neato engine, keeping pinned positions.
// Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-unit svg header with one whose
// width and height match the viewBox, so the drawing scales like the card
// renderer's output.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPDF renders DOT as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
