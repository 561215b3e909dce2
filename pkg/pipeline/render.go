package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/observability"
	"github.com/matzehuels/famtree/pkg/render"
	"github.com/matzehuels/famtree/pkg/render/nodelink"
	"github.com/matzehuels/famtree/pkg/render/svg"
)

// RenderArtifacts draws p in every format in opts without caching. The SVG
// is drawn once and shared by the PNG and PDF conversions. With StyleGraph
// the SVG comes from Graphviz instead of the card renderer.
func RenderArtifacts(ctx context.Context, p *family.Project, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	var drawn []byte
	cardSVG := func() ([]byte, error) {
		if drawn != nil {
			return drawn, nil
		}
		var (
			out []byte
			err error
		)
		if opts.Style == StyleGraph {
			out, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(p, opts.dotOptions()))
		} else {
			out, err = svg.Render(p, opts.SVGOptions())
		}
		drawn = out
		return out, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, name := range opts.Formats {
		data, err := renderFormat(ctx, render.Format(name), p, opts, cardSVG)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		artifacts[name] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, f render.Format, p *family.Project, opts Options, cardSVG func() ([]byte, error)) (data []byte, err error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, string(f))
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, string(f), len(data), time.Since(start), err) }()

	if f == render.FormatDOT {
		return []byte(nodelink.ToDOT(p, opts.dotOptions())), nil
	}
	doc, err := cardSVG()
	if err != nil {
		return nil, err
	}
	switch f {
	case render.FormatPNG:
		return render.ToPNG(ctx, doc, opts.Scale)
	case render.FormatPDF:
		return render.ToPDF(ctx, doc)
	}
	return doc, nil
}
