// Package render turns positioned family trees into images.
//
// # Overview
//
// Rendering happens after layout: every renderer reads the card centres the
// layout engine (or a manual drag) wrote into each person and never moves
// anyone. The package provides:
//
//   - Output format names and parsing ([Format], [ParseFormat])
//   - Generic format conversion (SVG to PDF/PNG)
//   - Card-and-connector drawings (in [svg] subpackage)
//   - Graphviz node-link drawings (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both subpackages produce
// SVG first and share these converters.
//
//	out := svg.Render(project, svg.Options{Config: cfg})
//	pdf, err := render.ToPDF(ctx, out)
//	png, err := render.ToPNG(ctx, out, 2.0) // 2x scale
//
// # Card Drawings
//
// The [svg] subpackage draws one rounded card per person with name, years
// and an origin badge, connected by curved or orthogonal family lines. It
// also applies the viewer's search and origin filters.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage emits Graphviz DOT with every node pinned at its
// layout position and renders it in-process, which is handy for checking a
// layout against an independent drawing engine.
//
// [svg]: github.com/matzehuels/famtree/pkg/render/svg
// [nodelink]: github.com/matzehuels/famtree/pkg/render/nodelink
package render
