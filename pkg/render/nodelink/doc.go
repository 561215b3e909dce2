// Package nodelink renders family trees as Graphviz node-link diagrams.
//
// # Overview
//
// Unlike a normal Graphviz drawing, the positions here are not Graphviz's
// to choose: [ToDOT] pins every node at the centre the layout engine wrote
// (pos="x,y!" in inches, with y flipped because Graphviz points y upward)
// and [RenderSVG] runs the neato engine, which honours pinned positions and
// only routes the edges. The result is an independent drawing of exactly the
// same layout, useful for checking it or for feeding DOT into other tools.
//
// # Usage
//
//	dot := nodelink.ToDOT(project, nodelink.Options{Config: cfg})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, convert the SVG with [render.ToPDF] or
// [render.ToPNG], or use [RenderPDF] and [RenderPNG].
//
// # DOT Format
//
// PARENT_CHILD relations become directed edges from parent to child. SPOUSE
// relations become undirected dashed edges. Node boxes have the preset's
// card size, so overlaps in the DOT drawing are overlaps in the layout.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
//
// [render.ToPDF]: github.com/matzehuels/famtree/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/famtree/pkg/render.ToPNG
package nodelink
