// Package svg draws a positioned family tree as an SVG document.
//
// Each visible person becomes a rounded card centred on the coordinates the
// layout engine wrote, showing the name, the years and (unless hidden) an
// origin badge. Relations become connectors:
//
//   - [EdgeCurved] follows the classic editor look: a cubic curve from each
//     parent to each child and an arched quadratic curve between spouses.
//   - [EdgeOrthogonal] routes each child from the midpoint of its parents
//     with vertical and horizontal segments. A child that sits directly under
//     that midpoint (the usual case for an only child) gets a straight drop.
//
// A [Filter] hides people that do not match a search query or the chosen
// origin country or city; connectors are drawn only between visible people.
//
//	out := svg.Render(project, svg.Options{
//	    Config:    layout.MustPreset("comfortable"),
//	    EdgeStyle: svg.EdgeOrthogonal,
//	    Filter:    svg.Filter{Country: "Ireland"},
//	})
//
// Rendering never moves anyone and is deterministic: the same project and
// options always produce the same bytes, which is what lets the pipeline
// cache rendered artifacts by content hash.
package svg
