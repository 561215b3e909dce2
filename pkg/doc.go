// Package pkg provides the core libraries for famtree family-tree layout.
//
// # Overview
//
// Famtree places the people of a family tree on a canvas: each generation on
// its own row, couples side by side, children centred under their parents,
// separate families next to each other and unrelated people in a strip
// below. The pkg directory is organized into four areas:
//
//  1. Domain: [family] (data model and relation guard) and [layout] (the
//     layout engine)
//  2. Infrastructure: [io] (project JSON), [store] (project persistence),
//     [cache] (rendered artifacts), [observability] (hooks)
//  3. Rendering: [render], [render/svg], [render/nodelink]
//  4. Orchestration: [pipeline] (load, layout, render), [session] (editing
//     sessions), [server] (HTTP API)
//
// # Architecture
//
// The typical data flow:
//
//	project.json
//	     ↓
//	[io] package (import, repair, migrate)
//	     ↓
//	[family] package (relation guard on every edit)
//	     ↓
//	[layout] package (graph → components → roots → unit trees → tidy → compose)
//	     ↓
//	[render] packages (SVG cards, Graphviz, PDF/PNG)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/famtree/pkg/family"
//	    "github.com/matzehuels/famtree/pkg/layout"
//	    "github.com/matzehuels/famtree/pkg/render/svg"
//	)
//
//	p := family.Demo()
//	cfg := layout.MustPreset(layout.PresetComfortable)
//	if _, err := layout.ArrangeProject(p, cfg); err != nil {
//	    return err
//	}
//	doc, err := svg.Render(p, svg.Options{Config: cfg})
//
// # Main Packages
//
// [layout] - The layout engine. A pure function of the people, their
// relations and a [layout.Config]; it never fails on messy data and reports
// integrity problems as warnings.
//
// [family] - Projects, people and relations. [family.Project.AddRelation]
// refuses edits that would make someone their own ancestor.
//
// [session] - An editing session that serializes layout passes, debounces
// bursts of edits, keeps drags and layout apart and autosaves.
//
// [pipeline] - Layout plus rendering with an artifact cache, shared by the
// CLI and the HTTP server.
//
// [family]: github.com/matzehuels/famtree/pkg/family
// [layout]: github.com/matzehuels/famtree/pkg/layout
// [layout.Config]: github.com/matzehuels/famtree/pkg/layout.Config
// [family.Project.AddRelation]: github.com/matzehuels/famtree/pkg/family.Project.AddRelation
// [io]: github.com/matzehuels/famtree/pkg/io
// [store]: github.com/matzehuels/famtree/pkg/store
// [cache]: github.com/matzehuels/famtree/pkg/cache
// [observability]: github.com/matzehuels/famtree/pkg/observability
// [render]: github.com/matzehuels/famtree/pkg/render
// [render/svg]: github.com/matzehuels/famtree/pkg/render/svg
// [render/nodelink]: github.com/matzehuels/famtree/pkg/render/nodelink
// [pipeline]: github.com/matzehuels/famtree/pkg/pipeline
// [session]: github.com/matzehuels/famtree/pkg/session
// [server]: github.com/matzehuels/famtree/pkg/server
package pkg
