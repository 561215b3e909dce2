// Package layout computes non-overlapping positions for the people of a
// family tree.
//
// # Overview
//
// A layout pass is a pure function of a person list, a relation list and a
// [Config]. It always starts from scratch: no derived state survives between
// passes, and running it twice on unchanged input yields identical
// coordinates.
//
//	res, err := layout.Arrange(project.People, project.Relations, layout.MustPreset(layout.PresetComfortable))
//
// [Arrange] writes X and Y back onto each person and clears HasManualPos.
// [Compute] returns the same [Result] without touching the input.
//
// # Pipeline
//
// The pass runs in stages, each exposed for testing and reuse:
//
//   - [BuildGraph] indexes relations into parent, child and spouse adjacency.
//     Relations naming unknown people are dropped.
//   - [Graph.Components] splits people into connected family forests,
//     largest first.
//   - [Graph.TrueRoots] picks the people each forest is grown from. A person
//     who married into a family with known ancestors is never a root; they
//     are drawn beside their partner instead.
//   - [BuildUnit] groups a person and their unclaimed spouses into a family
//     [Unit] and recurses into their children. A shared claimed set makes
//     every person appear at most once.
//   - [Position] runs the tidy-tree algorithm over the unit forest.
//   - The compositor places forests left to right separated by
//     Config.FamilyGap, optionally wrapping at Config.MaxRowWidth, then
//     appends a strip with every person no tree reached.
//   - A final normalization shifts everything so the smallest centre x and
//     y equal Config.Padding.
//
// # Tidy Trees
//
// [Position] is Walker's algorithm in the linear-time form of Buchheim,
// Jünger and Leipert, generalized to units of varying width. A bottom-up
// pass assigns preliminary x values, pushing each subtree right until its
// left contour clears the right contour of its left siblings; shifts are
// spread evenly over the siblings in between. Threads link the shallower
// contour to the deeper one so contour walks cost only the overlap depth. A
// top-down pass sums modifiers into final x values.
//
// Nodes live in an arena and refer to each other by index, so thread and
// ancestor pointers need no lifetime management.
//
// # Geometry Contract
//
// Positions are card centres. Parents sit exactly Config.VGap above their
// children, members of a unit share y and are Config.NodeWidth +
// Config.SpouseGap apart, and a unit is centred over the midpoint of its
// first and last child unit.
//
// # Presets
//
// Three built-in presets are available through [Preset]: compact,
// comfortable and spacious. [LoadPresets] adds user presets from TOML, each
// inheriting unset values from a based_on preset.
//
// # Concurrency
//
// Every function here is synchronous and shares no state; concurrent passes
// over distinct inputs are safe. Callers must not mutate the people slice
// while [Arrange] writes to it.
package layout
