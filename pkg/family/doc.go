// Package family provides the persisted family-tree document and the guard
// that protects its relation set.
//
// # Overview
//
// A [Project] holds people and the kinship relations between them. Two
// relation types exist:
//
//   - [ParentChild]: directed, A is the parent and B the child
//   - [Spouse]: symmetric
//
// The layout engine in [layout] reads a project's people and relations and
// writes back only three fields per person: X, Y and HasManualPos. Every
// other [Person] field is payload the engine never looks at.
//
// # Mutation Guard
//
// Relations are added through [Project.AddRelation] (single edge) or
// [Project.LinkParents] (batch). Both refuse edits that would break the
// invariants the layout engine relies on:
//
//   - Duplicates are a silent no-op: the existing relation is returned and
//     the added flag is false.
//   - A PARENT_CHILD edge that would make a person their own ancestor is
//     rejected with [ErrCycle] and nothing is recorded.
//   - A person cannot be related to themselves ([ErrSelfRelation]).
//   - The batch path caps a person at two recorded parents
//     ([ErrTooManyParents]). The single-edge path does not apply the cap.
//
// # Identifiers
//
// Person and relation ids are opaque strings. When a caller leaves them
// empty, [Project.AddPerson] and [Project.AddRelation] generate
// "p_<uuid>" and "r_<uuid>" identifiers.
//
// # Concurrency
//
// Project values are not safe for concurrent use. The [session] package
// serialises edits and layout passes for interactive callers.
//
// [layout]: github.com/matzehuels/famtree/pkg/layout
// [session]: github.com/matzehuels/famtree/pkg/session
package family
