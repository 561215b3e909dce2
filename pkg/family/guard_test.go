package family

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/matzehuels/famtree/pkg/errors"
)

func newTestProject(t *testing.T, ids ...string) *Project {
	t.Helper()
	p := NewProject("test")
	for _, id := range ids {
		_, err := p.AddPerson(Person{ID: id, Name: id})
		require.NoError(t, err)
	}
	return p
}

func TestAddRelationRecords(t *testing.T) {
	p := newTestProject(t, "a", "b")

	r, added, err := p.AddRelation(ParentChild, "a", "b")
	require.NoError(t, err)
	assert.True(t, added)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, ParentChild, r.Type)
	assert.Len(t, p.Relations, 1)
}

func TestAddRelationDuplicateSpouse(t *testing.T) {
	p := newTestProject(t, "a", "b")

	first, added, err := p.AddRelation(Spouse, "a", "b")
	require.NoError(t, err)
	require.True(t, added)

	again, added, err := p.AddRelation(Spouse, "a", "b")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, first.ID, again.ID)

	// Spouse endpoints are unordered.
	_, added, err = p.AddRelation(Spouse, "b", "a")
	require.NoError(t, err)
	assert.False(t, added)

	assert.Len(t, p.Relations, 1)
}

func TestAddRelationParentChildIsOrdered(t *testing.T) {
	p := newTestProject(t, "a", "b")

	_, _, err := p.AddRelation(ParentChild, "a", "b")
	require.NoError(t, err)

	// The reverse edge is not a duplicate; it is a cycle.
	_, added, err := p.AddRelation(ParentChild, "b", "a")
	assert.False(t, added)
	assert.ErrorIs(t, err, ErrCycle)
	assert.Len(t, p.Relations, 1)
}

func TestAddRelationRejectsCycle(t *testing.T) {
	p := newTestProject(t, "p1", "p2", "p3")
	_, _, err := p.AddRelation(ParentChild, "p1", "p2")
	require.NoError(t, err)
	_, _, err = p.AddRelation(ParentChild, "p2", "p3")
	require.NoError(t, err)

	before := append([]Relation(nil), p.Relations...)

	_, added, err := p.AddRelation(ParentChild, "p3", "p1")
	require.Error(t, err)
	assert.False(t, added)
	assert.ErrorIs(t, err, ErrCycle)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeCycleDetected))
	assert.Equal(t, before, p.Relations)
}

func TestAddRelationSpouseAllowedAcrossGenerations(t *testing.T) {
	p := newTestProject(t, "p1", "p2")
	_, _, err := p.AddRelation(ParentChild, "p1", "p2")
	require.NoError(t, err)

	// Spouse edges never participate in the cycle check.
	_, added, err := p.AddRelation(Spouse, "p2", "p1")
	require.NoError(t, err)
	assert.True(t, added)
}

func TestAddRelationErrors(t *testing.T) {
	tests := []struct {
		name string
		typ  RelationType
		a, b string
		want error
	}{
		{"self spouse", Spouse, "a", "a", ErrSelfRelation},
		{"self parent", ParentChild, "a", "a", ErrSelfRelation},
		{"unknown a", ParentChild, "zz", "a", ErrUnknownPerson},
		{"unknown b", Spouse, "a", "zz", ErrUnknownPerson},
		{"bad type", RelationType("COUSIN"), "a", "b", ErrUnknownRelationType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProject(t, "a", "b")
			_, added, err := p.AddRelation(tt.typ, tt.a, tt.b)
			assert.False(t, added)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
			assert.Empty(t, p.Relations)
		})
	}
}

func TestAddRelationAllowsThirdParent(t *testing.T) {
	p := newTestProject(t, "m", "f", "s", "c")
	for _, parent := range []string{"m", "f", "s"} {
		_, added, err := p.AddRelation(ParentChild, parent, "c")
		require.NoError(t, err)
		require.True(t, added)
	}
	assert.Equal(t, []string{"m", "f", "s"}, p.Parents("c"))
}

func TestLink(t *testing.T) {
	p := newTestProject(t, "me", "mom", "kid", "wife")

	r, _, err := p.Link(LinkParent, "me", "mom")
	require.NoError(t, err)
	assert.Equal(t, Relation{ID: r.ID, Type: ParentChild, AID: "mom", BID: "me"}, r)

	r, _, err = p.Link(LinkChild, "me", "kid")
	require.NoError(t, err)
	assert.Equal(t, "me", r.AID)
	assert.Equal(t, "kid", r.BID)

	r, _, err = p.Link(LinkSpouse, "me", "wife")
	require.NoError(t, err)
	assert.Equal(t, Spouse, r.Type)

	_, _, err = p.Link(LinkKind("sibling"), "me", "kid")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidInput))
}

func TestLinkParents(t *testing.T) {
	t.Run("two parents", func(t *testing.T) {
		p := newTestProject(t, "m", "f", "c")
		added, err := p.LinkParents("c", "m", "f")
		require.NoError(t, err)
		assert.Len(t, added, 2)
		assert.Equal(t, []string{"m", "f"}, p.Parents("c"))
	})

	t.Run("third parent rejected atomically", func(t *testing.T) {
		p := newTestProject(t, "m", "f", "s", "c")
		_, err := p.LinkParents("c", "m")
		require.NoError(t, err)

		_, err = p.LinkParents("c", "f", "s")
		assert.ErrorIs(t, err, ErrTooManyParents)
		assert.Equal(t, []string{"m"}, p.Parents("c"))
	})

	t.Run("existing parents skipped", func(t *testing.T) {
		p := newTestProject(t, "m", "f", "c")
		_, err := p.LinkParents("c", "m", "f")
		require.NoError(t, err)

		added, err := p.LinkParents("c", "m", "f", "m")
		require.NoError(t, err)
		assert.Empty(t, added)
		assert.Len(t, p.Relations, 2)
	})

	t.Run("cycle rejected before anything is recorded", func(t *testing.T) {
		p := newTestProject(t, "g", "p", "c", "x")
		_, _, err := p.AddRelation(ParentChild, "g", "p")
		require.NoError(t, err)

		_, err = p.LinkParents("g", "x", "p")
		assert.ErrorIs(t, err, ErrCycle)
		assert.Empty(t, p.Parents("g"))
	})
}

func TestAncestors(t *testing.T) {
	p := newTestProject(t, "gg", "g1", "g2", "p", "c")
	for _, r := range [][2]string{{"gg", "g1"}, {"g1", "p"}, {"g2", "p"}, {"p", "c"}} {
		_, _, err := p.AddRelation(ParentChild, r[0], r[1])
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"p", "g1", "g2", "gg"}, p.Ancestors("c"))
	assert.True(t, p.IsAncestor("gg", "c"))
	assert.False(t, p.IsAncestor("c", "gg"))
	assert.True(t, p.IsAncestor("c", "c"))
}
