package hierarchy

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func set(ids ...ClassID) map[ClassID]struct{} {
	s := make(map[ClassID]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// newFruitHierarchy builds:
//
//	food
//	└── fruit
//	    ├── apple
//	    │   └── granny_smith
//	    └── orange
//	vehicle
//	└── car
func newFruitHierarchy() *Hierarchy {
	return NewFromEdges([]Edge{
		{Parent: "food", Child: "fruit"},
		{Parent: "fruit", Child: "apple"},
		{Parent: "fruit", Child: "orange"},
		{Parent: "apple", Child: "granny_smith"},
		{Parent: "vehicle", Child: "car"},
	}, []Name{
		{ID: "fruit", Name: "Fruit"},
		{ID: "apple", Name: "Apple"},
		{ID: "granny_smith", Name: "Granny Smith apple"},
	})
}

func TestHierarchy_FruitBasics(t *testing.T) {
	h := NewFromEdges([]Edge{{Parent: "fruit", Child: "apple"}, {Parent: "fruit", Child: "orange"}}, nil)

	assert.Equal(t, set("orange"), h.SiblingsOf("apple"))

	parent, ok := h.ParentOf("apple")
	require.True(t, ok)
	assert.Equal(t, ClassID("fruit"), parent)

	assert.Equal(t, set("fruit"), h.AncestorsOf("apple"))
}

func TestHierarchy_ParentOf(t *testing.T) {
	h := newFruitHierarchy()

	tests := []struct {
		name   string
		id     ClassID
		parent ClassID
		ok     bool
	}{
		{name: "leaf", id: "granny_smith", parent: "apple", ok: true},
		{name: "middle", id: "fruit", parent: "food", ok: true},
		{name: "root", id: "food", ok: false},
		{name: "unknown", id: "spaceship", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent, ok := h.ParentOf(tt.id)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.parent, parent)
		})
	}
}

func TestHierarchy_AncestorsOf(t *testing.T) {
	h := newFruitHierarchy()

	assert.Equal(t, set("apple", "fruit", "food"), h.AncestorsOf("granny_smith"))
	assert.Equal(t, set("food"), h.AncestorsOf("fruit"))
	assert.Empty(t, h.AncestorsOf("food"), "roots have no ancestors")
	assert.Empty(t, h.AncestorsOf("spaceship"), "unknown ids have no ancestors")

	_, self := h.AncestorsOf("apple")["apple"]
	assert.False(t, self, "ancestor set excludes the class itself")
}

func TestHierarchy_SiblingsOf(t *testing.T) {
	h := newFruitHierarchy()

	assert.Equal(t, set("orange"), h.SiblingsOf("apple"))
	assert.Empty(t, h.SiblingsOf("granny_smith"), "only child")
	assert.Empty(t, h.SiblingsOf("food"), "root")
	assert.Empty(t, h.SiblingsOf("spaceship"), "unknown")
}

func TestHierarchy_ShareAncestor(t *testing.T) {
	h := newFruitHierarchy()

	tests := []struct {
		name string
		a, b ClassID
		want bool
	}{
		{name: "siblings", a: "apple", b: "orange", want: true},
		{name: "cousins", a: "granny_smith", b: "orange", want: true},
		{name: "parent and child", a: "fruit", b: "apple", want: true},
		{name: "same leaf", a: "apple", b: "apple", want: true},
		{name: "root with itself", a: "food", b: "food", want: false},
		{name: "root with descendant", a: "food", b: "apple", want: false},
		{name: "different trees", a: "apple", b: "car", want: false},
		{name: "unknown", a: "spaceship", b: "apple", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.ShareAncestor(tt.a, tt.b))
			assert.Equal(t, tt.want, h.ShareAncestor(tt.b, tt.a), "ShareAncestor should be symmetric")
		})
	}
}

func TestHierarchy_IsAncestor(t *testing.T) {
	h := newFruitHierarchy()

	assert.True(t, h.IsAncestor("granny_smith", "apple"))
	assert.True(t, h.IsAncestor("granny_smith", "food"))
	assert.False(t, h.IsAncestor("apple", "granny_smith"), "descendant is not an ancestor")
	assert.False(t, h.IsAncestor("apple", "apple"), "strict relation")
	assert.False(t, h.IsAncestor("apple", "orange"))
	assert.False(t, h.IsAncestor("spaceship", "food"))
}

func TestHierarchy_NameOf(t *testing.T) {
	h := newFruitHierarchy()

	assert.Equal(t, "Granny Smith apple", h.NameOf("granny_smith"))
	assert.Equal(t, UnknownName, h.NameOf("orange"))
	assert.Equal(t, UnknownName, h.NameOf(""))

	h.LoadNames([]Name{{ID: "orange", Name: "Orange"}})
	assert.Equal(t, "Orange", h.NameOf("orange"))
	assert.Equal(t, UnknownName, h.NameOf("apple"), "LoadNames replaces the whole table")
}

func TestHierarchy_LoadEdgesLastWriteWins(t *testing.T) {
	h := newFruitHierarchy()
	h.LoadEdges([]Edge{{Parent: "vehicle", Child: "orange"}})

	parent, ok := h.ParentOf("orange")
	require.True(t, ok)
	assert.Equal(t, ClassID("vehicle"), parent)
	assert.Equal(t, set("car"), h.SiblingsOf("orange"))
	assert.Empty(t, h.SiblingsOf("apple"), "orange left fruit's child set")
}

func TestHierarchy_DuplicateEdges(t *testing.T) {
	h := NewFromEdges([]Edge{
		{Parent: "fruit", Child: "apple"},
		{Parent: "fruit", Child: "apple"},
		{Parent: "fruit", Child: "orange"},
	}, nil)

	assert.Equal(t, set("orange"), h.SiblingsOf("apple"))
	assert.Equal(t, 3, h.Len())
}

func TestHierarchy_Validate(t *testing.T) {
	require.NoError(t, newFruitHierarchy().Validate())
	require.NoError(t, New().Validate())

	cyclic := NewFromEdges([]Edge{
		{Parent: "a", Child: "b"},
		{Parent: "b", Child: "c"},
		{Parent: "c", Child: "a"},
	}, nil)
	err := cyclic.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCyclicHierarchy))
}

func TestHierarchy_CyclicQueriesTerminate(t *testing.T) {
	h := NewFromEdges([]Edge{
		{Parent: "a", Child: "b"},
		{Parent: "b", Child: "a"},
		{Parent: "b", Child: "c"},
	}, nil)

	assert.NotPanics(t, func() {
		h.AncestorsOf("c")
		h.ShareAncestor("c", "a")
		h.IsAncestor("c", "missing")
		IsAncestor(ParentMap{"x": "y", "y": "x"}, "x", "missing")
	})
	assert.Contains(t, h.AncestorsOf("c"), ClassID("b"))
}

func TestIsAncestor_Lookups(t *testing.T) {
	m := ParentMap{"apple": "fruit", "orange": "fruit", "fruit": "food"}

	assert.True(t, IsAncestor(m, "apple", "fruit"))
	assert.True(t, IsAncestor(m, "apple", "food"))
	assert.False(t, IsAncestor(m, "fruit", "apple"))
	assert.False(t, IsAncestor(m, "orange", "apple"))
	assert.False(t, IsAncestor(nil, "apple", "fruit"), "nil lookup treats every class as a root")

	h := newFruitHierarchy()
	assert.True(t, IsAncestor(h, "granny_smith", "fruit"))
}
