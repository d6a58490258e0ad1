// Package hierarchy - In-memory class taxonomy used to relate detection labels.
package hierarchy

import (
	"github.com/pkg/errors"
)

// UnknownName is returned by NameOf for classes without a display name.
const UnknownName = "Unknown"

// ErrCyclicHierarchy is returned by Validate when a parent chain loops.
var ErrCyclicHierarchy = errors.New("cyclic hierarchy")

// ClassID identifies a class in the taxonomy (e.g. a WordNet synset code).
type ClassID string

// Edge is a single "child is-a parent" relationship.
type Edge struct {
	Parent ClassID
	Child  ClassID
}

// Name maps a class to its human-readable label.
type Name struct {
	ID   ClassID
	Name string
}

// ParentLookup resolves the direct parent of a class.
//
// It is the only capability the suppressor needs from a taxonomy, so it can be
// satisfied by a *Hierarchy or by a plain ParentMap.
type ParentLookup interface {
	// ParentOf returns the direct parent of id, or false if id is a root or unknown.
	ParentOf(id ClassID) (ClassID, bool)
}

// ParentMap is a direct child->parent mapping.
type ParentMap map[ClassID]ClassID

// ParentOf implements ParentLookup.
func (m ParentMap) ParentOf(id ClassID) (ClassID, bool) {
	p, ok := m[id]
	return p, ok
}

// Hierarchy is a forest of class identifiers.
//
// A Hierarchy is built with LoadEdges and LoadNames and is read-only afterwards.
// Read methods are safe for concurrent use once loading has finished; loads
// must be serialized by the caller.
type Hierarchy struct {
	// children maps a class to the set of its direct children.
	children map[ClassID]map[ClassID]struct{}
	// parents maps a class to its single direct parent. Roots have no entry.
	parents map[ClassID]ClassID
	// names maps a class to its display name.
	names map[ClassID]string
}

// New returns an empty hierarchy.
func New() *Hierarchy {
	return &Hierarchy{
		children: make(map[ClassID]map[ClassID]struct{}),
		parents:  make(map[ClassID]ClassID),
		names:    make(map[ClassID]string),
	}
}

// NewFromEdges builds a hierarchy from edges and names in one step.
func NewFromEdges(edges []Edge, names []Name) *Hierarchy {
	h := New()
	h.LoadEdges(edges)
	h.LoadNames(names)
	return h
}

// LoadEdges inserts parent->child edges.
//
// A child that already has a parent is re-parented (last write wins) and is
// removed from the previous parent's child set.
func (h *Hierarchy) LoadEdges(edges []Edge) {
	for _, e := range edges {
		if old, ok := h.parents[e.Child]; ok && old != e.Parent {
			delete(h.children[old], e.Child)
		}
		set, ok := h.children[e.Parent]
		if !ok {
			set = make(map[ClassID]struct{})
			h.children[e.Parent] = set
		}
		set[e.Child] = struct{}{}
		h.parents[e.Child] = e.Parent
	}
}

// LoadNames replaces the display-name table.
func (h *Hierarchy) LoadNames(names []Name) {
	h.names = make(map[ClassID]string, len(names))
	for _, n := range names {
		h.names[n.ID] = n.Name
	}
}

// Len returns the number of classes that appear in at least one edge.
func (h *Hierarchy) Len() int {
	seen := make(map[ClassID]struct{}, len(h.parents)+len(h.children))
	for c := range h.parents {
		seen[c] = struct{}{}
	}
	for p := range h.children {
		seen[p] = struct{}{}
	}
	return len(seen)
}

// ParentOf returns the direct parent of id.
func (h *Hierarchy) ParentOf(id ClassID) (ClassID, bool) {
	p, ok := h.parents[id]
	return p, ok
}

// AncestorsOf returns every class strictly above id, up to its root.
func (h *Hierarchy) AncestorsOf(id ClassID) map[ClassID]struct{} {
	ancestors := make(map[ClassID]struct{})
	walk(h, id, len(h.parents), func(p ClassID) bool {
		ancestors[p] = struct{}{}
		return true
	})
	return ancestors
}

// SiblingsOf returns the other direct children of id's parent.
func (h *Hierarchy) SiblingsOf(id ClassID) map[ClassID]struct{} {
	siblings := make(map[ClassID]struct{})
	parent, ok := h.parents[id]
	if !ok {
		return siblings
	}
	for c := range h.children[parent] {
		if c != id {
			siblings[c] = struct{}{}
		}
	}
	return siblings
}

// ShareAncestor reports whether the ancestor sets of a and b intersect.
//
// A class never shares an ancestor with itself through itself: a root compared
// with itself yields false.
func (h *Hierarchy) ShareAncestor(a, b ClassID) bool {
	ancestors := h.AncestorsOf(a)
	if len(ancestors) == 0 {
		return false
	}
	shared := false
	walk(h, b, len(h.parents), func(p ClassID) bool {
		if _, ok := ancestors[p]; ok {
			shared = true
			return false
		}
		return true
	})
	return shared
}

// IsAncestor reports whether ancestor is strictly above id.
func (h *Hierarchy) IsAncestor(id, ancestor ClassID) bool {
	return isAncestor(h, id, ancestor, len(h.parents))
}

// NameOf returns the display name of id, or UnknownName.
func (h *Hierarchy) NameOf(id ClassID) string {
	if name, ok := h.names[id]; ok {
		return name
	}
	return UnknownName
}

// Validate checks that no parent chain revisits a class.
func (h *Hierarchy) Validate() error {
	for start := range h.parents {
		visited := map[ClassID]struct{}{start: {}}
		current := start
		for {
			p, ok := h.parents[current]
			if !ok {
				break
			}
			if _, seen := visited[p]; seen {
				return errors.Wrapf(ErrCyclicHierarchy, "class %q", start)
			}
			visited[p] = struct{}{}
			current = p
		}
	}
	return nil
}

// IsAncestor reports whether ancestor is strictly above id according to lookup.
//
// A nil lookup treats every class as a root. ParentMap lookups are bounded by
// the map size; other lookups are bounded by maxDepth.
func IsAncestor(lookup ParentLookup, id, ancestor ClassID) bool {
	if lookup == nil {
		return false
	}
	return isAncestor(lookup, id, ancestor, depthLimit(lookup))
}

// maxDepth bounds parent walks for lookups whose size is unknown.
const maxDepth = 1 << 16

func depthLimit(lookup ParentLookup) int {
	switch l := lookup.(type) {
	case *Hierarchy:
		return len(l.parents)
	case ParentMap:
		return len(l)
	default:
		return maxDepth
	}
}

func isAncestor(lookup ParentLookup, id, ancestor ClassID, limit int) bool {
	found := false
	walk(lookup, id, limit, func(p ClassID) bool {
		if p == ancestor {
			found = true
			return false
		}
		return true
	})
	return found
}

// walk calls fn for each ancestor of id, nearest first, until fn returns false,
// a root is reached, or limit steps have been taken. A forest with n parent
// entries has chains of at most n steps, so the limit only cuts cycles short.
func walk(lookup ParentLookup, id ClassID, limit int, fn func(ClassID) bool) {
	current := id
	for step := 0; step < limit; step++ {
		p, ok := lookup.ParentOf(current)
		if !ok {
			return
		}
		if !fn(p) {
			return
		}
		current = p
	}
}
