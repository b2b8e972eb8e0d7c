package arm

import (
	"math"
	"sort"
)

// Registry owns every link of a manipulator, keyed by identifier.
// It is not safe for concurrent use; Manipulator guards it.
type Registry struct {
	links map[LinkID]Link
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{links: make(map[LinkID]Link)}
}

// Insert adds a link keyed by its identifier. A duplicate identifier leaves
// the registered link untouched and returns a DuplicateIdentifier error.
func (r *Registry) Insert(l Link) error {
	id := l.ID()
	if id <= BaseID {
		return newError(KindInvalidIdentifier, id, "identifier must be positive")
	}
	if n := l.Length(); n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return newError(KindInvalidLength, id, "segment length %v must be a finite non-negative number", n)
	}
	if d := l.Direction(); !d.Finite() {
		return newError(KindInvalidAngle, id, "direction %s must be finite", d)
	}
	if _, exists := r.links[id]; exists {
		return newError(KindDuplicateIdentifier, id, "link already registered, insert ignored")
	}
	r.links[id] = l
	return nil
}

// Lookup returns the link registered under id.
func (r *Registry) Lookup(id LinkID) (Link, bool) {
	l, ok := r.links[id]
	return l, ok
}

// Len returns the number of registered links.
func (r *Registry) Len() int {
	return len(r.links)
}

// IDs returns every registered identifier in ascending order.
func (r *Registry) IDs() []LinkID {
	ids := make([]LinkID, 0, len(r.links))
	for id := range r.links {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
