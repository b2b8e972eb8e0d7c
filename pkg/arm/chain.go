package arm

import (
	"fmt"
	"strings"
)

// Chain is the ordered sequence of link identifiers from the base
// (exclusive) to a target link (inclusive).
type Chain []LinkID

// Target returns the last link of the chain, or BaseID for an empty chain.
func (c Chain) Target() LinkID {
	if len(c) == 0 {
		return BaseID
	}
	return c[len(c)-1]
}

func (c Chain) String() string {
	parts := make([]string, 0, len(c)+1)
	parts = append(parts, BaseID.String())
	for _, id := range c {
		parts = append(parts, id.String())
	}
	return strings.Join(parts, " -> ")
}

// walkChain follows previous-link references from target back to the base
// and returns them in root-to-target order.
func walkChain(r *Registry, target LinkID) (Chain, error) {
	if _, ok := r.Lookup(target); !ok {
		return nil, newError(KindUnknownIdentifier, target, "no such link")
	}

	var rev []LinkID
	seen := make(map[LinkID]bool)
	current := target
	for !current.IsBase() {
		if seen[current] {
			return nil, newError(KindIncompleteChain, target,
				"link %s is part of a loop that never reaches the base", current)
		}
		seen[current] = true

		l, ok := r.Lookup(current)
		if !ok {
			return nil, newError(KindIncompleteChain, target, "ancestor %s is not registered", current)
		}
		rev = append(rev, current)
		current = l.Prev()
	}

	chain := make(Chain, len(rev))
	for i, id := range rev {
		chain[len(rev)-1-i] = id
	}
	return chain, nil
}

// prefixPosition re-sums the displacements of chain[0..i] from the origin.
func prefixPosition(r *Registry, c Chain, i int) (Position, error) {
	pos := Origin
	for j := 0; j <= i; j++ {
		l, ok := r.Lookup(c[j])
		if !ok {
			return Origin, newError(KindIncompleteChain, c.Target(), "ancestor %s is not registered", c[j])
		}
		pos = pos.Add(Displacement(l.Length(), l.Direction()))
	}
	return pos, nil
}

// formatPosition renders a position with fixed precision for messages.
func formatPosition(p Position) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", p.X, p.Y, p.Z)
}
