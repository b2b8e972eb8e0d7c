package arm

// hasNoCollision reports whether current keeps at least minSep away from
// the endpoint of every link before chain[currentIndex]. Each earlier
// endpoint is recomputed from the root, so the cost is quadratic in chain
// length; chains are short.
func hasNoCollision(r *Registry, c Chain, currentIndex int, current Position, minSep float64) bool {
	for i := 0; i < currentIndex && i < len(c); i++ {
		prev, err := prefixPosition(r, c, i)
		if err != nil {
			return false
		}
		if current.Sub(prev).Length() < minSep {
			return false
		}
	}
	return true
}
