package arm

// resolve computes the absolute position of target. The caller holds at
// least a read lock on the registry.
func resolve(r *Registry, lim Limits, target LinkID) (Position, Chain, error) {
	chain, err := walkChain(r, target)
	if err != nil {
		return Origin, nil, err
	}

	pos := Origin
	for i, id := range chain {
		l, _ := r.Lookup(id)
		d := l.Direction()

		if i == 0 {
			if !(d.Pitch <= lim.MaxRootPitch) || !(d.Yaw <= lim.MaxRootYaw) {
				return Origin, chain, newError(KindRootOrientationOutOfRange, id,
					"pitch %.4f and yaw %.4f must not exceed %.4f and %.4f",
					d.Pitch, d.Yaw, lim.MaxRootPitch, lim.MaxRootYaw)
			}
		}

		pos = pos.Add(Displacement(l.Length(), d))

		if i > 0 && !hasNoCollision(r, chain, i, pos, lim.MinSeparation) {
			return Origin, chain, newError(KindCollisionDetected, id,
				"endpoint %s is within %.4f of an earlier link in %s",
				formatPosition(pos), lim.MinSeparation, chain)
		}
	}
	return pos, chain, nil
}
