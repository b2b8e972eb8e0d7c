package arm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// ===========================================================================
// Property-Based Tests (using pgregory.net/rapid)
// ===========================================================================

func TestProperty_SingleLinkLiesOnSphere(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := rapid.Float64Range(0.01, 100).Draw(rt, "r")
		pitch := rapid.Float64Range(-math.Pi/2, math.Pi/2).Draw(rt, "pitch")
		yaw := rapid.Float64Range(-math.Pi/2, math.Pi/2).Draw(rt, "yaw")

		m := New(WithLogger(quietLogger()))
		require.NoError(rt, m.Insert(segment(1, BaseID, r, pitch, yaw)))

		pos, err := m.ResolvePosition(1)
		require.NoError(rt, err)
		require.InDelta(rt, r, pos.Length(), 1e-9*r+1e-12, "endpoint must be r away from the base")
		require.InDelta(rt, r*math.Cos(pitch), pos.Z, 1e-9*r+1e-12)
	})
}

func TestProperty_ResolveIsPure(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(rt, "links")
		m := New(WithLogger(quietLogger()))
		for i := 1; i <= n; i++ {
			s := segment(LinkID(i), LinkID(i-1),
				rapid.Float64Range(0.5, 5).Draw(rt, "r"),
				rapid.Float64Range(0, math.Pi/2).Draw(rt, "pitch"),
				rapid.Float64Range(0, math.Pi/2).Draw(rt, "yaw"))
			require.NoError(rt, m.Insert(s))
		}

		target := LinkID(rapid.IntRange(1, n).Draw(rt, "target"))
		p1, err1 := m.ResolvePosition(target)
		p2, err2 := m.ResolvePosition(target)
		require.Equal(rt, err1 == nil, err2 == nil)
		if err1 == nil {
			require.Equal(rt, p1, p2)
		} else {
			require.Equal(rt, KindOf(err1), KindOf(err2))
		}
	})
}

func TestProperty_RootLimitRejectsExcess(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		excess := rapid.Float64Range(1e-6, math.Pi).Draw(rt, "excess")
		overPitch := rapid.Bool().Draw(rt, "overPitch")

		pitch, yaw := 0.0, 0.0
		if overPitch {
			pitch = math.Pi/2 + excess
		} else {
			yaw = math.Pi/2 + excess
		}
		m := New(WithLogger(quietLogger()))
		require.NoError(rt, m.Insert(segment(1, BaseID, 1, pitch, yaw)))

		_, err := m.ResolvePosition(1)
		require.ErrorIs(rt, err, ErrRootOrientationOutOfRange)
	})
}
