package arm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryInsertAndLookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Insert(NewSegment(2, 1, 3)))
	require.NoError(t, r.Insert(NewSegment(1, BaseID, 5)))

	l, ok := r.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, 5.0, l.Length())

	_, ok = r.Lookup(9)
	assert.False(t, ok)

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []LinkID{1, 2}, r.IDs())
}

func TestRegistryDuplicateKeepsFirst(t *testing.T) {
	r := NewRegistry()
	first := NewSegment(1, BaseID, 5)
	require.NoError(t, r.Insert(first))

	err := r.Insert(NewGripper(1, BaseID, 9))
	require.ErrorIs(t, err, ErrDuplicateIdentifier)

	l, ok := r.Lookup(1)
	require.True(t, ok)
	assert.Same(t, first, l)
	assert.Equal(t, 5.0, l.Length())
	assert.Equal(t, LinkSegment, l.Kind())
}

func TestRegistryRejectsInvalidLinks(t *testing.T) {
	tests := []struct {
		name string
		link Link
		want error
	}{
		{"base id", NewSegment(BaseID, BaseID, 1), ErrInvalidIdentifier},
		{"negative id", NewSegment(-3, BaseID, 1), ErrInvalidIdentifier},
		{"negative length", NewSegment(1, BaseID, -1), ErrInvalidLength},
		{"NaN length", NewSegment(1, BaseID, math.NaN()), ErrInvalidLength},
		{"infinite length", NewSegment(1, BaseID, math.Inf(1)), ErrInvalidLength},
		{"NaN pitch", segment(1, BaseID, 1, math.NaN(), 0), ErrInvalidAngle},
		{"infinite yaw", segment(1, BaseID, 1, 0, math.Inf(1)), ErrInvalidAngle},
		{"negative infinite pitch", segment(1, BaseID, 1, math.Inf(-1), 0), ErrInvalidAngle},
		{"NaN roll", rolled(NewSegment(1, BaseID, 1), math.NaN()), ErrInvalidAngle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			assert.ErrorIs(t, r.Insert(tt.link), tt.want)
			assert.Equal(t, 0, r.Len())
		})
	}
}

func rolled(s *Segment, roll float64) *Segment {
	s.SetDirection(Direction{Roll: roll})
	return s
}

func TestRegistryAcceptsZeroLength(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.Insert(NewSegment(1, BaseID, 0)))
}

func TestManipulatorDuplicateInsert(t *testing.T) {
	m := newTestArm(t, segment(1, BaseID, 5, 0, 0))

	err := m.Insert(segment(1, BaseID, 2, math.Pi/2, 0))
	require.ErrorIs(t, err, ErrDuplicateIdentifier)

	pos, err := m.ResolvePosition(1)
	require.NoError(t, err)
	assertPosition(t, Position{Z: 5}, pos)
	assert.Equal(t, 1, m.Len())
}

func TestErrorKindStrings(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindDuplicateIdentifier, "duplicate identifier"},
		{KindUnknownIdentifier, "unknown identifier"},
		{KindIncompleteChain, "incomplete chain"},
		{KindRootOrientationOutOfRange, "root orientation out of range"},
		{KindCollisionDetected, "collision detected"},
		{KindUnsupportedCapability, "unsupported capability"},
		{ErrorKind(99), "ErrorKind(99)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestErrorMatchesOnlyItsKind(t *testing.T) {
	err := newError(KindCollisionDetected, 4, "too close")
	assert.ErrorIs(t, err, ErrCollisionDetected)
	assert.NotErrorIs(t, err, ErrIncompleteChain)
	assert.Equal(t, "collision detected: link #4: too close", err.Error())
	assert.Equal(t, ErrorKind(0), KindOf(nil))
}
