package arm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkKindString(t *testing.T) {
	tests := []struct {
		kind LinkKind
		want string
	}{
		{LinkSegment, "segment"},
		{LinkGripper, "gripper"},
		{LinkCamera, "camera"},
		{LinkKind(42), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestCapabilityQueries(t *testing.T) {
	var l Link = NewSegment(1, BaseID, 1)
	_, ok := l.AsGripper()
	assert.False(t, ok)
	_, ok = l.AsCamera()
	assert.False(t, ok)

	l = NewGripper(2, 1, 1)
	_, ok = l.AsGripper()
	assert.True(t, ok)
	_, ok = l.AsCamera()
	assert.False(t, ok)

	l = NewCamera(3, 1, 1)
	_, ok = l.AsCamera()
	assert.True(t, ok)
	_, ok = l.AsGripper()
	assert.False(t, ok)
}

func TestGripperOpenClose(t *testing.T) {
	g := NewGripper(3, 2, 0.5)
	assert.False(t, g.IsOpen())

	require.NoError(t, g.Open(0.8))
	assert.True(t, g.IsOpen())
	assert.Equal(t, 0.8, g.Opening())
	assert.Contains(t, g.Describe(), "open 0.800")

	assert.ErrorIs(t, g.Open(-0.1), ErrInvalidAngle)
	assert.ErrorIs(t, g.Open(math.Pi+0.1), ErrInvalidAngle)
	assert.Equal(t, 0.8, g.Opening(), "rejected open keeps previous opening")

	g.Close()
	assert.False(t, g.IsOpen())
	assert.Contains(t, g.Describe(), "[closed]")
}

func TestDescribe(t *testing.T) {
	s := NewSegment(2, 1, 1.5)
	s.SetDirection(Direction{Pitch: 0.5})
	assert.Equal(t, "segment #2 on #1: r=1.500 (pitch=0.5000 yaw=0.0000 roll=0.0000)", s.Describe())

	c := NewCamera(4, BaseID, 1)
	assert.Equal(t, "camera #4 on base: r=1.000 (pitch=0.0000 yaw=0.0000 roll=0.0000) [0 captured]", c.Describe())
}

func TestDisplacement(t *testing.T) {
	d := Displacement(2, Direction{Pitch: math.Pi / 2, Yaw: math.Pi})
	assertPosition(t, Position{X: -2}, d)

	d = Displacement(3, Direction{})
	assertPosition(t, Position{Z: 3}, d)
}

func TestManipulatorGripperDispatch(t *testing.T) {
	m := newTestArm(t,
		segment(1, BaseID, 2, 0, 0),
		NewGripper(2, 1, 0.5),
	)

	require.NoError(t, m.OpenGripper(2, 1.2))
	l, _ := m.Lookup(2)
	g, _ := l.AsGripper()
	assert.Equal(t, 1.2, g.Opening())

	require.NoError(t, m.CloseGripper(2))
	assert.False(t, g.IsOpen())

	assert.ErrorIs(t, m.OpenGripper(1, 0.3), ErrUnsupportedCapability)
	assert.ErrorIs(t, m.CloseGripper(1), ErrUnsupportedCapability)
	assert.ErrorIs(t, m.OpenGripper(7, 0.3), ErrUnknownIdentifier)
	assert.ErrorIs(t, m.OpenGripper(2, 5), ErrInvalidAngle)
}

func TestManipulatorTakePhoto(t *testing.T) {
	m := newTestArm(t,
		segment(1, BaseID, 5, 0, 0),
		NewCamera(2, 1, 1),
	)

	snap, err := m.TakePhoto(2)
	require.NoError(t, err)
	assert.Equal(t, LinkID(2), snap.Link)
	assert.Equal(t, 1, snap.Seq)
	assertPosition(t, Position{Z: 6}, snap.At)

	snap, err = m.TakePhoto(2)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Seq)

	_, err = m.TakePhoto(1)
	assert.ErrorIs(t, err, ErrUnsupportedCapability)
	_, err = m.TakePhoto(8)
	assert.ErrorIs(t, err, ErrUnknownIdentifier)
}

func TestTakePhotoNeedsResolvableChain(t *testing.T) {
	m := newTestArm(t, NewCamera(2, 1, 1))

	_, err := m.TakePhoto(2)
	require.ErrorIs(t, err, ErrIncompleteChain)

	l, _ := m.Lookup(2)
	c, _ := l.AsCamera()
	assert.Equal(t, 0, c.Captured())
}

func TestStructureIsOrderedByID(t *testing.T) {
	m := newTestArm(t,
		NewCamera(3, 2, 1),
		segment(1, BaseID, 2, 0, 0),
		NewGripper(2, 1, 1),
	)

	infos := m.Structure()
	require.Len(t, infos, 3)
	assert.Equal(t, []LinkID{1, 2, 3}, []LinkID{infos[0].ID, infos[1].ID, infos[2].ID})
	assert.Equal(t, "segment", infos[0].Kind)
	assert.Equal(t, "gripper", infos[1].Kind)
	assert.Equal(t, "camera", infos[2].Kind)
	assert.Equal(t, LinkID(2), infos[2].Prev)
	assert.Contains(t, infos[1].Description, "[closed]")
}
