package arm

import (
	"fmt"
	"math"
)

// LinkKind enumerates the kinds of link a manipulator can carry.
type LinkKind int

const (
	LinkSegment LinkKind = iota // plain rigid segment
	LinkGripper                 // segment ending in a gripper
	LinkCamera                  // segment carrying a camera
)

func (k LinkKind) String() string {
	switch k {
	case LinkSegment:
		return "segment"
	case LinkGripper:
		return "gripper"
	case LinkCamera:
		return "camera"
	default:
		return "unknown"
	}
}

// Link is one rigid segment of a manipulator. Specialised kinds expose
// their extra behaviour through the As* capability queries, which return
// false when the link does not support it.
type Link interface {
	ID() LinkID
	Prev() LinkID
	Length() float64
	Direction() Direction
	SetDirection(d Direction)
	Kind() LinkKind
	// Describe renders a one-line human readable description.
	Describe() string

	AsGripper() (Gripper, bool)
	AsCamera() (Camera, bool)
}

// Gripper is the capability of opening and closing a jaw.
type Gripper interface {
	Open(angle float64) error
	Close()
	Opening() float64
	IsOpen() bool
}

// Camera is the capability of capturing a snapshot.
type Camera interface {
	Capture(at Position, d Direction) Snapshot
	Captured() int
}

// Snapshot records one camera capture.
type Snapshot struct {
	Link      LinkID    `json:"link"`
	Seq       int       `json:"seq"`
	At        Position  `json:"at"`
	Direction Direction `json:"direction"`
}

// MaxGripperAngle is the widest a gripper jaw can open, in radians.
const MaxGripperAngle = math.Pi

// ---------------------------------------------------------------------------
// Segment
// ---------------------------------------------------------------------------

// Segment is a plain link with no extra capability.
type Segment struct {
	id     LinkID
	prev   LinkID
	length float64
	dir    Direction
}

// NewSegment returns a segment of the given length attached to prev,
// pointing straight up.
func NewSegment(id, prev LinkID, length float64) *Segment {
	return &Segment{id: id, prev: prev, length: length}
}

func (s *Segment) ID() LinkID           { return s.id }
func (s *Segment) Prev() LinkID         { return s.prev }
func (s *Segment) Length() float64      { return s.length }
func (s *Segment) Direction() Direction { return s.dir }
func (s *Segment) Kind() LinkKind       { return LinkSegment }

func (s *Segment) SetDirection(d Direction) {
	s.dir = d
}

func (s *Segment) Describe() string {
	return s.describe(LinkSegment, "")
}

func (s *Segment) AsGripper() (Gripper, bool) { return nil, false }
func (s *Segment) AsCamera() (Camera, bool)   { return nil, false }

func (s *Segment) describe(kind LinkKind, extra string) string {
	desc := fmt.Sprintf("%s %s on %s: r=%.3f %s", kind, s.id, s.prev, s.length, s.dir)
	if extra != "" {
		desc += " " + extra
	}
	return desc
}

// ---------------------------------------------------------------------------
// Gripper
// ---------------------------------------------------------------------------

// GripperLink is a segment ending in a gripper jaw.
type GripperLink struct {
	Segment
	opening float64
}

// NewGripper returns a closed gripper link.
func NewGripper(id, prev LinkID, length float64) *GripperLink {
	return &GripperLink{Segment: Segment{id: id, prev: prev, length: length}}
}

func (g *GripperLink) Kind() LinkKind { return LinkGripper }

func (g *GripperLink) Describe() string {
	state := "closed"
	if g.IsOpen() {
		state = fmt.Sprintf("open %.3f", g.opening)
	}
	return g.describe(LinkGripper, "["+state+"]")
}

func (g *GripperLink) AsGripper() (Gripper, bool) { return g, true }

// Open sets the jaw opening. The angle must lie in [0, MaxGripperAngle].
func (g *GripperLink) Open(angle float64) error {
	if math.IsNaN(angle) || angle < 0 || angle > MaxGripperAngle {
		return newError(KindInvalidAngle, g.id, "gripper angle %.4f outside [0, %.4f]", angle, MaxGripperAngle)
	}
	g.opening = angle
	return nil
}

func (g *GripperLink) Close()           { g.opening = 0 }
func (g *GripperLink) Opening() float64 { return g.opening }
func (g *GripperLink) IsOpen() bool     { return g.opening > 0 }

// ---------------------------------------------------------------------------
// Camera
// ---------------------------------------------------------------------------

// CameraLink is a segment carrying a camera.
type CameraLink struct {
	Segment
	captured int
}

// NewCamera returns a camera link that has not captured anything yet.
func NewCamera(id, prev LinkID, length float64) *CameraLink {
	return &CameraLink{Segment: Segment{id: id, prev: prev, length: length}}
}

func (c *CameraLink) Kind() LinkKind { return LinkCamera }

func (c *CameraLink) Describe() string {
	return c.describe(LinkCamera, fmt.Sprintf("[%d captured]", c.captured))
}

func (c *CameraLink) AsCamera() (Camera, bool) { return c, true }

func (c *CameraLink) Capture(at Position, d Direction) Snapshot {
	c.captured++
	return Snapshot{Link: c.id, Seq: c.captured, At: at, Direction: d}
}

func (c *CameraLink) Captured() int { return c.captured }
