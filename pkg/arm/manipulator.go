package arm

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Manipulator is a registry of links together with the limits used to
// resolve them. Its methods are safe for concurrent use: resolution takes a
// read lock, anything that mutates links takes the write lock. Links handed
// out by Lookup are the live registered values and are not guarded; read
// concurrent state through Direction or Placements and change it through
// the Manipulator's own methods.
type Manipulator struct {
	mu     sync.RWMutex
	reg    *Registry
	limits Limits
	log    logrus.FieldLogger
}

// Option configures a Manipulator.
type Option func(*Manipulator)

// WithLimits overrides the default limits.
func WithLimits(l Limits) Option {
	return func(m *Manipulator) { m.limits = l }
}

// WithLogger routes diagnostics to log instead of the standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Manipulator) { m.log = log }
}

// New creates an empty manipulator.
func New(opts ...Option) *Manipulator {
	m := &Manipulator{
		reg:    NewRegistry(),
		limits: DefaultLimits(),
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Limits returns the limits in effect.
func (m *Manipulator) Limits() Limits {
	return m.limits
}

// Len returns the number of registered links.
func (m *Manipulator) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reg.Len()
}

// Insert registers l. Rejected inserts are logged and returned; they never
// disturb links already registered.
func (m *Manipulator) Insert(l Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.reg.Insert(l); err != nil {
		m.log.WithField("link", int(l.ID())).Warnf("insert rejected: %v", err)
		return err
	}
	m.log.WithField("link", int(l.ID())).Debugf("registered %s", l.Kind())
	return nil
}

// Lookup returns the link registered under id.
func (m *Manipulator) Lookup(id LinkID) (Link, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reg.Lookup(id)
}

// Direction returns the current orientation of link id.
func (m *Manipulator) Direction(id LinkID) (Direction, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.reg.Lookup(id)
	if !ok {
		return Direction{}, false
	}
	return l.Direction(), true
}

// SetDirection changes the orientation of link id.
func (m *Manipulator) SetDirection(id LinkID, pitch, yaw, roll float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.reg.Lookup(id)
	if !ok {
		err := newError(KindUnknownIdentifier, id, "cannot set direction")
		m.log.WithField("link", int(id)).Warn(err)
		return err
	}
	d := Direction{Pitch: pitch, Yaw: yaw, Roll: roll}
	if !d.Finite() {
		err := newError(KindInvalidAngle, id, "direction %s must be finite", d)
		m.log.WithField("link", int(id)).Warn(err)
		return err
	}
	l.SetDirection(d)
	return nil
}

// Chain returns the root-to-target chain of link identifiers.
func (m *Manipulator) Chain(target LinkID) (Chain, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return walkChain(m.reg, target)
}

// ResolvePosition computes the absolute position of target. On failure
// the returned error carries the kind; the position is meaningless.
func (m *Manipulator) ResolvePosition(target LinkID) (Position, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resolveLocked(target)
}

func (m *Manipulator) resolveLocked(target LinkID) (Position, error) {
	pos, _, err := resolve(m.reg, m.limits, target)
	entry := m.log.WithField("target", int(target))
	if err != nil {
		entry.WithField("kind", KindOf(err).String()).Warnf("resolve failed: %v", err)
		return Origin, err
	}
	entry.Debugf("resolved to %s", formatPosition(pos))
	return pos, nil
}

// HasNoCollision reports whether current clears every link before
// chain[currentIndex] by at least the configured minimum separation.
func (m *Manipulator) HasNoCollision(c Chain, currentIndex int, current Position) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return hasNoCollision(m.reg, c, currentIndex, current, m.limits.MinSeparation)
}

// Placement is the resolved span of one link, together with a copy of the
// link's shape taken in the same read lock as the positions.
type Placement struct {
	ID        LinkID    `json:"id"`
	Kind      LinkKind  `json:"-"`
	Prev      LinkID    `json:"prev"`
	Length    float64   `json:"length"`
	Direction Direction `json:"direction"`
	Start     Position  `json:"start"`
	End       Position  `json:"end"`
	Err       error     `json:"-"`
}

// Placements resolves every registered link in identifier order. Links
// that fail to resolve carry the error and zero positions.
func (m *Manipulator) Placements() []Placement {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.reg.IDs()
	out := make([]Placement, 0, len(ids))
	for _, id := range ids {
		l, _ := m.reg.Lookup(id)
		p := Placement{
			ID:        id,
			Kind:      l.Kind(),
			Prev:      l.Prev(),
			Length:    l.Length(),
			Direction: l.Direction(),
		}
		end, err := m.resolveLocked(id)
		var start Position
		if err == nil {
			start, err = startOf(m.reg, m.limits, p.Prev)
		}
		if err != nil {
			p.Err = err
			out = append(out, p)
			continue
		}
		p.Start, p.End = start, end
		out = append(out, p)
	}
	return out
}

// startOf is where a link attached to prev begins.
func startOf(r *Registry, lim Limits, prev LinkID) (Position, error) {
	if prev.IsBase() {
		return Origin, nil
	}
	pos, _, err := resolve(r, lim, prev)
	return pos, err
}

// ---------------------------------------------------------------------------
// Capability dispatch
// ---------------------------------------------------------------------------

func (m *Manipulator) gripper(id LinkID) (Gripper, error) {
	l, ok := m.reg.Lookup(id)
	if !ok {
		return nil, newError(KindUnknownIdentifier, id, "no such link")
	}
	g, ok := l.AsGripper()
	if !ok {
		return nil, newError(KindUnsupportedCapability, id, "%s is not a gripper", l.Kind())
	}
	return g, nil
}

// OpenGripper opens the gripper on link id to angle radians.
func (m *Manipulator) OpenGripper(id LinkID, angle float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, err := m.gripper(id)
	if err == nil {
		err = g.Open(angle)
	}
	if err != nil {
		m.log.WithField("link", int(id)).Warn(err)
		return err
	}
	m.log.WithField("link", int(id)).Debugf("gripper opened to %.4f", angle)
	return nil
}

// CloseGripper closes the gripper on link id.
func (m *Manipulator) CloseGripper(id LinkID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, err := m.gripper(id)
	if err != nil {
		m.log.WithField("link", int(id)).Warn(err)
		return err
	}
	g.Close()
	m.log.WithField("link", int(id)).Debug("gripper closed")
	return nil
}

// TakePhoto captures a snapshot from the camera on link id. The snapshot
// records where the camera was when it fired, so the camera's chain must
// resolve.
func (m *Manipulator) TakePhoto(id LinkID) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.reg.Lookup(id)
	if !ok {
		err := newError(KindUnknownIdentifier, id, "no such link")
		m.log.WithField("link", int(id)).Warn(err)
		return Snapshot{}, err
	}
	c, ok := l.AsCamera()
	if !ok {
		err := newError(KindUnsupportedCapability, id, "%s is not a camera", l.Kind())
		m.log.WithField("link", int(id)).Warn(err)
		return Snapshot{}, err
	}
	at, err := m.resolveLocked(id)
	if err != nil {
		return Snapshot{}, err
	}
	snap := c.Capture(at, l.Direction())
	m.log.WithField("link", int(id)).Infof("photo %d taken at %s", snap.Seq, formatPosition(at))
	return snap, nil
}
