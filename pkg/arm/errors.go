package arm

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies manipulator failures. Every kind is recoverable;
// none of them should terminate the process.
type ErrorKind int

const (
	KindDuplicateIdentifier       ErrorKind = iota + 1 // insert of an id already registered
	KindUnknownIdentifier                              // id not present in the registry
	KindIncompleteChain                                // walk cannot reach the base
	KindRootOrientationOutOfRange                      // base-attached link exceeds root limits
	KindCollisionDetected                              // two links closer than MinSeparation
	KindUnsupportedCapability                          // gripper/camera call on a plain link
	KindInvalidIdentifier                              // base id or negative id on insert
	KindInvalidLength                                  // negative segment length
	KindInvalidAngle                                   // gripper angle outside [0, pi] or non-finite direction
)

func (k ErrorKind) String() string {
	switch k {
	case KindDuplicateIdentifier:
		return "duplicate identifier"
	case KindUnknownIdentifier:
		return "unknown identifier"
	case KindIncompleteChain:
		return "incomplete chain"
	case KindRootOrientationOutOfRange:
		return "root orientation out of range"
	case KindCollisionDetected:
		return "collision detected"
	case KindUnsupportedCapability:
		return "unsupported capability"
	case KindInvalidIdentifier:
		return "invalid identifier"
	case KindInvalidLength:
		return "invalid length"
	case KindInvalidAngle:
		return "invalid angle"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error lets a kind stand in as a sentinel for errors.Is.
func (k ErrorKind) Error() string {
	return k.String()
}

// Sentinels for errors.Is.
var (
	ErrDuplicateIdentifier       error = KindDuplicateIdentifier
	ErrUnknownIdentifier         error = KindUnknownIdentifier
	ErrIncompleteChain           error = KindIncompleteChain
	ErrRootOrientationOutOfRange error = KindRootOrientationOutOfRange
	ErrCollisionDetected         error = KindCollisionDetected
	ErrUnsupportedCapability     error = KindUnsupportedCapability
	ErrInvalidIdentifier         error = KindInvalidIdentifier
	ErrInvalidLength             error = KindInvalidLength
	ErrInvalidAngle              error = KindInvalidAngle
)

// Error is a manipulator failure tied to a link.
type Error struct {
	Kind    ErrorKind
	Link    LinkID // link the failure was detected on
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: link %s", e.Kind, e.Link)
	}
	return fmt.Sprintf("%s: link %s: %s", e.Kind, e.Link, e.Message)
}

// Is matches the sentinel of the same kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

func newError(kind ErrorKind, link LinkID, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Link:    link,
		Message: fmt.Sprintf(format, args...),
	}
}

// KindOf returns the kind of the first *Error in err's chain, or zero.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k ErrorKind
	if errors.As(err, &k) {
		return k
	}
	return 0
}
