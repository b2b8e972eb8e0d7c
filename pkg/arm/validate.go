package arm

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// ValidationSeverity indicates whether a finding makes a manipulator
// unusable or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // some link cannot be resolved
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Link     LinkID
	Kind     ErrorKind // zero for findings with no matching error kind
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] link %s: %s", e.Severity, e.Link, e.Message)
}

// Is matches the sentinel of the finding's kind.
func (e ValidationError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && e.Kind != 0 && k == e.Kind
}

// ValidationErrors is the list of findings of one validation run.
type ValidationErrors []ValidationError

// Errors returns the blocking findings.
func (v ValidationErrors) Errors() ValidationErrors {
	return v.filter(SeverityError)
}

// Warnings returns the advisory findings.
func (v ValidationErrors) Warnings() ValidationErrors {
	return v.filter(SeverityWarning)
}

func (v ValidationErrors) filter(s ValidationSeverity) ValidationErrors {
	var out ValidationErrors
	for _, e := range v {
		if e.Severity == s {
			out = append(out, e)
		}
	}
	return out
}

// Err folds the blocking findings into one error, or nil when there are none.
func (v ValidationErrors) Err() error {
	var merr *multierror.Error
	for _, e := range v.Errors() {
		merr = multierror.Append(merr, e)
	}
	if err := merr.ErrorOrNil(); err != nil {
		return errors.Wrap(err, "manipulator is invalid")
	}
	return nil
}

// Validate runs every structural check over the manipulator without
// mutating it. Findings are ordered by check, then by link identifier.
func Validate(m *Manipulator) ValidationErrors {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var errs ValidationErrors
	errs = append(errs, validateReferences(m.reg)...)
	errs = append(errs, validateLoops(m.reg)...)
	errs = append(errs, validateRootOrientation(m.reg, m.limits)...)
	errs = append(errs, validateLengths(m.reg)...)
	errs = append(errs, validateCollisions(m.reg, m.limits)...)
	return errs
}

// validateReferences checks that every previous-link reference points at
// the base or a registered link.
func validateReferences(r *Registry) ValidationErrors {
	var errs ValidationErrors
	for _, id := range r.IDs() {
		l, _ := r.Lookup(id)
		prev := l.Prev()
		if prev.IsBase() {
			continue
		}
		if _, ok := r.Lookup(prev); !ok {
			errs = append(errs, ValidationError{
				Link:     id,
				Kind:     KindIncompleteChain,
				Message:  fmt.Sprintf("previous link %s does not exist", prev),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateLoops finds previous-link loops using 3-colour marking.
// White (0) = unvisited, gray (1) = on the current walk, black (2) = done.
// Meeting a gray link means the walk came back on itself.
func validateLoops(r *Registry) ValidationErrors {
	const (
		white = iota
		gray
		black
	)

	color := make(map[LinkID]int)
	var errs ValidationErrors

	for _, start := range r.IDs() {
		if color[start] != white {
			continue
		}
		var path []LinkID
		current := start
		for {
			if current.IsBase() || color[current] == black {
				break
			}
			if color[current] == gray {
				errs = append(errs, ValidationError{
					Link:     current,
					Kind:     KindIncompleteChain,
					Message:  fmt.Sprintf("link %s is part of a loop that never reaches the base", current),
					Severity: SeverityError,
				})
				break
			}
			l, ok := r.Lookup(current)
			if !ok {
				// Dangling reference; reported by validateReferences.
				break
			}
			color[current] = gray
			path = append(path, current)
			current = l.Prev()
		}
		for _, id := range path {
			color[id] = black
		}
	}
	return errs
}

// validateRootOrientation checks every link attached directly to the base.
func validateRootOrientation(r *Registry, lim Limits) ValidationErrors {
	var errs ValidationErrors
	for _, id := range r.IDs() {
		l, _ := r.Lookup(id)
		if !l.Prev().IsBase() {
			continue
		}
		d := l.Direction()
		if !(d.Pitch <= lim.MaxRootPitch) || !(d.Yaw <= lim.MaxRootYaw) {
			errs = append(errs, ValidationError{
				Link:     id,
				Kind:     KindRootOrientationOutOfRange,
				Message:  fmt.Sprintf("base-attached link has pitch %.4f, yaw %.4f; limits are %.4f, %.4f", d.Pitch, d.Yaw, lim.MaxRootPitch, lim.MaxRootYaw),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateLengths warns about joint-only links with no extent.
func validateLengths(r *Registry) ValidationErrors {
	var errs ValidationErrors
	for _, id := range r.IDs() {
		l, _ := r.Lookup(id)
		if l.Length() == 0 {
			errs = append(errs, ValidationError{
				Link:     id,
				Message:  "link has zero length and sits on its previous link's endpoint",
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateCollisions resolves every link and reports each colliding link
// once, however many descendants inherit the collision.
func validateCollisions(r *Registry, lim Limits) ValidationErrors {
	var errs ValidationErrors
	reported := make(map[LinkID]bool)
	for _, id := range r.IDs() {
		_, _, err := resolve(r, lim, id)
		var e *Error
		if !errors.As(err, &e) || e.Kind != KindCollisionDetected || reported[e.Link] {
			continue
		}
		reported[e.Link] = true
		errs = append(errs, ValidationError{
			Link:     e.Link,
			Kind:     KindCollisionDetected,
			Message:  e.Message,
			Severity: SeverityError,
		})
	}
	return errs
}
