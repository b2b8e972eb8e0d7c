package arm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCleanArm(t *testing.T) {
	m := newTestArm(t,
		segment(1, BaseID, 2, 0, 0),
		segment(2, 1, 1, math.Pi/2, 0),
	)
	errs := Validate(m)
	assert.Empty(t, errs)
	assert.NoError(t, errs.Err())
}

func TestValidateFindings(t *testing.T) {
	m := newTestArm(t,
		segment(1, BaseID, 2, math.Pi, 0), // root out of range
		segment(2, 5, 1, 0, 0),            // dangling
		segment(3, 4, 1, 0, 0),            // loop 3 <-> 4
		segment(4, 3, 1, 0, 0),
		segment(6, BaseID, 0, 0, 0), // zero length
		segment(7, 6, 1, 0, 0),
		segment(8, 7, 1, math.Pi, 0), // back onto link 6
	)

	errs := Validate(m)

	byKind := map[ErrorKind][]LinkID{}
	for _, e := range errs.Errors() {
		byKind[e.Kind] = append(byKind[e.Kind], e.Link)
	}
	assert.Equal(t, []LinkID{2, 3}, byKind[KindIncompleteChain])
	assert.Equal(t, []LinkID{1}, byKind[KindRootOrientationOutOfRange])
	assert.Equal(t, []LinkID{8}, byKind[KindCollisionDetected])

	warnings := errs.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, LinkID(6), warnings[0].Link)

	err := errs.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manipulator is invalid")
	assert.ErrorIs(t, err, ErrCollisionDetected)
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Link: 3, Message: "boom", Severity: SeverityWarning}
	assert.Equal(t, "[warning] link #3: boom", e.Error())
	assert.Equal(t, "ValidationSeverity(7)", ValidationSeverity(7).String())
}
