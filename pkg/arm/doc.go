// Package arm models a rigid-link manipulator as a chain of pivoting links.
// Links are owned by a Registry keyed by identifier; the Manipulator walks
// previous-link references back to the fixed base, accumulates each link's
// displacement into an absolute position and rejects broken chains,
// out-of-range base orientations and self-collisions.
package arm
