package core

import "errors"

// ErrInvalidInput marks a malformed circle specification: a negative
// distance, a non-positive point count, or an out-of-range coordinate.
// Detected at the boundary, never clamped.
var ErrInvalidInput = errors.New("invalid input")

// ErrNoConvergence marks a geodesic solution whose iteration failed to
// converge. Only plausible near antipodal geometries, far outside this
// system's operating range, so it is fatal and never retried.
var ErrNoConvergence = errors.New("geodesic solution did not converge")
