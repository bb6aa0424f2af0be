package mapsnapengine

import "errors"

// sentinel causes for engine failures. Compare with errorsx.Cause.
var (
	// ErrAllocation: the offscreen surface or the map object could not be
	// created. Fatal to that construction attempt.
	ErrAllocation = errors.New("engine allocation failed")
	// ErrRender: a render pass could not complete. The instance stays usable.
	ErrRender = errors.New("render pass failed")
)
