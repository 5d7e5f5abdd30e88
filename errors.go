package orrery

import "errors"

var (
	// ErrBodyNotReady is returned when an operation needs a body whose assets are still loading.
	ErrBodyNotReady = errors.New("orrery: body not ready")
	// ErrBodyNotFound is returned when an operation names a body that was never loaded (or has been closed).
	ErrBodyNotFound = errors.New("orrery: body not found")
	// ErrInvalidSpeed is returned when an approach speed isn't greater than 0.
	ErrInvalidSpeed = errors.New("orrery: approach speed must be greater than 0")
	// ErrInvalidThreshold is returned when an arrival threshold isn't greater than 0.
	ErrInvalidThreshold = errors.New("orrery: arrival threshold must be greater than 0")
	// ErrNoMesh is returned when a loaded asset contains nothing drawable.
	ErrNoMesh = errors.New("orrery: no mesh found")
	// ErrClosed is returned by a Session after it has been closed.
	ErrClosed = errors.New("orrery: session closed")
)
