package gsk

import "errors"

var (
	// ErrNilTarget is returned by Render when no target image is given.
	ErrNilTarget = errors.New("gsk: nil target image")

	// ErrEmptyViewport is returned by Render for viewports without area.
	ErrEmptyViewport = errors.New("gsk: empty viewport")

	// ErrClosed is returned when a closed Renderer is used.
	ErrClosed = errors.New("gsk: renderer closed")

	// ErrUnknownBackend is returned by NewRenderer when WithBackend names
	// a backend that is not registered.
	ErrUnknownBackend = errors.New("gsk: unknown backend")
)
