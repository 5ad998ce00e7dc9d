package arena

import "errors"

// Define errors
var (
	ErrNilConfig      = errors.New("config cannot be nil")
	ErrNilProgression = errors.New("progression service cannot be nil")
	ErrNilBroadcaster = errors.New("broadcaster cannot be nil")
	ErrNilClock       = errors.New("clock cannot be nil")
	ErrNilInput       = errors.New("input cannot be nil")
	ErrEmptyConnID    = errors.New("connection id cannot be empty")
)
