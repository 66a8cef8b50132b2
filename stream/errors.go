package stream

import "github.com/pkg/errors"

var (
	ErrNilAnimation   = errors.New("nil animation")
	ErrInvalidCadence = errors.New("cadence must be positive")
	ErrInvalidRect    = errors.New("rect must have positive width and height")
	ErrStepOutOfRange = errors.New("frame step out of range")
	ErrUnknownMessage = errors.New("unknown render message")
	ErrNoScheduler    = errors.New("surface has no scheduler")
)
