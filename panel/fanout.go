package panel

import (
	"image"

	"github.com/matt-g-everett/ledsign/stream"
	"github.com/pkg/errors"
)

// Fanout forwards every call to several sinks. Every sink is called even when
// an earlier one fails; the first error is returned.
type Fanout []stream.Sink

func (f Fanout) CreateSurface(w, h int) error {
	var first error
	for i, s := range f {
		if err := s.CreateSurface(w, h); err != nil && first == nil {
			first = errors.Wrapf(err, "sink %d", i)
		}
	}
	return first
}

func (f Fanout) Draw(img image.Image, x, y int) error {
	var first error
	for i, s := range f {
		if err := s.Draw(img, x, y); err != nil && first == nil {
			first = errors.Wrapf(err, "sink %d", i)
		}
	}
	return first
}

func (f Fanout) Present() error {
	var first error
	for i, s := range f {
		if err := s.Present(); err != nil && first == nil {
			first = errors.Wrapf(err, "sink %d", i)
		}
	}
	return first
}
