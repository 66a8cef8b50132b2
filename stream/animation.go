package stream

import (
	"image"

	"github.com/pkg/errors"
)

// A FrameSource renders the frames of one animation cycle. The timeline is
// fixed at construction: Frame must be a pure function of step for
// 0 <= step < Len().
type FrameSource interface {
	Len() int
	Frame(step int) (*Frame, error)
}

// An Animation plays a FrameSource at a fixed cadence (frames per second),
// either once or in a loop. It is advanced only by the Manager's control loop
// and is not safe for concurrent use.
type Animation struct {
	source  FrameSource
	bbox    Rect
	cadence float64
	loop    bool

	cursor int
	last   *Frame
}

// NewAnimation creates an instance of an Animation.
func NewAnimation(source FrameSource, bbox Rect, cadence float64, loop bool) *Animation {
	a := new(Animation)
	a.source = source
	a.bbox = bbox
	a.cadence = cadence
	a.loop = loop
	return a
}

func (a *Animation) Cadence() float64 { return a.cadence }

// Next produces the next frame. A play-once animation returns its frames in
// order with done false, then on the following call returns the last frame
// again with done true so the caller can leave it on screen. A looping
// animation restarts transparently and never reports done. An empty source
// reports done immediately.
func (a *Animation) Next() (frame *Frame, done bool, err error) {
	n := a.source.Len()
	if n <= 0 {
		return a.last, true, nil
	}

	if a.cursor >= n {
		if !a.loop {
			return a.last, true, nil
		}
		a.cursor = 0
	}

	f, err := a.source.Frame(a.cursor)
	if err != nil {
		return nil, true, errors.Wrapf(err, "frame %d of %d", a.cursor, n)
	}
	a.cursor++
	a.last = f

	return f, false, nil
}

type chain struct {
	sources []FrameSource
}

// Chain plays sources back to back as one timeline, which is how compound
// animations such as "scroll, then hold" are built.
func Chain(sources ...FrameSource) FrameSource {
	return &chain{sources: sources}
}

func (c *chain) Len() int {
	n := 0
	for _, s := range c.sources {
		n += s.Len()
	}
	return n
}

func (c *chain) Frame(step int) (*Frame, error) {
	if step < 0 {
		return nil, ErrStepOutOfRange
	}
	for _, s := range c.sources {
		if step < s.Len() {
			return s.Frame(step)
		}
		step -= s.Len()
	}
	return nil, ErrStepOutOfRange
}

type hold struct {
	frame *Frame
	count int
}

// Hold shows one fixed image for count frames.
func Hold(bbox Rect, img image.Image, count int) FrameSource {
	return &hold{frame: NewFrame(bbox, img), count: count}
}

func (h *hold) Len() int { return h.count }

func (h *hold) Frame(step int) (*Frame, error) {
	if step < 0 || step >= h.count {
		return nil, ErrStepOutOfRange
	}
	return h.frame, nil
}
