package stream

import (
	"image"
	"image/color"
	"time"

	"github.com/pkg/errors"
)

// counter is a FrameSource whose frames identify themselves: Rect.Y carries
// the source id and Rect.X the step.
type counter struct {
	id, n int
}

func (c *counter) Len() int { return c.n }

func (c *counter) Frame(step int) (*Frame, error) {
	if step < 0 || step >= c.n {
		return nil, ErrStepOutOfRange
	}
	return &Frame{Rect: Rect{X: step, Y: c.id, W: 1, H: 1}}, nil
}

// gated behaves like counter but blocks at step gate until release is closed,
// after signalling entered.
type gated struct {
	id, n, gate int
	entered     chan struct{}
	release     chan struct{}
}

func newGated(id, n, gate int) *gated {
	return &gated{id: id, n: n, gate: gate, entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gated) Len() int { return g.n }

func (g *gated) Frame(step int) (*Frame, error) {
	if step == g.gate {
		close(g.entered)
		<-g.release
	}
	return &Frame{Rect: Rect{X: step, Y: g.id, W: 1, H: 1}}, nil
}

type failing struct{}

func (failing) Len() int { return 3 }

func (failing) Frame(step int) (*Frame, error) {
	return nil, errors.New("boom")
}

type panicking struct{}

func (panicking) Len() int { return 3 }

func (panicking) Frame(step int) (*Frame, error) {
	panic("frame source exploded")
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func drain(q *RenderQueue) []Message {
	var out []Message
	for {
		m, ok := q.Pop(time.Millisecond)
		if !ok {
			return out
		}
		out = append(out, m)
	}
}

func sameColour(a, b color.Color) bool {
	r1, g1, b1, a1 := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()
	return r1 == r2 && g1 == g2 && b1 == b2 && a1 == a2
}

var (
	red   = color.RGBA{0xff, 0, 0, 0xff}
	green = color.RGBA{0, 0xff, 0, 0xff}
	black = color.RGBA{0, 0, 0, 0xff}
	white = color.RGBA{0xff, 0xff, 0xff, 0xff}
)
