package stream

import (
	"image"
	"math"
)

// A Move slides a fixed image in a straight line from one region to another,
// one frame per pixel of distance travelled.
type Move struct {
	from, to Rect
	img      image.Image
	easing   func(float64) float64
	count    int
}

// NewMove creates an instance of a Move. easing maps linear progress in [0, 1]
// onto eased progress; nil keeps the motion linear.
func NewMove(from, to Rect, img image.Image, easing func(float64) float64) *Move {
	m := new(Move)
	m.from = from
	m.to = to
	m.img = img
	m.easing = easing

	dx := float64(to.X - from.X)
	dy := float64(to.Y - from.Y)
	m.count = int(math.Sqrt(dx*dx + dy*dy))

	return m
}

func (m *Move) Len() int { return m.count + 1 }

func (m *Move) Frame(step int) (*Frame, error) {
	if step < 0 || step > m.count {
		return nil, ErrStepOutOfRange
	}

	t := 1.0
	if m.count > 0 {
		t = float64(step) / float64(m.count)
	}
	if m.easing != nil {
		t = m.easing(t)
	}

	x := m.from.X + int(math.Round(float64(m.to.X-m.from.X)*t))
	y := m.from.Y + int(math.Round(float64(m.to.Y-m.from.Y)*t))

	return NewFrame(Rect{x, y, m.from.W, m.from.H}, m.img), nil
}
