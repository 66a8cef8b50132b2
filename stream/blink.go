package stream

import "image"

// A Blink alternates between two fixed images. Each cycle is period frames
// long and shows the "on" image for the first duty fraction of it.
type Blink struct {
	on, off  *Frame
	period   int
	onFrames int
	cycles   int
	endOn    bool
}

// NewBlink creates an instance of a Blink. With endOn set a final "on" frame
// is appended so the region is not left blank when the blink finishes.
func NewBlink(bbox Rect, on, off image.Image, period int, duty float64, cycles int, endOn bool) *Blink {
	b := new(Blink)
	b.on = NewFrame(bbox, on)
	b.off = NewFrame(bbox, off)
	b.period = period
	b.onFrames = int(duty * float64(period))
	b.cycles = cycles
	b.endOn = endOn
	return b
}

func (b *Blink) Len() int {
	if b.period <= 0 || b.cycles <= 0 {
		return 0
	}
	n := b.period * b.cycles
	if b.endOn {
		n++
	}
	return n
}

func (b *Blink) Frame(step int) (*Frame, error) {
	if step < 0 || step >= b.Len() {
		return nil, ErrStepOutOfRange
	}
	if step == b.period*b.cycles {
		return b.on, nil
	}
	if step%b.period < b.onFrames {
		return b.on, nil
	}
	return b.off, nil
}
