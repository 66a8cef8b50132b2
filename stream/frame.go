package stream

import (
	"encoding/binary"
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// Frame is an image placed at a region of the display. Frames are never
// mutated once produced, so several animations may share one.
type Frame struct {
	Rect  Rect
	Image image.Image
}

// NewFrame creates a new Frame instance.
func NewFrame(r Rect, img image.Image) *Frame {
	f := new(Frame)
	f.Rect = r
	f.Image = img
	return f
}

// MarshalBinary converts a Frame into the panel wire format: little endian
// uint16 width and height followed by row-major RGB triplets.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	w, h := f.Rect.W, f.Rect.H
	if w <= 0 || h <= 0 || w > math.MaxUint16 || h > math.MaxUint16 {
		return nil, errors.Wrapf(ErrInvalidRect, "frame %dx%d", w, h)
	}
	if f.Image == nil {
		return nil, errors.Wrap(ErrInvalidRect, "frame has no image")
	}

	data = make([]byte, 4, (w*h*3)+4)
	binary.LittleEndian.PutUint16(data[0:], uint16(w))
	binary.LittleEndian.PutUint16(data[2:], uint16(h))

	min := f.Image.Bounds().Min
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p, ok := colorful.MakeColor(f.Image.At(min.X+x, min.Y+y))
			if !ok {
				data = append(data, 0, 0, 0)
				continue
			}
			r, g, b := p.Clamped().RGB255()
			data = append(data, r, g, b)
		}
	}

	return data, nil
}
