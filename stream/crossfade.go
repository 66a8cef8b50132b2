package stream

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/ledsign/util"
)

// A Crossfade blends one image into another along an eased curve. The last
// frame is exactly the target image.
type Crossfade struct {
	bbox     Rect
	from, to image.Image
	lut      []float64
}

// NewCrossfade creates an instance of a Crossfade lasting steps frames.
func NewCrossfade(bbox Rect, from, to image.Image, steps int) *Crossfade {
	c := new(Crossfade)
	c.bbox = bbox
	c.from = from
	c.to = to
	c.lut = util.GenerateLut(steps, nil)
	return c
}

func (c *Crossfade) Len() int { return len(c.lut) }

func (c *Crossfade) Frame(step int) (*Frame, error) {
	if step < 0 || step >= len(c.lut) {
		return nil, ErrStepOutOfRange
	}
	if step == len(c.lut)-1 {
		return NewFrame(c.bbox, c.to), nil
	}

	t := c.lut[step]
	img := image.NewRGBA(image.Rect(0, 0, c.bbox.W, c.bbox.H))
	fmin, tmin := c.from.Bounds().Min, c.to.Bounds().Min
	for y := 0; y < c.bbox.H; y++ {
		for x := 0; x < c.bbox.W; x++ {
			a, _ := colorful.MakeColor(c.from.At(fmin.X+x, fmin.Y+y))
			b, _ := colorful.MakeColor(c.to.At(tmin.X+x, tmin.Y+y))
			r, g, bl := a.BlendRgb(b, t).Clamped().RGB255()
			img.SetRGBA(x, y, color.RGBA{r, g, bl, 0xff})
		}
	}

	return NewFrame(c.bbox, img), nil
}
