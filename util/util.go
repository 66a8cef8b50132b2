package util

import (
	"image"
	"image/color"

	"github.com/fogleman/ease"
	"github.com/lucasb-eyer/go-colorful"
)

// GenerateLut builds a look-up table of length weights rising from 0 to 1
// along the easing curve fn. A nil fn uses ease.InOutQuad.
func GenerateLut(length int, fn func(float64) float64) []float64 {
	if length <= 0 {
		return nil
	}
	if fn == nil {
		fn = ease.InOutQuad
	}

	lut := make([]float64, length)
	if length == 1 {
		lut[0] = 1
		return lut
	}

	increment := 1.0 / float64(length-1)
	for i := 0; i < length; i++ {
		lut[i] = fn(float64(i) * increment)
	}
	return lut
}

// ParseColour parses a "#rrggbb" string, falling back to def when the string
// is empty or malformed.
func ParseColour(hex string, def color.Color) color.Color {
	if hex == "" {
		return def
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return def
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 0xff}
}

// Tint multiplies every pixel of a (typically white-on-black) mask by colour,
// producing a coloured copy of the mask.
func Tint(mask image.Image, colour color.Color) *image.RGBA {
	b := mask.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	tint, _ := colorful.MakeColor(colour)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p, ok := colorful.MakeColor(mask.At(x, y))
			if !ok {
				continue
			}
			c := colorful.Color{R: p.R * tint.R, G: p.G * tint.G, B: p.B * tint.B}
			r, g, bl := c.Clamped().RGB255()
			out.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{r, g, bl, 0xff})
		}
	}
	return out
}

// Crop copies the part of img inside r into a new image anchored at the origin.
func Crop(img image.Image, r image.Rectangle) *image.RGBA {
	r = r.Intersect(img.Bounds())
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			out.Set(x-r.Min.X, y-r.Min.Y, img.At(x, y))
		}
	}
	return out
}

// Blank creates a w x h image filled with colour.
func Blank(w, h int, colour color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	c := color.RGBAModel.Convert(colour).(color.RGBA)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}
