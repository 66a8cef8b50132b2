package content

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Gradient is a hue look-up table. Pos runs from 0 to 1 along the table and
// colours in between are interpolated by hue in HCL space.
type Gradient []struct {
	Hue float64
	Pos float64
}

// rainbow is the gradient the startup tiles are coloured from.
var rainbow = Gradient{
	{0.0, 0.0},
	{6.0, 0.04},   // Pink
	{87.0, 0.14},  // Red
	{88.0, 0.28},  // Orange
	{98.0, 0.42},  // Yellow
	{180.0, 0.56}, // Green
	{190.0, 0.70}, // Turquoise
	{320.0, 0.84}, // Blue
	{328.0, 0.91}, // Violet
	{360.0, 1.0},  // Pink wrap
}

// At returns the colour at t with chroma c and luminance l.
func (g Gradient) At(t, c, l float64) color.Color {
	if len(g) == 0 {
		return color.White
	}
	for i := 0; i < len(g)-1; i++ {
		c1, c2 := g[i], g[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			h := (((t - c1.Pos) / (c2.Pos - c1.Pos)) * (c2.Hue - c1.Hue)) + c1.Hue
			return clamp(colorful.Hcl(h, c, l))
		}
	}
	return clamp(colorful.Hcl(g[len(g)-1].Hue, c, l))
}

func clamp(c colorful.Color) color.Color {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{r, g, b, 0xff}
}
