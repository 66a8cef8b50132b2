package util

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultFace is the bitmap face used when a renderer is not given one. It is
// not antialiased, which suits an LED matrix.
var DefaultFace font.Face = basicfont.Face7x13

// TextWidth measures s in whole pixels.
func TextWidth(face font.Face, s string) int {
	if face == nil {
		face = DefaultFace
	}
	return font.MeasureString(face, s).Ceil()
}

// DrawText draws s with its top-left corner at (x, y). Pixels falling outside
// dst are clipped.
func DrawText(dst draw.Image, face font.Face, s string, x, y int, colour color.Color) {
	if face == nil {
		face = DefaultFace
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(colour),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// TrimToWidth drops trailing characters until s fits in width pixels.
func TrimToWidth(face font.Face, s string, width int) string {
	r := []rune(s)
	for len(r) > 0 && TextWidth(face, string(r)) > width {
		r = r[:len(r)-1]
	}
	return string(r)
}
