package stream

import (
	"fmt"
	"image"
)

// Rect is an axis-aligned region on the display surface.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a Rect, rejecting empty regions.
func NewRect(x, y, w, h int) (Rect, error) {
	r := Rect{x, y, w, h}
	if !r.Valid() {
		return Rect{}, ErrInvalidRect
	}
	return r, nil
}

// Valid reports whether the region has a positive area.
func (r Rect) Valid() bool {
	return r.W > 0 && r.H > 0
}

// Box is the placement box of the region.
func (r Rect) Box() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Crop returns the region as a (left, top, right, bottom) crop box.
func (r Rect) Crop() (left, top, right, bottom int) {
	return r.X, r.Y, r.X + r.W, r.Y + r.H
}

func (r Rect) Offset(dx, dy int) Rect {
	return Rect{r.X + dx, r.Y + dy, r.W, r.H}
}

// TopHalf is the upper half of the region. For odd heights the extra row
// belongs to the bottom half.
func (r Rect) TopHalf() Rect {
	return Rect{r.X, r.Y, r.W, r.H / 2}
}

func (r Rect) BottomHalf() Rect {
	h := r.H / 2
	return Rect{r.X, r.Y + h, r.W, r.H - h}
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.W, r.H, r.X, r.Y)
}
