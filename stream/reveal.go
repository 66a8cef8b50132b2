package stream

import (
	"image"
	"image/color"
	"image/draw"
	"math/rand"
)

// A Reveal is a two-stage tile animation over a grid of square cells. The
// first stage pastes tiles into the cells one at a time in row-major order;
// the second stage blanks them again in the same order.
type Reveal struct {
	bbox       Rect
	tiles      []image.Image
	size       int
	cols, rows int
	background *image.Uniform
}

// NewReveal creates an instance of a Reveal. When rng is non-nil the tile
// order is shuffled once here, so every playback shows the same sequence.
func NewReveal(bbox Rect, tiles []image.Image, size int, rng *rand.Rand) *Reveal {
	r := new(Reveal)
	r.bbox = bbox
	r.size = size
	r.background = image.NewUniform(color.Black)

	r.tiles = make([]image.Image, len(tiles))
	copy(r.tiles, tiles)
	if rng != nil {
		rng.Shuffle(len(r.tiles), func(i, j int) {
			r.tiles[i], r.tiles[j] = r.tiles[j], r.tiles[i]
		})
	}

	if size > 0 {
		r.cols = (bbox.W + size - 1) / size
		r.rows = (bbox.H + size - 1) / size
	}
	return r
}

func (r *Reveal) cells() int { return r.cols * r.rows }

func (r *Reveal) Len() int { return 2 * r.cells() }

func (r *Reveal) Frame(step int) (*Frame, error) {
	if step < 0 || step >= r.Len() {
		return nil, ErrStepOutOfRange
	}

	n := r.cells()
	stage, last := step/n, step%n

	img := image.NewRGBA(image.Rect(0, 0, r.bbox.W, r.bbox.H))
	draw.Draw(img, img.Bounds(), r.background, image.Point{}, draw.Src)
	if len(r.tiles) == 0 {
		return NewFrame(r.bbox, img), nil
	}

	for cell := 0; cell < n; cell++ {
		shown := cell <= last
		if stage == 1 {
			shown = cell > last
		}
		if !shown {
			continue
		}
		tile := r.tiles[cell%len(r.tiles)]
		x, y := (cell%r.cols)*r.size, (cell/r.cols)*r.size
		dst := image.Rect(x, y, x+r.size, y+r.size)
		draw.Draw(img, dst, tile, tile.Bounds().Min, draw.Src)
	}

	return NewFrame(r.bbox, img), nil
}
