package content

import (
	"image"
	"image/color"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/matt-g-everett/ledsign/stream"
	"github.com/matt-g-everett/ledsign/util"
)

const (
	startupCadence = 10
	tileSize       = 16
	tileGlyphs     = "1234567ABCDEFGJLMNQRSWZ"
)

// Tiles renders one size x size bullet per glyph: the glyph centred in white
// on black, tinted with successive colours from the rainbow gradient.
func Tiles(size int) []image.Image {
	face := util.DefaultFace
	height := face.Metrics().Height.Ceil()

	tiles := make([]image.Image, 0, len(tileGlyphs))
	for i, g := range tileGlyphs {
		s := string(g)
		mask := util.Blank(size, size, color.Black)
		util.DrawText(mask, face, s, (size-util.TextWidth(face, s))/2, (size-height)/2, color.White)
		colour := rainbow.At(float64(i)/float64(len(tileGlyphs)), 0.8, 0.6)
		tiles = append(tiles, util.Tint(mask, colour))
	}
	return tiles
}

// Startup plays the tile reveal across bbox.
func Startup(sched stream.Scheduler, bbox stream.Rect, rng *rand.Rand) error {
	reveal := stream.NewReveal(bbox, Tiles(tileSize), tileSize, rng)
	return errors.Wrap(sched.Register(KeyStartup, stream.NewAnimation(reveal, bbox, startupCadence, false)),
		"startup")
}
