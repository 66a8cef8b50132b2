// Package content holds the renderers that turn application content into
// pixels and animations on a stream.Compositor.
package content

import (
	"image/color"

	"github.com/pkg/errors"

	"github.com/matt-g-everett/ledsign/stream"
	"github.com/matt-g-everett/ledsign/util"
)

// Content kinds handled by this package.
const (
	KindBoard  = "board"
	KindAlert  = "alert"
	KindBanner = "banner"
)

// Animation keys. A key is unique on the scheduler, so starting a second
// alert replaces the first.
const (
	KeyAlert     = "alert"
	KeyBanner    = "banner"
	KeyBoardAway = "board_away"
	KeyBoardFade = "board_fade"
	KeyStartup   = "startup"
	KeyText      = "text"
)

// ErrBadPayload is returned when a Content message carries the wrong payload
// type for its kind.
var ErrBadPayload = errors.New("unexpected content payload")

// Palette is the colour of each kind of content.
type Palette struct {
	Text   color.Color
	Clock  color.Color
	Alert  color.Color
	Banner color.Color
	Board  color.Color
}

// PaletteFromConfig parses the configured colours, keeping sensible defaults
// for anything malformed.
func PaletteFromConfig(c stream.Config) Palette {
	return Palette{
		Text:   util.ParseColour(c.Colours.Text, color.White),
		Clock:  util.ParseColour(c.Colours.Clock, color.RGBA{0xff, 0xaa, 0x00, 0xff}),
		Alert:  util.ParseColour(c.Colours.Alert, color.RGBA{0xff, 0x20, 0x20, 0xff}),
		Banner: util.ParseColour(c.Colours.Banner, color.RGBA{0x20, 0xa0, 0xff, 0xff}),
		Board:  util.ParseColour(c.Colours.Board, color.RGBA{0xff, 0xaa, 0x00, 0xff}),
	}
}

// Install registers every renderer in this package on c and returns the board
// so callers can inspect its last image. fade is the length of the board
// crossfade in frames; zero draws board updates directly.
func Install(c *stream.Compositor, p Palette, fade int) *Board {
	board := NewBoard(p.Board, fade)
	c.Handle(stream.KindText, Text(p.Text))
	c.Handle(stream.KindClock, Clock(p.Clock))
	c.Handle(KindBoard, board)
	c.Handle(KindAlert, NewAlert(board, p.Alert))
	c.Handle(KindBanner, NewBanner(board, p.Banner))
	return board
}
