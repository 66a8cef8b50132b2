package content

import (
	"image"
	"image/color"

	"github.com/pkg/errors"

	"github.com/matt-g-everett/ledsign/stream"
	"github.com/matt-g-everett/ledsign/util"
)

const alertCadence = 60

// Alert scrolls a message across the bottom half of the screen, then puts the
// bottom half of the last board image back.
type Alert struct {
	board  *Board
	colour color.Color
}

// NewAlert creates an instance of an Alert.
func NewAlert(board *Board, colour color.Color) *Alert {
	a := new(Alert)
	a.board = board
	a.colour = colour
	return a
}

func (a *Alert) Render(s *stream.Surface, m stream.Message) error {
	msg, ok := m.(stream.Content)
	if !ok {
		return errors.Wrapf(ErrBadPayload, "%T", m)
	}
	text, ok := msg.Payload.(string)
	if !ok {
		return errors.Wrapf(ErrBadPayload, "alert: %T", msg.Payload)
	}

	sched := s.Scheduler()
	if sched == nil {
		return stream.ErrNoScheduler
	}

	bottom := s.Bounds().BottomHalf()
	scroll := stream.NewTextScroll(bottom, text, stream.ScrollOptions{
		Colour:     a.colour,
		TextY:      rowInset,
		StartBlank: true,
	})

	var restore image.Image = util.Blank(bottom.W, bottom.H, color.Black)
	if last := a.board.Last(); last != nil {
		restore = util.Crop(last, bottom.Box())
	}

	source := stream.Chain(scroll, stream.Hold(bottom, restore, 1))
	return errors.Wrap(sched.Register(KeyAlert, stream.NewAnimation(source, bottom, alertCadence, false)),
		"alert")
}
