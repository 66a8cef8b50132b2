package content

import (
	"image/color"

	"github.com/pkg/errors"

	"github.com/matt-g-everett/ledsign/stream"
	"github.com/matt-g-everett/ledsign/util"
)

// tickerCadence is the scroll speed, in pixels per second, of text too wide
// for the screen.
const tickerCadence = 10

// Text draws a DrawText message at the top-left corner of a blank screen. Text
// wider than the screen runs as a looping ticker under KeyText instead.
func Text(colour color.Color) stream.RendererFunc {
	return func(s *stream.Surface, m stream.Message) error {
		msg, ok := m.(stream.DrawText)
		if !ok {
			return errors.Wrapf(ErrBadPayload, "%T", m)
		}
		b := s.Bounds()
		sched := s.Scheduler()

		if sched != nil && util.TextWidth(util.DefaultFace, msg.Text) > b.W {
			ticker := stream.NewTextScroll(b, msg.Text, stream.ScrollOptions{Colour: colour, Wrap: true})
			return errors.Wrap(sched.Register(KeyText, stream.NewAnimation(ticker, b, tickerCadence, true)),
				"text ticker")
		}
		if sched != nil {
			sched.Remove(KeyText)
		}

		img := util.Blank(b.W, b.H, color.Black)
		util.DrawText(img, util.DefaultFace, msg.Text, 0, 0, colour)
		return s.Update(img, 0, 0)
	}
}

// Clock draws a DrawClock message. The transit layout shows the date above the
// time; the default layout shows the time alone, vertically centred. The clock
// replaces any running text ticker.
func Clock(colour color.Color) stream.RendererFunc {
	return func(s *stream.Surface, m stream.Message) error {
		msg, ok := m.(stream.DrawClock)
		if !ok {
			return errors.Wrapf(ErrBadPayload, "%T", m)
		}
		if sched := s.Scheduler(); sched != nil {
			sched.Remove(KeyText)
		}
		b := s.Bounds()
		img := util.Blank(b.W, b.H, color.Black)
		face := util.DefaultFace
		height := face.Metrics().Height.Ceil()

		var lines []string
		switch msg.Kind {
		case stream.ClockTransit:
			lines = []string{
				msg.Time.Format("Mon, Jan 2, 2006"),
				msg.Time.Format("3:04:05 PM"),
			}
		default:
			lines = []string{msg.Time.Format("15:04:05")}
		}

		row := b.H / len(lines)
		for i, line := range lines {
			x := (b.W - util.TextWidth(face, line)) / 2
			y := i*row + (row-height)/2
			util.DrawText(img, face, line, x, y, colour)
		}
		return s.Update(img, 0, 0)
	}
}
