package content

import (
	"image"
	"image/color"

	"github.com/fogleman/ease"
	"github.com/pkg/errors"

	"github.com/matt-g-everett/ledsign/stream"
	"github.com/matt-g-everett/ledsign/util"
)

const (
	bannerCadence = 60
	bannerChars   = 16
)

// Banner slides a two-line banner up from below the screen while the last
// board image slides out of the top.
type Banner struct {
	board  *Board
	colour color.Color
}

// NewBanner creates an instance of a Banner.
func NewBanner(board *Board, colour color.Color) *Banner {
	b := new(Banner)
	b.board = board
	b.colour = colour
	return b
}

func (b *Banner) Render(s *stream.Surface, m stream.Message) error {
	msg, ok := m.(stream.Content)
	if !ok {
		return errors.Wrapf(ErrBadPayload, "%T", m)
	}
	lines, ok := msg.Payload.([]string)
	if !ok {
		return errors.Wrapf(ErrBadPayload, "banner: %T", msg.Payload)
	}

	sched := s.Scheduler()
	if sched == nil {
		return stream.ErrNoScheduler
	}

	bounds := s.Bounds()
	below := bounds.Offset(0, bounds.H)
	above := bounds.Offset(0, -bounds.H)

	animations := map[string]*stream.Animation{
		KeyBanner: stream.NewAnimation(
			stream.NewMove(below, bounds, b.draw(bounds, lines), ease.InOutQuad), below, bannerCadence, false),
	}
	if last := b.board.Last(); last != nil {
		animations[KeyBoardAway] = stream.NewAnimation(
			stream.NewMove(bounds, above, last, ease.InOutQuad), bounds, bannerCadence, false)
	}

	return errors.Wrap(sched.RegisterMany(animations), "banner")
}

// draw centres up to two lines, truncated to bannerChars, one per half.
func (b *Banner) draw(bounds stream.Rect, lines []string) *image.RGBA {
	img := util.Blank(bounds.W, bounds.H, color.Black)
	face := util.DefaultFace

	halves := []stream.Rect{bounds.TopHalf(), bounds.BottomHalf()}
	for i, line := range lines {
		if i >= len(halves) {
			break
		}
		if r := []rune(line); len(r) > bannerChars {
			line = string(r[:bannerChars])
		}
		x := (bounds.W - util.TextWidth(face, line)) / 2
		util.DrawText(img, face, line, x, halves[i].Y+rowInset, b.colour)
	}
	return img
}
