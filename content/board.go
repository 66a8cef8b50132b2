package content

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/pkg/errors"

	"github.com/matt-g-everett/ledsign/stream"
	"github.com/matt-g-everett/ledsign/util"
)

const (
	blinkPeriod  = 6
	blinkDuty    = 2.0 / 3.0
	blinkCycles  = 15
	blinkCadence = 6
	fadeCadence  = 60

	// rowInset is the gap between the top of a row and its text.
	rowInset = 2
)

// Row is one line of a listing board: a label on the left and a right-aligned
// value. A blinking row flashes for a while to draw attention.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Blink bool   `json:"blink"`
}

// BoardUpdate is the payload of a KindBoard message. Stale marks data served
// from a cache after a failed refresh; it lights the top-right pixel.
type BoardUpdate struct {
	Rows  []Row `json:"rows"`
	Stale bool  `json:"stale"`
}

// BlinkKey names the animation blinking row i.
func BlinkKey(i int) string {
	return fmt.Sprintf("board_blink_%d", i)
}

// Board renders listing rows. It remembers the last full image it computed so
// the alert and banner animations can build on it. While an alert is running
// only the top half of the board is drawn so the alert keeps the bottom half.
type Board struct {
	colour color.Color
	fade   int

	mu   sync.RWMutex
	last *image.RGBA
}

// NewBoard creates an instance of a Board.
func NewBoard(colour color.Color, fade int) *Board {
	b := new(Board)
	b.colour = colour
	b.fade = fade
	return b
}

// Last is the most recent full board image, or nil before the first update.
func (b *Board) Last() *image.RGBA {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.last
}

func (b *Board) Render(s *stream.Surface, m stream.Message) error {
	msg, ok := m.(stream.Content)
	if !ok {
		return errors.Wrapf(ErrBadPayload, "%T", m)
	}
	update, ok := msg.Payload.(BoardUpdate)
	if !ok {
		return errors.Wrapf(ErrBadPayload, "board: %T", msg.Payload)
	}

	bounds := s.Bounds()
	img, rows := b.draw(bounds, update)

	b.mu.Lock()
	previous := b.last
	b.last = img
	b.mu.Unlock()

	sched := s.Scheduler()
	alert := sched != nil && sched.IsRunning(KeyAlert)

	for i, r := range rows {
		if !update.Rows[i].Blink || (alert && r.Y >= bounds.TopHalf().H) {
			continue
		}
		if sched == nil {
			break
		}
		on := util.Crop(img, r.Box())
		off := util.Blank(r.W, r.H, color.Black)
		blink := stream.NewBlink(r, on, off, blinkPeriod, blinkDuty, blinkCycles, true)
		if err := sched.Register(BlinkKey(i), stream.NewAnimation(blink, r, blinkCadence, false)); err != nil {
			return errors.Wrap(err, "board blink")
		}
	}

	if alert {
		top := bounds.TopHalf()
		return s.Update(util.Crop(img, top.Box()), top.X, top.Y)
	}

	if b.fade > 0 && previous != nil && sched != nil {
		fade := stream.NewCrossfade(bounds, previous, img, b.fade)
		return errors.Wrap(sched.Register(KeyBoardFade, stream.NewAnimation(fade, bounds, fadeCadence, false)),
			"board fade")
	}

	return s.Update(img, 0, 0)
}

// draw lays out up to two rows, one per half of the screen, and returns the
// region of each drawn row.
func (b *Board) draw(bounds stream.Rect, update BoardUpdate) (*image.RGBA, []stream.Rect) {
	img := util.Blank(bounds.W, bounds.H, color.Black)
	face := util.DefaultFace

	halves := []stream.Rect{bounds.TopHalf(), bounds.BottomHalf()}
	n := len(update.Rows)
	if n > len(halves) {
		n = len(halves)
	}

	rows := make([]stream.Rect, 0, n)
	for i := 0; i < n; i++ {
		r := halves[i]
		row := update.Rows[i]

		valueWidth := util.TextWidth(face, row.Value)
		label := util.TrimToWidth(face, row.Label, bounds.W-valueWidth-1)
		util.DrawText(img, face, label, 0, r.Y+rowInset, b.colour)
		util.DrawText(img, face, row.Value, bounds.W-valueWidth, r.Y+rowInset, b.colour)
		rows = append(rows, r)
	}

	if update.Stale {
		img.Set(bounds.W-1, 0, b.colour)
	}
	return img, rows
}
