package stream

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/font"

	"github.com/matt-g-everett/ledsign/util"
)

// ScrollOptions tune a TextScroll.
type ScrollOptions struct {
	Face   font.Face
	Colour color.Color

	// TextX and TextY offset the text inside the region.
	TextX, TextY int

	// Wrap draws a second copy of the text right behind the first so the
	// scroll reads as a continuous ticker.
	Wrap bool

	// StartBlank starts with the text just off the right edge instead of at
	// the left edge.
	StartBlank bool
}

// A TextScroll moves a line of text one pixel to the left per frame until it
// has left the region.
type TextScroll struct {
	bbox      Rect
	text      string
	opts      ScrollOptions
	textWidth int
	start     int
	steps     int
}

// NewTextScroll creates an instance of a TextScroll. The number of frames is
// fixed here: the start offset plus max(region width, text width).
func NewTextScroll(bbox Rect, text string, opts ScrollOptions) *TextScroll {
	t := new(TextScroll)
	t.bbox = bbox
	t.opts = opts
	if t.opts.Face == nil {
		t.opts.Face = util.DefaultFace
	}
	if t.opts.Colour == nil {
		t.opts.Colour = color.White
	}

	t.text = text
	if opts.Wrap && len(text) > 0 && !strings.HasSuffix(text, " ") {
		t.text += strings.Repeat(" ", 4)
	}
	t.textWidth = util.TextWidth(t.opts.Face, t.text)

	if opts.StartBlank {
		t.start = bbox.W
	}
	end := bbox.W
	if t.textWidth > end {
		end = t.textWidth
	}
	t.steps = t.start + end

	return t
}

func (t *TextScroll) Len() int { return t.steps }

// TextWidth is the rendered width of the (possibly padded) text.
func (t *TextScroll) TextWidth() int { return t.textWidth }

func (t *TextScroll) Frame(step int) (*Frame, error) {
	if step < 0 || step >= t.steps {
		return nil, ErrStepOutOfRange
	}

	img := image.NewRGBA(image.Rect(0, 0, t.bbox.W, t.bbox.H))
	x := t.start - step
	util.DrawText(img, t.opts.Face, t.text, x+t.opts.TextX, t.opts.TextY, t.opts.Colour)
	if t.opts.Wrap {
		util.DrawText(img, t.opts.Face, t.text, x+t.textWidth+t.opts.TextX, t.opts.TextY, t.opts.Colour)
	}

	return NewFrame(t.bbox, img), nil
}
