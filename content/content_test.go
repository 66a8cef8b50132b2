package content

import (
	"context"
	"image"
	"image/color"
	"math/rand"
	"testing"
	"time"

	logxi "github.com/mgutz/logxi/v1"
	"github.com/pkg/errors"

	"github.com/matt-g-everett/ledsign/panel"
	"github.com/matt-g-everett/ledsign/stream"
	"github.com/matt-g-everett/ledsign/util"
)

const (
	screenW = 160
	screenH = 32
)

type rig struct {
	queue   *stream.RenderQueue
	manager *stream.Manager
	comp    *stream.Compositor
	memory  *panel.Memory
	board   *Board
}

func newRig(t *testing.T, fade int) *rig {
	t.Helper()
	r := new(rig)
	r.queue = stream.NewRenderQueue(1024)
	r.manager = stream.NewManager(r.queue, 60, logxi.NullLog)
	r.memory = panel.NewMemory()

	c, err := stream.NewCompositor(r.memory, r.queue, r.manager, screenW, screenH, logxi.NullLog)
	if err != nil {
		t.Fatal(err)
	}
	r.comp = c
	r.board = Install(c, PaletteFromConfig(stream.DefaultConfig()), fade)
	return r
}

func (r *rig) render(t *testing.T, m stream.Message) {
	t.Helper()
	if err := r.comp.Render(m); err != nil {
		t.Fatal(err)
	}
}

func (r *rig) frames(t *testing.T) []*stream.Frame {
	t.Helper()
	if err := r.manager.Tick(context.Background()); err != nil {
		t.Fatal(err)
	}
	var out []*stream.Frame
	for {
		m, ok := r.queue.Pop(time.Millisecond)
		if !ok {
			return out
		}
		if f, isFrame := m.(stream.DrawFrame); isFrame {
			out = append(out, f.Frame)
		}
	}
}

func litIn(img image.Image, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if cr, cg, cb, _ := img.At(x, y).RGBA(); cr+cg+cb > 0 {
				n++
			}
		}
	}
	return n
}

var (
	top    = image.Rect(0, 0, screenW, screenH/2)
	bottom = image.Rect(0, screenH/2, screenW, screenH)
)

func twoRows() BoardUpdate {
	return BoardUpdate{Rows: []Row{
		{Label: "Alewife", Value: "3 min"},
		{Label: "Braintree", Value: "12 min"},
	}}
}

func TestTextRenderer(t *testing.T) {
	r := newRig(t, 0)
	r.render(t, stream.DrawText{Text: "Hello"})

	img := r.memory.Image()
	if litIn(img, image.Rect(0, 0, 40, 13)) == 0 {
		t.Fatal("text should be drawn at the top left")
	}
	if litIn(img, bottom) != 0 {
		t.Fatal("nothing should be drawn below the first line")
	}
}

func TestTextTickerForLongText(t *testing.T) {
	r := newRig(t, 0)
	long := "Now playing: a song title far too long for the sign"
	r.render(t, stream.DrawText{Text: long})

	if !r.manager.IsRunning(KeyText) {
		t.Fatal("overflowing text should start a ticker")
	}
	frames := r.frames(t)
	if len(frames) != 1 || frames[0].Rect != (stream.Rect{X: 0, Y: 0, W: screenW, H: screenH}) {
		t.Fatalf("frames = %+v", frames)
	}
	if litIn(frames[0].Image, image.Rect(0, 0, screenW, 13)) == 0 {
		t.Fatal("ticker frame should show text")
	}

	// The ticker loops, so it is still running well past one pass.
	steps := stream.NewTextScroll(stream.Rect{X: 0, Y: 0, W: screenW, H: screenH}, long,
		stream.ScrollOptions{Wrap: true}).Len()
	for i := 0; i < steps*6; i++ {
		r.frames(t)
	}
	if !r.manager.IsRunning(KeyText) {
		t.Fatal("ticker should loop")
	}

	r.render(t, stream.DrawText{Text: "Hi"})
	if r.manager.IsRunning(KeyText) {
		t.Fatal("text that fits should stop the ticker")
	}
}

func TestClockRenderer(t *testing.T) {
	r := newRig(t, 0)
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	r.render(t, stream.DrawClock{Kind: stream.ClockTransit, Time: now})
	img := r.memory.Image()
	if litIn(img, top) == 0 || litIn(img, bottom) == 0 {
		t.Fatal("transit clock shows the date above the time")
	}

	r.render(t, stream.DrawClock{Kind: stream.ClockDefault, Time: now})
	img = r.memory.Image()
	if litIn(img, image.Rect(0, 0, 40, screenH)) != 0 {
		t.Fatal("default clock should be centred")
	}
	if litIn(img, image.Rect(40, 0, 120, screenH)) == 0 {
		t.Fatal("default clock not drawn")
	}
}

func TestBoardRendersRows(t *testing.T) {
	r := newRig(t, 0)
	r.render(t, stream.Content{Kind: KindBoard, Payload: twoRows()})

	img := r.memory.Image()
	if litIn(img, top) == 0 || litIn(img, bottom) == 0 {
		t.Fatal("both rows should be drawn")
	}
	if litIn(img, image.Rect(screenW-7, 0, screenW, screenH)) == 0 {
		t.Fatal("values should be right aligned")
	}
	if r.board.Last() == nil {
		t.Fatal("board should remember its image")
	}
}

func TestBoardStaleMarker(t *testing.T) {
	r := newRig(t, 0)
	update := BoardUpdate{Rows: []Row{{Label: "A", Value: "1"}}, Stale: true}
	r.render(t, stream.Content{Kind: KindBoard, Payload: update})

	if _, _, _, a := r.memory.Image().At(screenW-1, 0).RGBA(); a == 0 {
		t.Fatal("stale data should light the top-right pixel")
	}
	if c := r.memory.Image().RGBAAt(screenW-1, 0); c.R == 0 && c.G == 0 && c.B == 0 {
		t.Fatal("stale marker should be lit")
	}
}

func TestBoardKeepsBottomHalfForAlert(t *testing.T) {
	r := newRig(t, 0)
	r.comp.Surface().Update(util.Blank(screenW, screenH, color.White), 0, 0)

	hold := stream.Hold(stream.Rect{X: 0, Y: 16, W: screenW, H: 16}, util.Blank(screenW, 16, color.Black), 100)
	r.manager.Register(KeyAlert, stream.NewAnimation(hold, stream.Rect{X: 0, Y: 16, W: screenW, H: 16}, 60, false))

	r.render(t, stream.Content{Kind: KindBoard, Payload: twoRows()})
	img := r.memory.Image()
	if img.RGBAAt(5, 20) != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Fatal("bottom half should be left to the alert")
	}
	if img.RGBAAt(screenW/2, 15) == (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Fatal("top half should be redrawn")
	}
	if litIn(r.board.Last(), bottom) == 0 {
		t.Fatal("the remembered image is the full board")
	}
}

func TestBoardBlinkRows(t *testing.T) {
	r := newRig(t, 0)
	update := twoRows()
	update.Rows[1].Blink = true
	r.render(t, stream.Content{Kind: KindBoard, Payload: update})

	if r.manager.IsRunning(BlinkKey(0)) || !r.manager.IsRunning(BlinkKey(1)) {
		t.Fatalf("keys = %v", r.manager.Keys())
	}
	frames := r.frames(t)
	if len(frames) != 1 || frames[0].Rect != (stream.Rect{X: 0, Y: 16, W: screenW, H: 16}) {
		t.Fatalf("frames = %+v", frames)
	}
}

func TestBoardCrossfade(t *testing.T) {
	r := newRig(t, 4)
	r.render(t, stream.Content{Kind: KindBoard, Payload: twoRows()})
	if r.manager.IsRunning(KeyBoardFade) {
		t.Fatal("the first board has nothing to fade from")
	}
	presents := r.memory.Presents()

	update := twoRows()
	update.Rows[0].Value = "4 min"
	r.render(t, stream.Content{Kind: KindBoard, Payload: update})
	if !r.manager.IsRunning(KeyBoardFade) {
		t.Fatal("later boards should fade in")
	}
	if r.memory.Presents() != presents {
		t.Fatal("a fading board is drawn by the animation, not directly")
	}
}

func TestBoardBadPayload(t *testing.T) {
	r := newRig(t, 0)
	err := r.comp.Render(stream.Content{Kind: KindBoard, Payload: "rows"})
	if errors.Cause(err) != ErrBadPayload {
		t.Fatalf("got %v", err)
	}
}

func TestAlert(t *testing.T) {
	r := newRig(t, 0)
	r.render(t, stream.Content{Kind: KindBoard, Payload: twoRows()})
	r.render(t, stream.Content{Kind: KindAlert, Payload: "Delays on the Red Line"})

	if !r.manager.IsRunning(KeyAlert) {
		t.Fatal("alert animation not registered")
	}

	want := stream.Rect{X: 0, Y: 16, W: screenW, H: 16}
	first := r.frames(t)
	if len(first) != 1 || first[0].Rect != want {
		t.Fatalf("frames = %+v", first)
	}
	if litIn(first[0].Image, first[0].Image.Bounds()) != 0 {
		t.Fatal("alert starts off screen")
	}

	var last *stream.Frame
	for i := 0; i < 2000 && r.manager.IsRunning(KeyAlert); i++ {
		if frames := r.frames(t); len(frames) > 0 {
			last = frames[len(frames)-1]
		}
	}
	if r.manager.IsRunning(KeyAlert) {
		t.Fatal("alert never finished")
	}

	board := r.board.Last()
	for y := 0; y < 16; y++ {
		for x := 0; x < screenW; x++ {
			if last.Image.At(x, y) != board.At(x, y+16) {
				t.Fatalf("alert should end on the board's bottom half, differs at %d,%d", x, y)
			}
		}
	}
}

func TestAlertWithoutBoard(t *testing.T) {
	r := newRig(t, 0)
	r.render(t, stream.Content{Kind: KindAlert, Payload: "x"})
	if !r.manager.IsRunning(KeyAlert) {
		t.Fatal("alert should run without a board")
	}
}

func TestBanner(t *testing.T) {
	r := newRig(t, 0)
	r.render(t, stream.Content{Kind: KindBanner, Payload: []string{"Red Line", "Service resumed"}})
	if !r.manager.IsRunning(KeyBanner) || r.manager.IsRunning(KeyBoardAway) {
		t.Fatalf("keys = %v", r.manager.Keys())
	}

	r = newRig(t, 0)
	r.render(t, stream.Content{Kind: KindBoard, Payload: twoRows()})
	r.render(t, stream.Content{Kind: KindBanner, Payload: []string{"Red Line", "Service resumed"}})

	frames := r.frames(t)
	if len(frames) != 2 {
		t.Fatalf("frames = %+v", frames)
	}
	if frames[0].Rect.Y != screenH || frames[1].Rect.Y != 0 {
		t.Fatalf("banner starts below, board starts on screen: %v %v", frames[0].Rect, frames[1].Rect)
	}

	for i := 0; i < 100 && r.manager.IsRunning(KeyBanner); i++ {
		frames = r.frames(t)
	}
	if r.manager.IsRunning(KeyBanner) || r.manager.IsRunning(KeyBoardAway) {
		t.Fatal("banner should finish")
	}
	if frames[0].Rect.Y != 0 || frames[1].Rect.Y != -screenH {
		t.Fatalf("banner ends on screen, board ends above: %v %v", frames[0].Rect, frames[1].Rect)
	}
}

func TestBannerTruncatesLines(t *testing.T) {
	b := NewBanner(NewBoard(color.White, 0), color.White)
	img := b.draw(stream.Rect{W: screenW, H: screenH}, []string{"ABCDEFGHIJKLMNOPQRSTUVWXYZ"})

	// Sixteen 7px glyphs centred on 160px span columns 24 to 136.
	if litIn(img, image.Rect(0, 0, 24, 16)) != 0 || litIn(img, image.Rect(136, 0, screenW, 16)) != 0 {
		t.Fatal("line should be truncated to sixteen characters and centred")
	}
}

func TestStartup(t *testing.T) {
	tiles := Tiles(16)
	if len(tiles) != len(tileGlyphs) {
		t.Fatalf("tiles = %d", len(tiles))
	}
	for i, tile := range tiles {
		if tile.Bounds() != image.Rect(0, 0, 16, 16) || litIn(tile, tile.Bounds()) == 0 {
			t.Fatalf("tile %d is not a 16px glyph", i)
		}
	}

	r := newRig(t, 0)
	bbox := r.comp.Surface().Bounds()
	if err := Startup(r.manager, bbox, rand.New(rand.NewSource(1))); err != nil {
		t.Fatal(err)
	}
	if !r.manager.IsRunning(KeyStartup) {
		t.Fatal("startup not registered")
	}
	frames := r.frames(t)
	if len(frames) != 1 || frames[0].Rect != bbox {
		t.Fatalf("frames = %+v", frames)
	}
	if litIn(frames[0].Image, image.Rect(0, 0, 16, 16)) == 0 || litIn(frames[0].Image, image.Rect(16, 0, 32, 16)) != 0 {
		t.Fatal("the first frame shows only the first tile")
	}
}

func TestGradient(t *testing.T) {
	for _, pos := range []float64{0, 0.3, 0.99, 1, 2} {
		c := color.RGBAModel.Convert(rainbow.At(pos, 0.8, 0.6)).(color.RGBA)
		if c.A != 0xff || int(c.R)+int(c.G)+int(c.B) == 0 {
			t.Fatalf("At(%v) = %v", pos, c)
		}
	}
	if Gradient(nil).At(0.5, 1, 1) != color.White {
		t.Fatal("an empty gradient falls back to white")
	}
}
