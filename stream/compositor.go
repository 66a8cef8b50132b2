package stream

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	logxi "github.com/mgutz/logxi/v1"
	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"
)

// popTimeout bounds how long the consumer waits for a message before checking
// for shutdown.
const popTimeout = 100 * time.Millisecond

// Sink is the physical (or emulated) panel a Compositor presents to.
type Sink interface {
	CreateSurface(w, h int) error
	Draw(img image.Image, x, y int) error
	Present() error
}

// Renderer draws one kind of content onto a Surface.
type Renderer interface {
	Render(s *Surface, m Message) error
}

// RendererFunc adapts a function to a Renderer.
type RendererFunc func(s *Surface, m Message) error

func (f RendererFunc) Render(s *Surface, m Message) error { return f(s, m) }

// Surface is what a Renderer sees of the compositor: the drawing canvas, the
// ability to present it, and the scheduler for starting animations.
type Surface struct {
	c *Compositor
}

// Bounds is the whole display as a Rect at the origin.
func (s *Surface) Bounds() Rect {
	return Rect{0, 0, s.c.width, s.c.height}
}

// Draw places img into r on the drawing canvas, scaling it when the sizes
// differ.
func (s *Surface) Draw(img image.Image, r Rect) {
	s.c.draw(img, r)
}

// Update draws a full-screen image at (x, y) and presents it.
func (s *Surface) Update(img image.Image, x, y int) error {
	b := img.Bounds()
	s.c.draw(img, Rect{x, y, b.Dx(), b.Dy()})
	return s.c.swap()
}

// Present swaps the drawing canvas onto the panel.
func (s *Surface) Present() error {
	return s.c.swap()
}

func (s *Surface) Scheduler() Scheduler {
	return s.c.scheduler
}

// Compositor is the single consumer of the RenderQueue. It owns a double
// buffered canvas and forwards presented canvases to the Sink.
type Compositor struct {
	sink      Sink
	queue     *RenderQueue
	scheduler Scheduler
	logger    logxi.Logger

	width, height int

	mu        sync.RWMutex
	drawing   *image.RGBA
	presented *image.RGBA

	renderers map[string]Renderer
	surface   *Surface
}

// NewCompositor creates an instance of a Compositor and its panel surface.
// Failing to create the surface is fatal to the caller.
func NewCompositor(sink Sink, queue *RenderQueue, scheduler Scheduler, width, height int,
	logger logxi.Logger) (*Compositor, error) {

	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrInvalidRect, "panel %dx%d", width, height)
	}
	if err := sink.CreateSurface(width, height); err != nil {
		return nil, errors.Wrap(err, "create panel surface")
	}

	c := new(Compositor)
	c.sink = sink
	c.queue = queue
	c.scheduler = scheduler
	c.logger = logger
	if c.logger == nil {
		c.logger = logxi.New("compositor")
	}
	c.width = width
	c.height = height
	c.drawing = image.NewRGBA(image.Rect(0, 0, width, height))
	c.presented = image.NewRGBA(image.Rect(0, 0, width, height))
	c.renderers = make(map[string]Renderer)
	c.surface = &Surface{c: c}
	return c, nil
}

// Handle registers r for a content kind. DrawText and DrawClock use KindText
// and KindClock; Content messages use their Kind.
func (c *Compositor) Handle(kind string, r Renderer) {
	c.renderers[kind] = r
}

// Surface is the view handed to renderers.
func (c *Compositor) Surface() *Surface {
	return c.surface
}

// Run consumes the queue until ctx is done.
func (c *Compositor) Run(ctx context.Context) {
	c.logger.Debug("compositor started", "width", c.width, "height", c.height)
	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("compositor stopped")
			return
		default:
		}

		m, ok := c.queue.Pop(popTimeout)
		if !ok {
			continue
		}
		if err := c.Render(m); err != nil {
			c.logger.Warn("render failed", "msg", fmt.Sprintf("%T", m), "err", err.Error())
		}
	}
}

// Render applies one message.
func (c *Compositor) Render(m Message) error {
	switch msg := m.(type) {
	case Clear:
		if c.scheduler != nil {
			c.scheduler.Clear()
		}
		// The registry is empty now, so every queued frame belongs to the old
		// mode.
		if c.queue != nil {
			if n := c.queue.Purge(scheduled); n > 0 {
				c.logger.Debug("purged frames queued before clear", "count", n)
			}
		}
		c.mu.Lock()
		xdraw.Draw(c.drawing, c.drawing.Bounds(), image.NewUniform(color.Black), image.Point{}, xdraw.Src)
		c.mu.Unlock()
		return c.swap()
	case Swap:
		return c.swap()
	case DrawFrame:
		if msg.Frame == nil || msg.Frame.Image == nil {
			return nil
		}
		c.draw(msg.Frame.Image, msg.Frame.Rect)
		return nil
	case DrawText:
		return c.dispatch(KindText, msg)
	case DrawClock:
		return c.dispatch(KindClock, msg)
	case Content:
		return c.dispatch(msg.Kind, msg)
	default:
		return errors.Wrapf(ErrUnknownMessage, "%T", m)
	}
}

// scheduled reports whether m is one the Manager emits.
func scheduled(m Message) bool {
	switch m.(type) {
	case DrawFrame, Swap:
		return true
	}
	return false
}

func (c *Compositor) dispatch(kind string, m Message) error {
	r, isPresent := c.renderers[kind]
	if !isPresent {
		c.logger.Warn("no renderer for content", "kind", kind)
		return nil
	}
	return errors.Wrap(r.Render(c.surface, m), kind)
}

func (c *Compositor) draw(img image.Image, r Rect) {
	if !r.Valid() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	xdraw.NearestNeighbor.Scale(c.drawing, r.Box(), img, img.Bounds(), xdraw.Src, nil)
}

// swap exchanges the buffers, carries the newly presented pixels back into the
// drawing canvas so layered drawing continues, and pushes them to the sink.
func (c *Compositor) swap() error {
	c.mu.Lock()
	c.drawing, c.presented = c.presented, c.drawing
	copy(c.drawing.Pix, c.presented.Pix)
	presented := c.presented
	c.mu.Unlock()

	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.sink.Draw(presented, 0, 0); err != nil {
		return errors.Wrap(err, "panel draw")
	}
	return errors.Wrap(c.sink.Present(), "panel present")
}

// Snapshot copies the presented canvas.
func (c *Compositor) Snapshot() *image.RGBA {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := image.NewRGBA(c.presented.Bounds())
	copy(out.Pix, c.presented.Pix)
	return out
}
