// Package panel holds the sinks a stream.Compositor can present to.
package panel

import (
	"image"
	"sync"

	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"
)

// ErrNoSurface is returned when drawing before CreateSurface.
var ErrNoSurface = errors.New("panel surface not created")

// Memory is an in-process panel. It keeps the last presented image, which backs
// the HTTP preview and the tests.
type Memory struct {
	mu       sync.RWMutex
	back     *image.RGBA
	front    *image.RGBA
	presents int
}

// NewMemory creates an instance of a Memory panel.
func NewMemory() *Memory {
	return new(Memory)
}

func (m *Memory) CreateSurface(w, h int) error {
	if w <= 0 || h <= 0 {
		return errors.Errorf("invalid surface %dx%d", w, h)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.back = image.NewRGBA(image.Rect(0, 0, w, h))
	m.front = image.NewRGBA(image.Rect(0, 0, w, h))
	return nil
}

func (m *Memory) Draw(img image.Image, x, y int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.back == nil {
		return ErrNoSurface
	}
	b := img.Bounds()
	xdraw.Draw(m.back, image.Rect(x, y, x+b.Dx(), y+b.Dy()), img, b.Min, xdraw.Src)
	return nil
}

func (m *Memory) Present() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.back == nil {
		return ErrNoSurface
	}
	copy(m.front.Pix, m.back.Pix)
	m.presents++
	return nil
}

// Image returns a copy of the last presented image, or nil before the surface
// exists.
func (m *Memory) Image() *image.RGBA {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.front == nil {
		return nil
	}
	out := image.NewRGBA(m.front.Bounds())
	copy(out.Pix, m.front.Pix)
	return out
}

// Presents counts calls to Present.
func (m *Memory) Presents() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.presents
}
