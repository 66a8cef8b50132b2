package stream

import "time"

// Content kinds understood by the compositor out of the box. Other kinds are
// free-form and matched against registered renderers.
const (
	KindText  = "text"
	KindClock = "clock"
)

// ClockKind selects a clock layout.
type ClockKind int

const (
	ClockDefault ClockKind = iota
	ClockTransit
)

// Message is a compositing instruction carried by the RenderQueue. The set of
// messages is closed: Clear, Swap, DrawFrame, DrawText, DrawClock and Content.
type Message interface {
	// ZIndex is an ordering hint for content renderers. The compositor itself
	// always applies messages in queue order.
	ZIndex() int
	isMessage()
}

// Clear blanks the display and drops every running animation.
type Clear struct {
	Z int
}

// Swap presents the drawing surface.
type Swap struct {
	Z int
}

// DrawFrame copies a frame onto the drawing surface.
type DrawFrame struct {
	Frame *Frame
	Z     int
}

type DrawText struct {
	Text string
	Z    int
}

type DrawClock struct {
	Kind ClockKind
	Time time.Time
	Z    int
}

// Content carries data for an externally supplied renderer.
type Content struct {
	Kind    string
	Payload interface{}
	Z       int
}

func (m Clear) ZIndex() int     { return m.Z }
func (m Swap) ZIndex() int      { return m.Z }
func (m DrawFrame) ZIndex() int { return m.Z }
func (m DrawText) ZIndex() int  { return m.Z }
func (m DrawClock) ZIndex() int { return m.Z }
func (m Content) ZIndex() int   { return m.Z }

func (Clear) isMessage()     {}
func (Swap) isMessage()      {}
func (DrawFrame) isMessage() {}
func (DrawText) isMessage()  {}
func (DrawClock) isMessage() {}
func (Content) isMessage()   {}

// droppable reports whether a message may be discarded under backpressure.
// Only frames qualify: losing one costs smoothness, losing a Swap or Clear
// can leave stale pixels on the panel.
func droppable(m Message) bool {
	_, ok := m.(DrawFrame)
	return ok
}
