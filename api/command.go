package api

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/matt-g-everett/ledsign/content"
	"github.com/matt-g-everett/ledsign/stream"
)

// Display modes. The clock provider only draws in ModeClock; board content is
// pushed by its producers in ModeBoard.
const (
	ModeClock = "clock"
	ModeBoard = "board"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUnknownMode    = errors.New("unknown mode")
	ErrEmptyCommand   = errors.New("command has no content")
)

// Mode is the current display mode, shared between the control surfaces and
// the clock provider.
type Mode struct {
	mu    sync.RWMutex
	value string
}

// NewMode creates an instance of a Mode.
func NewMode(initial string) *Mode {
	m := new(Mode)
	m.value = initial
	return m
}

func (m *Mode) Get() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.value
}

// Set changes the mode and reports whether it differed.
func (m *Mode) Set(value string) (bool, error) {
	if value != ModeClock && value != ModeBoard {
		return false, errors.Wrap(ErrUnknownMode, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	changed := m.value != value
	m.value = value
	return changed, nil
}

// Command is a control request as received over HTTP or MQTT.
type Command struct {
	Type  string        `json:"type"`
	Text  string        `json:"text,omitempty"`
	Lines []string      `json:"lines,omitempty"`
	Rows  []content.Row `json:"rows,omitempty"`
	Stale bool          `json:"stale,omitempty"`
	Mode  string        `json:"mode,omitempty"`
	Z     int           `json:"z,omitempty"`
}

// Message maps a command onto the render message it stands for. Mode commands
// have no message of their own; see Apply.
func (c Command) Message() (stream.Message, error) {
	switch strings.ToLower(c.Type) {
	case "clear":
		return stream.Clear{Z: c.Z}, nil
	case "text":
		return stream.DrawText{Text: c.Text, Z: c.Z}, nil
	case content.KindAlert:
		if c.Text == "" {
			return nil, errors.Wrap(ErrEmptyCommand, c.Type)
		}
		return stream.Content{Kind: content.KindAlert, Payload: c.Text, Z: c.Z}, nil
	case content.KindBanner:
		if len(c.Lines) == 0 {
			return nil, errors.Wrap(ErrEmptyCommand, c.Type)
		}
		return stream.Content{Kind: content.KindBanner, Payload: c.Lines, Z: c.Z}, nil
	case content.KindBoard:
		if len(c.Rows) == 0 {
			return nil, errors.Wrap(ErrEmptyCommand, c.Type)
		}
		update := content.BoardUpdate{Rows: c.Rows, Stale: c.Stale}
		return stream.Content{Kind: content.KindBoard, Payload: update, Z: c.Z}, nil
	default:
		return nil, errors.Wrap(ErrUnknownCommand, c.Type)
	}
}

// Pusher is the blocking side of the render queue.
type Pusher interface {
	Push(ctx context.Context, m stream.Message) error
}

// Apply carries out a command. Switching mode clears the display so the new
// mode starts from a blank screen.
func Apply(ctx context.Context, q Pusher, mode *Mode, c Command) error {
	if strings.ToLower(c.Type) == "mode" {
		changed, err := mode.Set(c.Mode)
		if err != nil || !changed {
			return err
		}
		return errors.Wrap(q.Push(ctx, stream.Clear{Z: c.Z}), "mode clear")
	}

	m, err := c.Message()
	if err != nil {
		return err
	}
	return errors.Wrap(q.Push(ctx, m), c.Type)
}
