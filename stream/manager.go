package stream

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-stack/stack"
	logxi "github.com/mgutz/logxi/v1"
	"github.com/pkg/errors"
)

// DefaultTickRate is the number of control loop ticks per second.
const DefaultTickRate = 60.0

// Enqueuer accepts render messages from the control loop. Offer must not
// block; Push may.
type Enqueuer interface {
	Offer(m Message) bool
	Push(ctx context.Context, m Message) error
}

// Scheduler is the registration API content renderers use.
type Scheduler interface {
	Register(key string, a *Animation) error
	RegisterMany(animations map[string]*Animation) error
	Remove(key string)
	IsRunning(key string) bool
	Clear()
}

// Stats is a point-in-time view of the Manager.
type Stats struct {
	Ticks      int64  `json:"ticks"`
	Animations int    `json:"animations"`
	Groups     int    `json:"groups"`
	Frames     uint64 `json:"frames"`
	Swaps      uint64 `json:"swaps"`
	Failures   uint64 `json:"failures"`
}

// Manager runs every registered Animation at its own cadence from a single
// control loop, turning them into DrawFrame messages followed by at most one
// Swap per tick.
type Manager struct {
	queue    Enqueuer
	tickRate float64
	logger   logxi.Logger

	mu         sync.Mutex
	animations map[string]*Animation
	groups     map[float64]*animationGroup
	order      []*animationGroup
	tick       int64

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	frames   uint64
	swaps    uint64
	failures uint64
}

// NewManager creates an instance of a Manager. A non-positive tickRate uses
// DefaultTickRate and a nil logger logs under "scheduler".
func NewManager(queue Enqueuer, tickRate float64, logger logxi.Logger) *Manager {
	m := new(Manager)
	m.queue = queue
	m.tickRate = tickRate
	if m.tickRate <= 0 {
		m.tickRate = DefaultTickRate
	}
	m.logger = logger
	if m.logger == nil {
		m.logger = logxi.New("scheduler")
	}
	m.animations = make(map[string]*Animation)
	m.groups = make(map[float64]*animationGroup)
	return m
}

func validate(key string, a *Animation) error {
	if a == nil {
		return errors.Wrap(ErrNilAnimation, key)
	}
	if a.Cadence() <= 0 {
		return errors.Wrapf(ErrInvalidCadence, "%s: %v", key, a.Cadence())
	}
	return nil
}

// Register inserts a under key, replacing and discarding whatever animation
// held the key before.
func (m *Manager) Register(key string, a *Animation) error {
	if err := validate(key, a); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.insert(key, a)
	return nil
}

// RegisterMany inserts all animations atomically. Nothing is registered if any
// of them is invalid. Keys are inserted in sorted order so group layering does
// not depend on map iteration.
func (m *Manager) RegisterMany(animations map[string]*Animation) error {
	keys := make([]string, 0, len(animations))
	for key, a := range animations {
		if err := validate(key, a); err != nil {
			return err
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		m.insert(key, animations[key])
	}
	return nil
}

// insert must be called with m.mu held.
func (m *Manager) insert(key string, a *Animation) {
	if old, isPresent := m.animations[key]; isPresent && old.Cadence() != a.Cadence() {
		m.detach(key, old.Cadence())
	}
	m.animations[key] = a

	g, isPresent := m.groups[a.Cadence()]
	if !isPresent {
		g = newAnimationGroup(a.Cadence(), m.tickRate)
		m.groups[a.Cadence()] = g
		m.order = append(m.order, g)
	}
	g.add(key)
}

// Remove stops the animation under key from the next tick on. Removing an
// unknown key is a no-op.
func (m *Manager) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(key)
}

func (m *Manager) removeLocked(key string) {
	a, isPresent := m.animations[key]
	if !isPresent {
		return
	}
	delete(m.animations, key)
	m.detach(key, a.Cadence())
}

// detach drops key from its group, and the group from the index once empty.
func (m *Manager) detach(key string, cadence float64) {
	g, isPresent := m.groups[cadence]
	if !isPresent {
		return
	}
	g.remove(key)
	if !g.empty() {
		return
	}
	delete(m.groups, cadence)
	for i, o := range m.order {
		if o == g {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *Manager) IsRunning(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, isPresent := m.animations[key]
	return isPresent
}

// Keys lists the registered animation keys in sorted order.
func (m *Manager) Keys() []string {
	m.mu.Lock()
	keys := make([]string, 0, len(m.animations))
	for key := range m.animations {
		keys = append(keys, key)
	}
	m.mu.Unlock()

	sort.Strings(keys)
	return keys
}

func (m *Manager) Stats() Stats {
	m.mu.Lock()
	s := Stats{
		Ticks:      m.tick,
		Animations: len(m.animations),
		Groups:     len(m.order),
	}
	m.mu.Unlock()

	s.Frames = atomic.LoadUint64(&m.frames)
	s.Swaps = atomic.LoadUint64(&m.swaps)
	s.Failures = atomic.LoadUint64(&m.failures)
	return s
}

// entry pairs a key with the animation it held when the tick began.
type entry struct {
	key string
	a   *Animation
}

// Tick runs one scheduling pass. It is what the control loop calls once per
// period; it only returns an error when ctx ends while waiting to enqueue the
// tick's Swap.
func (m *Manager) Tick(ctx context.Context) error {
	m.mu.Lock()
	tick := m.tick
	m.tick++
	var due []entry
	for _, g := range m.order {
		if !g.due(tick) {
			continue
		}
		for _, key := range g.keys {
			due = append(due, entry{key, m.animations[key]})
		}
		g.stamp(tick)
	}
	m.mu.Unlock()

	produced := 0
	completed := make([]entry, 0, 4)
	for _, e := range due {
		// An animation registered after the snapshot waits for its own group.
		m.mu.Lock()
		current := m.animations[e.key] == e.a
		m.mu.Unlock()
		if !current {
			continue
		}

		frame, done, err := m.advance(e.key, e.a)
		if err != nil {
			atomic.AddUint64(&m.failures, 1)
			m.logger.Warn("frame source failed, removing animation", "key", e.key, "err", err.Error())
			frame, done = nil, true
		}

		// The key may have been replaced or removed while Next ran outside the
		// lock. Checking and enqueueing under the lock guarantees a replaced
		// animation never reaches the queue after its successor is registered.
		m.mu.Lock()
		if m.animations[e.key] == e.a {
			if frame != nil && m.queue.Offer(DrawFrame{Frame: frame}) {
				produced++
			}
			if done {
				completed = append(completed, e)
			}
		}
		m.mu.Unlock()
	}

	if produced > 0 {
		atomic.AddUint64(&m.frames, uint64(produced))
		if err := m.queue.Push(ctx, Swap{}); err != nil {
			return errors.Wrapf(err, "tick %d swap", tick)
		}
		atomic.AddUint64(&m.swaps, 1)
	}

	if len(completed) > 0 {
		m.mu.Lock()
		for _, e := range completed {
			if m.animations[e.key] == e.a {
				m.removeLocked(e.key)
			}
		}
		m.mu.Unlock()
	}

	return nil
}

// advance calls Next, turning a panic in the frame source into an error so one
// bad animation cannot take down the control loop.
func (m *Manager) advance(key string, a *Animation) (frame *Frame, done bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("frame source panicked", "key", key, "recovered", fmt.Sprint(r),
				"stack", stack.Trace().TrimRuntime().String())
			frame, done, err = nil, true, errors.Errorf("panic: %v", r)
		}
	}()
	return a.Next()
}

// Start launches the control loop. Starting a running Manager is a no-op.
func (m *Manager) Start() {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	m.startLocked()
}

func (m *Manager) startLocked() {
	if m.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.run(ctx, m.done)
}

// Stop halts the control loop and waits for it to exit. A Swap blocked on a
// full render queue is abandoned.
func (m *Manager) Stop() {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	m.stopLocked()
}

func (m *Manager) stopLocked() (wasRunning bool) {
	if m.cancel == nil {
		return false
	}
	m.cancel()
	<-m.done
	m.cancel = nil
	m.done = nil
	return true
}

// Clear stops the loop, empties the registry and group index, then restarts
// the loop if it was running. Nothing registered before the call produces a
// frame after it.
func (m *Manager) Clear() {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	wasRunning := m.stopLocked()

	m.mu.Lock()
	m.animations = make(map[string]*Animation)
	m.groups = make(map[float64]*animationGroup)
	m.order = nil
	m.mu.Unlock()

	if wasRunning {
		m.startLocked()
	}
}

// run ticks at a fixed rate. The next deadline is accumulated from the
// previous one so a slow tick does not shift every later tick; if the loop
// falls more than a period behind it resynchronises instead of bursting.
func (m *Manager) run(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	period := time.Duration(float64(time.Second) / m.tickRate)
	next := time.Now()
	timer := time.NewTimer(0)
	defer timer.Stop()

	m.logger.Debug("control loop started", "period", period.String())
	for {
		select {
		case <-ctx.Done():
			m.logger.Debug("control loop stopped")
			return
		case <-timer.C:
		}

		if err := m.Tick(ctx); err != nil {
			if ctx.Err() != nil {
				m.logger.Debug("control loop stopped")
				return
			}
			m.logger.Warn("tick failed", "err", err.Error())
		}

		next = next.Add(period)
		now := time.Now()
		if now.Sub(next) > period {
			next = now
		}
		timer.Reset(next.Sub(now))
	}
}
