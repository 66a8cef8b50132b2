package stream

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// RenderQueue is the bounded FIFO between producers and the compositor.
// DrawFrame messages are offered without blocking and evict the oldest queued
// DrawFrame when the queue is full; all other messages wait for space.
type RenderQueue struct {
	mu       sync.Mutex
	items    []Message
	capacity int

	notEmpty chan struct{}
	notFull  chan struct{}

	dropped uint64
}

// NewRenderQueue creates an instance of a RenderQueue.
func NewRenderQueue(capacity int) *RenderQueue {
	if capacity < 1 {
		capacity = 1
	}
	q := new(RenderQueue)
	q.capacity = capacity
	q.items = make([]Message, 0, capacity)
	q.notEmpty = make(chan struct{}, 1)
	q.notFull = make(chan struct{}, 1)
	return q
}

func signal(c chan struct{}) {
	select {
	case c <- struct{}{}:
	default:
	}
}

// Offer enqueues m without blocking. A full queue makes room by dropping the
// oldest queued DrawFrame, and only if m is itself droppable. It returns false
// when m was not enqueued.
func (q *RenderQueue) Offer(m Message) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) < q.capacity {
		q.append(m)
		return true
	}
	if !droppable(m) {
		return false
	}

	for i, queued := range q.items {
		if droppable(queued) {
			copy(q.items[i:], q.items[i+1:])
			q.items[len(q.items)-1] = nil
			q.items = q.items[:len(q.items)-1]
			atomic.AddUint64(&q.dropped, 1)
			q.append(m)
			return true
		}
	}

	atomic.AddUint64(&q.dropped, 1)
	return false
}

// Push enqueues m. Droppable messages never wait; anything else blocks until
// there is space or ctx is done.
func (q *RenderQueue) Push(ctx context.Context, m Message) error {
	for {
		if droppable(m) {
			q.Offer(m)
			return nil
		}

		q.mu.Lock()
		if len(q.items) < q.capacity {
			q.append(m)
			q.mu.Unlock()
			return nil
		}
		q.mu.Unlock()

		select {
		case <-q.notFull:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// append must be called with q.mu held.
func (q *RenderQueue) append(m Message) {
	q.items = append(q.items, m)
	signal(q.notEmpty)
	if len(q.items) < q.capacity {
		signal(q.notFull)
	}
}

// Pop dequeues the oldest message, waiting up to timeout for one to arrive.
func (q *RenderQueue) Pop(timeout time.Duration) (Message, bool) {
	var timer *time.Timer
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			m := q.items[0]
			q.items[0] = nil
			q.items = q.items[1:]
			q.mu.Unlock()
			signal(q.notFull)
			if timer != nil {
				timer.Stop()
			}
			return m, true
		}
		q.mu.Unlock()

		if timer == nil {
			timer = time.NewTimer(timeout)
		}
		select {
		case <-q.notEmpty:
		case <-timer.C:
			return nil, false
		}
	}
}

// Purge removes every queued message matching drop and reports how many went.
// Purged messages are not counted as dropped.
func (q *RenderQueue) Purge(drop func(Message) bool) int {
	q.mu.Lock()
	kept := q.items[:0]
	for _, m := range q.items {
		if !drop(m) {
			kept = append(kept, m)
		}
	}
	n := len(q.items) - len(kept)
	for i := len(kept); i < len(q.items); i++ {
		q.items[i] = nil
	}
	q.items = kept
	q.mu.Unlock()

	if n > 0 {
		signal(q.notFull)
	}
	return n
}

// Len is the number of queued messages.
func (q *RenderQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *RenderQueue) Capacity() int { return q.capacity }

// Dropped counts frames discarded under backpressure.
func (q *RenderQueue) Dropped() uint64 {
	return atomic.LoadUint64(&q.dropped)
}
