package stream

import (
	"testing"

	"github.com/pkg/errors"
)

func TestAnimationPlaysOnceThenRepeatsLastFrame(t *testing.T) {
	a := NewAnimation(&counter{n: 3}, Rect{0, 0, 1, 1}, 60, false)

	var last *Frame
	for i := 0; i < 3; i++ {
		f, done, err := a.Next()
		if err != nil || done {
			t.Fatalf("step %d: done=%v err=%v", i, done, err)
		}
		if f.Rect.X != i {
			t.Fatalf("step %d: got frame %d", i, f.Rect.X)
		}
		last = f
	}

	f, done, err := a.Next()
	if err != nil || !done {
		t.Fatalf("expected completion, done=%v err=%v", done, err)
	}
	if f != last {
		t.Fatalf("expected the last frame again, got %+v", f)
	}
	if f, done, _ := a.Next(); f != last || !done {
		t.Fatal("a finished animation keeps returning its last frame")
	}
}

func TestAnimationLoopsWithoutCompleting(t *testing.T) {
	a := NewAnimation(&counter{n: 2}, Rect{0, 0, 1, 1}, 30, true)

	want := []int{0, 1, 0, 1, 0}
	for i, w := range want {
		f, done, err := a.Next()
		if err != nil || done {
			t.Fatalf("call %d: done=%v err=%v", i, done, err)
		}
		if f.Rect.X != w {
			t.Fatalf("call %d: got step %d, want %d", i, f.Rect.X, w)
		}
	}
}

func TestAnimationEmptySourceIsDone(t *testing.T) {
	a := NewAnimation(&counter{n: 0}, Rect{0, 0, 1, 1}, 60, true)
	f, done, err := a.Next()
	if f != nil || !done || err != nil {
		t.Fatalf("got %v %v %v", f, done, err)
	}
}

func TestAnimationSourceError(t *testing.T) {
	a := NewAnimation(failing{}, Rect{0, 0, 1, 1}, 60, false)
	f, done, err := a.Next()
	if f != nil || !done || err == nil {
		t.Fatalf("got %v %v %v", f, done, err)
	}
}

func TestChainAndHold(t *testing.T) {
	img := solid(2, 2, red)
	held := Rect{5, 5, 2, 2}
	c := Chain(&counter{id: 1, n: 2}, Hold(held, img, 2))

	if c.Len() != 4 {
		t.Fatalf("Len = %d", c.Len())
	}
	for step, wantY := range []int{1, 1, 5, 5} {
		f, err := c.Frame(step)
		if err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		if f.Rect.Y != wantY {
			t.Fatalf("step %d: rect %v", step, f.Rect)
		}
	}
	if _, err := c.Frame(4); errors.Cause(err) != ErrStepOutOfRange {
		t.Fatalf("expected out of range, got %v", err)
	}
	if _, err := c.Frame(-1); errors.Cause(err) != ErrStepOutOfRange {
		t.Fatalf("expected out of range, got %v", err)
	}
}
