package stream

import (
	"context"
	"errors"
	"testing"
)

type failingIter struct {
	n      int
	err    error
	closed bool
}

func (f *failingIter) Next(context.Context) (int, bool, error) {
	if f.n == 0 {
		return 0, false, f.err
	}
	f.n--
	return f.n, true, nil
}

func (f *failingIter) Close() error {
	f.closed = true
	return nil
}

func TestIteratorSourceRunsToEnd(t *testing.T) {
	src := FromIterator(context.Background(), SliceIterator([]int{1, 2, 3}))
	var got []int
	ends := 0
	src.OnData(func(v int) { got = append(got, v) })
	src.OnEnd(func() { ends++ })

	src.Run()
	if len(got) != 3 || got[2] != 3 {
		t.Errorf("expected [1 2 3], got %v", got)
	}
	if ends != 1 || !src.Done() {
		t.Errorf("expected done with 1 end, got done=%v ends=%d", src.Done(), ends)
	}
}

func TestIteratorSourcePauseStopsPulling(t *testing.T) {
	src := FromIterator(context.Background(), SliceIterator([]int{1, 2, 3, 4}))
	var got []int
	src.OnData(func(v int) {
		got = append(got, v)
		if v == 2 {
			src.Pause()
		}
	})

	src.Run()
	if len(got) != 2 {
		t.Fatalf("expected pulling to stop at 2 items, got %v", got)
	}

	src.Resume()
	if len(got) != 4 {
		t.Errorf("expected all items after resume, got %v", got)
	}
	if src.PauseCount() != 1 || src.ResumeCount() != 1 {
		t.Errorf("expected 1 pause and 1 resume, got %d and %d", src.PauseCount(), src.ResumeCount())
	}
}

func TestIteratorSourceResumeBeforeRun(t *testing.T) {
	src := FromIterator(context.Background(), SliceIterator([]int{1}))
	var got []int
	src.OnData(func(v int) { got = append(got, v) })

	src.Pause()
	src.Resume()
	if len(got) != 0 {
		t.Errorf("expected nothing pulled before Run, got %v", got)
	}
}

func TestIteratorSourceError(t *testing.T) {
	want := errors.New("read failed")
	it := &failingIter{n: 2, err: want}
	src := FromIterator[int](context.Background(), it)

	count := 0
	var got error
	src.OnData(func(int) { count++ })
	src.OnError(func(err error) { got = err })
	src.OnEnd(func() { t.Error("unexpected end after failure") })

	src.Run()
	if count != 2 {
		t.Errorf("expected 2 items before failure, got %d", count)
	}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
	if !it.closed || !src.Done() {
		t.Error("expected iterator closed and source done")
	}
}
