package stream

import "github.com/kbukum/flowpipe/errors"

// Transform is a Stage that applies a function to each written item and
// emits the result downstream. Output produced while the transform is
// paused queues inside it; the transform reports full once that backlog
// reaches its high-water mark.
type Transform[I, O any] struct {
	apply func(I) (O, bool, error)
	out   *Emitter[O]
	hwm   int
	drain func()
	ended bool
}

func newTransform[I, O any](apply func(I) (O, bool, error), hwm int) *Transform[I, O] {
	if hwm <= 0 {
		hwm = DefaultHighWaterMark
	}
	return &Transform[I, O]{
		apply: apply,
		out:   NewEmitter[O](),
		hwm:   hwm,
	}
}

// Map creates a Transform emitting fn(item) for each item. An error from fn
// is returned from Write and nothing is emitted.
func Map[I, O any](fn func(I) (O, error), hwm int) *Transform[I, O] {
	return newTransform(func(in I) (O, bool, error) {
		v, err := fn(in)
		return v, err == nil, err
	}, hwm)
}

// Filter creates a Transform emitting only items for which pred is true.
func Filter[T any](pred func(T) bool, hwm int) *Transform[T, T] {
	return newTransform(func(in T) (T, bool, error) {
		return in, pred(in), nil
	}, hwm)
}

func (t *Transform[I, O]) Write(item I) error {
	if t.ended {
		return errors.StreamEnded()
	}
	v, keep, err := t.apply(item)
	if err != nil {
		return err
	}
	if keep {
		t.out.Emit(v)
	}
	return nil
}

func (t *Transform[I, O]) IsFull() bool { return t.out.Queued() >= t.hwm }

func (t *Transform[I, O]) OnDrain(h func()) { t.drain = h }

// End forwards end-of-stream downstream once the backlog has been emitted.
func (t *Transform[I, O]) End() {
	if t.ended {
		return
	}
	t.ended = true
	t.out.End()
}

func (t *Transform[I, O]) OnData(h func(O))      { t.out.OnData(h) }
func (t *Transform[I, O]) OnEnd(h func())        { t.out.OnEnd(h) }
func (t *Transform[I, O]) OnError(h func(error)) { t.out.OnError(h) }

func (t *Transform[I, O]) Pause() { t.out.Pause() }

// Resume flushes the backlog and fires the drain handler if that took the
// transform from full to below its high-water mark.
func (t *Transform[I, O]) Resume() {
	wasFull := t.IsFull()
	t.out.Resume()
	if wasFull && !t.IsFull() && t.drain != nil {
		t.drain()
	}
}

func (t *Transform[I, O]) Paused() bool     { return t.out.Paused() }
func (t *Transform[I, O]) PauseCount() int  { return t.out.PauseCount() }
func (t *Transform[I, O]) ResumeCount() int { return t.out.ResumeCount() }

// Queued returns the size of the output backlog.
func (t *Transform[I, O]) Queued() int { return t.out.Queued() }
