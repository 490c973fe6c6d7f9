package stream

import "context"

// Iterator provides pull-based sequential access to a stream of values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// SliceIterator returns an Iterator over items.
func SliceIterator[T any](items []T) Iterator[T] {
	return &sliceIter[T]{items: items}
}

type sliceIter[T any] struct {
	items []T
	index int
}

func (it *sliceIter[T]) Next(_ context.Context) (T, bool, error) {
	if it.index >= len(it.items) {
		var zero T
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *sliceIter[T]) Close() error { return nil }

// IteratorSource turns a pull-based Iterator into a Source. Items are pulled
// only while the source is running, unpaused and has a data handler, so a
// downstream pause stops pulling immediately.
type IteratorSource[T any] struct {
	ctx  context.Context
	iter Iterator[T]

	data func(T)
	end  func()
	fail func(error)

	started bool
	pumping bool
	paused  bool
	done    bool

	pauses  int
	resumes int
}

// FromIterator wraps it. Nothing is pulled until Run is called.
func FromIterator[T any](ctx context.Context, it Iterator[T]) *IteratorSource[T] {
	return &IteratorSource[T]{ctx: ctx, iter: it}
}

func (s *IteratorSource[T]) OnData(h func(T))      { s.data = h }
func (s *IteratorSource[T]) OnEnd(h func())        { s.end = h }
func (s *IteratorSource[T]) OnError(h func(error)) { s.fail = h }

// Run pulls and emits items until the source is paused, the data handler is
// removed, or the iterator is exhausted or fails. Exhaustion fires the end
// handler; failure fires the error handler. Both close the iterator.
func (s *IteratorSource[T]) Run() {
	s.started = true
	s.pump()
}

func (s *IteratorSource[T]) Pause() {
	if s.paused {
		return
	}
	s.paused = true
	s.pauses++
}

// Resume continues pulling when Run has been called before.
func (s *IteratorSource[T]) Resume() {
	if !s.paused {
		return
	}
	s.paused = false
	s.resumes++
	if s.started {
		s.pump()
	}
}

func (s *IteratorSource[T]) Paused() bool     { return s.paused }
func (s *IteratorSource[T]) PauseCount() int  { return s.pauses }
func (s *IteratorSource[T]) ResumeCount() int { return s.resumes }

// Done reports whether the iterator has been exhausted or failed.
func (s *IteratorSource[T]) Done() bool { return s.done }

func (s *IteratorSource[T]) pump() {
	if s.pumping || s.done {
		return
	}
	s.pumping = true
	defer func() { s.pumping = false }()

	for !s.paused && !s.done && s.data != nil {
		val, ok, err := s.iter.Next(s.ctx)
		if err != nil {
			s.close()
			if s.fail != nil {
				s.fail(err)
			}
			return
		}
		if !ok {
			if cerr := s.close(); cerr != nil && s.fail != nil {
				s.fail(cerr)
			}
			if s.end != nil {
				s.end()
			}
			return
		}
		s.data(val)
	}
}

func (s *IteratorSource[T]) close() error {
	s.done = true
	return s.iter.Close()
}
