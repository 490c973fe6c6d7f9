package stream

// Source is a push-based producer of items.
type Source[T any] interface {
	// OnData sets the handler receiving each item.
	OnData(h func(T))
	// OnEnd sets the handler called once the source has no more items.
	OnEnd(h func())
	// OnError sets the handler receiving source failures.
	OnError(h func(error))
	// Pause stops emission. A no-op when already paused.
	Pause()
	// Resume restarts emission. A no-op when not paused.
	Resume()
}

// Sink is a push-based consumer of items.
type Sink[T any] interface {
	// Write accepts one item.
	Write(item T) error
	// IsFull reports whether buffering reached the sink's threshold.
	IsFull() bool
	// OnDrain sets the handler called each time buffering falls back below
	// the threshold.
	OnDrain(h func())
	// End signals that no more items will be written.
	End()
}

// Stage consumes I from upstream and produces O downstream.
type Stage[I, O any] interface {
	Sink[I]
	Source[O]
}

// Duplex is a stage that does not change the item type.
type Duplex[T any] interface {
	Stage[T, T]
}

// PauseCounter is implemented by sources that track their pause transitions.
type PauseCounter interface {
	Paused() bool
	PauseCount() int
	ResumeCount() int
}

var (
	_ PauseCounter = (*Emitter[int])(nil)
	_ PauseCounter = (*Transform[int, int])(nil)
	_ PauseCounter = (*IteratorSource[int])(nil)
)
