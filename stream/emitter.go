package stream

// Emitter is an in-memory Source. Items passed to Emit go straight to the
// data handler unless the emitter is paused, in which case they queue and
// are delivered in order on Resume.
type Emitter[T any] struct {
	data func(T)
	end  func()
	fail func(error)

	queue    []T
	paused   bool
	flushing bool
	ending   bool
	ended    bool

	pauses  int
	resumes int
}

// NewEmitter creates an unpaused Emitter with no handlers.
func NewEmitter[T any]() *Emitter[T] {
	return &Emitter[T]{}
}

func (e *Emitter[T]) OnData(h func(T))      { e.data = h }
func (e *Emitter[T]) OnEnd(h func())        { e.end = h }
func (e *Emitter[T]) OnError(h func(error)) { e.fail = h }

// Emit pushes an item. Items emitted after End or while no data handler is
// installed are dropped, even when the emitter is paused.
func (e *Emitter[T]) Emit(item T) {
	if e.ended || e.ending || e.data == nil {
		return
	}
	if e.paused || len(e.queue) > 0 {
		e.queue = append(e.queue, item)
		return
	}
	e.deliver(item)
}

// End signals end-of-stream. With items still queued the end handler fires
// once they have all been delivered.
func (e *Emitter[T]) End() {
	if e.ended || e.ending {
		return
	}
	if len(e.queue) > 0 {
		e.ending = true
		return
	}
	e.finish()
}

// Fail reports err to the error handler.
func (e *Emitter[T]) Fail(err error) {
	if e.fail != nil {
		e.fail(err)
	}
}

func (e *Emitter[T]) Pause() {
	if e.paused {
		return
	}
	e.paused = true
	e.pauses++
}

func (e *Emitter[T]) Resume() {
	if !e.paused {
		return
	}
	e.paused = false
	e.resumes++
	e.flush()
}

func (e *Emitter[T]) Paused() bool     { return e.paused }
func (e *Emitter[T]) PauseCount() int  { return e.pauses }
func (e *Emitter[T]) ResumeCount() int { return e.resumes }

// Queued returns the number of items waiting for a resume.
func (e *Emitter[T]) Queued() int { return len(e.queue) }

// Ended reports whether the end handler has been called.
func (e *Emitter[T]) Ended() bool { return e.ended }

// flush delivers queued items until the queue is empty, a handler pauses
// the emitter again or the data handler is removed. Reentrant calls from
// inside a handler are absorbed by the outer loop.
func (e *Emitter[T]) flush() {
	if e.flushing {
		return
	}
	e.flushing = true
	defer func() { e.flushing = false }()

	for !e.paused && e.data != nil && len(e.queue) > 0 {
		item := e.queue[0]
		var zero T
		e.queue[0] = zero
		e.queue = e.queue[1:]
		e.deliver(item)
	}
	if len(e.queue) == 0 {
		e.queue = nil
		if e.ending {
			e.finish()
		}
	}
}

func (e *Emitter[T]) deliver(item T) {
	if e.data != nil {
		e.data(item)
	}
}

func (e *Emitter[T]) finish() {
	e.ending = false
	e.ended = true
	if e.end != nil {
		e.end()
	}
}
