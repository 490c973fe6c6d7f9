package pipe

import (
	"reflect"

	"github.com/kbukum/flowpipe/errors"
	"github.com/kbukum/flowpipe/logger"
	"github.com/kbukum/flowpipe/stream"
)

// Pipe is a view of a chain positioned at one Source. Attach extends the
// chain from that Source. Every view of a chain shares its state, so Start,
// Stop, OnError and Stats act on the whole chain whichever view is used.
type Pipe[T any] struct {
	c        *chain
	src      stream.Source[T]
	extended bool
}

// New creates an open chain whose head is src.
func New[T any](src stream.Source[T], opts ...Option) (*Pipe[T], error) {
	if isNil(src) {
		return nil, errors.NullArgument("source")
	}
	c := newChain(opts)
	c.log.Debug("pipe created")
	return &Pipe[T]{c: c, src: src}, nil
}

// Attachment is the result of Attach: either Extendable or Terminated.
type Attachment[T any] interface {
	// Pipe returns the view to continue with.
	Pipe() *Pipe[T]
	attachment()
}

// Extendable is returned when the attached sink is also a Source. Its Pipe
// is an open view positioned at that sink.
type Extendable[T any] struct{ p *Pipe[T] }

func (e Extendable[T]) Pipe() *Pipe[T] { return e.p }
func (Extendable[T]) attachment()      {}

// Terminated is returned when the attached sink is sink-only. The chain is
// closed and its Pipe can be started.
type Terminated[T any] struct{ p *Pipe[T] }

func (t Terminated[T]) Pipe() *Pipe[T] { return t.p }
func (Terminated[T]) attachment()      {}

// Attach adds a hop from this view's Source to sink. A sink that is also a
// stream.Source[T] keeps the chain open; any other sink closes it. Use Via
// for stages whose output type differs from T.
//
// No handlers are installed until Start.
func (p *Pipe[T]) Attach(sink stream.Sink[T]) (Attachment[T], error) {
	if err := link(p, sink); err != nil {
		return nil, err
	}
	if src, ok := sink.(stream.Source[T]); ok {
		return Extendable[T]{p: &Pipe[T]{c: p.c, src: src}}, nil
	}

	p.c.setState(StateTerminated)
	p.c.log.Debug("pipe terminated", logger.Fields("hops", len(p.c.hops)))
	return Terminated[T]{p: p}, nil
}

// Via adds a hop from p's Source to a stage changing the item type to O and
// returns an open view positioned at the stage.
func Via[I, O any](p *Pipe[I], stage stream.Stage[I, O]) (*Pipe[O], error) {
	if err := link(p, stream.Sink[I](stage)); err != nil {
		return nil, err
	}
	return &Pipe[O]{c: p.c, src: stage}, nil
}

// Build creates a chain from src through stages to sink and returns it
// closed. The sink must be sink-only.
func Build[T any](src stream.Source[T], stages []stream.Duplex[T], sink stream.Sink[T], opts ...Option) (*Pipe[T], error) {
	p, err := New(src, opts...)
	if err != nil {
		return nil, err
	}
	for _, stage := range stages {
		a, err := p.Attach(stage)
		if err != nil {
			return nil, err
		}
		p = a.Pipe()
	}
	a, err := p.Attach(sink)
	if err != nil {
		return nil, err
	}
	if _, ok := a.(Terminated[T]); !ok {
		return nil, errors.PipeNotReady(p.c.name, "build")
	}
	return a.Pipe(), nil
}

// link records the hop (p.src, sink). The chain state is checked before the
// argument so a closed chain always reports PIPE_ALREADY_TERMINATED.
func link[T any](p *Pipe[T], sink stream.Sink[T]) error {
	c := p.c
	if c.State() != StateOpen {
		return c.misuse(nil, errors.PipeAlreadyTerminated(c.name))
	}
	if isNil(sink) {
		return c.misuse(nil, errors.NullArgument("sink"))
	}
	if p.extended {
		return c.misuse(nil, errors.PipeViewExtended(c.name, len(c.hops)))
	}

	p.extended = true
	c.hops = append(c.hops, &hop[T]{c: c, idx: len(c.hops), up: p.src, down: sink})
	return nil
}

// Start installs handlers on every hop and activates the chain. Calling it
// again, including after Stop, reinstalls fresh handlers.
func (p *Pipe[T]) Start() error { return p.c.start() }

// Stop removes the head Source's handlers so further head events are
// dropped. Sinks are not ended and no pause state changes. Stopping a
// stopped pipe is a no-op.
func (p *Pipe[T]) Stop() error { return p.c.stop() }

// OnError sets the handler receiving data path errors: WRITE_FAILED for
// sink write failures and SOURCE_FAILED for upstream errors. Without a
// handler such errors are logged. The pipe keeps running either way.
func (p *Pipe[T]) OnError(h func(error)) { p.c.onError = h }

// State returns the chain state.
func (p *Pipe[T]) State() State { return p.c.State() }

// ID returns the chain's unique identifier.
func (p *Pipe[T]) ID() string { return p.c.id }

// Name returns the chain name.
func (p *Pipe[T]) Name() string { return p.c.name }

// Source returns the Source this view is positioned at.
func (p *Pipe[T]) Source() stream.Source[T] { return p.src }

// Stats returns a snapshot of the chain. Safe to call from any goroutine
// once the chain is built.
func (p *Pipe[T]) Stats() Stats {
	c := p.c
	s := Stats{
		ID:    c.id,
		Name:  c.name,
		State: c.State(),
		Hops:  make([]HopStats, len(c.hops)),
	}
	for i, h := range c.hops {
		s.Hops[i] = h.stats()
	}
	return s
}

// isNil reports whether v is nil or an interface holding a nil pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
