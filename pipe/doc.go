// Package pipe connects a stream.Source to a chain of stream.Sinks and keeps
// production in step with consumption.
//
// A chain is built with Attach (and Via for stages that change the item
// type) and closed by the first sink-only stage. Once closed it can be
// started and stopped any number of times:
//
//	p, _ := pipe.New[int](src, pipe.WithName("ingest"))
//	a, _ := p.Attach(transform) // pipe.Extendable[int]
//	a, _ = a.Pipe().Attach(buf) // pipe.Terminated[int]
//	_ = a.Pipe().Start()
//
// # Backpressure
//
// Every adjacent (upstream, sink) pair is a hop. After each write the hop
// checks the sink; if it is full the upstream is paused, and the sink's
// drain handler resumes it. Hops are independent: saturation travels
// backwards one hop at a time through the stages' own pause state.
//
// # Threading
//
// A pipe takes no locks. All Source and Sink callbacks for one chain must
// run on a single goroutine. Stats is the exception and may be read from
// anywhere.
package pipe
