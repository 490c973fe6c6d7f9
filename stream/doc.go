// Package stream defines the push-based Source and Sink capabilities a pipe
// connects, plus in-memory implementations of them.
//
// A Source emits items to a single data handler and can be paused and
// resumed. A Sink accepts items, reports when its buffer is saturated and
// notifies through its drain handler once it has room again. A Stage is both
// at once and sits in the middle of a chain.
//
// Every handler slot holds one callback. Registering a handler replaces the
// previous one; registering nil clears it.
//
// # Concurrency
//
// Implementations in this package are not safe for concurrent use. Callbacks
// run synchronously on the goroutine that triggered them, so one goroutine
// (an event loop) must own a given chain of streams.
//
// # Adapters
//
//   - Emitter: a Source fed by Emit, queueing while paused
//   - Buffer: a Sink with a high-water mark, drained by Take or Clear
//   - Transform: a Stage applying Map or Filter
//   - IteratorSource: a Source pumping a pull-based Iterator
package stream
