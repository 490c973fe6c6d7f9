package main

import (
	"context"
	"time"

	"github.com/kbukum/flowpipe/logger"
	"github.com/kbukum/flowpipe/pipe"
	"github.com/kbukum/flowpipe/stream"
)

// feeder is the single goroutine driving the pipe. It emits items into the
// head and takes them from the tail buffer on every tick, so all callbacks
// run on its goroutine.
type feeder struct {
	cfg  FeederConfig
	src  *stream.Emitter[int]
	sink *stream.Buffer[string]
	pipe *pipe.Pipe[int]
	log  *logger.Logger

	next     int
	consumed int
}

// run ticks until every item has been consumed or ctx is cancelled.
func (f *feeder) run(ctx context.Context) error {
	ticker := time.NewTicker(f.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			f.log.Info("feeder interrupted", logger.Fields("emitted", f.next, "consumed", f.consumed))
			return nil
		case <-ticker.C:
		}
		if f.step() {
			stats := f.pipe.Stats()
			f.log.Info("all items delivered", logger.Fields(
				"consumed", f.consumed,
				"delivered", stats.Delivered(),
				"pauses", stats.Hops[0].Pauses,
			))
			return nil
		}
	}
}

// step emits one batch, consumes one batch and reports whether the stream
// has been fully consumed.
func (f *feeder) step() bool {
	for i := 0; i < f.cfg.EmitBatch && f.next < f.cfg.Items; i++ {
		f.src.Emit(f.next)
		f.next++
	}
	if f.next == f.cfg.Items {
		f.src.End()
	}

	for _, item := range f.sink.Take(f.cfg.ConsumeBatch) {
		f.consumed++
		f.log.Debug("item consumed", logger.Fields("item", item))
	}
	if f.src.Paused() {
		f.log.Debug("head paused", logger.Fields("queued", f.src.Queued()))
	}
	return f.sink.Ended() && f.sink.Len() == 0
}
