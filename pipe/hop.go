package pipe

import (
	"sync/atomic"

	"github.com/kbukum/flowpipe/errors"
	"github.com/kbukum/flowpipe/stream"
)

// hop is one (upstream, sink) pair and its backpressure state.
type hop[T any] struct {
	c    *chain
	idx  int
	up   stream.Source[T]
	down stream.Sink[T]

	drainArmed bool
	paused     atomic.Bool

	written     atomic.Int64
	writeErrors atomic.Int64
	pauses      atomic.Int64
	resumes     atomic.Int64
	ends        atomic.Int64
}

// activate installs fresh handlers on the upstream, superseding any
// installed by an earlier start.
func (h *hop[T]) activate(gen uint64) {
	ended := false

	h.up.OnData(func(item T) {
		if !h.c.live(gen) {
			return
		}
		h.write(item)
	})
	h.up.OnEnd(func() {
		if !h.c.live(gen) || ended {
			return
		}
		ended = true
		h.ends.Add(1)
		h.c.metrics.RecordEnd(h.c.ctx, h.c.name, h.idx)
		h.down.End()
	})
	h.up.OnError(func(err error) {
		if !h.c.live(gen) {
			return
		}
		h.c.report(errors.SourceFailed(h.c.name, h.idx, err))
	})
}

// detach clears the upstream's handlers so its events are dropped.
func (h *hop[T]) detach() {
	h.up.OnData(nil)
	h.up.OnEnd(nil)
	h.up.OnError(nil)
}

func (h *hop[T]) write(item T) {
	if err := h.down.Write(item); err != nil {
		h.writeErrors.Add(1)
		h.c.metrics.RecordWriteError(h.c.ctx, h.c.name, h.idx)
		h.c.report(errors.WriteFailed(h.c.name, h.idx, err))
	} else {
		h.written.Add(1)
		h.c.metrics.RecordWrite(h.c.ctx, h.c.name, h.idx)
	}

	if !h.down.IsFull() {
		return
	}
	if !h.drainArmed {
		h.drainArmed = true
		h.down.OnDrain(h.drained)
	}
	if h.paused.CompareAndSwap(false, true) {
		h.pauses.Add(1)
		h.c.metrics.RecordPause(h.c.ctx, h.c.name, h.idx)
	}
	h.up.Pause()
}

func (h *hop[T]) drained() {
	if h.paused.CompareAndSwap(true, false) {
		h.resumes.Add(1)
		h.c.metrics.RecordResume(h.c.ctx, h.c.name, h.idx)
	}
	h.up.Resume()
}

func (h *hop[T]) stats() HopStats {
	return HopStats{
		Index:       h.idx,
		Paused:      h.paused.Load(),
		Written:     h.written.Load(),
		WriteErrors: h.writeErrors.Load(),
		Pauses:      h.pauses.Load(),
		Resumes:     h.resumes.Load(),
		Ends:        h.ends.Load(),
	}
}
