package stream

import (
	"github.com/kbukum/flowpipe/errors"
	"github.com/kbukum/flowpipe/validation"
)

// DefaultHighWaterMark is used by stages created with a non-positive mark.
const DefaultHighWaterMark = 16

// BufferConfig configures a Buffer.
type BufferConfig struct {
	// HighWaterMark is the item count at which the buffer reports full.
	HighWaterMark int `yaml:"high_water_mark" mapstructure:"high_water_mark" validate:"min=1"`
	// MaxSize is an absolute ceiling; writes beyond it fail. Zero disables it.
	MaxSize int `yaml:"max_size" mapstructure:"max_size" validate:"omitempty,gtefield=HighWaterMark"`
}

// Buffer is an in-memory Sink holding written items until they are taken.
type Buffer[T any] struct {
	cfg   BufferConfig
	items []T
	drain func()

	ended    bool
	endCalls int
	writes   int
}

// NewBuffer creates an empty Buffer.
func NewBuffer[T any](cfg BufferConfig) (*Buffer[T], error) {
	if err := validation.Validate(cfg); err != nil {
		return nil, err
	}
	return &Buffer[T]{cfg: cfg}, nil
}

// Write appends item. Writing while already full is allowed up to MaxSize.
func (b *Buffer[T]) Write(item T) error {
	if b.ended {
		return errors.StreamEnded()
	}
	if b.cfg.MaxSize > 0 && len(b.items) >= b.cfg.MaxSize {
		return errors.BufferOverflow(b.cfg.MaxSize)
	}
	b.items = append(b.items, item)
	b.writes++
	return nil
}

func (b *Buffer[T]) IsFull() bool { return len(b.items) >= b.cfg.HighWaterMark }

func (b *Buffer[T]) OnDrain(h func()) { b.drain = h }

// End marks the buffer ended. Later writes fail with STREAM_ENDED.
func (b *Buffer[T]) End() {
	b.endCalls++
	b.ended = true
}

// Take removes and returns up to n items from the front. If the buffer goes
// from full to below its high-water mark the drain handler fires.
func (b *Buffer[T]) Take(n int) []T {
	if n <= 0 || len(b.items) == 0 {
		return nil
	}
	if n > len(b.items) {
		n = len(b.items)
	}
	wasFull := b.IsFull()

	out := make([]T, n)
	copy(out, b.items[:n])
	b.items = append(b.items[:0], b.items[n:]...)

	if wasFull && !b.IsFull() && b.drain != nil {
		b.drain()
	}
	return out
}

// Clear takes every buffered item.
func (b *Buffer[T]) Clear() []T { return b.Take(len(b.items)) }

// Items returns a copy of the buffered items.
func (b *Buffer[T]) Items() []T {
	out := make([]T, len(b.items))
	copy(out, b.items)
	return out
}

func (b *Buffer[T]) Len() int      { return len(b.items) }
func (b *Buffer[T]) Ended() bool   { return b.ended }
func (b *Buffer[T]) EndCount() int { return b.endCalls }

// Written returns the number of accepted writes over the buffer's lifetime.
func (b *Buffer[T]) Written() int { return b.writes }
