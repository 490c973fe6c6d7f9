package pipe

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/kbukum/flowpipe/errors"
	"github.com/kbukum/flowpipe/logger"
	"github.com/kbukum/flowpipe/observability"
)

// runner is a hop with its item type erased so one chain can hold hops of
// different types.
type runner interface {
	activate(gen uint64)
	detach()
	stats() HopStats
}

// chain is the state shared by every view of one pipe.
type chain struct {
	id      string
	name    string
	ctx     context.Context
	log     *logger.Logger
	metrics *observability.PipeMetrics
	tracer  trace.Tracer

	state   atomic.Int32
	hops    []runner
	gen     uint64
	onError func(error)
}

func newChain(opts []Option) *chain {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.NewString()
	if o.name == "" {
		o.name = "pipe-" + id[:8]
	}
	if o.ctx == nil {
		o.ctx = context.Background()
	}
	if o.log == nil {
		o.log = logger.Get("pipe")
	}
	if o.tracer == nil {
		o.tracer = noop.NewTracerProvider().Tracer("")
	}

	c := &chain{
		id:      id,
		name:    o.name,
		ctx:     o.ctx,
		metrics: o.metrics,
		tracer:  o.tracer,
		log: o.log.WithFields(logger.Fields(
			logger.FieldPipe, o.name,
			logger.FieldPipeID, id,
		)),
	}
	c.state.Store(int32(StateOpen))
	return c
}

func (c *chain) State() State { return State(c.state.Load()) }

func (c *chain) setState(s State) { c.state.Store(int32(s)) }

// live reports whether handlers installed for gen are still current.
func (c *chain) live(gen uint64) bool { return gen == c.gen }

// report delivers a data path error to the error handler, or logs it when
// nobody is listening.
func (c *chain) report(err error) {
	if c.onError != nil {
		c.onError(err)
		return
	}
	fields := logger.Fields(logger.FieldError, err.Error())
	if appErr, ok := errors.AsAppError(err); ok {
		fields[logger.FieldCode] = string(appErr.Code)
		if idx, ok := appErr.Details["hop"]; ok {
			fields[logger.FieldHop] = idx
		}
	}
	c.log.Error("unobserved pipe error", fields)
}

func (c *chain) start() error {
	_, span := c.tracer.Start(c.ctx, observability.SpanPipeStart, c.spanAttrs())
	defer span.End()

	prev := c.State()
	if !prev.built() {
		return c.misuse(span, errors.PipeNotReady(c.name, "start"))
	}

	// Handlers from earlier starts see a stale generation and do nothing.
	c.gen++
	for i := len(c.hops) - 1; i >= 0; i-- {
		c.hops[i].activate(c.gen)
	}
	c.setState(StateActive)

	if prev != StateActive {
		c.metrics.RecordActive(c.ctx, c.name, 1)
	}
	c.log.Debug("pipe started", logger.Fields(
		logger.FieldState, StateActive.String(),
		"previous", prev.String(),
		"hops", len(c.hops),
	))
	return nil
}

func (c *chain) stop() error {
	_, span := c.tracer.Start(c.ctx, observability.SpanPipeStop, c.spanAttrs())
	defer span.End()

	prev := c.State()
	if !prev.built() {
		return c.misuse(span, errors.PipeNotReady(c.name, "stop"))
	}
	if prev == StateStopped {
		return nil
	}

	c.hops[0].detach()
	c.setState(StateStopped)

	if prev == StateActive {
		c.metrics.RecordActive(c.ctx, c.name, -1)
	}
	c.log.Debug("pipe stopped", logger.Fields(
		logger.FieldState, StateStopped.String(),
		"previous", prev.String(),
	))
	return nil
}

// misuse logs a structural error and returns it. span may be nil.
func (c *chain) misuse(span trace.Span, err *errors.AppError) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(err.Code))
	}
	c.log.Warn("pipe misuse", logger.Fields(
		logger.FieldCode, string(err.Code),
		logger.FieldState, c.State().String(),
	))
	return err
}

func (c *chain) spanAttrs() trace.SpanStartOption {
	return trace.WithAttributes(
		attribute.String(observability.AttrPipeName, c.name),
		attribute.String(observability.AttrPipeID, c.id),
		attribute.Int(observability.AttrHops, len(c.hops)),
		attribute.String(observability.AttrState, c.State().String()),
	)
}
