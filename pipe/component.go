package pipe

import (
	"context"

	"github.com/kbukum/flowpipe/component"
)

// Lifecycle is the type-independent surface of a pipe.
type Lifecycle interface {
	Name() string
	Start() error
	Stop() error
	State() State
	Stats() Stats
}

// AsComponent adapts a built pipe to component.Component so it can be
// started and stopped by a component.Registry.
func AsComponent(l Lifecycle) component.Component {
	return &pipeComponent{l: l}
}

type pipeComponent struct {
	l Lifecycle
}

func (p *pipeComponent) Name() string { return p.l.Name() }

func (p *pipeComponent) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.l.Start()
}

func (p *pipeComponent) Stop(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.l.Stop()
}

func (p *pipeComponent) Health(_ context.Context) component.Health {
	h := component.Health{Name: p.l.Name()}
	switch s := p.l.State(); s {
	case StateActive:
		h.Status = component.StatusHealthy
	case StateStopped, StateTerminated:
		h.Status = component.StatusDegraded
		h.Message = "pipe " + s.String()
	default:
		h.Status = component.StatusUnhealthy
		h.Message = "pipe has no terminal stage"
	}
	return h
}
