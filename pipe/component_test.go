package pipe

import (
	"context"
	"testing"

	"github.com/kbukum/flowpipe/component"
	"github.com/kbukum/flowpipe/logger"
	"github.com/kbukum/flowpipe/stream"
)

func TestAsComponent(t *testing.T) {
	src := stream.NewEmitter[int]()
	buf := newBuffer[int](t, 4)
	p, err := Build[int](src, nil, buf, WithName("ingest"), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	c := AsComponent(p)
	ctx := context.Background()

	if c.Name() != "ingest" {
		t.Errorf("expected name ingest, got %s", c.Name())
	}
	if h := c.Health(ctx); h.Status != component.StatusDegraded {
		t.Errorf("expected degraded before start, got %s", h.Status)
	}

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s", h.Status)
	}

	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	h := c.Health(ctx)
	if h.Status != component.StatusDegraded || h.Message != "pipe stopped" {
		t.Errorf("expected degraded stopped pipe, got %+v", h)
	}
}

func TestAsComponentOpenPipe(t *testing.T) {
	p, _ := New[int](stream.NewEmitter[int](), WithLogger(logger.Nop()))
	c := AsComponent(p)

	if h := c.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy, got %s", h.Status)
	}
	if err := c.Start(context.Background()); err == nil {
		t.Error("expected error starting an open pipe")
	}
}

func TestAsComponentCancelledContext(t *testing.T) {
	_, _, p := build(t, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := AsComponent(p).Stop(ctx); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if p.State() != StateActive {
		t.Errorf("expected pipe untouched, got %s", p.State())
	}
}

func TestRegistryRunsPipes(t *testing.T) {
	reg := component.NewRegistry()
	_, _, a := build(t, 4, WithName("a"))
	_, _, b := build(t, 4, WithName("b"))
	a.Stop()
	b.Stop()

	reg.Register(AsComponent(a))
	reg.Register(AsComponent(b))
	if err := reg.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if a.State() != StateActive || b.State() != StateActive {
		t.Fatal("expected both pipes active")
	}
	if err := reg.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if a.State() != StateStopped || b.State() != StateStopped {
		t.Error("expected both pipes stopped")
	}
}
