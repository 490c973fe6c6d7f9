package component

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
)

// mockComponent implements Component for testing.
type mockComponent struct {
	name       string
	startErr   error
	stopErr    error
	health     Health
	startOrder *[]string
	stopOrder  *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.startOrder != nil {
		*m.startOrder = append(*m.startOrder, m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.stopOrder != nil {
		*m.stopOrder = append(*m.stopOrder, m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health {
	return m.health
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&mockComponent{name: "ingest"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	err := r.Register(&mockComponent{name: "ingest"})
	if err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{name: "ingest"})

	got := r.Get("ingest")
	if got == nil {
		t.Fatal("expected to get registered component")
	}
	if got.Name() != "ingest" {
		t.Errorf("expected 'ingest', got %q", got.Name())
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unregistered component")
	}
}

func TestStartAll(t *testing.T) {
	r := NewRegistry()
	order := []string{}

	r.Register(&mockComponent{name: "diagnostics", startOrder: &order})
	r.Register(&mockComponent{name: "ingest", startOrder: &order})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if len(order) != 2 || order[0] != "diagnostics" || order[1] != "ingest" {
		t.Errorf("expected start order [diagnostics, ingest], got %v", order)
	}

	// Already started components are skipped
	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("second StartAll failed: %v", err)
	}
	if len(order) != 2 {
		t.Errorf("expected no restarts, got %v", order)
	}
}

func TestStartAllError(t *testing.T) {
	r := NewRegistry()
	order := []string{}
	r.Register(&mockComponent{name: "ingest", startErr: fmt.Errorf("not ready"), startOrder: &order})
	r.Register(&mockComponent{name: "after", startOrder: &order})

	err := r.StartAll(context.Background())
	if err == nil {
		t.Fatal("expected error from StartAll")
	}
	if !strings.Contains(err.Error(), "failed to start ingest") {
		t.Errorf("unexpected error %q", err.Error())
	}
	if len(order) != 1 {
		t.Errorf("expected StartAll to stop at first failure, got %v", order)
	}
}

func TestStopAllReverseOrder(t *testing.T) {
	r := NewRegistry()
	order := []string{}

	r.Register(&mockComponent{name: "a", stopOrder: &order})
	r.Register(&mockComponent{name: "b", stopOrder: &order})
	r.Register(&mockComponent{name: "c", stopOrder: &order})

	r.StartAll(context.Background())
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(order) != 3 || order[0] != "c" || order[1] != "b" || order[2] != "a" {
		t.Errorf("expected reverse stop order [c, b, a], got %v", order)
	}
}

func TestStopAllSkipsUnstarted(t *testing.T) {
	r := NewRegistry()
	order := []string{}
	r.Register(&mockComponent{name: "ingest", stopOrder: &order})

	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(order) != 0 {
		t.Errorf("expected 0 stops for unstarted components, got %d", len(order))
	}
}

func TestStopAllAggregatesErrors(t *testing.T) {
	r := NewRegistry()
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	r.Register(&mockComponent{name: "a", stopErr: errA})
	r.Register(&mockComponent{name: "b", stopErr: errB})
	r.Register(&mockComponent{name: "c"})
	r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil {
		t.Fatal("expected error from StopAll")
	}
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("expected *multierror.Error, got %T", err)
	}
	if len(merr.Errors) != 2 {
		t.Errorf("expected 2 errors, got %d", len(merr.Errors))
	}
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Error("expected both causes to be reachable with errors.Is")
	}
}

func TestHealthAll(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{name: "a", health: Health{Name: "a", Status: StatusHealthy}})
	r.Register(&mockComponent{name: "b", health: Health{Name: "b", Status: StatusDegraded, Message: "stopped"}})

	results := r.HealthAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 health results, got %d", len(results))
	}
	if results[1].Status != StatusDegraded || results[1].Message != "stopped" {
		t.Errorf("unexpected health %+v", results[1])
	}
	if len(r.All()) != 2 {
		t.Errorf("expected 2 components, got %d", len(r.All()))
	}
}
