package diagnostics

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kbukum/flowpipe/pipe"
)

// Inspectable is anything exposing pipe stats. *pipe.Pipe[T] satisfies it
// for every T.
type Inspectable interface {
	Name() string
	Stats() pipe.Stats
}

// Registry holds the pipes served by the diagnostics endpoints.
type Registry struct {
	mu    sync.RWMutex
	pipes map[string]Inspectable
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{pipes: make(map[string]Inspectable)}
}

// Add registers p under its name.
func (r *Registry) Add(p Inspectable) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.pipes[name]; exists {
		return fmt.Errorf("pipe %s already registered", name)
	}
	r.pipes[name] = p
	return nil
}

// Get returns the stats of the named pipe.
func (r *Registry) Get(name string) (pipe.Stats, bool) {
	r.mu.RLock()
	p, ok := r.pipes[name]
	r.mu.RUnlock()
	if !ok {
		return pipe.Stats{}, false
	}
	return p.Stats(), true
}

// List returns the stats of every pipe ordered by name.
func (r *Registry) List() []pipe.Stats {
	r.mu.RLock()
	names := make([]string, 0, len(r.pipes))
	for name := range r.pipes {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)

	out := make([]pipe.Stats, 0, len(names))
	for _, name := range names {
		if s, ok := r.Get(name); ok {
			out = append(out, s)
		}
	}
	return out
}
