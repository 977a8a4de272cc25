package resilience

import (
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// DependencyHealth is the health snapshot of one guarded dependency.
type DependencyHealth struct {
	Name          string
	CircuitState  gobreaker.State
	Counts        gobreaker.Counts
	LastSuccessAt *time.Time
	LastFailureAt *time.Time
	LastError     string
}

// IsHealthy returns true if the circuit is closed.
func (h *DependencyHealth) IsHealthy() bool {
	return h.CircuitState == gobreaker.StateClosed
}

// IsDegraded returns true if the circuit is half-open.
func (h *DependencyHealth) IsDegraded() bool {
	return h.CircuitState == gobreaker.StateHalfOpen
}

// IsUnhealthy returns true if the circuit is open.
func (h *DependencyHealth) IsUnhealthy() bool {
	return h.CircuitState == gobreaker.StateOpen
}

// Registry tracks guarded dependencies for the status endpoint.
type Registry struct {
	mu     sync.RWMutex
	guards map[string]*registeredGuard
}

type registeredGuard struct {
	guard         *Guard
	lastSuccessAt *time.Time
	lastFailureAt *time.Time
	lastError     string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		guards: make(map[string]*registeredGuard),
	}
}

// Register adds a guard under name, replacing any previous entry.
func (r *Registry) Register(name string, g *Guard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guards[name] = &registeredGuard{guard: g}
}

// RecordSuccess records a successful call.
func (r *Registry) RecordSuccess(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.guards[name]; ok {
		now := time.Now()
		g.lastSuccessAt = &now
	}
}

// RecordFailure records a failed call.
func (r *Registry) RecordFailure(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.guards[name]; ok {
		now := time.Now()
		g.lastFailureAt = &now
		if err != nil {
			g.lastError = err.Error()
		}
	}
}

// Health returns the health of one dependency, or nil if it is unknown.
func (r *Registry) Health(name string) *DependencyHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.guards[name]
	if !ok {
		return nil
	}
	return g.health(name)
}

// AllHealth returns the health of every dependency ordered by name.
func (r *Registry) AllHealth() []*DependencyHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	health := make([]*DependencyHealth, 0, len(r.guards))
	for name, g := range r.guards {
		health = append(health, g.health(name))
	}
	sort.Slice(health, func(i, j int) bool { return health[i].Name < health[j].Name })
	return health
}

func (g *registeredGuard) health(name string) *DependencyHealth {
	return &DependencyHealth{
		Name:          name,
		CircuitState:  g.guard.State(),
		Counts:        g.guard.Counts(),
		LastSuccessAt: g.lastSuccessAt,
		LastFailureAt: g.lastFailureAt,
		LastError:     g.lastError,
	}
}
