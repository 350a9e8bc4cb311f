package memory

import (
	"sync"

	"github.com/guimilreu/quizz/internal/app"
)

// ConnectionRegistry is the in-memory implementation of
// app.ConnectionRegistry. It holds only the connection's back-reference
// to its room, never any room state.
type ConnectionRegistry struct {
	mu       sync.RWMutex
	bindings map[string]app.Binding
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		bindings: make(map[string]app.Binding),
	}
}

func (r *ConnectionRegistry) Bind(connID string, b app.Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[connID] = b
}

func (r *ConnectionRegistry) Lookup(connID string) (app.Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[connID]
	return b, ok
}

// Unbind removes the binding. Idempotent.
func (r *ConnectionRegistry) Unbind(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bindings, connID)
}
