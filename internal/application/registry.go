package application

import (
	"sync"

	"github.com/bnema/camrelay/internal/domain"
)

// Registry holds the single client the operator is currently driving.
// Selecting a client silently replaces the previous one.
type Registry struct {
	mu      sync.RWMutex
	current domain.ClientIdentity
	active  bool
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Select(client domain.ClientIdentity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = client
	r.active = true
}

func (r *Registry) Current() (domain.ClientIdentity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.current, r.active
}

func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = domain.ClientIdentity{}
	r.active = false
}

// ClearIf clears the registry only while it still points at client.
func (r *Registry) ClearIf(client domain.ClientIdentity) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active || r.current != client {
		return false
	}

	r.current = domain.ClientIdentity{}
	r.active = false
	return true
}
