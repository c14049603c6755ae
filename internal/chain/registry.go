package chain

import "fmt"

// Registry holds the configured chain set and resolves logical chain
// identifiers to clients. Enable/disable state is keyed by chain ID;
// chains without an entry are enabled.
type Registry struct {
	clients []Client
	enabled map[string]bool
}

// NewRegistry builds a registry over the given clients. The enabled map
// may be nil, in which case every chain starts enabled.
func NewRegistry(clients []Client, enabled map[string]bool) *Registry {
	if enabled == nil {
		enabled = make(map[string]bool)
	}
	return &Registry{clients: clients, enabled: enabled}
}

// All returns every registered client in registration order.
func (r *Registry) All() []Client {
	return r.clients
}

// Find resolves a chain ID to its client.
func (r *Registry) Find(id string) (Client, error) {
	for _, c := range r.clients {
		if c.Descriptor().ID() == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("there is no available chain with name %q", id)
}

// IsEnabled reports whether the chain with the given ID is enabled.
func (r *Registry) IsEnabled(id string) bool {
	state, ok := r.enabled[id]
	if !ok {
		return true
	}
	return state
}

// SetEnabled toggles one chain. The caller is responsible for persisting
// the resulting state.
func (r *Registry) SetEnabled(id string, state bool) {
	r.enabled[id] = state
}

// EnabledState returns the raw enable map for persistence.
func (r *Registry) EnabledState() map[string]bool {
	return r.enabled
}

// Enabled returns every enabled client.
func (r *Registry) Enabled() []Client {
	var out []Client
	for _, c := range r.clients {
		if r.IsEnabled(c.Descriptor().ID()) {
			out = append(out, c)
		}
	}
	return out
}

// OfFamily returns every client of one family.
func (r *Registry) OfFamily(f Family) []Client {
	var out []Client
	for _, c := range r.clients {
		if c.Descriptor().Family == f {
			out = append(out, c)
		}
	}
	return out
}

// EnabledOfFamily returns every enabled client of one family.
func (r *Registry) EnabledOfFamily(f Family) []Client {
	var out []Client
	for _, c := range r.OfFamily(f) {
		if r.IsEnabled(c.Descriptor().ID()) {
			out = append(out, c)
		}
	}
	return out
}
