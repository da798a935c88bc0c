package form

import "sync"

// Registry is the in-memory template catalog shared by the authoring and
// fill boundaries. Fill sessions take a snapshot pointer; authoring swaps
// whole templates in, so a pinned pointer stays internally consistent for
// the lifetime of a session.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]*Template)}
}

// Get returns the template with the given id, or nil.
func (r *Registry) Get(id string) *Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.templates[id]
}

// GetPublished returns the template only if it is published.
func (r *Registry) GetPublished(id string) *Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t := r.templates[id]
	if t == nil || !t.Published {
		return nil
	}
	return t
}

// ByOwner returns all templates belonging to an owner.
func (r *Registry) ByOwner(ownerID string) []*Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Template
	for _, t := range r.templates {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out
}

// Upsert inserts or replaces a single template.
func (r *Registry) Upsert(t *Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[t.ID] = t
}

// Remove deletes a template from the registry.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.templates, id)
}

// Load replaces all templates. Called during startup.
func (r *Registry) Load(templates []*Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates = make(map[string]*Template, len(templates))
	for _, t := range templates {
		r.templates[t.ID] = t
	}
}
