package qinode

import (
	"sync"

	"github.com/aldebaran/qimessaging/qiendpoint"
)

// Registry is a node's local service table (§4.9): names map to the
// main object handling that service's application traffic. It is
// deliberately plain — the ServiceDirectory is registered into it like
// any other service, never privileged by Registry itself.
//
// Wire addresses carry a numeric service id (§4.7), so Registry also
// assigns each registered name a stable id (sequential, starting at 1;
// 0 is reserved for the control plane) and can resolve either
// direction.
type Registry struct {
	mu        sync.RWMutex
	services  map[string]qiendpoint.Handler
	idByName  map[string]uint32
	nameByID  map[uint32]string
	nextID    uint32
}

// NewRegistry returns an empty service registry.
func NewRegistry() *Registry {
	return &Registry{
		services: make(map[string]qiendpoint.Handler),
		idByName: make(map[string]uint32),
		nameByID: make(map[uint32]string),
		nextID:   1,
	}
}

// Register binds name to obj and assigns it a service id. It fails
// with ServiceExists if name is already bound.
func (r *Registry) Register(name string, obj qiendpoint.Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[name]; ok {
		return &ServiceExists{Name: name}
	}
	id := r.nextID
	r.nextID++
	r.services[name] = obj
	r.idByName[name] = id
	r.nameByID[id] = name
	return nil
}

// Unregister removes name, if present.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.idByName[name]
	if !ok {
		return
	}
	delete(r.services, name)
	delete(r.idByName, name)
	delete(r.nameByID, id)
}

// Lookup returns the object registered under name.
func (r *Registry) Lookup(name string) (qiendpoint.Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	obj, ok := r.services[name]
	return obj, ok
}

// LookupByID returns the object registered under the service id
// assigned to it at Register time.
func (r *Registry) LookupByID(id uint32) (qiendpoint.Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.nameByID[id]
	if !ok {
		return nil, false
	}
	obj, ok := r.services[name]
	return obj, ok
}

// IDOf returns the service id assigned to name.
func (r *Registry) IDOf(name string) (uint32, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.idByName[name]
	return id, ok
}

// Names returns the currently registered service names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.services))
	for n := range r.services {
		names = append(names, n)
	}
	return names
}
