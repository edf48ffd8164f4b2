package qinode

import (
	"context"

	"github.com/aldebaran/qimessaging/qiendpoint"
	"github.com/aldebaran/qimessaging/qimessage"
)

// Dispatcher is the application-layer qiendpoint.Handler a session's
// Router delegates non-control traffic to: it resolves addr.Service
// against a Registry and forwards the call or oneway to that service's
// object.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher wraps registry as an application Handler.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Ready reports whether at least one local service is registered,
// satisfying qisession.ReadinessChecker.
func (d *Dispatcher) Ready() bool {
	return len(d.registry.Names()) > 0
}

func (d *Dispatcher) HandleCall(ctx context.Context, addr qimessage.Address, payload []byte) ([]byte, *qiendpoint.HandlerError) {
	obj, ok := d.registry.LookupByID(addr.Service)
	if !ok {
		return nil, &qiendpoint.HandlerError{Description: (&noSuchService{addr}).Error()}
	}
	return obj.HandleCall(ctx, addr, payload)
}

func (d *Dispatcher) HandleOneway(kind qimessage.Type, addr qimessage.Address, payload []byte) {
	if obj, ok := d.registry.LookupByID(addr.Service); ok {
		obj.HandleOneway(kind, addr, payload)
	}
}

type noSuchService struct {
	addr qimessage.Address
}

func (e *noSuchService) Error() string {
	return "qinode: no such service for " + e.addr.String()
}
