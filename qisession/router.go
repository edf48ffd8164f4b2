// Package qisession implements the §4.7 router: it classifies every
// inbound message by address and sends control-plane traffic
// (service==0, object==0) to a qicontrol.ServerState while everything
// else goes to an application Handler. The two halves are independent
// state machines; Router.Ready reports readiness only once both agree
// they are ready.
package qisession

import (
	"context"

	"github.com/aldebaran/qimessaging/qicontrol"
	"github.com/aldebaran/qimessaging/qiendpoint"
	"github.com/aldebaran/qimessaging/qimessage"
)

// ReadinessChecker is implemented by application handlers that have
// their own notion of being ready to serve (e.g. a local service
// registry that must first be populated). Handlers that don't
// implement it are considered always ready.
type ReadinessChecker interface {
	Ready() bool
}

// Router implements qiendpoint.Handler by dispatching control-plane
// requests to control and everything else to app.
type Router struct {
	control *qicontrol.ServerState
	app     qiendpoint.Handler
}

// NewRouter builds a Router over an already-constructed control state
// and application handler. app may be nil until a service is
// registered; calls routed to it before then report UnhandledRequest.
func NewRouter(control *qicontrol.ServerState, app qiendpoint.Handler) *Router {
	return &Router{control: control, app: app}
}

// SetApp swaps the application handler, e.g. once a node finishes
// wiring its local service registry to this session.
func (r *Router) SetApp(app qiendpoint.Handler) { r.app = app }

// Ready reports whether both the control and application handlers are
// ready to serve traffic.
func (r *Router) Ready() bool {
	if !r.control.IsAuthenticated() {
		return false
	}
	if rc, ok := r.app.(ReadinessChecker); ok {
		return rc.Ready()
	}
	return r.app != nil
}

func (r *Router) HandleCall(ctx context.Context, addr qimessage.Address, payload []byte) ([]byte, *qiendpoint.HandlerError) {
	if qicontrol.IsControlAddress(addr) {
		switch addr.Action {
		case qicontrol.ActionAuthenticate:
			return r.control.HandleAuthenticate(ctx, payload)
		default:
			return nil, &qiendpoint.HandlerError{Description: (&UnhandledRequest{Address: addr}).Error()}
		}
	}

	if !r.control.IsAuthenticated() {
		return nil, qicontrol.RejectUnauthenticated(addr)
	}
	if r.app == nil {
		return nil, &qiendpoint.HandlerError{Description: (&UnhandledRequest{Address: addr}).Error()}
	}
	return r.app.HandleCall(ctx, addr, payload)
}

func (r *Router) HandleOneway(kind qimessage.Type, addr qimessage.Address, payload []byte) {
	if qicontrol.IsControlAddress(addr) {
		if kind == qimessage.TypeCapability && addr.Action == qicontrol.ActionUpdateCapabilities {
			r.control.HandleCapabilityUpdate(payload)
		}
		return
	}
	if r.app != nil {
		r.app.HandleOneway(kind, addr, payload)
	}
}
