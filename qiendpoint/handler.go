package qiendpoint

import (
	"context"

	"github.com/aldebaran/qimessaging/qimessage"
)

// HandlerError is how a Handler reports a Call failure. IsCanceled
// produces a Canceled reply instead of an Error; IsFatal additionally
// tears the endpoint down after the reply is sent.
type HandlerError struct {
	Description string
	IsCanceled  bool
	IsFatal     bool
}

func (e *HandlerError) Error() string { return e.Description }

// Handler is the server side of an Endpoint: it answers Calls and
// observes oneway traffic (Post, Event, Capability updates). ctx is
// canceled if the peer sends a Cancel for this call's id.
type Handler interface {
	HandleCall(ctx context.Context, addr qimessage.Address, payload []byte) ([]byte, *HandlerError)
	HandleOneway(kind qimessage.Type, addr qimessage.Address, payload []byte)
}

// HandlerFuncs is a Handler built from plain functions, for callers that
// don't want to define a type. A nil OnOneway is a no-op.
type HandlerFuncs struct {
	OnCall   func(ctx context.Context, addr qimessage.Address, payload []byte) ([]byte, *HandlerError)
	OnOneway func(kind qimessage.Type, addr qimessage.Address, payload []byte)
}

func (h HandlerFuncs) HandleCall(ctx context.Context, addr qimessage.Address, payload []byte) ([]byte, *HandlerError) {
	if h.OnCall == nil {
		return nil, &HandlerError{Description: "qiendpoint: no handler for call"}
	}
	return h.OnCall(ctx, addr, payload)
}

func (h HandlerFuncs) HandleOneway(kind qimessage.Type, addr qimessage.Address, payload []byte) {
	if h.OnOneway != nil {
		h.OnOneway(kind, addr, payload)
	}
}
