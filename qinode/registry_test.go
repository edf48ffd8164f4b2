package qinode

import (
	"context"
	"testing"

	"github.com/aldebaran/qimessaging/qiendpoint"
	"github.com/aldebaran/qimessaging/qimessage"
)

func echoObject(reply string) qiendpoint.Handler {
	return qiendpoint.HandlerFuncs{
		OnCall: func(ctx context.Context, addr qimessage.Address, payload []byte) ([]byte, *qiendpoint.HandlerError) {
			return []byte(reply), nil
		},
	}
}

func TestRegistryRejectsDuplicateName(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("Calculator", echoObject("a")); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	err := r.Register("Calculator", echoObject("b"))
	if err == nil {
		t.Fatal("expected ServiceExists on duplicate name")
	}
	if _, ok := err.(*ServiceExists); !ok {
		t.Fatalf("unexpected error type %T", err)
	}
}

func TestRegistryResolvesIDs(t *testing.T) {
	r := NewRegistry()
	r.Register("A", echoObject("a"))
	r.Register("B", echoObject("b"))

	idA, ok := r.IDOf("A")
	if !ok {
		t.Fatal("expected A to have an id")
	}
	obj, ok := r.LookupByID(idA)
	if !ok {
		t.Fatal("expected lookup by id to find A")
	}
	payload, herr := obj.HandleCall(context.Background(), qimessage.Address{}, nil)
	if herr != nil {
		t.Fatalf("HandleCall: %v", herr)
	}
	if string(payload) != "a" {
		t.Fatalf("unexpected payload: %q", payload)
	}
}

func TestDispatcherRoutesByServiceID(t *testing.T) {
	r := NewRegistry()
	r.Register("Calculator", echoObject("42"))
	id, _ := r.IDOf("Calculator")

	d := NewDispatcher(r)
	if !d.Ready() {
		t.Fatal("dispatcher should be ready once a service is registered")
	}

	payload, herr := d.HandleCall(context.Background(), qimessage.Address{Service: id}, nil)
	if herr != nil {
		t.Fatalf("HandleCall: %v", herr)
	}
	if string(payload) != "42" {
		t.Fatalf("unexpected payload: %q", payload)
	}

	_, herr = d.HandleCall(context.Background(), qimessage.Address{Service: id + 100}, nil)
	if herr == nil {
		t.Fatal("expected error for unknown service id")
	}
}
