package qinode

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/aldebaran/qimessaging/qicapability"
	"github.com/aldebaran/qimessaging/qicontrol"
	"github.com/aldebaran/qimessaging/qimessage"
)

func fullCaps() *qicapability.Map {
	m := qicapability.New()
	m.SetBool(qicapability.KeyClientServerSocket, true)
	m.SetBool(qicapability.KeyMetaObjectCache, false)
	m.SetBool(qicapability.KeyMessageFlags, true)
	m.SetBool(qicapability.KeyRemoteCancelableCalls, true)
	m.SetBool(qicapability.KeyObjectPtrUID, true)
	m.SetBool(qicapability.KeyRelativeEndpointURI, true)
	return m
}

func TestCacheDialsHandshakesAndDispatches(t *testing.T) {
	node := NewNode(fullCaps(), qicontrol.AllowAny)
	node.Registry.Register("Calculator", echoObject("42"))
	id, _ := node.Registry.IDOf("Calculator")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	node.Listen(ln)
	defer node.Close()

	target := fmt.Sprintf("tcp://%s", ln.Addr().String())

	cache := NewCache()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	sess, err := cache.Get(ctx, "Calculator", []string{target}, fullCaps(), nil, nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v, ok := sess.Negotiated.GetBool(qicapability.KeyClientServerSocket); !ok || !v {
		t.Fatal("expected negotiated ClientServerSocket=true")
	}

	payload, err := sess.Call(ctx, qimessage.Address{Service: id}, nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if string(payload) != "42" {
		t.Fatalf("unexpected payload: %q", payload)
	}

	again, err := cache.Get(ctx, "Calculator", []string{target}, fullCaps(), nil, nil)
	if err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if again != sess {
		t.Fatal("expected cached session to be reused")
	}
}

func TestCacheReturnsUnreachableServiceWhenAllTargetsFail(t *testing.T) {
	cache := NewCache()
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	_, err := cache.Get(ctx, "Nope", []string{"tcp://127.0.0.1:1"}, fullCaps(), nil, nil)
	if err == nil {
		t.Fatal("expected UnreachableService")
	}
	if _, ok := err.(*UnreachableService); !ok {
		t.Fatalf("unexpected error type %T: %v", err, err)
	}
}
