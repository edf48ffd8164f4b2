package qicontrol

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aldebaran/qimessaging/qicapability"
	"github.com/aldebaran/qimessaging/qimessage"
	"github.com/aldebaran/qimessaging/qivalue"
)

func fullLocalCapabilities() *qicapability.Map {
	m := qicapability.New()
	m.SetBool(qicapability.KeyClientServerSocket, true)
	m.SetBool(qicapability.KeyMetaObjectCache, false)
	m.SetBool(qicapability.KeyMessageFlags, true)
	m.SetBool(qicapability.KeyRemoteCancelableCalls, true)
	m.SetBool(qicapability.KeyObjectPtrUID, true)
	m.SetBool(qicapability.KeyRelativeEndpointURI, true)
	return m
}

// loopbackCall wires a CallFunc straight to a ServerState's
// HandleAuthenticate, so the client/server handshake halves can be
// exercised together without a live qiendpoint connection.
func loopbackCall(server *ServerState) CallFunc {
	return func(ctx context.Context, addr qimessage.Address, payload []byte) ([]byte, error) {
		replyPayload, herr := server.HandleAuthenticate(ctx, payload)
		if herr != nil {
			return nil, herr
		}
		return replyPayload, nil
	}
}

func TestHandshakeSucceedsWhenAllRequiredTrue(t *testing.T) {
	server := NewServerState(fullLocalCapabilities(), AllowAny)
	clientLocal := fullLocalCapabilities()

	negotiated, err := ClientHandshake(context.Background(), loopbackCall(server), clientLocal)
	if err != nil {
		t.Fatalf("ClientHandshake: %v", err)
	}

	v, ok := negotiated.GetBool(qicapability.KeyRelativeEndpointURI)
	if !ok || !v {
		t.Fatalf("expected RelativeEndpointURI=true in negotiated set, got (%v,%v)", v, ok)
	}
	if !server.IsAuthenticated() {
		t.Fatal("server should be authenticated")
	}
}

func TestHandshakeRejectsRelativeEndpointURIFalse(t *testing.T) {
	server := NewServerState(fullLocalCapabilities(), AllowAny)

	clientLocal := fullLocalCapabilities()
	clientLocal.SetBool(qicapability.KeyRelativeEndpointURI, false)

	_, err := ClientHandshake(context.Background(), loopbackCall(server), clientLocal)
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	refused, ok := err.(*AuthRefused)
	if !ok {
		t.Fatalf("unexpected error type %T: %v", err, err)
	}
	if !strings.Contains(refused.Reason, "unexpected capability value") {
		t.Fatalf("unexpected reason: %q", refused.Reason)
	}
	if server.IsAuthenticated() {
		t.Fatal("server should not be authenticated")
	}
}

func TestHandshakeRunsAuthenticator(t *testing.T) {
	var gotParams *qicapability.Map
	authenticator := func(params *qicapability.Map) error {
		gotParams = params
		v, _ := params.Get("token")
		if v.S != "secret" {
			return errors.New("bad token")
		}
		return nil
	}

	server := NewServerState(fullLocalCapabilities(), authenticator)

	clientLocal := fullLocalCapabilities()
	clientLocal.Set("auth_token", qivalue.String("secret"))

	if _, err := ClientHandshake(context.Background(), loopbackCall(server), clientLocal); err != nil {
		t.Fatalf("ClientHandshake: %v", err)
	}
	if gotParams == nil {
		t.Fatal("authenticator never invoked")
	}
	if v, ok := gotParams.Get("token"); !ok || v.S != "secret" {
		t.Fatalf("auth_ prefix not stripped: %+v", v)
	}
}

func TestHandshakeRejectsMissingAuthState(t *testing.T) {
	server := NewServerState(fullLocalCapabilities(), AllowAny)
	clientLocal := fullLocalCapabilities()

	call := func(ctx context.Context, addr qimessage.Address, payload []byte) ([]byte, error) {
		replyPayload, herr := server.HandleAuthenticate(ctx, payload)
		if herr != nil {
			return nil, herr
		}
		decoded, err := qicapability.Decode(replyPayload)
		if err != nil {
			return nil, err
		}
		reply := qicapability.New()
		for _, k := range decoded.Keys() {
			if k == qicapability.KeyAuthState {
				continue
			}
			v, _ := decoded.Get(k)
			reply.Set(k, v)
		}
		return qicapability.Encode(reply)
	}

	_, err := ClientHandshake(context.Background(), call, clientLocal)
	if err != ErrNoAuthState {
		t.Fatalf("expected ErrNoAuthState, got %v", err)
	}
}

func TestCapabilityUpdateIntersectsNegotiated(t *testing.T) {
	server := NewServerState(fullLocalCapabilities(), AllowAny)
	clientLocal := fullLocalCapabilities()

	if _, err := ClientHandshake(context.Background(), loopbackCall(server), clientLocal); err != nil {
		t.Fatalf("ClientHandshake: %v", err)
	}

	update := qicapability.New()
	update.SetBool(qicapability.KeyMessageFlags, false)
	updatePayload, err := qicapability.Encode(update)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if err := server.HandleCapabilityUpdate(updatePayload); err != nil {
		t.Fatalf("HandleCapabilityUpdate: %v", err)
	}

	v, ok := server.Negotiated().GetBool(qicapability.KeyMessageFlags)
	if !ok || v {
		t.Fatalf("expected MessageFlags to become false after update, got (%v,%v)", v, ok)
	}
}
