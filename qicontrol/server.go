package qicontrol

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aldebaran/qimessaging/qicapability"
	"github.com/aldebaran/qimessaging/qiendpoint"
	"github.com/aldebaran/qimessaging/qimessage"
	"github.com/aldebaran/qimessaging/qivalue"
)

// AuthPrefix is the key prefix reserved for user-authentication
// parameters within a capability map (§4.6).
const AuthPrefix = "auth_"

// Authenticator validates the auth_*-prefixed parameters of an
// Authenticate request. Returning a non-nil error refuses the session;
// the error's message becomes the Error reply's description.
type Authenticator func(authParams *qicapability.Map) error

// AllowAny is an Authenticator that accepts every request unauthenticated.
func AllowAny(*qicapability.Map) error { return nil }

// AuthParams extracts the auth_*-prefixed entries of m into their own
// Map, with the prefix stripped.
func AuthParams(m *qicapability.Map) *qicapability.Map {
	out := qicapability.New()
	for _, k := range m.Keys() {
		if strings.HasPrefix(k, AuthPrefix) {
			v, _ := m.Get(k)
			out.Set(strings.TrimPrefix(k, AuthPrefix), v)
		}
	}
	return out
}

// ServerState runs the server side of §4.6 against a single endpoint.
// It implements enough of qiendpoint.Handler's call surface to be
// embedded by a Router: HandleAuthenticate is the Authenticate action's
// logic, and IsAuthenticated/Negotiated report session state once a
// client succeeds.
type ServerState struct {
	local         *qicapability.Map
	authenticator Authenticator

	mu            sync.Mutex
	authenticated bool
	negotiated    *qicapability.Map
}

// NewServerState builds server-side handshake state advertising local
// and validating auth parameters with authenticator (use AllowAny for
// no authentication beyond the core capability checks).
func NewServerState(local *qicapability.Map, authenticator Authenticator) *ServerState {
	if authenticator == nil {
		authenticator = AllowAny
	}
	return &ServerState{local: local, authenticator: authenticator}
}

// IsAuthenticated reports whether a client has completed the handshake.
func (s *ServerState) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Negotiated returns the capability set agreed with the client, or nil
// before authentication completes.
func (s *ServerState) Negotiated() *qicapability.Map {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.negotiated
}

// HandleAuthenticate processes an Authenticate call's payload. addr is
// checked by the caller (the Router) to be the control plane's
// Authenticate action before this is invoked.
func (s *ServerState) HandleAuthenticate(ctx context.Context, payload []byte) ([]byte, *qiendpoint.HandlerError) {
	remote, err := qicapability.Decode(payload)
	if err != nil {
		return nil, &qiendpoint.HandlerError{Description: fmt.Sprintf("qicontrol: malformed capability map: %v", err)}
	}

	if verr := qicapability.Validate(remote); verr != nil {
		bad := verr.(*qicapability.ErrMissingRequiredCapabilities)
		return nil, &qiendpoint.HandlerError{
			Description: fmt.Sprintf("unexpected capability value: %v", bad.Keys),
		}
	}

	if aerr := s.authenticator(AuthParams(remote)); aerr != nil {
		return nil, &qiendpoint.HandlerError{Description: aerr.Error()}
	}

	negotiated := qicapability.Intersect(s.local, remote)

	s.mu.Lock()
	s.authenticated = true
	s.negotiated = negotiated
	s.mu.Unlock()

	reply := negotiated.Clone()
	reply.Set(qicapability.KeyAuthState, qivalue.UInt32(uint32(qicapability.AuthStateDone)))

	return qicapability.Encode(reply)
}

// HandleCapabilityUpdate processes a post-handshake Capability message
// (§4.6): the session's negotiated capabilities become
// intersect(current, incoming).
func (s *ServerState) HandleCapabilityUpdate(payload []byte) error {
	incoming, err := qicapability.Decode(payload)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.negotiated == nil {
		s.negotiated = incoming
		return nil
	}
	s.negotiated = qicapability.Intersect(s.negotiated, incoming)
	return nil
}

// RejectUnauthenticated builds the HandlerError for any non-control
// request received before the handshake completes.
func RejectUnauthenticated(addr qimessage.Address) *qiendpoint.HandlerError {
	return &qiendpoint.HandlerError{
		Description: fmt.Sprintf("qicontrol: request to %v before authentication", addr),
	}
}
