package qicontrol

import (
	"context"

	"github.com/aldebaran/qimessaging/qicapability"
	"github.com/aldebaran/qimessaging/qimessage"
	"github.com/aldebaran/qimessaging/qitype"
	"github.com/aldebaran/qimessaging/qivalue"
)

// CallFunc is the subset of qiendpoint.Endpoint's Call method the
// handshake needs, kept as a function type so it can be exercised
// without pulling in a live connection.
type CallFunc func(ctx context.Context, addr qimessage.Address, payload []byte) ([]byte, error)

// ClientHandshake runs the client side of §4.6: send local as an
// Authenticate payload, await the reply, intersect it with local, and
// verify the negotiated set satisfies the core's required-value policy
// and that the reply's auth state is "done". It returns the negotiated
// capability map on success.
func ClientHandshake(ctx context.Context, call CallFunc, local *qicapability.Map) (*qicapability.Map, error) {
	payload, err := qicapability.Encode(local)
	if err != nil {
		return nil, err
	}

	replyPayload, err := call(ctx, AuthenticateAddress, payload)
	if err != nil {
		return nil, &AuthRefused{Reason: err.Error()}
	}

	remote, err := qicapability.Decode(replyPayload)
	if err != nil {
		return nil, err
	}

	v, ok := remote.Get(qicapability.KeyAuthState)
	if !ok {
		return nil, ErrNoAuthState
	}
	state, ok := asUint32(v)
	if !ok {
		return nil, ErrNoAuthState
	}
	switch qicapability.AuthState(state) {
	case qicapability.AuthStateDone:
		// verified below
	case qicapability.AuthStateError:
		reason, _ := remote.Get(qicapability.KeyAuthErrReason)
		return nil, &AuthRefused{Reason: valueString(reason)}
	case qicapability.AuthStateContinue:
		return nil, ErrUnsupportedContinue
	default:
		return nil, ErrNoAuthState
	}

	negotiated := qicapability.Intersect(local, remote)
	if err := qicapability.Validate(negotiated); err != nil {
		bad := err.(*qicapability.ErrMissingRequiredCapabilities)
		return nil, &MissingRequiredCapabilities{Keys: bad.Keys}
	}

	return negotiated, nil
}

func asUint32(v qivalue.Value) (uint32, bool) {
	switch v.Kind {
	case qitype.UInt8, qitype.UInt16, qitype.UInt32, qitype.UInt64:
		return uint32(v.U), true
	case qitype.Int8, qitype.Int16, qitype.Int32, qitype.Int64:
		return uint32(v.I), true
	}
	return 0, false
}

func valueString(v qivalue.Value) string {
	if v.Kind == qitype.String {
		return v.S
	}
	return ""
}
