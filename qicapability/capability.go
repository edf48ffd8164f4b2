// Package qicapability implements the capability map exchanged during the
// qi handshake (§4.6): an ordered string-to-dynamic-value mapping, the
// recognised core keys, and the intersection rule used to negotiate a
// session's effective capability set.
package qicapability

import (
	"github.com/aldebaran/qimessaging/qitype"
	"github.com/aldebaran/qimessaging/qivalue"
)

// Recognised core capability keys. The default handshake policy (see
// qicontrol) rejects a value of true for MetaObjectCache and a value of
// false for any of the others.
const (
	KeyClientServerSocket   = "ClientServerSocket"
	KeyMetaObjectCache      = "MetaObjectCache"
	KeyMessageFlags         = "MessageFlags"
	KeyRemoteCancelableCalls = "RemoteCancelableCalls"
	KeyObjectPtrUID         = "ObjectPtrUID"
	KeyRelativeEndpointURI  = "RelativeEndpointURI"
)

// KeyAuthState carries the handshake's negotiated state in an
// Authenticate reply.
const KeyAuthState = "__qi_auth_state"

// KeyAuthErrReason carries an optional human-readable reason when
// KeyAuthState is AuthStateError.
const KeyAuthErrReason = "__qi_auth_err_reason"

// AuthState is the value carried under KeyAuthState.
type AuthState uint32

const (
	AuthStateError    AuthState = 1
	AuthStateContinue AuthState = 2
	AuthStateDone     AuthState = 3
)

// requiredTrue lists the core keys whose required value is true: a
// handshake peer asserting false for one of these fails validation.
var requiredTrue = []string{
	KeyClientServerSocket,
	KeyMessageFlags,
	KeyRemoteCancelableCalls,
	KeyObjectPtrUID,
	KeyRelativeEndpointURI,
}

// requiredFalse lists the core keys whose required value is false.
var requiredFalse = []string{
	KeyMetaObjectCache,
}

// Map is an ordered string -> dynamic value capability map. Insertion
// order is preserved by Keys and ToValue so wire encoding is deterministic.
type Map struct {
	order []string
	data  map[string]qivalue.Value
}

// New returns an empty Map.
func New() *Map {
	return &Map{data: make(map[string]qivalue.Value)}
}

// Set inserts or overwrites key's value, preserving its original
// position on overwrite.
func (m *Map) Set(key string, v qivalue.Value) {
	if _, ok := m.data[key]; !ok {
		m.order = append(m.order, key)
	}
	m.data[key] = v
}

// SetBool is a convenience for the common bool-valued capability.
func (m *Map) SetBool(key string, v bool) {
	m.Set(key, qivalue.Bool(v))
}

// Get returns key's value and whether it was present.
func (m *Map) Get(key string) (qivalue.Value, bool) {
	v, ok := m.data[key]
	return v, ok
}

// GetBool returns key's value as a bool; ok is false if the key is
// absent or not a bool.
func (m *Map) GetBool(key string) (bool, bool) {
	v, ok := m.data[key]
	if !ok || v.Kind != qitype.Bool {
		return false, false
	}
	return v.B, true
}

// Keys returns the map's keys in insertion order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len reports the number of entries.
func (m *Map) Len() int { return len(m.order) }

// Clone returns a deep-enough copy safe to mutate independently.
func (m *Map) Clone() *Map {
	out := New()
	for _, k := range m.order {
		out.Set(k, m.data[k])
	}
	return out
}
