package qicapability

import (
	"fmt"

	"github.com/aldebaran/qimessaging/qitype"
	"github.com/aldebaran/qimessaging/qivalue"
)

// Intersect computes the negotiated capability set from a local and a
// remote map: a key present in both survives with the stricter value
// (for booleans, false < true, so false wins); keys present in only one
// map are dropped.
func Intersect(local, remote *Map) *Map {
	out := New()
	for _, k := range local.Keys() {
		lv, _ := local.Get(k)
		rv, ok := remote.Get(k)
		if !ok {
			continue
		}
		out.Set(k, stricter(lv, rv))
	}
	return out
}

// stricter returns the stricter of two capability values. For booleans,
// false is stricter than true (§4.6: "for booleans, false < true"). Any
// other shape has no defined strictness order; the lesser value under
// Value's total order is used, matching the boolean rule's intent of
// "pick the more conservative side."
func stricter(a, b qivalue.Value) qivalue.Value {
	if a.Kind == qitype.Bool && b.Kind == qitype.Bool {
		if !a.B || !b.B {
			return qivalue.Bool(false)
		}
		return qivalue.Bool(true)
	}
	if a.Compare(b) <= 0 {
		return a
	}
	return b
}

// MissingRequiredCapabilities reports the core keys in m that fail the
// required-value policy from §4.6 (ClientServerSocket, MessageFlags,
// RemoteCancelableCalls, ObjectPtrUID, RelativeEndpointURI must be true;
// MetaObjectCache must be false). Required-true keys absent from m are
// reported too, since an absent required-true key is equivalent to false;
// an absent MetaObjectCache is not reported.
func MissingRequiredCapabilities(m *Map) []string {
	var bad []string
	for _, k := range requiredTrue {
		v, ok := m.GetBool(k)
		if !ok || !v {
			bad = append(bad, k)
		}
	}
	for _, k := range requiredFalse {
		v, ok := m.GetBool(k)
		if ok && v {
			bad = append(bad, k)
		}
	}
	return bad
}

// ErrMissingRequiredCapabilities is returned by Validate.
type ErrMissingRequiredCapabilities struct {
	Keys []string
}

func (e *ErrMissingRequiredCapabilities) Error() string {
	return fmt.Sprintf("qicapability: missing required capabilities: %v", e.Keys)
}

// Validate returns an *ErrMissingRequiredCapabilities if m fails the core
// required-value policy, nil otherwise.
func Validate(m *Map) error {
	if bad := MissingRequiredCapabilities(m); len(bad) > 0 {
		return &ErrMissingRequiredCapabilities{Keys: bad}
	}
	return nil
}
