package qicapability

import (
	"github.com/aldebaran/qimessaging/qitype"
	"github.com/aldebaran/qimessaging/qivalue"
)

// WireType is the signature of a capability map on the wire: an ordered
// map from string to a self-describing dynamic value.
var WireType = qitype.NewMap(qitype.TString, qitype.TDynamic)

// ToValue converts m into its generic Value representation, wrapping
// each entry's value as Dynamic so heterogeneous capability values
// (bools, the auth state uint32, …) share one map value type.
func (m *Map) ToValue() qivalue.Value {
	entries := make([]qivalue.MapEntry, 0, len(m.order))
	for _, k := range m.order {
		v := m.data[k]
		entries = append(entries, qivalue.MapEntry{
			Key:   qivalue.String(k),
			Value: qivalue.AsDynamic(qivalue.TypeOf(v), v),
		})
	}
	return qivalue.Map(entries...)
}

// FromValue rebuilds a Map from its generic Value representation, as
// produced by ToValue (or an equivalent encoding from a peer).
func FromValue(v qivalue.Value) *Map {
	m := New()
	for _, e := range v.Entries {
		val := e.Value
		if val.Kind == qitype.Dynamic && val.Dyn != nil {
			val = val.Dyn.Value
		}
		m.Set(e.Key.S, val)
	}
	return m
}

// Encode serializes m to wire bytes.
func Encode(m *Map) ([]byte, error) {
	return qivalue.Encode(m.ToValue())
}

// Decode deserializes wire bytes produced by Encode back into a Map.
func Decode(buf []byte) (*Map, error) {
	v, err := qivalue.Decode(buf, WireType)
	if err != nil {
		return nil, err
	}
	return FromValue(v), nil
}
