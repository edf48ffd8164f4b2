// Package qivalue implements Value, the dynamic counterpart to a qitype.Type:
// every shape a message payload can take, plus the well-known Object
// variant. Decoded Raw payloads borrow the decode buffer without copying;
// decoded String payloads are copies and do not borrow it. IntoOwned
// promotes a Value to one that shares no memory with its decode buffer.
package qivalue

import (
	"fmt"

	"github.com/aldebaran/qimessaging/qiobject"
	"github.com/aldebaran/qimessaging/qitype"
)

// MapEntry is one (key, value) pair of an ordered capability-style map.
type MapEntry struct {
	Key   Value
	Value Value
}

// Dynamic is the payload of a Kind Dynamic Value: a value paired with its
// own type, self-describing on the wire.
type Dynamic struct {
	Type  qitype.Type
	Value Value
}

// Value is the tagged union of every wire shape. Only the fields relevant
// to Kind are meaningful; the zero Value is Unit.
type Value struct {
	Kind qitype.Kind

	B   bool
	I   int64   // Int8/16/32/64, sign-extended
	U   uint64  // UInt8/16/32/64
	F32 float32
	F64 float64
	S   string // String; Decode stores a copy, never an alias of its buffer
	R   []byte // Raw; may alias a decode buffer until IntoOwned

	Opt *Value // Option: nil means absent

	Items []Value // List, Tuple, TupleStruct, Struct (positional, in Fields order)

	Entries []MapEntry // Map, insertion order preserved

	Name       string   // Struct, TupleStruct
	FieldNames []string // Struct only, parallel to Items

	Obj *qiobject.Object // Object

	Dyn *Dynamic // Dynamic
}

func Unit() Value                { return Value{Kind: qitype.Unit} }
func Bool(b bool) Value          { return Value{Kind: qitype.Bool, B: b} }
func Int8(v int8) Value          { return Value{Kind: qitype.Int8, I: int64(v)} }
func Int16(v int16) Value        { return Value{Kind: qitype.Int16, I: int64(v)} }
func Int32(v int32) Value        { return Value{Kind: qitype.Int32, I: int64(v)} }
func Int64(v int64) Value        { return Value{Kind: qitype.Int64, I: v} }
func UInt8(v uint8) Value        { return Value{Kind: qitype.UInt8, U: uint64(v)} }
func UInt16(v uint16) Value      { return Value{Kind: qitype.UInt16, U: uint64(v)} }
func UInt32(v uint32) Value      { return Value{Kind: qitype.UInt32, U: uint64(v)} }
func UInt64(v uint64) Value      { return Value{Kind: qitype.UInt64, U: v} }
func Float32(v float32) Value    { return Value{Kind: qitype.Float32, F32: v} }
func Float64(v float64) Value    { return Value{Kind: qitype.Float64, F64: v} }
func String(s string) Value      { return Value{Kind: qitype.String, S: s} }
func Raw(b []byte) Value         { return Value{Kind: qitype.Raw, R: b} }
func ObjectValue(o *qiobject.Object) Value {
	return Value{Kind: qitype.Object, Obj: o}
}

// None returns an absent Option value.
func None() Value { return Value{Kind: qitype.Option, Opt: nil} }

// Some wraps v as a present Option value.
func Some(v Value) Value {
	cp := v
	return Value{Kind: qitype.Option, Opt: &cp}
}

func List(items ...Value) Value {
	return Value{Kind: qitype.List, Items: items}
}

func Tuple(items ...Value) Value {
	return Value{Kind: qitype.Tuple, Items: items}
}

func TupleStruct(name string, items ...Value) Value {
	return Value{Kind: qitype.TupleStruct, Name: name, Items: items}
}

func Struct(name string, fieldNames []string, items ...Value) Value {
	return Value{Kind: qitype.Struct, Name: name, FieldNames: fieldNames, Items: items}
}

func Map(entries ...MapEntry) Value {
	return Value{Kind: qitype.Map, Entries: entries}
}

func AsDynamic(t qitype.Type, v Value) Value {
	return Value{Kind: qitype.Dynamic, Dyn: &Dynamic{Type: t, Value: v}}
}

// IsAbsent reports whether an Option Value carries no inner value.
func (v Value) IsAbsent() bool {
	return v.Kind == qitype.Option && v.Opt == nil
}

// IntoOwned returns a copy of v (recursively) that shares no memory with
// any decode buffer v's String/Raw fields might alias.
func (v Value) IntoOwned() Value {
	out := v
	switch v.Kind {
	case qitype.String:
		out.S = string(append([]byte(nil), v.S...))
	case qitype.Raw:
		out.R = append([]byte(nil), v.R...)
	case qitype.Option:
		if v.Opt != nil {
			o := v.Opt.IntoOwned()
			out.Opt = &o
		}
	case qitype.List, qitype.Tuple, qitype.TupleStruct, qitype.Struct:
		if v.Items != nil {
			items := make([]Value, len(v.Items))
			for i, it := range v.Items {
				items[i] = it.IntoOwned()
			}
			out.Items = items
		}
	case qitype.Map:
		if v.Entries != nil {
			entries := make([]MapEntry, len(v.Entries))
			for i, e := range v.Entries {
				entries[i] = MapEntry{Key: e.Key.IntoOwned(), Value: e.Value.IntoOwned()}
			}
			out.Entries = entries
		}
	case qitype.Dynamic:
		if v.Dyn != nil {
			owned := v.Dyn.Value.IntoOwned()
			out.Dyn = &Dynamic{Type: v.Dyn.Type, Value: owned}
		}
	}
	return out
}

func (v Value) String() string {
	return fmt.Sprintf("%s(%v)", v.Kind, v.goValue())
}

func (v Value) goValue() interface{} {
	switch v.Kind {
	case qitype.Unit:
		return nil
	case qitype.Bool:
		return v.B
	case qitype.Int8, qitype.Int16, qitype.Int32, qitype.Int64:
		return v.I
	case qitype.UInt8, qitype.UInt16, qitype.UInt32, qitype.UInt64:
		return v.U
	case qitype.Float32:
		return v.F32
	case qitype.Float64:
		return v.F64
	case qitype.String:
		return v.S
	case qitype.Raw:
		return v.R
	default:
		return v.Kind.String()
	}
}
