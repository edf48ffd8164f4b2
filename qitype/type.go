// Package qitype implements the qi protocol's dynamic type lattice and its
// textual signature grammar (see the wire format's §3/§4.2). A Type is a
// closed sum describing every shape a Value can take on the wire; Dynamic
// is the only self-describing variant.
package qitype

import "fmt"

// Kind enumerates the variants of the type lattice.
type Kind int

const (
	Unit Kind = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	UInt8
	UInt16
	UInt32
	UInt64
	Float32
	Float64
	String
	Raw
	Object
	Dynamic
	Option
	List
	Map
	Tuple
	Struct
	TupleStruct
	VarArgs
	KwArgs
)

func (k Kind) String() string {
	switch k {
	case Unit:
		return "unit"
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case UInt8:
		return "uint8"
	case UInt16:
		return "uint16"
	case UInt32:
		return "uint32"
	case UInt64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case String:
		return "string"
	case Raw:
		return "raw"
	case Object:
		return "object"
	case Dynamic:
		return "dynamic"
	case Option:
		return "option"
	case List:
		return "list"
	case Map:
		return "map"
	case Tuple:
		return "tuple"
	case Struct:
		return "struct"
	case TupleStruct:
		return "tuple-struct"
	case VarArgs:
		return "var-args"
	case KwArgs:
		return "kw-args"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Field is one member of a Struct type: an ordered (name, type) pair.
type Field struct {
	Name string
	Type Type
}

// Type is the closed sum of wire shapes. Only the fields relevant to Kind
// are meaningful; the zero Type is Unit.
type Type struct {
	Kind Kind

	// Option, List, VarArgs, KwArgs
	Elem *Type

	// Map
	Key   *Type
	Value *Type

	// Tuple, TupleStruct, Struct (positional shape shared with Fields)
	Elems []Type

	// Struct, TupleStruct
	Name string

	// Struct only: one entry per Elems index, same order
	Fields []Field
}

func primitive(k Kind) Type { return Type{Kind: k} }

func NewOption(elem Type) Type  { return Type{Kind: Option, Elem: &elem} }
func NewList(elem Type) Type    { return Type{Kind: List, Elem: &elem} }
func NewVarArgs(elem Type) Type { return Type{Kind: VarArgs, Elem: &elem} }
func NewKwArgs(elem Type) Type  { return Type{Kind: KwArgs, Elem: &elem} }

func NewMap(key, value Type) Type {
	return Type{Kind: Map, Key: &key, Value: &value}
}

func NewTuple(elems ...Type) Type {
	return Type{Kind: Tuple, Elems: elems}
}

func NewTupleStruct(name string, elems ...Type) Type {
	return Type{Kind: TupleStruct, Name: name, Elems: elems}
}

// NewStruct builds a Struct type whose Elems are the fields' types, in
// order; the struct's signature annotation names each element in order.
func NewStruct(name string, fields []Field) Type {
	elems := make([]Type, len(fields))
	for i, f := range fields {
		elems[i] = f.Type
	}
	return Type{Kind: Struct, Name: name, Elems: elems, Fields: fields}
}

var (
	TUnit    = primitive(Unit)
	TBool    = primitive(Bool)
	TInt8    = primitive(Int8)
	TInt16   = primitive(Int16)
	TInt32   = primitive(Int32)
	TInt64   = primitive(Int64)
	TUInt8   = primitive(UInt8)
	TUInt16  = primitive(UInt16)
	TUInt32  = primitive(UInt32)
	TUInt64  = primitive(UInt64)
	TFloat32 = primitive(Float32)
	TFloat64 = primitive(Float64)
	TString  = primitive(String)
	TRaw     = primitive(Raw)
	TObject  = primitive(Object)
	TDynamic = primitive(Dynamic)
)

// Equal reports whether two Types describe the same wire shape.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case Option, List, VarArgs, KwArgs:
		return t.Elem.Equal(*o.Elem)
	case Map:
		return t.Key.Equal(*o.Key) && t.Value.Equal(*o.Value)
	case Tuple:
		return equalTypeSlices(t.Elems, o.Elems)
	case TupleStruct:
		return t.Name == o.Name && equalTypeSlices(t.Elems, o.Elems)
	case Struct:
		if t.Name != o.Name || len(t.Fields) != len(o.Fields) {
			return false
		}
		for i := range t.Fields {
			if t.Fields[i].Name != o.Fields[i].Name || !t.Fields[i].Type.Equal(o.Fields[i].Type) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func equalTypeSlices(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// IsPrimitive reports whether the type has a fixed-character signature with
// no nested element (i.e. it is not a container/struct/var-args kind).
func (t Type) IsPrimitive() bool {
	switch t.Kind {
	case Unit, Bool, Int8, Int16, Int32, Int64, UInt8, UInt16, UInt32, UInt64,
		Float32, Float64, String, Raw, Object, Dynamic:
		return true
	}
	return false
}
