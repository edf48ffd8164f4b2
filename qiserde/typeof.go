// Package qiserde is the serialization bridge of §4.3: it reflects over
// arbitrary Go values to derive the qitype.Type describing their wire
// shape, converts them to and from qivalue.Value, and drives
// qivalue.Encode/Decode to get bytes in and out. Struct fields are named
// by their Go field name unless overridden with a `qi:"name"` tag (or
// excluded with `qi:"-"`), mirroring the qi-macros derive attribute this
// bridge replaces code generation for.
package qiserde

import (
	"reflect"

	"github.com/aldebaran/qimessaging/qicodec"
	"github.com/aldebaran/qimessaging/qiobject"
	"github.com/aldebaran/qimessaging/qitype"
)

// qiObjectType is reflect.TypeOf(qiobject.Object{}); both qiobject.Object
// and *qiobject.Object reflect to the wire's Object kind rather than being
// walked as an ordinary struct, since Object is itself a distinct Kind.
var qiObjectType = reflect.TypeOf(qiobject.Object{})

// typeOfGoType derives the qitype.Type a Go type reflects to. It never
// inspects a value, only shape, so it works for nil slices/maps/pointers
// too — Deserialize needs a Type before any value exists to decode into.
func typeOfGoType(t reflect.Type) (qitype.Type, error) {
	switch t.Kind() {
	case reflect.Bool:
		return qitype.TBool, nil
	case reflect.Int8:
		return qitype.TInt8, nil
	case reflect.Int16:
		return qitype.TInt16, nil
	case reflect.Int32:
		return qitype.TInt32, nil
	case reflect.Int, reflect.Int64:
		return qitype.TInt64, nil
	case reflect.Uint8:
		return qitype.TUInt8, nil
	case reflect.Uint16:
		return qitype.TUInt16, nil
	case reflect.Uint32:
		return qitype.TUInt32, nil
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return qitype.TUInt64, nil
	case reflect.Float32:
		return qitype.TFloat32, nil
	case reflect.Float64:
		return qitype.TFloat64, nil
	case reflect.String:
		return qitype.TString, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return qitype.TRaw, nil
		}
		elem, err := typeOfGoType(t.Elem())
		if err != nil {
			return qitype.Type{}, err
		}
		return qitype.NewList(elem), nil
	case reflect.Array:
		elem, err := typeOfGoType(t.Elem())
		if err != nil {
			return qitype.Type{}, err
		}
		elems := make([]qitype.Type, t.Len())
		for i := range elems {
			elems[i] = elem
		}
		return qitype.NewTuple(elems...), nil
	case reflect.Map:
		key, err := typeOfGoType(t.Key())
		if err != nil {
			return qitype.Type{}, err
		}
		value, err := typeOfGoType(t.Elem())
		if err != nil {
			return qitype.Type{}, err
		}
		return qitype.NewMap(key, value), nil
	case reflect.Ptr:
		if t.Elem() == qiObjectType {
			return qitype.TObject, nil
		}
		elem, err := typeOfGoType(t.Elem())
		if err != nil {
			return qitype.Type{}, err
		}
		return qitype.NewOption(elem), nil
	case reflect.Struct:
		if t == qiObjectType {
			return qitype.TObject, nil
		}
		included := structFields(t)
		fields := make([]qitype.Field, len(included))
		for i, sf := range included {
			ft, err := typeOfGoType(sf.field.Type)
			if err != nil {
				return qitype.Type{}, err
			}
			fields[i] = qitype.Field{Name: sf.name, Type: ft}
		}
		return qitype.NewStruct(t.Name(), fields), nil
	case reflect.Interface:
		return qitype.TDynamic, nil
	case reflect.Chan:
		return qitype.Type{}, qicodec.ErrUnspecifiedSize
	default:
		return qitype.Type{}, &CannotDeserializeAny{GoType: t.String(), Reason: "unsupported kind " + t.Kind().String()}
	}
}

type namedField struct {
	field reflect.StructField
	name  string
}

// structFields returns t's exported, non-"qi:\"-\""-tagged fields in
// declaration order, with their wire name resolved from a `qi:"name"`
// tag if present.
func structFields(t reflect.Type) []namedField {
	var out []namedField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" { // unexported
			continue
		}
		tag := f.Tag.Get("qi")
		if tag == "-" {
			continue
		}
		name := f.Name
		if tag != "" {
			name = tag
		}
		out = append(out, namedField{field: f, name: name})
	}
	return out
}
