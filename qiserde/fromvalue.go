package qiserde

import (
	"fmt"
	"reflect"

	"github.com/aldebaran/qimessaging/qitype"
	"github.com/aldebaran/qimessaging/qivalue"
)

// Deserialize decodes data as the wire shape out's type reflects to, then
// populates out (which must be a non-nil pointer) from it.
func Deserialize(data []byte, out interface{}) error {
	rv, err := pointerTarget(out)
	if err != nil {
		return err
	}
	t, err := typeOfGoType(rv.Type())
	if err != nil {
		return err
	}
	val, err := qivalue.Decode(data, t)
	if err != nil {
		return err
	}
	return fromValue(val, rv)
}

// FromValue populates out (a non-nil pointer) from val.
func FromValue(val qivalue.Value, out interface{}) error {
	rv, err := pointerTarget(out)
	if err != nil {
		return err
	}
	return fromValue(val, rv)
}

func pointerTarget(out interface{}) (reflect.Value, error) {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return reflect.Value{}, &CannotDeserializeAny{
			GoType: fmt.Sprintf("%T", out),
			Reason: "Deserialize/FromValue requires a non-nil pointer",
		}
	}
	return rv.Elem(), nil
}

func mismatch(rv reflect.Value, val qivalue.Value) error {
	return &CannotDeserializeAny{
		GoType: rv.Type().String(),
		Reason: fmt.Sprintf("cannot populate from wire kind %v", val.Kind),
	}
}

// fromValue populates the addressable, settable rv from val.
func fromValue(val qivalue.Value, rv reflect.Value) error {
	switch val.Kind {
	case qitype.Unit:
		return nil
	case qitype.Bool:
		if rv.Kind() != reflect.Bool {
			return mismatch(rv, val)
		}
		rv.SetBool(val.B)
		return nil
	case qitype.Int8, qitype.Int16, qitype.Int32, qitype.Int64:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			rv.SetInt(val.I)
			return nil
		}
		return mismatch(rv, val)
	case qitype.UInt8, qitype.UInt16, qitype.UInt32, qitype.UInt64:
		switch rv.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			rv.SetUint(val.U)
			return nil
		}
		return mismatch(rv, val)
	case qitype.Float32:
		if rv.Kind() != reflect.Float32 && rv.Kind() != reflect.Float64 {
			return mismatch(rv, val)
		}
		rv.SetFloat(float64(val.F32))
		return nil
	case qitype.Float64:
		if rv.Kind() != reflect.Float32 && rv.Kind() != reflect.Float64 {
			return mismatch(rv, val)
		}
		rv.SetFloat(val.F64)
		return nil
	case qitype.String:
		if rv.Kind() != reflect.String {
			return mismatch(rv, val)
		}
		rv.SetString(val.S)
		return nil
	case qitype.Raw:
		if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() != reflect.Uint8 {
			return mismatch(rv, val)
		}
		rv.SetBytes(append([]byte(nil), val.R...))
		return nil
	case qitype.Option:
		if rv.Kind() != reflect.Ptr {
			return mismatch(rv, val)
		}
		if val.Opt == nil {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		newVal := reflect.New(rv.Type().Elem())
		if err := fromValue(*val.Opt, newVal.Elem()); err != nil {
			return err
		}
		rv.Set(newVal)
		return nil
	case qitype.List:
		switch rv.Kind() {
		case reflect.Slice:
			out := reflect.MakeSlice(rv.Type(), len(val.Items), len(val.Items))
			for i, it := range val.Items {
				if err := fromValue(it, out.Index(i)); err != nil {
					return err
				}
			}
			rv.Set(out)
			return nil
		case reflect.Array:
			if rv.Len() != len(val.Items) {
				return mismatch(rv, val)
			}
			for i, it := range val.Items {
				if err := fromValue(it, rv.Index(i)); err != nil {
					return err
				}
			}
			return nil
		}
		return mismatch(rv, val)
	case qitype.Map:
		if rv.Kind() != reflect.Map {
			return mismatch(rv, val)
		}
		out := reflect.MakeMapWithSize(rv.Type(), len(val.Entries))
		for _, e := range val.Entries {
			kv := reflect.New(rv.Type().Key()).Elem()
			if err := fromValue(e.Key, kv); err != nil {
				return err
			}
			vv := reflect.New(rv.Type().Elem()).Elem()
			if err := fromValue(e.Value, vv); err != nil {
				return err
			}
			out.SetMapIndex(kv, vv)
		}
		rv.Set(out)
		return nil
	case qitype.Tuple:
		if rv.Kind() != reflect.Array || rv.Len() != len(val.Items) {
			return mismatch(rv, val)
		}
		for i, it := range val.Items {
			if err := fromValue(it, rv.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case qitype.TupleStruct:
		if rv.Kind() != reflect.Struct {
			return mismatch(rv, val)
		}
		fields := structFields(rv.Type())
		if len(fields) != len(val.Items) {
			return mismatch(rv, val)
		}
		for i, sf := range fields {
			if err := fromValue(val.Items[i], rv.FieldByIndex(sf.field.Index)); err != nil {
				return err
			}
		}
		return nil
	case qitype.Struct:
		if rv.Kind() != reflect.Struct {
			return mismatch(rv, val)
		}
		fields := structFields(rv.Type())
		byName := make(map[string]namedField, len(fields))
		for _, sf := range fields {
			byName[sf.name] = sf
		}
		for i, name := range val.FieldNames {
			sf, ok := byName[name]
			if !ok {
				continue // wire field not present in this Go type: forward-compat
			}
			if err := fromValue(val.Items[i], rv.FieldByIndex(sf.field.Index)); err != nil {
				return err
			}
		}
		return nil
	case qitype.Object:
		if val.Obj == nil {
			return mismatch(rv, val)
		}
		switch {
		case rv.Kind() == reflect.Ptr && rv.Type() == reflect.TypeOf(val.Obj):
			rv.Set(reflect.ValueOf(val.Obj))
			return nil
		case rv.Type() == reflect.TypeOf(*val.Obj):
			rv.Set(reflect.ValueOf(*val.Obj))
			return nil
		}
		return mismatch(rv, val)
	case qitype.Dynamic:
		if val.Dyn == nil {
			return mismatch(rv, val)
		}
		if rv.Kind() == reflect.Interface {
			goVal := valueToGo(val.Dyn.Value)
			if goVal == nil {
				rv.Set(reflect.Zero(rv.Type()))
				return nil
			}
			rv.Set(reflect.ValueOf(goVal))
			return nil
		}
		return fromValue(val.Dyn.Value, rv)
	}
	return mismatch(rv, val)
}

// valueToGo returns a native Go value (bool, int64, uint64, float32/64,
// string, []byte, []interface{}, map[string]interface{}, nil) best
// approximating val, used when decoding a Dynamic into an interface{}
// destination.
func valueToGo(val qivalue.Value) interface{} {
	switch val.Kind {
	case qitype.Unit:
		return nil
	case qitype.Bool:
		return val.B
	case qitype.Int8, qitype.Int16, qitype.Int32, qitype.Int64:
		return val.I
	case qitype.UInt8, qitype.UInt16, qitype.UInt32, qitype.UInt64:
		return val.U
	case qitype.Float32:
		return val.F32
	case qitype.Float64:
		return val.F64
	case qitype.String:
		return val.S
	case qitype.Raw:
		return append([]byte(nil), val.R...)
	case qitype.Option:
		if val.Opt == nil {
			return nil
		}
		return valueToGo(*val.Opt)
	case qitype.List, qitype.Tuple, qitype.TupleStruct:
		out := make([]interface{}, len(val.Items))
		for i, it := range val.Items {
			out[i] = valueToGo(it)
		}
		return out
	case qitype.Struct:
		out := make(map[string]interface{}, len(val.Items))
		for i, it := range val.Items {
			out[val.FieldNames[i]] = valueToGo(it)
		}
		return out
	case qitype.Map:
		out := make(map[string]interface{}, len(val.Entries))
		for _, e := range val.Entries {
			out[fmt.Sprint(valueToGo(e.Key))] = valueToGo(e.Value)
		}
		return out
	case qitype.Object:
		return val.Obj
	case qitype.Dynamic:
		if val.Dyn == nil {
			return nil
		}
		return valueToGo(val.Dyn.Value)
	}
	return nil
}
