package qiserde

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/aldebaran/qimessaging/qicodec"
	"github.com/aldebaran/qimessaging/qiobject"
	"github.com/aldebaran/qimessaging/qitype"
	"github.com/aldebaran/qimessaging/qivalue"
)

// TypeOf derives the qitype.Type a Go value's static type reflects to.
func TypeOf(v interface{}) (qitype.Type, error) {
	if v == nil {
		return qitype.Type{}, &CannotDeserializeAny{GoType: "nil", Reason: "no static type to reflect"}
	}
	return typeOfGoType(reflect.TypeOf(v))
}

// ToValue converts v to its qivalue.Value representation, the form
// qivalue.Encode and the rest of this library's composite codecs expect.
// Pass v itself, not &v: a Go pointer always reflects to an Option (nil
// to an absent one), so passing the address of a struct wraps it in an
// extra Option layer that Deserialize's pointer-typed out-param does not
// expect back. *qiobject.Object is the one exception, since an object
// reference is naturally a Go pointer and reflects straight to the wire
// Object kind.
func ToValue(v interface{}) (qivalue.Value, error) {
	return valueOf(reflect.ValueOf(v))
}

// Serialize reflects over v and encodes it to the bridge's binary wire
// format in one step. See ToValue for the pointer-vs-value caveat.
func Serialize(v interface{}) ([]byte, error) {
	val, err := valueOf(reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}
	return qivalue.Encode(val)
}

func valueOf(rv reflect.Value) (qivalue.Value, error) {
	if !rv.IsValid() {
		return qivalue.Value{}, &CannotDeserializeAny{GoType: "nil", Reason: "no value to reflect"}
	}
	switch rv.Kind() {
	case reflect.Bool:
		return qivalue.Bool(rv.Bool()), nil
	case reflect.Int8:
		return qivalue.Int8(int8(rv.Int())), nil
	case reflect.Int16:
		return qivalue.Int16(int16(rv.Int())), nil
	case reflect.Int32:
		return qivalue.Int32(int32(rv.Int())), nil
	case reflect.Int, reflect.Int64:
		return qivalue.Int64(rv.Int()), nil
	case reflect.Uint8:
		return qivalue.UInt8(uint8(rv.Uint())), nil
	case reflect.Uint16:
		return qivalue.UInt16(uint16(rv.Uint())), nil
	case reflect.Uint32:
		return qivalue.UInt32(uint32(rv.Uint())), nil
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return qivalue.UInt64(rv.Uint()), nil
	case reflect.Float32:
		return qivalue.Float32(float32(rv.Float())), nil
	case reflect.Float64:
		return qivalue.Float64(rv.Float()), nil
	case reflect.String:
		return qivalue.String(rv.String()), nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			if rv.IsNil() {
				return qivalue.Raw(nil), nil
			}
			return qivalue.Raw(rv.Bytes()), nil
		}
		items := make([]qivalue.Value, rv.Len())
		for i := range items {
			it, err := valueOf(rv.Index(i))
			if err != nil {
				return qivalue.Value{}, err
			}
			items[i] = it
		}
		return qivalue.List(items...), nil
	case reflect.Array:
		items := make([]qivalue.Value, rv.Len())
		for i := range items {
			it, err := valueOf(rv.Index(i))
			if err != nil {
				return qivalue.Value{}, err
			}
			items[i] = it
		}
		return qivalue.Tuple(items...), nil
	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		entries := make([]qivalue.MapEntry, len(keys))
		for i, k := range keys {
			kv, err := valueOf(k)
			if err != nil {
				return qivalue.Value{}, err
			}
			vv, err := valueOf(rv.MapIndex(k))
			if err != nil {
				return qivalue.Value{}, err
			}
			entries[i] = qivalue.MapEntry{Key: kv, Value: vv}
		}
		return qivalue.Map(entries...), nil
	case reflect.Ptr:
		if rv.Type().Elem() == qiObjectType {
			if rv.IsNil() {
				return qivalue.Value{}, &CannotDeserializeAny{GoType: rv.Type().String(), Reason: "nil *qiobject.Object has no Object representation"}
			}
			obj := rv.Interface().(*qiobject.Object)
			return qivalue.ObjectValue(obj), nil
		}
		if rv.IsNil() {
			return qivalue.None(), nil
		}
		inner, err := valueOf(rv.Elem())
		if err != nil {
			return qivalue.Value{}, err
		}
		return qivalue.Some(inner), nil
	case reflect.Struct:
		if rv.Type() == qiObjectType {
			obj := rv.Interface().(qiobject.Object)
			return qivalue.ObjectValue(&obj), nil
		}
		fields := structFields(rv.Type())
		items := make([]qivalue.Value, len(fields))
		names := make([]string, len(fields))
		for i, sf := range fields {
			fv, err := valueOf(rv.FieldByIndex(sf.field.Index))
			if err != nil {
				return qivalue.Value{}, err
			}
			items[i] = fv
			names[i] = sf.name
		}
		return qivalue.Struct(rv.Type().Name(), names, items...), nil
	case reflect.Interface:
		if rv.IsNil() {
			return qivalue.AsDynamic(qitype.TUnit, qivalue.Unit()), nil
		}
		elem := rv.Elem()
		innerType, err := typeOfGoType(elem.Type())
		if err != nil {
			return qivalue.Value{}, err
		}
		innerValue, err := valueOf(elem)
		if err != nil {
			return qivalue.Value{}, err
		}
		return qivalue.AsDynamic(innerType, innerValue), nil
	case reflect.Chan:
		return qivalue.Value{}, qicodec.ErrUnspecifiedSize
	default:
		return qivalue.Value{}, &CannotDeserializeAny{GoType: rv.Type().String(), Reason: "unsupported kind " + rv.Kind().String()}
	}
}
