package qivalue

import (
	"fmt"

	"github.com/aldebaran/qimessaging/qicodec"
	"github.com/aldebaran/qimessaging/qiobject"
	"github.com/aldebaran/qimessaging/qitype"
)

// Encode serializes v to its binary wire encoding. v must be well-formed
// (Items/Entries/Opt consistent with Kind); Decode(Encode(v), t) == v for
// the Type t that describes v's shape.
func Encode(v Value) ([]byte, error) {
	w := qicodec.NewWriter(64)
	if err := encodeInto(w, v); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func encodeInto(w *qicodec.Writer, v Value) error {
	switch v.Kind {
	case qitype.Unit:
		return nil
	case qitype.Bool:
		w.WriteBool(v.B)
		return nil
	case qitype.Int8:
		w.WriteInt8(int8(v.I))
		return nil
	case qitype.Int16:
		w.WriteInt16(int16(v.I))
		return nil
	case qitype.Int32:
		w.WriteInt32(int32(v.I))
		return nil
	case qitype.Int64:
		w.WriteInt64(v.I)
		return nil
	case qitype.UInt8:
		w.WriteUint8(uint8(v.U))
		return nil
	case qitype.UInt16:
		w.WriteUint16(uint16(v.U))
		return nil
	case qitype.UInt32:
		w.WriteUint32(uint32(v.U))
		return nil
	case qitype.UInt64:
		w.WriteUint64(v.U)
		return nil
	case qitype.Float32:
		w.WriteFloat32(v.F32)
		return nil
	case qitype.Float64:
		w.WriteFloat64(v.F64)
		return nil
	case qitype.String:
		return w.WriteString(v.S)
	case qitype.Raw:
		return w.WriteRaw(v.R)
	case qitype.Option:
		if v.Opt == nil {
			w.WriteBool(false)
			return nil
		}
		w.WriteBool(true)
		return encodeInto(w, *v.Opt)
	case qitype.List:
		if err := w.WriteCount(len(v.Items)); err != nil {
			return err
		}
		for _, it := range v.Items {
			if err := encodeInto(w, it); err != nil {
				return err
			}
		}
		return nil
	case qitype.Map:
		if err := w.WriteCount(len(v.Entries)); err != nil {
			return err
		}
		for _, e := range v.Entries {
			if err := encodeInto(w, e.Key); err != nil {
				return err
			}
			if err := encodeInto(w, e.Value); err != nil {
				return err
			}
		}
		return nil
	case qitype.Tuple, qitype.TupleStruct, qitype.Struct:
		for _, it := range v.Items {
			if err := encodeInto(w, it); err != nil {
				return err
			}
		}
		return nil
	case qitype.Object:
		return encodeObject(w, v.Obj)
	case qitype.Dynamic:
		if v.Dyn == nil {
			return fmt.Errorf("qivalue: dynamic value missing payload")
		}
		if err := w.WriteString(qitype.Print(v.Dyn.Type)); err != nil {
			return err
		}
		return encodeInto(w, v.Dyn.Value)
	}
	return fmt.Errorf("qivalue: cannot encode kind %v", v.Kind)
}

func encodeObject(w *qicodec.Writer, obj *qiobject.Object) error {
	if obj == nil {
		return fmt.Errorf("qivalue: object value missing payload")
	}
	if err := encodeInto(w, metaObjectToValue(obj.Meta)); err != nil {
		return err
	}
	w.WriteUint32(obj.Service)
	w.WriteUint32(obj.ObjectID)
	w.WriteFixed(obj.Digest[:])
	return nil
}

func decodeObject(r *qicodec.Reader) (Value, error) {
	metaType, err := qitype.Parse(qiobject.MetaObjectSignature)
	if err != nil {
		return Value{}, err
	}
	metaVal, err := decodeFrom(r, metaType)
	if err != nil {
		return Value{}, err
	}
	service, err := r.ReadUint32()
	if err != nil {
		return Value{}, err
	}
	objectID, err := r.ReadUint32()
	if err != nil {
		return Value{}, err
	}
	digest, err := r.ReadFixed(20)
	if err != nil {
		return Value{}, err
	}
	obj := qiobject.Object{
		Meta:     valueToMetaObject(metaVal),
		Service:  service,
		ObjectID: objectID,
	}
	copy(obj.Digest[:], digest)
	return ObjectValue(&obj), nil
}

// Decode builds a Value from buf, driven by t since the wire format is not
// self-describing.
func Decode(buf []byte, t qitype.Type) (Value, error) {
	r := qicodec.NewReader(buf)
	v, err := decodeFrom(r, t)
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

func decodeFrom(r *qicodec.Reader, t qitype.Type) (Value, error) {
	switch t.Kind {
	case qitype.Unit:
		return Unit(), nil
	case qitype.Bool:
		b, err := r.ReadBool()
		return Bool(b), err
	case qitype.Int8:
		x, err := r.ReadInt8()
		return Int8(x), err
	case qitype.Int16:
		x, err := r.ReadInt16()
		return Int16(x), err
	case qitype.Int32:
		x, err := r.ReadInt32()
		return Int32(x), err
	case qitype.Int64:
		x, err := r.ReadInt64()
		return Int64(x), err
	case qitype.UInt8:
		x, err := r.ReadUint8()
		return UInt8(x), err
	case qitype.UInt16:
		x, err := r.ReadUint16()
		return UInt16(x), err
	case qitype.UInt32:
		x, err := r.ReadUint32()
		return UInt32(x), err
	case qitype.UInt64:
		x, err := r.ReadUint64()
		return UInt64(x), err
	case qitype.Float32:
		x, err := r.ReadFloat32()
		return Float32(x), err
	case qitype.Float64:
		x, err := r.ReadFloat64()
		return Float64(x), err
	case qitype.String:
		s, err := r.ReadString()
		return String(s), err
	case qitype.Raw:
		b, err := r.ReadRaw()
		return Raw(b), err
	case qitype.Option:
		present, err := r.ReadBool()
		if err != nil {
			return Value{}, err
		}
		if !present {
			return None(), nil
		}
		inner, err := decodeFrom(r, *t.Elem)
		if err != nil {
			return Value{}, err
		}
		return Some(inner), nil
	case qitype.List:
		n, err := r.ReadCount()
		if err != nil {
			return Value{}, err
		}
		items := make([]Value, n)
		for i := range items {
			items[i], err = decodeFrom(r, *t.Elem)
			if err != nil {
				return Value{}, err
			}
		}
		return Value{Kind: qitype.List, Items: items}, nil
	case qitype.Map:
		n, err := r.ReadCount()
		if err != nil {
			return Value{}, err
		}
		entries := make([]MapEntry, n)
		for i := range entries {
			k, err := decodeFrom(r, *t.Key)
			if err != nil {
				return Value{}, err
			}
			v, err := decodeFrom(r, *t.Value)
			if err != nil {
				return Value{}, err
			}
			entries[i] = MapEntry{Key: k, Value: v}
		}
		return Value{Kind: qitype.Map, Entries: entries}, nil
	case qitype.Tuple:
		items := make([]Value, len(t.Elems))
		for i, et := range t.Elems {
			v, err := decodeFrom(r, et)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return Value{Kind: qitype.Tuple, Items: items}, nil
	case qitype.TupleStruct:
		items := make([]Value, len(t.Elems))
		for i, et := range t.Elems {
			v, err := decodeFrom(r, et)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return Value{Kind: qitype.TupleStruct, Name: t.Name, Items: items}, nil
	case qitype.Struct:
		items := make([]Value, len(t.Fields))
		names := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			v, err := decodeFrom(r, f.Type)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
			names[i] = f.Name
		}
		return Value{Kind: qitype.Struct, Name: t.Name, FieldNames: names, Items: items}, nil
	case qitype.Object:
		return decodeObject(r)
	case qitype.Dynamic:
		sig, err := r.ReadString()
		if err != nil {
			return Value{}, err
		}
		inner, err := qitype.Parse(sig)
		if err != nil {
			return Value{}, err
		}
		v, err := decodeFrom(r, inner)
		if err != nil {
			return Value{}, err
		}
		return AsDynamic(inner, v), nil
	}
	return Value{}, fmt.Errorf("qivalue: cannot decode kind %v", t.Kind)
}
