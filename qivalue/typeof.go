package qivalue

import "github.com/aldebaran/qimessaging/qitype"

// TypeOf derives the qitype.Type describing v's own shape. It is used
// wherever a concrete Value needs to be wrapped as Dynamic (the
// capability map's values, for instance): AsDynamic(TypeOf(v), v).
// Object and Dynamic values map to TObject and TDynamic; the type of a
// Dynamic's carried payload is not looked at.
func TypeOf(v Value) qitype.Type {
	switch v.Kind {
	case qitype.Option:
		if v.Opt == nil {
			return qitype.NewOption(qitype.TDynamic)
		}
		return qitype.NewOption(TypeOf(*v.Opt))
	case qitype.List:
		if len(v.Items) == 0 {
			return qitype.NewList(qitype.TDynamic)
		}
		return qitype.NewList(TypeOf(v.Items[0]))
	case qitype.Map:
		if len(v.Entries) == 0 {
			return qitype.NewMap(qitype.TDynamic, qitype.TDynamic)
		}
		return qitype.NewMap(TypeOf(v.Entries[0].Key), TypeOf(v.Entries[0].Value))
	case qitype.Tuple:
		elems := make([]qitype.Type, len(v.Items))
		for i, it := range v.Items {
			elems[i] = TypeOf(it)
		}
		return qitype.NewTuple(elems...)
	case qitype.TupleStruct:
		elems := make([]qitype.Type, len(v.Items))
		for i, it := range v.Items {
			elems[i] = TypeOf(it)
		}
		return qitype.NewTupleStruct(v.Name, elems...)
	case qitype.Struct:
		fields := make([]qitype.Field, len(v.Items))
		for i, it := range v.Items {
			fields[i] = qitype.Field{Name: v.FieldNames[i], Type: TypeOf(it)}
		}
		return qitype.NewStruct(v.Name, fields)
	case qitype.Dynamic:
		return qitype.TDynamic
	default:
		return qitype.Type{Kind: v.Kind}
	}
}
