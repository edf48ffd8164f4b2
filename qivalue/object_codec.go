package qivalue

import "github.com/aldebaran/qimessaging/qiobject"

var metaMethodParameterFields = []string{"name", "description"}
var metaMethodFields = []string{"uid", "returnSignature", "name", "parametersSignature", "description", "parameters", "returnDescription"}
var metaSignalFields = []string{"uid", "name", "signature"}
var metaPropertyFields = []string{"uid", "name", "signature"}
var metaObjectFields = []string{"methods", "signals", "properties", "description"}

func metaMethodParameterToValue(p qiobject.MetaMethodParameter) Value {
	return Struct("MetaMethodParameter", metaMethodParameterFields, String(p.Name), String(p.Description))
}

func valueToMetaMethodParameter(v Value) qiobject.MetaMethodParameter {
	return qiobject.MetaMethodParameter{Name: v.Items[0].S, Description: v.Items[1].S}
}

func metaMethodToValue(m qiobject.MetaMethod) Value {
	params := make([]Value, len(m.Parameters))
	for i, p := range m.Parameters {
		params[i] = metaMethodParameterToValue(p)
	}
	return Struct("MetaMethod", metaMethodFields,
		UInt32(m.UID),
		String(m.ReturnSignature),
		String(m.Name),
		String(m.ParametersSignature),
		String(m.Description),
		List(params...),
		String(m.ReturnDescription),
	)
}

func valueToMetaMethod(v Value) qiobject.MetaMethod {
	params := make([]qiobject.MetaMethodParameter, len(v.Items[5].Items))
	for i, pv := range v.Items[5].Items {
		params[i] = valueToMetaMethodParameter(pv)
	}
	return qiobject.MetaMethod{
		UID:                 uint32(v.Items[0].U),
		ReturnSignature:     v.Items[1].S,
		Name:                v.Items[2].S,
		ParametersSignature: v.Items[3].S,
		Description:         v.Items[4].S,
		Parameters:          params,
		ReturnDescription:   v.Items[6].S,
	}
}

func metaSignalToValue(s qiobject.MetaSignal) Value {
	return Struct("MetaSignal", metaSignalFields, UInt32(s.UID), String(s.Name), String(s.Signature))
}

func valueToMetaSignal(v Value) qiobject.MetaSignal {
	return qiobject.MetaSignal{UID: uint32(v.Items[0].U), Name: v.Items[1].S, Signature: v.Items[2].S}
}

func metaPropertyToValue(p qiobject.MetaProperty) Value {
	return Struct("MetaProperty", metaPropertyFields, UInt32(p.UID), String(p.Name), String(p.Signature))
}

func valueToMetaProperty(v Value) qiobject.MetaProperty {
	return qiobject.MetaProperty{UID: uint32(v.Items[0].U), Name: v.Items[1].S, Signature: v.Items[2].S}
}

// metaObjectToValue builds the generic Value representation of a
// MetaObject, laid out exactly per qiobject.MetaObjectSignature, with
// entries ordered by ascending uid for determinism.
func metaObjectToValue(m qiobject.MetaObject) Value {
	var methods []MapEntry
	for _, id := range m.MethodUIDs() {
		methods = append(methods, MapEntry{Key: UInt32(id), Value: metaMethodToValue(m.Methods[id])})
	}
	var signals []MapEntry
	for _, id := range m.SignalUIDs() {
		signals = append(signals, MapEntry{Key: UInt32(id), Value: metaSignalToValue(m.Signals[id])})
	}
	var properties []MapEntry
	for _, id := range m.PropertyUIDs() {
		properties = append(properties, MapEntry{Key: UInt32(id), Value: metaPropertyToValue(m.Properties[id])})
	}

	return Struct("MetaObject", metaObjectFields,
		Map(methods...),
		Map(signals...),
		Map(properties...),
		String(m.Description),
	)
}

func valueToMetaObject(v Value) qiobject.MetaObject {
	m := qiobject.NewMetaObject(v.Items[3].S)
	for _, e := range v.Items[0].Entries {
		meth := valueToMetaMethod(e.Value)
		m.AddMethod(meth)
	}
	for _, e := range v.Items[1].Entries {
		m.AddSignal(valueToMetaSignal(e.Value))
	}
	for _, e := range v.Items[2].Entries {
		m.AddProperty(valueToMetaProperty(e.Value))
	}
	return m
}
