// Package qiobject models the wire encoding of a remote object handle: its
// MetaObject descriptor (the ordered catalogue of methods, signals, and
// properties an object exposes) plus the service/object ids and the
// content-addressed SHA-1 identity digest that must survive any
// serialization pass.
package qiobject

import (
	"crypto/sha1"
	"encoding/binary"
	"sort"
)

// MetaObjectSignature is the exact wire signature of a MetaObject. Every
// implementation must reproduce it verbatim.
const MetaObjectSignature = "({I(Issss[(ss)<MetaMethodParameter,name,description>]s)<MetaMethod,uid,returnSignature,name,parametersSignature,description,parameters,returnDescription>}{I(Iss)<MetaSignal,uid,name,signature>}{I(Iss)<MetaProperty,uid,name,signature>}s)<MetaObject,methods,signals,properties,description>"

// MetaMethodParameter documents one formal parameter of a method.
type MetaMethodParameter struct {
	Name        string
	Description string
}

// MetaMethod describes one callable action.
type MetaMethod struct {
	UID                  uint32
	ReturnSignature      string
	Name                 string
	ParametersSignature  string
	Description          string
	Parameters           []MetaMethodParameter
	ReturnDescription    string
}

// MetaSignal describes one event-emitting action.
type MetaSignal struct {
	UID       uint32
	Name      string
	Signature string
}

// MetaProperty describes one property-backed action.
type MetaProperty struct {
	UID       uint32
	Name      string
	Signature string
}

// MetaObject is the descriptor enumerating an object's methods, signals,
// and properties, keyed by action id.
type MetaObject struct {
	Methods     map[uint32]MetaMethod
	Signals     map[uint32]MetaSignal
	Properties  map[uint32]MetaProperty
	Description string
}

// NewMetaObject returns an empty MetaObject ready for registration calls.
func NewMetaObject(description string) MetaObject {
	return MetaObject{
		Methods:     make(map[uint32]MetaMethod),
		Signals:     make(map[uint32]MetaSignal),
		Properties:  make(map[uint32]MetaProperty),
		Description: description,
	}
}

func (m *MetaObject) AddMethod(meth MetaMethod) {
	m.Methods[meth.UID] = meth
}

func (m *MetaObject) AddSignal(sig MetaSignal) {
	m.Signals[sig.UID] = sig
}

func (m *MetaObject) AddProperty(prop MetaProperty) {
	m.Properties[prop.UID] = prop
}

// MethodUIDs returns the registered method ids in ascending order.
func (m MetaObject) MethodUIDs() []uint32 {
	ids := make([]uint32, 0, len(m.Methods))
	for id := range m.Methods {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SignalUIDs returns the registered signal ids in ascending order.
func (m MetaObject) SignalUIDs() []uint32 {
	ids := make([]uint32, 0, len(m.Signals))
	for id := range m.Signals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// PropertyUIDs returns the registered property ids in ascending order.
func (m MetaObject) PropertyUIDs() []uint32 {
	ids := make([]uint32, 0, len(m.Properties))
	for id := range m.Properties {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Object is the wire handle for a remote object: its MetaObject, the
// service and object ids it is addressed at, and its identity digest.
type Object struct {
	Meta     MetaObject
	Service  uint32
	ObjectID uint32
	Digest   [20]byte
}

// NewObject builds an Object and computes its identity digest from the
// MetaObject's canonical content, independent of the service/object ids
// it happens to be bound at.
func NewObject(meta MetaObject, service, objectID uint32) Object {
	o := Object{Meta: meta, Service: service, ObjectID: objectID}
	o.Digest = computeDigest(meta)
	return o
}

// computeDigest derives the content-addressed SHA-1 identity of a
// MetaObject: a deterministic byte encoding (sorted by uid, independent of
// map iteration order) hashed with SHA-1. Two MetaObjects with identical
// methods/signals/properties/description hash identically regardless of
// how they were built or re-serialized.
func computeDigest(m MetaObject) [20]byte {
	h := sha1.New()

	var u32 [4]byte
	writeU32 := func(v uint32) {
		binary.LittleEndian.PutUint32(u32[:], v)
		h.Write(u32[:])
	}
	writeStr := func(s string) {
		writeU32(uint32(len(s)))
		h.Write([]byte(s))
	}

	for _, id := range m.MethodUIDs() {
		meth := m.Methods[id]
		writeU32(meth.UID)
		writeStr(meth.ReturnSignature)
		writeStr(meth.Name)
		writeStr(meth.ParametersSignature)
		writeStr(meth.Description)
		writeU32(uint32(len(meth.Parameters)))
		for _, p := range meth.Parameters {
			writeStr(p.Name)
			writeStr(p.Description)
		}
		writeStr(meth.ReturnDescription)
	}
	for _, id := range m.SignalUIDs() {
		sig := m.Signals[id]
		writeU32(sig.UID)
		writeStr(sig.Name)
		writeStr(sig.Signature)
	}
	for _, id := range m.PropertyUIDs() {
		prop := m.Properties[id]
		writeU32(prop.UID)
		writeStr(prop.Name)
		writeStr(prop.Signature)
	}
	writeStr(m.Description)

	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}
