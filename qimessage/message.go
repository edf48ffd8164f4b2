// Package qimessage implements the qi wire frame: a fixed 28-byte header
// followed by an opaque payload (§3/§4.4). The header carries enough
// routing information (service, object, action) and correlation state
// (id, type, flags) for the endpoint layer to multiplex many in-flight
// requests over one byte stream without looking at the payload.
package qimessage

import "fmt"

// Magic is the 4-byte frame marker, read and written big-endian; every
// other multi-byte header field is little-endian.
const Magic uint32 = 0x42dead42

// HeaderSize is the fixed byte length of a Message header.
const HeaderSize = 28

// Type identifies the kind of a Message.
type Type uint8

const (
	TypeNone Type = iota
	TypeCall
	TypeReply
	TypeError
	TypePost
	TypeEvent
	TypeCapability
	TypeCancel
	TypeCanceled
)

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeCall:
		return "call"
	case TypeReply:
		return "reply"
	case TypeError:
		return "error"
	case TypePost:
		return "post"
	case TypeEvent:
		return "event"
	case TypeCapability:
		return "capability"
	case TypeCancel:
		return "cancel"
	case TypeCanceled:
		return "canceled"
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Flags is a bitmask carried in the header.
type Flags uint8

const (
	// FlagDynamicPayload marks a payload that begins with a signature
	// string (i.e. is itself a dynamic value) rather than a plain typed
	// encoding.
	FlagDynamicPayload Flags = 1 << 0
	// FlagReturnTypeHint marks that the caller has attached a return type
	// hint to a Call.
	FlagReturnTypeHint Flags = 1 << 1
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// Address identifies a message's target within a node: a service, one of
// its objects, and an action (method/signal/property) on that object.
// service=0, object=0 is reserved for the control plane.
type Address struct {
	Service uint32
	Object  uint32
	Action  uint32
}

func (a Address) IsControl() bool { return a.Service == 0 && a.Object == 0 }

func (a Address) String() string {
	return fmt.Sprintf("%d.%d.%d", a.Service, a.Object, a.Action)
}

// Header is the fixed-size prefix of every Message.
type Header struct {
	ID      uint32
	Size    uint32
	Version uint16
	Type    Type
	Flags   Flags
	Address Address
}

// Message is a complete frame: header plus opaque payload bytes. The
// payload's interpretation is the caller's contract; Message itself never
// looks inside it.
type Message struct {
	Header  Header
	Payload []byte
}

// New builds a Message with Size derived from len(payload) and Version
// fixed at the current wire version (0).
func New(id uint32, typ Type, addr Address, flags Flags, payload []byte) Message {
	return Message{
		Header: Header{
			ID:      id,
			Size:    uint32(len(payload)),
			Version: 0,
			Type:    typ,
			Flags:   flags,
			Address: addr,
		},
		Payload: payload,
	}
}
