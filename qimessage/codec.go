package qimessage

import (
	"bytes"
	"encoding/binary"
)

// Encode serializes m to its wire form: the 28-byte header followed by
// the payload verbatim. Size is taken from len(m.Payload), overriding
// whatever m.Header.Size held.
func Encode(m Message) []byte {
	buf := make([]byte, HeaderSize+len(m.Payload))
	writeHeader(buf, m.Header, uint32(len(m.Payload)))
	copy(buf[HeaderSize:], m.Payload)
	return buf
}

func writeHeader(buf []byte, h Header, size uint32) {
	binary.BigEndian.PutUint32(buf[0:4], Magic)
	binary.LittleEndian.PutUint32(buf[4:8], h.ID)
	binary.LittleEndian.PutUint32(buf[8:12], size)
	binary.LittleEndian.PutUint16(buf[12:14], h.Version)
	buf[14] = byte(h.Type)
	buf[15] = byte(h.Flags)
	binary.LittleEndian.PutUint32(buf[16:20], h.Address.Service)
	binary.LittleEndian.PutUint32(buf[20:24], h.Address.Object)
	binary.LittleEndian.PutUint32(buf[24:28], h.Address.Action)
}

func parseHeader(buf []byte) (Header, uint32) {
	_ = buf[:HeaderSize] // bounds check hint
	size := binary.LittleEndian.Uint32(buf[8:12])
	return Header{
		ID:      binary.LittleEndian.Uint32(buf[4:8]),
		Size:    size,
		Version: binary.LittleEndian.Uint16(buf[12:14]),
		Type:    Type(buf[14]),
		Flags:   Flags(buf[15]),
		Address: Address{
			Service: binary.LittleEndian.Uint32(buf[16:20]),
			Object:  binary.LittleEndian.Uint32(buf[20:24]),
			Action:  binary.LittleEndian.Uint32(buf[24:28]),
		},
	}, size
}

// Decoder accumulates bytes fed via Write and yields Messages as enough
// data becomes available, per the §4.4 state machine: fewer than 28
// bytes or fewer than 28+size bytes yields ErrNeedMore without consuming
// anything; a bad magic is fatal to the stream.
type Decoder struct {
	buf bytes.Buffer
}

func NewDecoder() *Decoder { return &Decoder{} }

// Write appends p to the decode buffer. It never fails.
func (d *Decoder) Write(p []byte) (int, error) {
	return d.buf.Write(p)
}

// Decode attempts to produce the next Message from the accumulated
// bytes. On ErrNeedMore, no bytes were consumed and the caller should
// Write more and retry. ErrBadMagic is fatal: the decoder must not be
// used again on this stream.
func (d *Decoder) Decode() (Message, error) {
	avail := d.buf.Bytes()
	if len(avail) < HeaderSize {
		return Message{}, ErrNeedMore
	}
	if binary.BigEndian.Uint32(avail[0:4]) != Magic {
		return Message{}, ErrBadMagic
	}
	size := binary.LittleEndian.Uint32(avail[8:12])
	total := HeaderSize + int(size)
	if len(avail) < total {
		return Message{}, ErrNeedMore
	}

	hdr, _ := parseHeader(avail[:HeaderSize])
	payload := make([]byte, size)
	copy(payload, avail[HeaderSize:total])
	d.buf.Next(total)

	return Message{Header: hdr, Payload: payload}, nil
}
