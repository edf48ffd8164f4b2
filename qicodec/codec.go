// Package qicodec implements the byte-level primitive encoding used by the
// qi wire format: little-endian integers and floats, no alignment padding,
// and no framing beyond what each type implies (§4.1). Composite shapes
// (options, lists, maps, tuples, structs) are built by qivalue's
// Encode/Decode, which call these primitives in the right order; the
// codec itself only knows about bytes.
package qicodec

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// Writer accumulates an encoded byte stream. The zero Writer is ready to
// use.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with buf pre-reserved for reserve bytes,
// mirroring the length-prefix reservation the message framer does for its
// header.
func NewWriter(reserve int) *Writer {
	return &Writer{buf: make([]byte, 0, reserve)}
}

// Bytes returns the accumulated encoding.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

func (w *Writer) WriteInt8(v int8)   { w.buf = append(w.buf, byte(v)) }
func (w *Writer) WriteUint8(v uint8) { w.buf = append(w.buf, v) }

func (w *Writer) WriteInt16(v int16) { w.WriteUint16(uint16(v)) }
func (w *Writer) WriteUint16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteInt32(v int32) { w.WriteUint32(uint32(v)) }
func (w *Writer) WriteUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteInt64(v int64) { w.WriteUint64(uint64(v)) }
func (w *Writer) WriteUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) WriteFloat32(v float32) { w.WriteUint32(math.Float32bits(v)) }
func (w *Writer) WriteFloat64(v float64) { w.WriteUint64(math.Float64bits(v)) }

// WriteCount writes a sequence length prefix, failing if n overflows u32.
func (w *Writer) WriteCount(n int) error {
	if n < 0 || uint64(n) > math.MaxUint32 {
		return ErrSizeConversion
	}
	w.WriteUint32(uint32(n))
	return nil
}

// WriteString writes a u32 length prefix followed by s's UTF-8 bytes.
func (w *Writer) WriteString(s string) error {
	if !utf8.ValidString(s) {
		return ErrInvalidUTF8
	}
	if err := w.WriteCount(len(s)); err != nil {
		return err
	}
	w.buf = append(w.buf, s...)
	return nil
}

// WriteRaw writes a u32 length prefix followed by b verbatim; unlike
// WriteString, b is not UTF-8 validated.
func (w *Writer) WriteRaw(b []byte) error {
	if err := w.WriteCount(len(b)); err != nil {
		return err
	}
	w.buf = append(w.buf, b...)
	return nil
}

// WriteFixed appends b verbatim with no length prefix, for fixed-size
// out-of-band payloads such as the object identity digest.
func (w *Writer) WriteFixed(b []byte) {
	w.buf = append(w.buf, b...)
}

// Reader decodes a byte stream produced by Writer. Raw and fixed-length
// reads return sub-slices of the original buffer without copying; string
// reads return a copy of the bytes, so strings never alias the buffer.
type Reader struct {
	buf []byte
	pos int
}

func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, ErrShortBuffer
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *Reader) ReadBool() (bool, error) {
	b, err := r.take(1)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, ErrNotABool
	}
}

func (r *Reader) ReadInt8() (int8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

func (r *Reader) ReadUint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func (r *Reader) ReadCount() (uint32, error) {
	return r.ReadUint32()
}

// ReadString reads a u32 length prefix then that many bytes, validated as
// UTF-8. The returned string is a copy and does not alias the decode
// buffer.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadCount()
	if err != nil {
		return "", err
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

// ReadRaw reads a u32 length prefix then that many bytes, unvalidated. The
// returned slice aliases the decode buffer.
func (r *Reader) ReadRaw() ([]byte, error) {
	n, err := r.ReadCount()
	if err != nil {
		return nil, err
	}
	return r.take(int(n))
}

// ReadFixed reads exactly n bytes with no length prefix. The returned
// slice aliases the decode buffer.
func (r *Reader) ReadFixed(n int) ([]byte, error) {
	return r.take(n)
}
