package qicodec

import "testing"

func TestRoundTripPrimitives(t *testing.T) {
	w := NewWriter(64)
	w.WriteBool(true)
	w.WriteInt8(-8)
	w.WriteUint8(8)
	w.WriteInt16(-16)
	w.WriteUint16(16)
	w.WriteInt32(-32)
	w.WriteUint32(32)
	w.WriteInt64(-64)
	w.WriteUint64(64)
	w.WriteFloat32(32.32)
	w.WriteFloat64(64.64)
	if err := w.WriteString("bananas"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteRaw([]byte{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}

	r := NewReader(w.Bytes())
	if v, err := r.ReadBool(); err != nil || v != true {
		t.Fatalf("bool: %v %v", v, err)
	}
	if v, err := r.ReadInt8(); err != nil || v != -8 {
		t.Fatalf("int8: %v %v", v, err)
	}
	if v, err := r.ReadUint8(); err != nil || v != 8 {
		t.Fatalf("uint8: %v %v", v, err)
	}
	if v, err := r.ReadInt16(); err != nil || v != -16 {
		t.Fatalf("int16: %v %v", v, err)
	}
	if v, err := r.ReadUint16(); err != nil || v != 16 {
		t.Fatalf("uint16: %v %v", v, err)
	}
	if v, err := r.ReadInt32(); err != nil || v != -32 {
		t.Fatalf("int32: %v %v", v, err)
	}
	if v, err := r.ReadUint32(); err != nil || v != 32 {
		t.Fatalf("uint32: %v %v", v, err)
	}
	if v, err := r.ReadInt64(); err != nil || v != -64 {
		t.Fatalf("int64: %v %v", v, err)
	}
	if v, err := r.ReadUint64(); err != nil || v != 64 {
		t.Fatalf("uint64: %v %v", v, err)
	}
	if v, err := r.ReadFloat32(); err != nil || v != 32.32 {
		t.Fatalf("float32: %v %v", v, err)
	}
	if v, err := r.ReadFloat64(); err != nil || v != 64.64 {
		t.Fatalf("float64: %v %v", v, err)
	}
	if v, err := r.ReadString(); err != nil || v != "bananas" {
		t.Fatalf("string: %v %v", v, err)
	}
	if v, err := r.ReadRaw(); err != nil || string(v) != "\x01\x02\x03\x04" {
		t.Fatalf("raw: %v %v", v, err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("expected no leftover bytes, got %d", r.Remaining())
	}
}

func TestBoolMustBeZeroOrOne(t *testing.T) {
	r := NewReader([]byte{2})
	if _, err := r.ReadBool(); err != ErrNotABool {
		t.Fatalf("expected ErrNotABool, got %v", err)
	}
}

func TestInvalidUTF8(t *testing.T) {
	w := NewWriter(16)
	w.WriteUint32(3)
	w.buf = append(w.buf, 0xff, 0xfe, 0xfd)

	r := NewReader(w.Bytes())
	if _, err := r.ReadString(); err != ErrInvalidUTF8 {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestShortBufferNeedsMoreBytes(t *testing.T) {
	r := NewReader([]byte{1, 2})
	if _, err := r.ReadUint32(); err != ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
}

func TestTupleHasNoCountPrefix(t *testing.T) {
	w := NewWriter(8)
	w.WriteUint8(1)
	w.WriteUint8(2)
	if w.Len() != 2 {
		t.Fatalf("tuple encoding should be bare concatenation, got %d bytes", w.Len())
	}
}
