package qivalue

import (
	"bytes"
	"testing"

	"github.com/aldebaran/qimessaging/qitype"
)

func TestEncodeCompositePrefix(t *testing.T) {
	composite := Struct("Composite", []string{"u", "t", "r", "o", "s", "l", "m"},
		Unit(),
		Tuple(
			Int8(-8), UInt8(8),
			Int16(-16), UInt16(16),
			Int32(-32), UInt32(32),
			Int64(-64), UInt64(64),
			Float32(32.32), Float64(64.64),
		),
		Raw([]byte{51, 52, 53, 54}),
		Some(Bool(false)),
		Tuple(String("bananas"), String("oranges")),
		List(String("cookies"), String("muffins")),
		Map(MapEntry{Key: UInt32(1), Value: String("hello")}, MapEntry{Key: UInt32(2), Value: String("world")}),
	)

	got, err := Encode(composite)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	want := []byte{
		0xf8, 0x08, 0xf0, 0xff, 0x10, 0x00, 0xe0, 0xff, 0xff, 0xff,
		0x20, 0x00, 0x00, 0x00, 0xc0, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0xae, 0x47, 0x01, 0x42,
		0x29, 0x5c, 0x8f, 0xc2, 0xf5, 0x28, 0x50, 0x40,
		0x04, 0x00, 0x00, 0x00, 0x33, 0x34, 0x35, 0x36,
		0x01, 0x00,
		0x07, 0x00, 0x00, 0x00, 'b', 'a', 'n', 'a', 'n', 'a', 's',
		0x07, 0x00, 0x00, 0x00, 'o', 'r', 'a', 'n', 'g', 'e', 's',
		0x02, 0x00, 0x00, 0x00,
		0x07, 0x00, 0x00, 0x00, 'c', 'o', 'o', 'k', 'i', 'e', 's',
	}

	if !bytes.Equal(got[:len(want)], want) {
		t.Fatalf("prefix mismatch:\n got: % x\nwant: % x", got[:len(want)], want)
	}
}

func structType(name string, fields ...qitype.Field) qitype.Type {
	return qitype.NewStruct(name, fields)
}

func TestRoundTripComposite(t *testing.T) {
	composite := Struct("Composite", []string{"u", "t", "r", "o", "s", "l", "m"},
		Unit(),
		Tuple(Int8(-8), UInt8(8)),
		Raw([]byte{51, 52, 53, 54}),
		Some(Bool(false)),
		Tuple(String("bananas"), String("oranges")),
		List(String("cookies"), String("muffins")),
		Map(MapEntry{Key: UInt32(1), Value: String("hello")}),
	)

	ty := structType("Composite",
		qitype.Field{Name: "u", Type: qitype.TUnit},
		qitype.Field{Name: "t", Type: qitype.NewTuple(qitype.TInt8, qitype.TUInt8)},
		qitype.Field{Name: "r", Type: qitype.TRaw},
		qitype.Field{Name: "o", Type: qitype.NewOption(qitype.TBool)},
		qitype.Field{Name: "s", Type: qitype.NewTuple(qitype.TString, qitype.TString)},
		qitype.Field{Name: "l", Type: qitype.NewList(qitype.TString)},
		qitype.Field{Name: "m", Type: qitype.NewMap(qitype.TUInt32, qitype.TString)},
	)

	encoded, err := Encode(composite)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(encoded, ty)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !decoded.Equal(composite) {
		t.Fatalf("round trip mismatch:\n got: %+v\nwant: %+v", decoded, composite)
	}
}

func TestDynamicRoundTrip(t *testing.T) {
	dyn := AsDynamic(qitype.TString, String("The robot is not localized"))

	encoded, err := Encode(dyn)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(encoded, qitype.TDynamic)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if decoded.Dyn.Value.S != "The robot is not localized" {
		t.Fatalf("got %q", decoded.Dyn.Value.S)
	}
}

func TestOptionOfDynamicKeepsTwoDiscriminators(t *testing.T) {
	// option<dynamic> is a discriminator byte followed by a dynamic value
	// (signature + payload), not the dynamic's own absent/present variant.
	ty := qitype.NewOption(qitype.TDynamic)
	v := Some(AsDynamic(qitype.TInt32, Int32(42)))

	encoded, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if encoded[0] != 1 {
		t.Fatalf("expected leading present discriminator, got %v", encoded[0])
	}

	decoded, err := Decode(encoded, ty)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Opt.Dyn.Value.I != 42 {
		t.Fatalf("got %+v", decoded)
	}
}

func TestValueOrderingTotalAndNaNHandled(t *testing.T) {
	a := Int32(1)
	b := Int32(2)
	if a.Compare(b) >= 0 {
		t.Fatal("expected a < b")
	}

	nan1 := Float64(nan())
	nan2 := Float64(nan())
	if !nan1.Equal(nan2) {
		t.Fatal("expected identical-bit-pattern NaNs to compare equal under total order")
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}
