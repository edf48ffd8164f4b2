package qivalue

import (
	"bytes"
	"math"

	"github.com/aldebaran/qimessaging/qiobject"
	"github.com/aldebaran/qimessaging/qitype"
)

// Equal reports structural equality. Floats compare by IEEE-754 bit
// pattern (so -0.0 != 0.0 and a NaN equals only a bit-identical NaN),
// consistent with the total order Compare provides.
func (v Value) Equal(o Value) bool {
	return v.Compare(o) == 0
}

// Compare establishes the total, per-variant lexicographic order described
// for Value: differing Kinds compare by Kind; within a Kind, values
// compare structurally. Floats use the IEEE-754 total-order predicate so
// NaNs sort consistently instead of comparing unordered.
func (v Value) Compare(o Value) int {
	if v.Kind != o.Kind {
		if v.Kind < o.Kind {
			return -1
		}
		return 1
	}
	return v.compareSameKind(o)
}

func (v Value) compareSameKind(o Value) int {
	switch v.Kind {
	case qitype.Unit:
		return 0
	case qitype.Bool:
		return compareBool(v.B, o.B)
	case qitype.Int8, qitype.Int16, qitype.Int32, qitype.Int64:
		return compareInt64(v.I, o.I)
	case qitype.UInt8, qitype.UInt16, qitype.UInt32, qitype.UInt64:
		return compareUint64(v.U, o.U)
	case qitype.Float32:
		return compareFloatBits(uint64(math.Float32bits(v.F32))<<32, uint64(math.Float32bits(o.F32))<<32)
	case qitype.Float64:
		return compareFloatBits(math.Float64bits(v.F64), math.Float64bits(o.F64))
	case qitype.String:
		return bytes.Compare([]byte(v.S), []byte(o.S))
	case qitype.Raw:
		return bytes.Compare(v.R, o.R)
	case qitype.Object:
		return compareObject(v.Obj, o.Obj)
	case qitype.Dynamic:
		return compareDynamic(v.Dyn, o.Dyn)
	case qitype.Option:
		return compareOption(v.Opt, o.Opt)
	case qitype.List, qitype.Tuple, qitype.TupleStruct:
		return compareItems(v.Items, o.Items)
	case qitype.Struct:
		if v.Name != o.Name {
			if v.Name < o.Name {
				return -1
			}
			return 1
		}
		return compareItems(v.Items, o.Items)
	case qitype.Map:
		return compareEntries(v.Entries, o.Entries)
	}
	return 0
}

func compareBool(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}
	return 1
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// compareFloatBits implements the IEEE-754 totalOrder predicate for values
// whose significand has already been left-aligned into a uint64 (so the
// same comparator serves both float32 and float64): flip the sign bit,
// and for negative numbers invert the remaining bits, then compare as
// unsigned integers.
func compareFloatBits(a, b uint64) int {
	return compareUint64(orderKey(a), orderKey(b))
}

func orderKey(bits uint64) uint64 {
	if bits&(1<<63) != 0 {
		return ^bits
	}
	return bits | (1 << 63)
}

func compareObject(a, b *qiobject.Object) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	if c := bytes.Compare(a.Digest[:], b.Digest[:]); c != 0 {
		return c
	}
	if c := compareUint64(uint64(a.Service), uint64(b.Service)); c != 0 {
		return c
	}
	return compareUint64(uint64(a.ObjectID), uint64(b.ObjectID))
}

func compareEntries(a, b []MapEntry) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := a[i].Key.Compare(b[i].Key); c != 0 {
			return c
		}
		if c := a[i].Value.Compare(b[i].Value); c != 0 {
			return c
		}
	}
	return compareInt64(int64(len(a)), int64(len(b)))
}

func compareItems(a, b []Value) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := a[i].Compare(b[i]); c != 0 {
			return c
		}
	}
	return compareInt64(int64(len(a)), int64(len(b)))
}

func compareOption(a, b *Value) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	return a.Compare(*b)
}

func compareDynamic(a, b *Dynamic) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	sa, sb := qitype.Print(a.Type), qitype.Print(b.Type)
	if sa != sb {
		if sa < sb {
			return -1
		}
		return 1
	}
	return a.Value.Compare(b.Value)
}
