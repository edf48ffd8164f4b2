package qiserde

import (
	"reflect"
	"testing"

	"github.com/aldebaran/qimessaging/qicodec"
	"github.com/aldebaran/qimessaging/qitype"
)

type address struct {
	Street string
	Zip    string `qi:"postalCode"`
	secret string //nolint:unused // exercises unexported-field exclusion
}

type person struct {
	Name    string
	Age     int32
	Tags    []string
	Home    *address
	Away    *address
	Scores  map[string]int32
	Ignored string `qi:"-"`
	Extra   interface{}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	in := person{
		Name:   "Ada",
		Age:    36,
		Tags:   []string{"engineer", "writer"},
		Home:   &address{Street: "10 Downing St", Zip: "SW1A"},
		Away:   nil,
		Scores: map[string]int32{"b": 2, "a": 1},
		Extra:  int64(7),
	}
	in.Home.secret = "should not round-trip"

	data, err := Serialize(in)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	var out person
	if err := Deserialize(data, &out); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if out.Name != in.Name || out.Age != in.Age {
		t.Fatalf("scalar mismatch: got %+v", out)
	}
	if !reflect.DeepEqual(out.Tags, in.Tags) {
		t.Fatalf("Tags mismatch: got %v, want %v", out.Tags, in.Tags)
	}
	if out.Home == nil || out.Home.Street != in.Home.Street || out.Home.Zip != in.Home.Zip {
		t.Fatalf("Home mismatch: got %+v", out.Home)
	}
	if out.Away != nil {
		t.Fatalf("Away should stay absent, got %+v", out.Away)
	}
	if !reflect.DeepEqual(out.Scores, in.Scores) {
		t.Fatalf("Scores mismatch: got %v, want %v", out.Scores, in.Scores)
	}
	if out.Home.secret != "" {
		t.Fatalf("unexported field must not round-trip, got %q", out.Home.secret)
	}
	if out.Extra != int64(7) {
		t.Fatalf("Extra mismatch: got %#v", out.Extra)
	}
}

func TestToValueFromValueRoundTrip(t *testing.T) {
	in := address{Street: "1 Infinite Loop", Zip: "95014"}
	val, err := ToValue(in)
	if err != nil {
		t.Fatalf("ToValue: %v", err)
	}
	if val.Kind != qitype.Struct || val.Name != "address" {
		t.Fatalf("unexpected value shape: %+v", val)
	}
	if len(val.FieldNames) != 2 || val.FieldNames[1] != "postalCode" {
		t.Fatalf("expected tag-renamed field, got %v", val.FieldNames)
	}

	var out address
	if err := FromValue(val, &out); err != nil {
		t.Fatalf("FromValue: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestTypeOfStructMatchesFieldTags(t *testing.T) {
	ty, err := TypeOf(address{})
	if err != nil {
		t.Fatalf("TypeOf: %v", err)
	}
	if ty.Kind != qitype.Struct || len(ty.Fields) != 2 {
		t.Fatalf("unexpected type: %+v", ty)
	}
	if ty.Fields[0].Name != "Street" || ty.Fields[1].Name != "postalCode" {
		t.Fatalf("unexpected field names: %+v", ty.Fields)
	}
}

func TestDeserializeRequiresPointer(t *testing.T) {
	var out address
	if err := Deserialize(nil, out); err == nil {
		t.Fatalf("expected error for non-pointer destination")
	}
	if err := Deserialize(nil, nil); err == nil {
		t.Fatalf("expected error for nil destination")
	}
}

func TestChanIsUnspecifiedSize(t *testing.T) {
	ch := make(chan int)
	if _, err := TypeOf(ch); err != qicodec.ErrUnspecifiedSize {
		t.Fatalf("expected qicodec.ErrUnspecifiedSize deriving the type of a channel, got %v", err)
	}
}

func TestFuncCannotDeserializeAny(t *testing.T) {
	_, err := TypeOf(func() {})
	if err == nil {
		t.Fatalf("expected an error deriving the type of a func")
	}
	if _, ok := err.(*CannotDeserializeAny); !ok {
		t.Fatalf("expected *CannotDeserializeAny, got %T", err)
	}
}
