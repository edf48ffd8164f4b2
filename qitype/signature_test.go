package qitype

import "testing"

func TestRoundTripPrimitives(t *testing.T) {
	sigs := []string{"v", "b", "c", "C", "w", "W", "i", "I", "l", "L", "f", "d", "s", "r", "o", "m"}
	for _, s := range sigs {
		ty, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if got := Print(ty); got != s {
			t.Fatalf("Print(Parse(%q)) = %q", s, got)
		}
	}
}

func TestRoundTripContainers(t *testing.T) {
	sigs := []string{
		"[s]",
		"{is}",
		"(ibs)",
		"+s",
		"#m",
		"?i",
		"[[i]]",
		"{s[i]}",
		"?m",
	}
	for _, s := range sigs {
		ty, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if got := Print(ty); got != s {
			t.Fatalf("Print(Parse(%q)) = %q, want %q", s, got, s)
		}
		ty2, err := Parse(Print(ty))
		if err != nil {
			t.Fatalf("re-parse: %v", err)
		}
		if !ty.Equal(ty2) {
			t.Fatalf("re-parsed type not equal to original for %q", s)
		}
	}
}

func TestRoundTripStruct(t *testing.T) {
	sig := "(ss)<MetaMethodParameter,name,description>"
	ty, err := Parse(sig)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ty.Kind != Struct {
		t.Fatalf("expected Struct, got %v", ty.Kind)
	}
	if got := Print(ty); got != sig {
		t.Fatalf("Print = %q, want %q", got, sig)
	}
}

func TestRoundTripTupleStruct(t *testing.T) {
	sig := "(si)<Point>"
	ty, err := Parse(sig)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ty.Kind != TupleStruct {
		t.Fatalf("expected TupleStruct, got %v", ty.Kind)
	}
	if got := Print(ty); got != sig {
		t.Fatalf("Print = %q, want %q", got, sig)
	}
}

func TestMetaObjectSignature(t *testing.T) {
	sig := "({I(Issss[(ss)<MetaMethodParameter,name,description>]s)<MetaMethod,uid,returnSignature,name,parametersSignature,description,parameters,returnDescription>}{I(Iss)<MetaSignal,uid,name,signature>}{I(Iss)<MetaProperty,uid,name,signature>}s)<MetaObject,methods,signals,properties,description>"
	ty, err := Parse(sig)
	if err != nil {
		t.Fatalf("Parse MetaObject signature: %v", err)
	}
	if got := Print(ty); got != sig {
		t.Fatalf("Print mismatch:\n got: %s\nwant: %s", got, sig)
	}
}

func TestParseErrorOffset(t *testing.T) {
	_, err := Parse("[s")
	if err == nil {
		t.Fatal("expected error for unterminated list")
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if perr.Offset != 2 {
		t.Fatalf("expected offset 2, got %d", perr.Offset)
	}
}

func TestParseTrailingGarbage(t *testing.T) {
	if _, err := Parse("ss"); err == nil {
		t.Fatal("expected error for trailing characters")
	}
}
