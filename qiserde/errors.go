package qiserde

import "fmt"

// CannotDeserializeAny is the *CannotDeserializeAny error of the error
// taxonomy (§7): the bridge was asked to reflect a Go shape it has no
// wire representation for (funcs, complex numbers, unsafe pointers, a
// nil *qiobject.Object), to decode into something other than a non-nil
// pointer, or to populate a Go value from a wire kind it cannot hold.
// Channels fail with qicodec.ErrUnspecifiedSize instead, and a struct
// whose fields are all unexported reflects to a struct with no fields
// rather than failing. It is a programmer error — the mismatch is in the Go
// type given to the bridge, not in any wire data — and is always
// propagated rather than recovered from.
type CannotDeserializeAny struct {
	GoType string
	Reason string
}

func (e *CannotDeserializeAny) Error() string {
	return fmt.Sprintf("qiserde: cannot bridge %s: %s", e.GoType, e.Reason)
}
