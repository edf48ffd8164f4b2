package qicodec

import "errors"

// Errors returned by the byte-level codec. These map directly onto the
// wire-encoding failure modes.
var (
	// ErrNotABool is returned decoding a bool byte that is neither 0 nor 1.
	ErrNotABool = errors.New("qicodec: not a bool value")

	// ErrInvalidUTF8 is returned decoding a string whose bytes are not
	// valid UTF-8.
	ErrInvalidUTF8 = errors.New("qicodec: invalid utf-8 in string")

	// ErrSizeConversion is returned when a length does not fit in a u32,
	// either on encode (too many elements/bytes) or when the high bit
	// patterns would not round-trip.
	ErrSizeConversion = errors.New("qicodec: size does not fit in uint32")

	// ErrUnspecifiedSize is returned when asked to encode a sequence
	// whose length is not known up front (an iterator without a Len).
	ErrUnspecifiedSize = errors.New("qicodec: cannot encode a sequence of unspecified length")

	// ErrShortBuffer is returned reading past the end of the decode
	// buffer. Framing guarantees a complete message payload is present
	// before decode starts, so this indicates the payload doesn't match
	// its declared type.
	ErrShortBuffer = errors.New("qicodec: buffer too short")
)
