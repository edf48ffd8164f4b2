package qiendpoint

import "fmt"

// ErrLinkLost is returned to every pending and future operation once the
// endpoint's underlying stream has closed or hit a fatal decode error.
var ErrLinkLost = fmt.Errorf("qiendpoint: link lost")

// ErrCallCanceled is returned from Call when the peer replies Canceled.
var ErrCallCanceled = fmt.Errorf("qiendpoint: call canceled")

// RemoteError wraps an Error-type reply's payload description. Endpoint
// itself does not interpret the payload; callers that know the
// serialization bridge can re-decode Payload for a richer error value.
type RemoteError struct {
	Payload []byte
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("qiendpoint: remote error: %q", e.Payload)
}
