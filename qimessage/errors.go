package qimessage

import "errors"

// ErrNeedMore indicates the decoder has consumed nothing and needs more
// bytes before it can produce a Message; it is not a failure, the caller
// should read more and retry.
var ErrNeedMore = errors.New("qimessage: need more data")

// ErrBadMagic indicates a header whose magic field did not match Magic.
// It is fatal to the stream: decoding cannot safely resynchronise.
var ErrBadMagic = errors.New("qimessage: bad magic")
