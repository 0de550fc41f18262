package wire

import "errors"

// ErrMalformedFrame is returned when a Get call would read past the end of
// the underlying buffer.
var ErrMalformedFrame = errors.New("wire: malformed frame")

// ErrUnknownTag is returned by dispatch helpers when a tag does not match
// any expected value.
var ErrUnknownTag = errors.New("wire: unknown tag")
