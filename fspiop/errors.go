package fspiop

import "errors"

var (
	// ErrInvalidSignature is reported by Middleware when the protected
	// header is correctly bound but the signature does not verify.
	ErrInvalidSignature = errors.New("fspiop: signature verification failed")

	// ErrInvalidHeaderValue is returned by Transport when a bound header
	// holds a value that cannot be sent on the wire.
	ErrInvalidHeaderValue = errors.New("fspiop: invalid header value")
)
