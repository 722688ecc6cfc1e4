package envelope

import (
	"errors"
	"fmt"
	"strings"
)

// Configuration errors.
var (
	// ErrConfiguration is returned when a Signer or Validator is constructed
	// without a required field.
	ErrConfiguration = errors.New("envelope: invalid configuration")
)

// Payload errors.
var (
	// ErrEmptyPayload is returned when neither the body nor the data field
	// yields a non-empty canonical payload.
	ErrEmptyPayload = errors.New("envelope: no payload to sign or validate")
)

// Source errors.
var (
	// ErrMissingSourceHeader is returned when the FSPIOP-Source transport
	// header is absent.
	ErrMissingSourceHeader = errors.New("envelope: FSPIOP-Source header not present")

	// ErrProtectedHeaderMissingSource is returned when the protected header
	// carries no FSPIOP-Source element.
	ErrProtectedHeaderMissingSource = errors.New("envelope: protected header does not contain FSPIOP-Source")

	// ErrSourceMismatch is returned when the transport and protected source
	// values differ.
	ErrSourceMismatch = errors.New("envelope: FSPIOP-Source does not match protected header")

	// ErrUnknownSourceKey is returned when the keystore holds no public key
	// for the claimed source. The concrete error is *UnknownSourceKeyError.
	ErrUnknownSourceKey = errors.New("envelope: no public key for source")
)

// Envelope errors.
var (
	// ErrMalformedEnvelope is returned when the FSPIOP-Signature header is
	// missing or cannot be decoded.
	ErrMalformedEnvelope = errors.New("envelope: malformed signature envelope")
)

// Date errors.
var (
	// ErrMissingDateHeader is returned when the protected header carries a
	// Date but the transport headers do not.
	ErrMissingDateHeader = errors.New("envelope: Date present in protected header but not in request")

	// ErrDateMismatch is returned when the transport and protected Date
	// values differ.
	ErrDateMismatch = errors.New("envelope: Date does not match protected header")
)

// Destination errors.
var (
	// ErrMissingDestinationHeader is returned when the protected header
	// carries a destination but the transport headers do not.
	ErrMissingDestinationHeader = errors.New("envelope: FSPIOP-Destination present in protected header but not in request")

	// ErrProtectedHeaderMissingDestination is returned when the transport
	// headers carry a destination that was never signed.
	ErrProtectedHeaderMissingDestination = errors.New("envelope: FSPIOP-Destination present in request but not in protected header")

	// ErrDestinationMismatch is returned when the transport and protected
	// destination values differ.
	ErrDestinationMismatch = errors.New("envelope: FSPIOP-Destination does not match protected header")
)

// UnknownSourceKeyError reports a source with no registered public key,
// together with the sources that are known.
type UnknownSourceKeyError struct {
	Source string
	Known  []string
}

func (e *UnknownSourceKeyError) Error() string {
	return fmt.Sprintf("%s %q, only have keys for: [%s]",
		ErrUnknownSourceKey.Error(), e.Source, strings.Join(e.Known, ", "))
}

// Unwrap allows errors.Is(err, ErrUnknownSourceKey).
func (e *UnknownSourceKeyError) Unwrap() error {
	return ErrUnknownSourceKey
}
