package envelope

import "errors"

// Diagnostic codes returned by ErrorCode.
const (
	CodeConfiguration                     = "CONFIGURATION_ERROR"
	CodeEmptyPayload                      = "EMPTY_PAYLOAD"
	CodeMissingSourceHeader               = "MISSING_SOURCE_HEADER"
	CodeProtectedHeaderMissingSource      = "PROTECTED_HEADER_MISSING_SOURCE"
	CodeSourceMismatch                    = "SOURCE_MISMATCH"
	CodeUnknownSourceKey                  = "UNKNOWN_SOURCE_KEY"
	CodeMalformedEnvelope                 = "MALFORMED_ENVELOPE"
	CodeMissingDateHeader                 = "MISSING_DATE_HEADER"
	CodeDateMismatch                      = "DATE_MISMATCH"
	CodeMissingDestinationHeader          = "MISSING_DESTINATION_HEADER"
	CodeProtectedHeaderMissingDestination = "PROTECTED_HEADER_MISSING_DESTINATION"
	CodeDestinationMismatch               = "DESTINATION_MISMATCH"
	CodeInternal                          = "INTERNAL_ERROR"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrConfiguration, CodeConfiguration},
	{ErrEmptyPayload, CodeEmptyPayload},
	{ErrMissingSourceHeader, CodeMissingSourceHeader},
	{ErrProtectedHeaderMissingSource, CodeProtectedHeaderMissingSource},
	{ErrSourceMismatch, CodeSourceMismatch},
	{ErrUnknownSourceKey, CodeUnknownSourceKey},
	{ErrMalformedEnvelope, CodeMalformedEnvelope},
	{ErrMissingDateHeader, CodeMissingDateHeader},
	{ErrDateMismatch, CodeDateMismatch},
	{ErrMissingDestinationHeader, CodeMissingDestinationHeader},
	{ErrProtectedHeaderMissingDestination, CodeProtectedHeaderMissingDestination},
	{ErrDestinationMismatch, CodeDestinationMismatch},
}

// ErrorCode maps an error returned by this package to a distinct
// diagnostic code. Unrecognized errors map to CodeInternal.
func ErrorCode(err error) string {
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}

	return CodeInternal
}
