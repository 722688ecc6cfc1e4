package fspiop

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vitalvas/pqsig/envelope"
)

// Diagnostic codes for transport errors.
const (
	CodeInvalidSignature = "INVALID_SIGNATURE"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
)

// ErrorInformation is the FSPIOP error body.
type ErrorInformation struct {
	ErrorCode        string `json:"errorCode"`
	ErrorDescription string `json:"errorDescription"`
}

// ErrorResponse wraps ErrorInformation as sent on the wire.
type ErrorResponse struct {
	ErrorInformation ErrorInformation `json:"errorInformation"`
}

// ErrorCode maps err to a diagnostic code, extending envelope.ErrorCode
// with the transport errors of this package.
func ErrorCode(err error) string {
	var tooLarge *http.MaxBytesError

	switch {
	case errors.Is(err, ErrInvalidSignature):
		return CodeInvalidSignature
	case errors.As(err, &tooLarge):
		return CodePayloadTooLarge
	default:
		return envelope.ErrorCode(err)
	}
}

// StatusCode returns the HTTP status for err: 401 when the caller could
// not be authenticated, 413 for bodies over the server limit, 500 for
// internal failures and 400 for every other protocol defect.
func StatusCode(err error) int {
	switch ErrorCode(err) {
	case CodeInvalidSignature, envelope.CodeUnknownSourceKey:
		return http.StatusUnauthorized
	case CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case envelope.CodeInternal, envelope.CodeConfiguration:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// WriteError writes err as an FSPIOP error response.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, StatusCode(err), ErrorResponse{
		ErrorInformation: ErrorInformation{
			ErrorCode:        ErrorCode(err),
			ErrorDescription: err.Error(),
		},
	})
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
