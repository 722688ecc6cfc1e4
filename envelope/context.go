package envelope

import "net/http"

// Transport header names bound by the protected header.
const (
	HeaderSource      = "FSPIOP-Source"
	HeaderDestination = "FSPIOP-Destination"
	HeaderURI         = "FSPIOP-URI"
	HeaderDate        = "Date"
	HeaderSignature   = "FSPIOP-Signature"
)

// Result is the outcome recorded on a RequestContext by the Validator.
type Result int

const (
	// ResultUnknown means the context has not been validated.
	ResultUnknown Result = iota

	// ResultValid means the signature verified and all bindings held.
	ResultValid

	// ResultInvalid means the bindings held but the signature did not verify.
	ResultInvalid
)

func (r Result) String() string {
	switch r {
	case ResultValid:
		return "valid"
	case ResultInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// RequestContext is one message in flight. It is built by the caller,
// mutated by Signer.Sign (envelope header, canonical body) and by
// Validator.Validate (Result), and discarded after the request completes.
type RequestContext struct {
	// Body is the structured message body. It is preferred over Data when
	// deriving the canonical payload.
	Body any

	// Data is the raw data field used when Body yields no payload.
	Data any

	// Headers are the transport headers. Lookups are case-insensitive.
	Headers http.Header

	// Result is set by Validator.Validate.
	Result Result
}

// NewRequestContext returns a RequestContext with the given body and an
// empty header set.
func NewRequestContext(body any) *RequestContext {
	return &RequestContext{
		Body:    body,
		Headers: make(http.Header),
	}
}

// header returns the first value of the named header and whether it is
// present with a non-empty value.
func (rc *RequestContext) header(name string) (string, bool) {
	return headerValue(rc.Headers, name)
}

func headerValue(h http.Header, name string) (string, bool) {
	if h == nil {
		return "", false
	}

	v := h.Get(name)

	return v, v != ""
}

func (rc *RequestContext) setHeader(name, value string) {
	if rc.Headers == nil {
		rc.Headers = make(http.Header)
	}

	rc.Headers.Set(name, value)
}
