package envelope

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Protected header member names. They are case sensitive even though the
// transport headers they mirror are not.
const (
	memberAlgorithm   = "alg"
	memberURI         = "FSPIOP-URI"
	memberSource      = "FSPIOP-Source"
	memberDestination = "FSPIOP-Destination"
	memberDate        = "Date"
)

// ProtectedHeader is the signer-asserted metadata carried in the envelope.
// An empty field means the member is absent.
type ProtectedHeader struct {
	Algorithm   Algorithm `json:"alg" cbor:"alg"`
	URI         string    `json:"FSPIOP-URI,omitempty" cbor:"FSPIOP-URI,omitempty"`
	Source      string    `json:"FSPIOP-Source,omitempty" cbor:"FSPIOP-Source,omitempty"`
	Destination string    `json:"FSPIOP-Destination,omitempty" cbor:"FSPIOP-Destination,omitempty"`
	Date        string    `json:"Date,omitempty" cbor:"Date,omitempty"`
}

// newProtectedHeader copies the bound transport headers of rc. Absent
// headers are left out; a missing Source fails validation later.
func newProtectedHeader(alg Algorithm, rc *RequestContext) ProtectedHeader {
	ph := ProtectedHeader{Algorithm: alg}

	ph.URI, _ = rc.header(HeaderURI)
	ph.Source, _ = rc.header(HeaderSource)

	if v, ok := rc.header(HeaderDestination); ok {
		ph.Destination = v
	}

	if v, ok := rc.header(HeaderDate); ok {
		ph.Date = v
	}

	return ph
}

// UnmarshalJSON decodes a protected header using exact member names.
// encoding/json would otherwise match "fspiop-source" to FSPIOP-Source.
func (ph *ProtectedHeader) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}

	var alg string

	fields := []struct {
		name string
		dst  *string
	}{
		{memberAlgorithm, &alg},
		{memberURI, &ph.URI},
		{memberSource, &ph.Source},
		{memberDestination, &ph.Destination},
		{memberDate, &ph.Date},
	}

	for _, f := range fields {
		raw, ok := members[f.name]
		if !ok {
			continue
		}

		if err := json.Unmarshal(raw, f.dst); err != nil {
			return fmt.Errorf("member %q: %w", f.name, err)
		}
	}

	ph.Algorithm = Algorithm(alg)

	return nil
}

// CheckProtectedHeader verifies that every value asserted in ph is bound to
// the live transport headers. Presence is checked in both directions, so an
// unsigned destination cannot be added and a signed one cannot be stripped.
func CheckProtectedHeader(headers http.Header, ph ProtectedHeader) error {
	source, hasSource := headerValue(headers, HeaderSource)

	if ph.Source == "" {
		return ErrProtectedHeaderMissingSource
	}

	if !hasSource {
		return ErrMissingSourceHeader
	}

	if ph.Source != source {
		return fmt.Errorf("%w: request value %q, protected value %q", ErrSourceMismatch, source, ph.Source)
	}

	date, hasDate := headerValue(headers, HeaderDate)

	if ph.Date != "" && !hasDate {
		return ErrMissingDateHeader
	}

	if ph.Date != "" && ph.Date != date {
		return fmt.Errorf("%w: request value %q, protected value %q", ErrDateMismatch, date, ph.Date)
	}

	destination, hasDestination := headerValue(headers, HeaderDestination)

	if hasDestination && ph.Destination == "" {
		return ErrProtectedHeaderMissingDestination
	}

	if ph.Destination != "" && !hasDestination {
		return ErrMissingDestinationHeader
	}

	if hasDestination && ph.Destination != destination {
		return fmt.Errorf("%w: request value %q, protected value %q", ErrDestinationMismatch, destination, ph.Destination)
	}

	return nil
}
