package envelope

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Envelope is the detached signature and the protected header it binds.
type Envelope struct {
	Signature       []byte
	ProtectedHeader ProtectedHeader
}

// wireEnvelope is the FSPIOP-Signature header representation. Both members
// are unpadded base64url; protectedHeader encodes the header JSON.
type wireEnvelope struct {
	Signature       string `json:"signature"`
	ProtectedHeader string `json:"protectedHeader"`
}

// Encode returns the FSPIOP-Signature header value for the envelope.
func (e *Envelope) Encode() (string, error) {
	ph, err := json.Marshal(e.ProtectedHeader)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(wireEnvelope{
		Signature:       base64.RawURLEncoding.EncodeToString(e.Signature),
		ProtectedHeader: base64.RawURLEncoding.EncodeToString(ph),
	})
	if err != nil {
		return "", err
	}

	return string(out), nil
}

// ParseEnvelope decodes an FSPIOP-Signature header value. Every failure
// wraps ErrMalformedEnvelope.
func ParseEnvelope(value string) (*Envelope, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: %s header not present", ErrMalformedEnvelope, HeaderSignature)
	}

	var wire wireEnvelope
	if err := json.Unmarshal([]byte(value), &wire); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedEnvelope)
	}

	if wire.Signature == "" {
		return nil, fmt.Errorf("%w: signature missing", ErrMalformedEnvelope)
	}

	if wire.ProtectedHeader == "" {
		return nil, fmt.Errorf("%w: protected header missing", ErrMalformedEnvelope)
	}

	sig, err := base64.RawURLEncoding.DecodeString(wire.Signature)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64url in signature", ErrMalformedEnvelope)
	}

	phRaw, err := base64.RawURLEncoding.DecodeString(wire.ProtectedHeader)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64url in protected header", ErrMalformedEnvelope)
	}

	env := &Envelope{Signature: sig}
	if err := json.Unmarshal(phRaw, &env.ProtectedHeader); err != nil {
		return nil, fmt.Errorf("%w: invalid protected header: %v", ErrMalformedEnvelope, err)
	}

	return env, nil
}

// cborEnvelope is the detached envelope file representation.
type cborEnvelope struct {
	Signature       []byte          `cbor:"1,keyasint"`
	ProtectedHeader ProtectedHeader `cbor:"2,keyasint"`
}

var cborEncMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}

	return em
}()

// cborDecMode matches protected header members by exact name, as
// ProtectedHeader.UnmarshalJSON does.
var cborDecMode = func() cbor.DecMode {
	dm, err := cbor.DecOptions{FieldNameMatching: cbor.FieldNameMatchingCaseSensitive}.DecMode()
	if err != nil {
		panic(err)
	}

	return dm
}()

// MarshalCBOR encodes the envelope using deterministic CBOR.
func (e *Envelope) MarshalCBOR() ([]byte, error) {
	return cborEncMode.Marshal(cborEnvelope{
		Signature:       e.Signature,
		ProtectedHeader: e.ProtectedHeader,
	})
}

// UnmarshalCBOR decodes an envelope produced by MarshalCBOR.
func (e *Envelope) UnmarshalCBOR(data []byte) error {
	var c cborEnvelope
	if err := cborDecMode.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	if len(c.Signature) == 0 {
		return fmt.Errorf("%w: signature missing", ErrMalformedEnvelope)
	}

	e.Signature = c.Signature
	e.ProtectedHeader = c.ProtectedHeader

	return nil
}
