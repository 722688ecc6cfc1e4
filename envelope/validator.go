package envelope

import (
	"fmt"

	"github.com/rs/zerolog"
)

// ValidatorConfig configures a Validator.
type ValidatorConfig struct {
	// Keystore maps source identifiers to verification keys. Required.
	Keystore Keystore

	// Logger receives debug events. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// Validator checks signature envelopes on incoming request contexts.
// A Validator is safe for concurrent use as long as its Keystore is.
type Validator struct {
	keys   Keystore
	logger zerolog.Logger
}

// NewValidator creates a Validator. It returns ErrConfiguration if no
// keystore is supplied.
func NewValidator(cfg ValidatorConfig) (*Validator, error) {
	if cfg.Keystore == nil {
		return nil, fmt.Errorf("%w: validation keys must be supplied", ErrConfiguration)
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Validator{keys: cfg.Keystore, logger: logger}, nil
}

// Validate verifies the envelope carried by rc and records the outcome in
// rc.Result.
//
// A false result with a nil error means the protected header is correctly
// bound but the signature does not match the payload (tampering). Any
// protocol defect is returned as an error and rc.Result is left unchanged.
//
// Validation order:
//  1. canonical payload (ErrEmptyPayload)
//  2. FSPIOP-Source header (ErrMissingSourceHeader)
//  3. key lookup (ErrUnknownSourceKey)
//  4. envelope decode (ErrMalformedEnvelope) and signature verification
//  5. protected header binding checks, independent of step 4's outcome
func (v *Validator) Validate(rc *RequestContext) (bool, error) {
	valid, err := v.validate(rc)
	if err != nil {
		v.logger.Debug().Err(err).Msg("envelope validation failed")
		return false, err
	}

	if valid {
		rc.Result = ResultValid
	} else {
		rc.Result = ResultInvalid
	}

	v.logger.Debug().
		Str("source", rc.Headers.Get(HeaderSource)).
		Stringer("result", rc.Result).
		Msg("envelope validated")

	return valid, nil
}

func (v *Validator) validate(rc *RequestContext) (bool, error) {
	payload, err := Payload(rc)
	if err != nil {
		return false, err
	}

	source, ok := rc.header(HeaderSource)
	if !ok {
		return false, ErrMissingSourceHeader
	}

	key, ok := v.keys.Lookup(source)
	if !ok {
		return false, &UnknownSourceKeyError{Source: source, Known: v.keys.Sources()}
	}

	raw, _ := rc.header(HeaderSignature)

	env, err := ParseEnvelope(raw)
	if err != nil {
		return false, err
	}

	signatureValid := key.Verify([]byte(payload), env.Signature)

	if err := CheckProtectedHeader(rc.Headers, env.ProtectedHeader); err != nil {
		return false, err
	}

	return signatureValid, nil
}
