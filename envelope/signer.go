package envelope

import (
	"fmt"

	"github.com/rs/zerolog"
)

// SignerConfig configures a Signer.
type SignerConfig struct {
	// SigningKey produces the detached signature. Required.
	SigningKey SigningKey

	// Logger receives debug events. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// Signer attaches signature envelopes to outgoing request contexts.
// A Signer is safe for concurrent use.
type Signer struct {
	key    SigningKey
	logger zerolog.Logger
}

// NewSigner creates a Signer. It returns ErrConfiguration if no signing
// key is supplied.
func NewSigner(cfg SignerConfig) (*Signer, error) {
	if cfg.SigningKey == nil {
		return nil, fmt.Errorf("%w: signing key must be supplied", ErrConfiguration)
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Signer{key: cfg.SigningKey, logger: logger}, nil
}

// Algorithm returns the scheme recorded in produced protected headers.
func (s *Signer) Algorithm() Algorithm {
	return s.key.Algorithm()
}

// Envelope signs the canonical payload of rc and returns the envelope
// without modifying rc.
func (s *Signer) Envelope(rc *RequestContext) (*Envelope, error) {
	payload, err := Payload(rc)
	if err != nil {
		return nil, err
	}

	ph := newProtectedHeader(s.key.Algorithm(), rc)

	sig, err := s.key.Sign([]byte(payload))
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("alg", ph.Algorithm.String()).
		Str("source", ph.Source).
		Str("uri", ph.URI).
		Int("payload_bytes", len(payload)).
		Msg("signed request payload")

	return &Envelope{Signature: sig, ProtectedHeader: ph}, nil
}

// Sign attaches the signature envelope to rc under the FSPIOP-Signature
// header. Structured body and data fields are then replaced with their
// canonical string form so that what is transmitted is what was signed.
func (s *Signer) Sign(rc *RequestContext) error {
	env, err := s.Envelope(rc)
	if err != nil {
		return err
	}

	encoded, err := env.Encode()
	if err != nil {
		return err
	}

	rc.setHeader(HeaderSignature, encoded)

	if err := canonicalizeField(&rc.Body); err != nil {
		return err
	}

	return canonicalizeField(&rc.Data)
}

func canonicalizeField(field *any) error {
	if *field == nil || isCanonicalString(*field) {
		return nil
	}

	canon, err := Canonicalize(*field)
	if err != nil {
		return err
	}

	if canon != "" {
		*field = canon
	}

	return nil
}
