package fspiop

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/net/http/httpguts"

	"github.com/vitalvas/pqsig/envelope"
)

// TransportConfig configures a signing Transport.
type TransportConfig struct {
	// Signer produces the envelope. Required.
	Signer *envelope.Signer

	// Source is set as FSPIOP-Source on requests that do not carry one.
	Source string

	// Date, when true, sets a Date header on requests that do not carry one
	// so that the date is bound by the protected header.
	Date bool

	// Now returns the current time for the Date header. Defaults to
	// time.Now.
	Now func() time.Time
}

// Transport is an http.RoundTripper that attaches an FSPIOP-Signature
// envelope to every outgoing request.
type Transport struct {
	base   http.RoundTripper
	config TransportConfig
}

// NewTransport creates a signing Transport that delegates to base after
// signing. When base is nil, a clone of http.DefaultTransport is used.
func NewTransport(base *http.Transport, cfg TransportConfig) (*Transport, error) {
	if cfg.Signer == nil {
		return nil, fmt.Errorf("%w: transport signer must be supplied", envelope.ErrConfiguration)
	}

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	var rt http.RoundTripper
	if base != nil {
		rt = base
	} else {
		rt = http.DefaultTransport.(*http.Transport).Clone()
	}

	return &Transport{
		base:   rt,
		config: cfg,
	}, nil
}

// RoundTrip signs a clone of the request and delegates to the base
// transport. FSPIOP-URI defaults to the request URI when absent.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if clone.Body != nil && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}

		clone.Body = body
	}

	if err := t.sign(clone); err != nil {
		return nil, err
	}

	return t.base.RoundTrip(clone)
}

func (t *Transport) sign(r *http.Request) error {
	if r.Header == nil {
		r.Header = make(http.Header)
	}

	h := r.Header

	if h.Get(envelope.HeaderURI) == "" {
		h.Set(envelope.HeaderURI, r.URL.RequestURI())
	}

	if t.config.Source != "" && h.Get(envelope.HeaderSource) == "" {
		h.Set(envelope.HeaderSource, t.config.Source)
	}

	if t.config.Date && h.Get(envelope.HeaderDate) == "" {
		h.Set(envelope.HeaderDate, t.config.Now().UTC().Format(http.TimeFormat))
	}

	for _, name := range []string{
		envelope.HeaderURI,
		envelope.HeaderSource,
		envelope.HeaderDestination,
		envelope.HeaderDate,
	} {
		if v := h.Get(name); !httpguts.ValidHeaderFieldValue(v) {
			return fmt.Errorf("%w: %s", ErrInvalidHeaderValue, name)
		}
	}

	rc, err := FromRequest(r)
	if err != nil {
		return err
	}

	return t.config.Signer.Sign(rc)
}
