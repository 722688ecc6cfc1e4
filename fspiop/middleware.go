package fspiop

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vitalvas/pqsig/envelope"
)

type resultKey struct{}

// ResultFromContext returns the validation result stored by Middleware.
// It returns envelope.ResultUnknown when the request was not validated.
func ResultFromContext(ctx context.Context) envelope.Result {
	if r, ok := ctx.Value(resultKey{}).(envelope.Result); ok {
		return r
	}

	return envelope.ResultUnknown
}

// MiddlewareConfig configures the server-side envelope validation
// middleware.
type MiddlewareConfig struct {
	// Validator checks incoming envelopes. Required.
	Validator *envelope.Validator

	// OnError is called when validation fails or the signature does not
	// verify. When nil, WriteError is used.
	OnError func(w http.ResponseWriter, r *http.Request, err error)
}

// Middleware returns a middleware that validates the FSPIOP-Signature
// envelope of incoming requests. Requests that pass reach next with
// envelope.ResultValid stored in their context.
func Middleware(cfg MiddlewareConfig) (func(http.Handler) http.Handler, error) {
	if cfg.Validator == nil {
		return nil, fmt.Errorf("%w: middleware validator must be supplied", envelope.ErrConfiguration)
	}

	onError := cfg.OnError
	if onError == nil {
		onError = defaultOnError
	}

	validator := cfg.Validator

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc, err := FromRequest(r)
			if err != nil {
				onError(w, r, err)
				return
			}

			valid, err := validator.Validate(rc)
			if err != nil {
				onError(w, r, err)
				return
			}

			if !valid {
				onError(w, r, ErrInvalidSignature)
				return
			}

			ctx := context.WithValue(r.Context(), resultKey{}, rc.Result)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}, nil
}

func defaultOnError(w http.ResponseWriter, _ *http.Request, err error) {
	WriteError(w, err)
}
