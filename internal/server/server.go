package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/vitalvas/pqsig/envelope"
	"github.com/vitalvas/pqsig/fspiop"
)

// DefaultMaxBodyBytes bounds request bodies when Options.MaxBodyBytes is
// zero.
const DefaultMaxBodyBytes = 1 << 20

// Options configures a Server.
type Options struct {
	// Signer signs generated requests. Required.
	Signer *envelope.Signer

	// Keystore resolves source keys for validation. Required.
	Keystore envelope.Keystore

	// Source is the FSPIOP-Source used when validating generated
	// signatures. Required.
	Source string

	// Accounts maps beneficiary names to FSPIOP-Destination identifiers.
	// Defaults to DefaultAccounts.
	Accounts map[string]string

	// MaxBodyBytes caps request bodies. Defaults to DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// Logger receives access and error logs. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// DefaultAccounts is the mock payee directory.
var DefaultAccounts = map[string]string{
	"Robert Downey":   "9876543210",
	"Tony Stark":      "1231231234",
	"Stephen Hawkins": "4564564567",
}

// Server is the demo HTTP server.
type Server struct {
	signer    *envelope.Signer
	validator *envelope.Validator
	source    string
	accounts  map[string]string
	session   session
	logger    zerolog.Logger
	router    chi.Router
}

// New creates a Server and its routes.
func New(opts Options) (*Server, error) {
	if opts.Signer == nil {
		return nil, fmt.Errorf("%w: server signer must be supplied", envelope.ErrConfiguration)
	}

	if opts.Source == "" {
		return nil, fmt.Errorf("%w: server source must be supplied", envelope.ErrConfiguration)
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	validator, err := envelope.NewValidator(envelope.ValidatorConfig{
		Keystore: opts.Keystore,
		Logger:   &logger,
	})
	if err != nil {
		return nil, err
	}

	accounts := opts.Accounts
	if accounts == nil {
		accounts = DefaultAccounts
	}

	maxBytes := opts.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}

	s := &Server{
		signer:    opts.Signer,
		validator: validator,
		source:    opts.Source,
		accounts:  accounts,
		logger:    logger,
	}

	verify, err := fspiop.Middleware(fspiop.MiddlewareConfig{
		Validator: validator,
		OnError:   s.onVerifyError,
	})
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middlewares(logger, maxBytes)...)

	r.Get("/health", s.handleHealth)
	r.Post("/generate-signature", s.handleGenerate)
	r.Post("/validate-signature", s.handleValidate)
	r.With(verify).Post("/verify", s.handleVerify)

	s.router = r

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) onVerifyError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn().
		Str("request_id", RequestIDFromContext(r.Context())).
		Str("code", fspiop.ErrorCode(err)).
		Err(err).
		Msg("request rejected")

	fspiop.WriteError(w, err)
}
