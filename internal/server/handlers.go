package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/vitalvas/pqsig/envelope"
	"github.com/vitalvas/pqsig/fspiop"
)

// Verdict messages returned by the validate endpoint.
const (
	MessageGenerated = "SIGNATURE GENERATED!!"
	MessageValid     = "Signature is valid!!!"
	MessageInvalid   = "Signature is invalid:(("
)

// CodeNoSignature is returned when validation is requested before any
// signature was generated.
const CodeNoSignature = "NO_SIGNATURE_GENERATED"

var errNoSignature = errors.New("server: no signature has been generated")

// GenerateRequest is the body of POST /generate-signature. A missing
// TransferID is assigned a time-ordered UUID.
type GenerateRequest struct {
	Amount      any    `json:"amount"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	TransferID  string `json:"transferId,omitempty"`
}

// GenerateResponse is returned by POST /generate-signature.
type GenerateResponse struct {
	Message    string `json:"message"`
	TransferID string `json:"transferId"`
	Signature  string `json:"signature"`
	Envelope   string `json:"envelope"`
}

// ValidateRequest is the body of POST /validate-signature.
type ValidateRequest struct {
	ValidateAmount      any    `json:"validateAmount"`
	ValidateBeneficiary string `json:"validateBeneficiary"`
}

// ValidateResponse is returned by POST /validate-signature.
type ValidateResponse struct {
	ValidationResult string `json:"validationResult"`
}

// VerifyResponse is returned by POST /verify.
type VerifyResponse struct {
	Result string `json:"result"`
	Source string `json:"source"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, r, err)
		return
	}

	if req.TransferID == "" {
		req.TransferID = uuid.Must(uuid.NewV7()).String()
	}

	rc := envelope.NewRequestContext(transferBody(req.TransferID, req.Amount))
	rc.Headers.Set(envelope.HeaderSource, req.Source)
	rc.Headers.Set(envelope.HeaderDestination, req.Destination)

	env, err := s.signer.Envelope(rc)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	encoded, err := env.Encode()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.session.store(req.TransferID, encoded)

	s.logger.Debug().
		Str("request_id", RequestIDFromContext(r.Context())).
		Str("transfer_id", req.TransferID).
		Str("source", req.Source).
		Str("destination", req.Destination).
		Msg("signature generated")

	fspiop.WriteJSON(w, http.StatusOK, GenerateResponse{
		Message:    MessageGenerated,
		TransferID: req.TransferID,
		Signature:  base64.StdEncoding.EncodeToString(env.Signature),
		Envelope:   encoded,
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, r, err)
		return
	}

	transferID, signature, ok := s.session.load()
	if !ok {
		fspiop.WriteJSON(w, http.StatusConflict, fspiop.ErrorResponse{
			ErrorInformation: fspiop.ErrorInformation{
				ErrorCode:        CodeNoSignature,
				ErrorDescription: errNoSignature.Error(),
			},
		})
		return
	}

	rc := envelope.NewRequestContext(transferBody(transferID, req.ValidateAmount))
	rc.Headers.Set(envelope.HeaderSource, s.source)
	rc.Headers.Set(envelope.HeaderDestination, s.accounts[req.ValidateBeneficiary])
	rc.Headers.Set(envelope.HeaderSignature, signature)

	valid, err := s.validator.Validate(rc)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	msg := MessageInvalid
	if valid {
		msg = MessageValid
	}

	fspiop.WriteJSON(w, http.StatusOK, ValidateResponse{ValidationResult: msg})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	fspiop.WriteJSON(w, http.StatusOK, VerifyResponse{
		Result: fspiop.ResultFromContext(r.Context()).String(),
		Source: r.Header.Get(envelope.HeaderSource),
	})
}

// transferBody is the payload signed for a generated transfer.
func transferBody(transferID string, amount any) map[string]any {
	return map[string]any{"transferId": transferID, "amount": amount}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Info().
		Str("request_id", RequestIDFromContext(r.Context())).
		Str("code", fspiop.ErrorCode(err)).
		Err(err).
		Msg("request failed")

	fspiop.WriteError(w, err)
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.fail(w, r, err)
		return
	}

	s.logger.Info().
		Str("request_id", RequestIDFromContext(r.Context())).
		Err(err).
		Msg("malformed request body")

	fspiop.WriteJSON(w, http.StatusBadRequest, fspiop.ErrorResponse{
		ErrorInformation: fspiop.ErrorInformation{
			ErrorCode:        "MALFORMED_SYNTAX",
			ErrorDescription: err.Error(),
		},
	})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}

	return nil
}
