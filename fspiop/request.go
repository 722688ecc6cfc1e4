package fspiop

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/vitalvas/pqsig/envelope"
)

// FromRequest builds a RequestContext from r. The body is read and put
// back so later handlers can still consume it; it becomes the payload
// verbatim. The context shares r.Header, so headers set on it by
// Signer.Sign land on the request.
func FromRequest(r *http.Request) (*envelope.RequestContext, error) {
	body, err := readAndRestoreBody(r)
	if err != nil {
		return nil, err
	}

	if r.Header == nil {
		r.Header = make(http.Header)
	}

	rc := &envelope.RequestContext{Headers: r.Header}
	if len(body) > 0 {
		rc.Body = json.RawMessage(body)
	}

	return rc, nil
}

// readAndRestoreBody reads the full request body and replaces it with a
// new reader over the same bytes.
func readAndRestoreBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))

	return body, nil
}
