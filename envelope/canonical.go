package envelope

import (
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// Canonicalize returns the canonical string form of a payload value.
//
// Strings, byte slices and json.RawMessage are treated as already
// serialized and returned verbatim. Any other value is marshaled with
// encoding/json and then canonicalized per RFC 8785 (JCS), so equivalent
// structured values always produce byte-identical payloads regardless of
// map iteration or struct field order. A nil value or JSON null yields "".
func Canonicalize(v any) (string, error) {
	switch p := v.(type) {
	case nil:
		return "", nil
	case string:
		return p, nil
	case []byte:
		return string(p), nil
	case json.RawMessage:
		return string(p), nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("envelope: marshal payload: %w", err)
	}

	canon, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("envelope: canonicalize payload: %w", err)
	}

	if string(canon) == "null" {
		return "", nil
	}

	return string(canon), nil
}

// Payload derives the canonical payload of a request context. The body is
// preferred; the data field is used when the body yields nothing.
func Payload(rc *RequestContext) (string, error) {
	payload, err := Canonicalize(rc.Body)
	if err != nil {
		return "", err
	}

	if payload != "" {
		return payload, nil
	}

	payload, err = Canonicalize(rc.Data)
	if err != nil {
		return "", err
	}

	if payload == "" {
		return "", ErrEmptyPayload
	}

	return payload, nil
}

// isCanonicalString reports whether v is already in transmitted form.
func isCanonicalString(v any) bool {
	_, ok := v.(string)
	return ok
}
