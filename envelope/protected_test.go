package envelope

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckProtectedHeader(t *testing.T) {
	headers := func(kv ...string) http.Header {
		h := make(http.Header)
		for i := 0; i+1 < len(kv); i += 2 {
			h.Set(kv[i], kv[i+1])
		}
		return h
	}

	tests := []struct {
		name    string
		headers http.Header
		ph      ProtectedHeader
		want    error
	}{
		{
			name:    "source only",
			headers: headers(HeaderSource, "A"),
			ph:      ProtectedHeader{Source: "A"},
		},
		{
			name:    "all bound",
			headers: headers(HeaderSource, "A", HeaderDestination, "B", HeaderDate, "d"),
			ph:      ProtectedHeader{Source: "A", Destination: "B", Date: "d"},
		},
		{
			name:    "protected source missing",
			headers: headers(HeaderSource, "A"),
			ph:      ProtectedHeader{},
			want:    ErrProtectedHeaderMissingSource,
		},
		{
			name:    "transport source missing",
			headers: headers(),
			ph:      ProtectedHeader{Source: "A"},
			want:    ErrMissingSourceHeader,
		},
		{
			name:    "nil headers",
			headers: nil,
			ph:      ProtectedHeader{Source: "A"},
			want:    ErrMissingSourceHeader,
		},
		{
			name:    "source differs",
			headers: headers(HeaderSource, "a"),
			ph:      ProtectedHeader{Source: "A"},
			want:    ErrSourceMismatch,
		},
		{
			name:    "date missing",
			headers: headers(HeaderSource, "A"),
			ph:      ProtectedHeader{Source: "A", Date: "d"},
			want:    ErrMissingDateHeader,
		},
		{
			name:    "date differs",
			headers: headers(HeaderSource, "A", HeaderDate, "e"),
			ph:      ProtectedHeader{Source: "A", Date: "d"},
			want:    ErrDateMismatch,
		},
		{
			name:    "destination not protected",
			headers: headers(HeaderSource, "A", HeaderDestination, "B"),
			ph:      ProtectedHeader{Source: "A"},
			want:    ErrProtectedHeaderMissingDestination,
		},
		{
			name:    "destination not sent",
			headers: headers(HeaderSource, "A"),
			ph:      ProtectedHeader{Source: "A", Destination: "B"},
			want:    ErrMissingDestinationHeader,
		},
		{
			name:    "destination differs",
			headers: headers(HeaderSource, "A", HeaderDestination, "C"),
			ph:      ProtectedHeader{Source: "A", Destination: "B"},
			want:    ErrDestinationMismatch,
		},
		{
			name:    "source checked before date",
			headers: headers(HeaderSource, "X"),
			ph:      ProtectedHeader{Source: "A", Date: "d"},
			want:    ErrSourceMismatch,
		},
		{
			name:    "date checked before destination",
			headers: headers(HeaderSource, "A", HeaderDestination, "B"),
			ph:      ProtectedHeader{Source: "A", Date: "d"},
			want:    ErrMissingDateHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckProtectedHeader(tt.headers, tt.ph)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{ErrEmptyPayload, CodeEmptyPayload},
		{ErrMissingSourceHeader, CodeMissingSourceHeader},
		{&UnknownSourceKeyError{Source: "x"}, CodeUnknownSourceKey},
		{ErrMalformedEnvelope, CodeMalformedEnvelope},
		{CheckProtectedHeader(http.Header{"Fspiop-Source": {"B"}}, ProtectedHeader{Source: "A"}), CodeSourceMismatch},
		{ErrDestinationMismatch, CodeDestinationMismatch},
		{ErrConfiguration, CodeConfiguration},
		{errors.New("other"), CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, ErrorCode(tt.err))
		})
	}

	t.Run("codes are distinct", func(t *testing.T) {
		codes := make(map[string]struct{})
		for _, c := range errorCodes {
			codes[c.code] = struct{}{}
		}

		assert.Len(t, codes, len(errorCodes))
	})
}
