package envelope

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	type transfer struct {
		Payee  string `json:"payee"`
		Amount int    `json:"amount"`
	}

	var nilTransfer *transfer

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, ""},
		{"string verbatim", `{"b":1, "a":2}`, `{"b":1, "a":2}`},
		{"bytes verbatim", []byte("raw"), "raw"},
		{"raw message verbatim", json.RawMessage(`{"z":1}`), `{"z":1}`},
		{"map keys sorted", map[string]any{"b": 1, "a": 2}, `{"a":2,"b":1}`},
		{"struct fields sorted", transfer{Payee: "bob", Amount: 10}, `{"amount":10,"payee":"bob"}`},
		{"nested keys sorted", map[string]any{"x": map[string]any{"d": true, "c": nil}}, `{"x":{"c":null,"d":true}}`},
		{"numbers normalized", map[string]any{"amount": 1.50}, `{"amount":1.5}`},
		{"html not escaped", map[string]any{"note": "<a&b>"}, `{"note":"<a&b>"}`},
		{"typed nil pointer", nilTransfer, ""},
		{"empty object", map[string]any{}, `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unmarshalable value", func(t *testing.T) {
		_, err := Canonicalize(map[string]any{"ch": make(chan int)})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrEmptyPayload)
	})
}

func TestPayload(t *testing.T) {
	t.Run("body preferred over data", func(t *testing.T) {
		rc := &RequestContext{Body: map[string]int{"amount": 10}, Data: "ignored"}

		got, err := Payload(rc)
		require.NoError(t, err)
		assert.Equal(t, `{"amount":10}`, got)
	})

	t.Run("data used when body empty", func(t *testing.T) {
		rc := &RequestContext{Body: "", Data: map[string]int{"amount": 10}}

		got, err := Payload(rc)
		require.NoError(t, err)
		assert.Equal(t, `{"amount":10}`, got)
	})

	t.Run("no payload", func(t *testing.T) {
		_, err := Payload(&RequestContext{})
		assert.ErrorIs(t, err, ErrEmptyPayload)
	})

	t.Run("equivalent values produce identical payloads", func(t *testing.T) {
		a, err := Payload(&RequestContext{Body: map[string]any{"a": 1, "b": "two"}})
		require.NoError(t, err)

		b, err := Payload(&RequestContext{Body: struct {
			B string `json:"b"`
			A int    `json:"a"`
		}{B: "two", A: 1}})
		require.NoError(t, err)

		assert.Equal(t, a, b)
	})
}
