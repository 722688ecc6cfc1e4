package envelope

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeEncode(t *testing.T) {
	env := &Envelope{
		Signature: []byte{0x01, 0x02, 0xfe, 0xff},
		ProtectedHeader: ProtectedHeader{
			Algorithm:   "ml_dsa65",
			URI:         "/transfers",
			Source:      "payer",
			Destination: "payee",
			Date:        "Tue, 20 Oct 2026 10:00:00 GMT",
		},
	}

	encoded, err := env.Encode()
	require.NoError(t, err)

	t.Run("wire shape", func(t *testing.T) {
		var wire map[string]string
		require.NoError(t, json.Unmarshal([]byte(encoded), &wire))

		assert.Equal(t, "AQL-_w", wire["signature"])

		ph, err := base64.RawURLEncoding.DecodeString(wire["protectedHeader"])
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"alg": "ml_dsa65",
			"FSPIOP-URI": "/transfers",
			"FSPIOP-Source": "payer",
			"FSPIOP-Destination": "payee",
			"Date": "Tue, 20 Oct 2026 10:00:00 GMT"
		}`, string(ph))
	})

	t.Run("lossless round trip", func(t *testing.T) {
		decoded, err := ParseEnvelope(encoded)
		require.NoError(t, err)
		assert.Equal(t, env, decoded)
	})

	t.Run("optional members omitted", func(t *testing.T) {
		e := &Envelope{Signature: []byte{1}, ProtectedHeader: ProtectedHeader{Algorithm: "ed25519", Source: "a"}}

		raw, err := json.Marshal(e.ProtectedHeader)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "FSPIOP-Destination")
		assert.NotContains(t, string(raw), "Date")
		assert.NotContains(t, string(raw), "FSPIOP-URI")
		assert.Contains(t, string(raw), `"FSPIOP-Source":"a"`)
	})

	t.Run("absent uri and source are not emitted", func(t *testing.T) {
		rc := NewRequestContext(map[string]any{"amount": 10})
		ph := newProtectedHeader("ed25519", rc)

		raw, err := json.Marshal(ph)
		require.NoError(t, err)
		assert.JSONEq(t, `{"alg":"ed25519"}`, string(raw))

		data, err := (&Envelope{Signature: []byte{1}, ProtectedHeader: ph}).MarshalCBOR()
		require.NoError(t, err)
		assert.NotContains(t, string(data), "FSPIOP-URI")
		assert.NotContains(t, string(data), "FSPIOP-Source")
	})
}

func TestParseEnvelope(t *testing.T) {
	b64 := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"not json", "sig"},
		{"missing signature", `{"protectedHeader":"` + b64(`{}`) + `"}`},
		{"missing protected header", `{"signature":"AQ"}`},
		{"bad signature base64", `{"signature":"!!","protectedHeader":"` + b64(`{}`) + `"}`},
		{"bad protected header base64", `{"signature":"AQ","protectedHeader":"!!"}`},
		{"protected header not json", `{"signature":"AQ","protectedHeader":"` + b64(`nope`) + `"}`},
		{"protected member wrong type", `{"signature":"AQ","protectedHeader":"` + b64(`{"FSPIOP-Source":1}`) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEnvelope(tt.value)
			assert.ErrorIs(t, err, ErrMalformedEnvelope)
		})
	}

	t.Run("member names are case sensitive", func(t *testing.T) {
		value := `{"signature":"AQ","protectedHeader":"` + b64(`{"alg":"x","fspiop-source":"a","FSPIOP-Destination":"b"}`) + `"}`

		env, err := ParseEnvelope(value)
		require.NoError(t, err)
		assert.Empty(t, env.ProtectedHeader.Source)
		assert.Equal(t, "b", env.ProtectedHeader.Destination)
		assert.Equal(t, Algorithm("x"), env.ProtectedHeader.Algorithm)
	})
}

func TestEnvelopeCBOR(t *testing.T) {
	env := &Envelope{
		Signature: []byte("signature-bytes"),
		ProtectedHeader: ProtectedHeader{
			Algorithm:   "ml_dsa65",
			URI:         "/quotes",
			Source:      "payer",
			Destination: "payee",
		},
	}

	data, err := env.MarshalCBOR()
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		var decoded Envelope
		require.NoError(t, decoded.UnmarshalCBOR(data))
		assert.Equal(t, *env, decoded)
	})

	t.Run("deterministic", func(t *testing.T) {
		again, err := env.MarshalCBOR()
		require.NoError(t, err)
		assert.Equal(t, data, again)
	})

	t.Run("garbage", func(t *testing.T) {
		var decoded Envelope
		assert.ErrorIs(t, decoded.UnmarshalCBOR([]byte{0xff, 0x00}), ErrMalformedEnvelope)
	})

	t.Run("member names are case sensitive", func(t *testing.T) {
		raw, err := cbor.Marshal(map[int]any{
			1: []byte{1},
			2: map[string]string{"alg": "x", "fspiop-source": "a", "FSPIOP-Destination": "b"},
		})
		require.NoError(t, err)

		var decoded Envelope
		require.NoError(t, decoded.UnmarshalCBOR(raw))
		assert.Empty(t, decoded.ProtectedHeader.Source)
		assert.Equal(t, "b", decoded.ProtectedHeader.Destination)
		assert.Equal(t, Algorithm("x"), decoded.ProtectedHeader.Algorithm)
	})

	t.Run("missing signature", func(t *testing.T) {
		empty := &Envelope{ProtectedHeader: env.ProtectedHeader}
		raw, err := empty.MarshalCBOR()
		require.NoError(t, err)

		var decoded Envelope
		assert.ErrorIs(t, decoded.UnmarshalCBOR(raw), ErrMalformedEnvelope)
	})
}
