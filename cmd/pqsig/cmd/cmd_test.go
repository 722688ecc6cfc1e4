package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/pqsig/envelope"
	"github.com/vitalvas/pqsig/fspiop"
	"github.com/vitalvas/pqsig/internal/config"
	"github.com/vitalvas/pqsig/keystore"
	"github.com/vitalvas/pqsig/scheme"
)

func init() {
	color.NoColor = true
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))

	err := root.Execute()

	return out.String(), err
}

func TestRootCmd(t *testing.T) {
	out, err := run(t, "", "--help")
	require.NoError(t, err)

	for _, name := range []string{"keygen", "sign", "verify", "serve"} {
		assert.Contains(t, out, name)
	}
}

func TestKeygen(t *testing.T) {
	dir := t.TempDir()
	ks := filepath.Join(dir, "keystore.yaml")

	t.Run("writes key pair and registers it", func(t *testing.T) {
		prefix := filepath.Join(dir, "payer")

		out, err := run(t, "", "keygen", "--algorithm", "ed25519", "--out", prefix, "--keystore", ks, "--source", "payer")
		require.NoError(t, err)
		assert.Contains(t, out, "generated ed25519")

		privPEM, err := os.ReadFile(prefix + ".pem")
		require.NoError(t, err)
		priv, err := scheme.ParsePrivateKeyPEM(privPEM)
		require.NoError(t, err)

		store, err := keystore.Load(ks)
		require.NoError(t, err)

		pub, ok := store.Lookup("payer")
		require.True(t, ok)

		sig, err := priv.Sign([]byte("m"))
		require.NoError(t, err)
		assert.True(t, pub.Verify([]byte("m"), sig))
	})

	t.Run("second key keeps existing entries", func(t *testing.T) {
		_, err := run(t, "", "keygen", "--algorithm", "ml_dsa44", "--out", filepath.Join(dir, "payee"), "--keystore", ks, "--source", "payee")
		require.NoError(t, err)

		store, err := keystore.Load(ks)
		require.NoError(t, err)
		assert.Equal(t, []string{"payee", "payer"}, store.Sources())
	})

	t.Run("seed is deterministic", func(t *testing.T) {
		seed := strings.Repeat("ab", 32)

		_, err := run(t, "", "keygen", "--out", filepath.Join(dir, "s1"), "--seed", seed)
		require.NoError(t, err)
		_, err = run(t, "", "keygen", "--out", filepath.Join(dir, "s2"), "--seed", seed)
		require.NoError(t, err)

		a, err := os.ReadFile(filepath.Join(dir, "s1.pub.pem"))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(dir, "s2.pub.pem"))
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("keystore without source", func(t *testing.T) {
		_, err := run(t, "", "keygen", "--out", filepath.Join(dir, "x"), "--keystore", ks)
		assert.Error(t, err)
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := run(t, "", "keygen", "--algorithm", "rsa", "--out", filepath.Join(dir, "x"))
		assert.ErrorIs(t, err, scheme.ErrUnsupportedAlgorithm)
	})
}

func TestSignVerify(t *testing.T) {
	dir := t.TempDir()
	ks := filepath.Join(dir, "keystore.yaml")
	key := filepath.Join(dir, "payer")
	data := filepath.Join(dir, "transfer.json")

	_, err := run(t, "", "keygen", "--out", key, "--keystore", ks, "--source", "payer")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(data, []byte(`{"amount":10}`), 0o600))

	sigValue, err := run(t, "", "sign", "--key", key+".pem", "--data", data, "--source", "payer", "--destination", "payee", "--uri", "/transfers")
	require.NoError(t, err)
	sigValue = strings.TrimSpace(sigValue)

	t.Run("header value", func(t *testing.T) {
		env, err := envelope.ParseEnvelope(sigValue)
		require.NoError(t, err)
		assert.Equal(t, "/transfers", env.ProtectedHeader.URI)
		assert.Equal(t, scheme.MLDSA65, env.ProtectedHeader.Algorithm)
	})

	t.Run("valid", func(t *testing.T) {
		out, err := run(t, "", "verify", "--keystore", ks, "--data", data, "--source", "payer", "--destination", "payee", "--signature", sigValue)
		require.NoError(t, err)
		assert.Equal(t, "VALID\n", out)
	})

	t.Run("tampered payload from stdin", func(t *testing.T) {
		out, err := run(t, `{"amount":11}`, "verify", "--keystore", ks, "--data", "-", "--source", "payer", "--destination", "payee", "--signature", sigValue)
		assert.ErrorIs(t, err, fspiop.ErrInvalidSignature)
		assert.Contains(t, out, "INVALID")
	})

	t.Run("stripped destination", func(t *testing.T) {
		out, err := run(t, "", "verify", "--keystore", ks, "--data", data, "--source", "payer", "--signature", sigValue)
		assert.ErrorIs(t, err, envelope.ErrMissingDestinationHeader)
		assert.Contains(t, out, envelope.CodeMissingDestinationHeader)
	})

	t.Run("cbor envelope file", func(t *testing.T) {
		sigFile := filepath.Join(dir, "transfer.sig")

		_, err := run(t, `{"amount":10}`, "sign", "--key", key+".pem", "--data", "-", "--source", "payer", "--out", sigFile)
		require.NoError(t, err)

		out, err := run(t, "", "verify", "--keystore", ks, "--data", data, "--source", "payer", "--envelope", sigFile)
		require.NoError(t, err)
		assert.Equal(t, "VALID\n", out)
	})

	t.Run("signature and envelope are exclusive", func(t *testing.T) {
		_, err := run(t, "", "verify", "--keystore", ks, "--data", data, "--source", "payer")
		assert.Error(t, err)
	})

	t.Run("empty payload", func(t *testing.T) {
		_, err := run(t, "", "sign", "--key", key+".pem", "--data", "-", "--source", "payer")
		assert.ErrorIs(t, err, envelope.ErrEmptyPayload)
	})
}

func TestServe(t *testing.T) {
	t.Run("stops on cancel", func(t *testing.T) {
		cfg := config.Default()
		cfg.Listen = "127.0.0.1:0"
		cfg.Algorithm = scheme.Ed25519

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.NoError(t, serve(ctx, cfg, zerolog.Nop()))
	})

	t.Run("missing signing key file", func(t *testing.T) {
		cfg := config.Default()
		cfg.SigningKey = filepath.Join(t.TempDir(), "absent.pem")

		assert.ErrorIs(t, serve(context.Background(), cfg, zerolog.Nop()), os.ErrNotExist)
	})

	t.Run("invalid flag override", func(t *testing.T) {
		_, err := run(t, "", "serve", "--log-level", "loud")
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}
