package envelope

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

const testAlgorithm Algorithm = "ed25519"

type testSigningKey struct {
	key ed25519.PrivateKey
}

func (k testSigningKey) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(k.key, message), nil
}

func (k testSigningKey) Algorithm() Algorithm { return testAlgorithm }

type testPublicKey struct {
	key ed25519.PublicKey
}

func (k testPublicKey) Verify(message, signature []byte) bool {
	return ed25519.Verify(k.key, message, signature)
}

func (k testPublicKey) Algorithm() Algorithm { return testAlgorithm }

var errSignFailed = errors.New("sign failed")

type failingSigningKey struct{}

func (failingSigningKey) Sign([]byte) ([]byte, error) { return nil, errSignFailed }
func (failingSigningKey) Algorithm() Algorithm        { return testAlgorithm }

func newTestKeys(t *testing.T) (testSigningKey, testPublicKey) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	return testSigningKey{key: priv}, testPublicKey{key: pub}
}
