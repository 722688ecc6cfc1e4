package scheme

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"fmt"

	"github.com/vitalvas/pqsig/envelope"
)

// ecdsaProvider implements ECDSA P-256 with SHA-256. Public keys are
// encoded as PKIX and private keys as PKCS #8.
type ecdsaProvider struct{}

func (ecdsaProvider) generate(seed []byte) (*KeyPair, error) {
	if seed != nil {
		return nil, fmt.Errorf("%w: %s", ErrSeedUnsupported, ECDSAP256SHA256)
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}

	priv := &ecdsaPrivateKey{key: key}

	return &KeyPair{Public: priv.Public(), Private: priv}, nil
}

func (ecdsaProvider) parsePublic(data []byte) (PublicKey, error) {
	parsed, err := x509.ParsePKIXPublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	key, ok := parsed.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an ecdsa public key", ErrInvalidKey)
	}

	if key.Curve != elliptic.P256() {
		return nil, fmt.Errorf("%w: key curve must be P-256", ErrInvalidKey)
	}

	return &ecdsaPublicKey{key: key}, nil
}

func (ecdsaProvider) parsePrivate(data []byte) (PrivateKey, error) {
	parsed, err := x509.ParsePKCS8PrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	key, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an ecdsa private key", ErrInvalidKey)
	}

	if key.Curve != elliptic.P256() {
		return nil, fmt.Errorf("%w: key curve must be P-256", ErrInvalidKey)
	}

	return &ecdsaPrivateKey{key: key}, nil
}

type ecdsaPrivateKey struct {
	key *ecdsa.PrivateKey
}

func (k *ecdsaPrivateKey) Sign(message []byte) ([]byte, error) {
	digest := sha256.Sum256(message)

	return ecdsa.SignASN1(rand.Reader, k.key, digest[:])
}

func (k *ecdsaPrivateKey) Algorithm() envelope.Algorithm  { return ECDSAP256SHA256 }
func (k *ecdsaPrivateKey) Public() PublicKey              { return &ecdsaPublicKey{key: &k.key.PublicKey} }
func (k *ecdsaPrivateKey) MarshalBinary() ([]byte, error) { return x509.MarshalPKCS8PrivateKey(k.key) }

type ecdsaPublicKey struct {
	key *ecdsa.PublicKey
}

func (k *ecdsaPublicKey) Verify(message, signature []byte) bool {
	digest := sha256.Sum256(message)

	return ecdsa.VerifyASN1(k.key, digest[:], signature)
}

func (k *ecdsaPublicKey) Algorithm() envelope.Algorithm  { return ECDSAP256SHA256 }
func (k *ecdsaPublicKey) MarshalBinary() ([]byte, error) { return x509.MarshalPKIXPublicKey(k.key) }
