package scheme

import (
	"fmt"

	"github.com/vitalvas/pqsig/envelope"
)

// Algorithm identifiers recorded in the protected header "alg" member.
const (
	// MLDSA44 is ML-DSA (FIPS 204) at security category 2.
	MLDSA44 envelope.Algorithm = "ml_dsa44"

	// MLDSA65 is ML-DSA (FIPS 204) at security category 3.
	MLDSA65 envelope.Algorithm = "ml_dsa65"

	// MLDSA87 is ML-DSA (FIPS 204) at security category 5.
	MLDSA87 envelope.Algorithm = "ml_dsa87"

	// Ed25519 is the Edwards-curve signature scheme over curve 25519.
	Ed25519 envelope.Algorithm = "ed25519"

	// ECDSAP256SHA256 is ECDSA using curve P-256 and SHA-256.
	ECDSAP256SHA256 envelope.Algorithm = "ecdsa-p256-sha256"
)

// Default is the algorithm used when none is configured.
const Default = MLDSA65

// PublicKey is a verification key that can be serialized.
type PublicKey interface {
	envelope.PublicKey

	// MarshalBinary returns the raw encoding of the key.
	MarshalBinary() ([]byte, error)
}

// PrivateKey is a signing key that can be serialized and knows its
// verification counterpart.
type PrivateKey interface {
	envelope.SigningKey

	// Public returns the matching verification key.
	Public() PublicKey

	// MarshalBinary returns the raw encoding of the key.
	MarshalBinary() ([]byte, error)
}

// KeyPair holds matching signing and verification keys.
type KeyPair struct {
	Public  PublicKey
	Private PrivateKey
}

// provider implements one algorithm.
type provider interface {
	generate(seed []byte) (*KeyPair, error)
	parsePublic(data []byte) (PublicKey, error)
	parsePrivate(data []byte) (PrivateKey, error)
}

var providers = map[envelope.Algorithm]provider{
	MLDSA44:         newCirclProvider(MLDSA44),
	MLDSA65:         newCirclProvider(MLDSA65),
	MLDSA87:         newCirclProvider(MLDSA87),
	Ed25519:         newCirclProvider(Ed25519),
	ECDSAP256SHA256: ecdsaProvider{},
}

// Algorithms returns the supported algorithm identifiers.
func Algorithms() []envelope.Algorithm {
	return []envelope.Algorithm{MLDSA44, MLDSA65, MLDSA87, Ed25519, ECDSAP256SHA256}
}

func lookup(alg envelope.Algorithm) (provider, error) {
	p, ok := providers[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}

	return p, nil
}

// GenerateKey creates a key pair for alg. When seed is nil the key is
// generated from crypto/rand; otherwise it is derived deterministically
// from seed, which must match the algorithm's seed size.
func GenerateKey(alg envelope.Algorithm, seed []byte) (*KeyPair, error) {
	p, err := lookup(alg)
	if err != nil {
		return nil, err
	}

	return p.generate(seed)
}

// ParsePublicKey decodes a raw public key for alg.
func ParsePublicKey(alg envelope.Algorithm, data []byte) (PublicKey, error) {
	p, err := lookup(alg)
	if err != nil {
		return nil, err
	}

	return p.parsePublic(data)
}

// ParsePrivateKey decodes a raw private key for alg.
func ParsePrivateKey(alg envelope.Algorithm, data []byte) (PrivateKey, error) {
	p, err := lookup(alg)
	if err != nil {
		return nil, err
	}

	return p.parsePrivate(data)
}
