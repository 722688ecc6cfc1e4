package scheme

import (
	"fmt"

	"github.com/cloudflare/circl/sign"
	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/cloudflare/circl/sign/mldsa/mldsa44"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"github.com/cloudflare/circl/sign/mldsa/mldsa87"

	"github.com/vitalvas/pqsig/envelope"
)

// circlProvider adapts a circl sign.Scheme. Signatures use the empty
// context string.
type circlProvider struct {
	alg    envelope.Algorithm
	scheme sign.Scheme
}

func newCirclProvider(alg envelope.Algorithm) circlProvider {
	var s sign.Scheme

	switch alg {
	case MLDSA44:
		s = mldsa44.Scheme()
	case MLDSA65:
		s = mldsa65.Scheme()
	case MLDSA87:
		s = mldsa87.Scheme()
	case Ed25519:
		s = ed25519.Scheme()
	default:
		panic("scheme: no circl scheme for " + string(alg))
	}

	return circlProvider{alg: alg, scheme: s}
}

func (p circlProvider) generate(seed []byte) (*KeyPair, error) {
	var (
		pk  sign.PublicKey
		sk  sign.PrivateKey
		err error
	)

	if seed == nil {
		pk, sk, err = p.scheme.GenerateKey()
		if err != nil {
			return nil, err
		}
	} else {
		if len(seed) != p.scheme.SeedSize() {
			return nil, fmt.Errorf("%w: %s seed must be %d bytes", ErrInvalidKey, p.alg, p.scheme.SeedSize())
		}

		pk, sk = p.scheme.DeriveKey(seed)
	}

	pub := &circlPublicKey{alg: p.alg, scheme: p.scheme, key: pk}

	return &KeyPair{
		Public:  pub,
		Private: &circlPrivateKey{alg: p.alg, scheme: p.scheme, key: sk, pub: pub},
	}, nil
}

func (p circlProvider) parsePublic(data []byte) (PublicKey, error) {
	if len(data) != p.scheme.PublicKeySize() {
		return nil, fmt.Errorf("%w: %s public key must be %d bytes", ErrInvalidKey, p.alg, p.scheme.PublicKeySize())
	}

	pk, err := p.scheme.UnmarshalBinaryPublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	return &circlPublicKey{alg: p.alg, scheme: p.scheme, key: pk}, nil
}

func (p circlProvider) parsePrivate(data []byte) (PrivateKey, error) {
	if len(data) != p.scheme.PrivateKeySize() {
		return nil, fmt.Errorf("%w: %s private key must be %d bytes", ErrInvalidKey, p.alg, p.scheme.PrivateKeySize())
	}

	sk, err := p.scheme.UnmarshalBinaryPrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	pk, ok := sk.Public().(sign.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s private key has no public counterpart", ErrInvalidKey, p.alg)
	}

	pub := &circlPublicKey{alg: p.alg, scheme: p.scheme, key: pk}

	return &circlPrivateKey{alg: p.alg, scheme: p.scheme, key: sk, pub: pub}, nil
}

type circlPrivateKey struct {
	alg    envelope.Algorithm
	scheme sign.Scheme
	key    sign.PrivateKey
	pub    *circlPublicKey
}

func (k *circlPrivateKey) Sign(message []byte) ([]byte, error) {
	return k.scheme.Sign(k.key, message, nil), nil
}

func (k *circlPrivateKey) Algorithm() envelope.Algorithm  { return k.alg }
func (k *circlPrivateKey) Public() PublicKey              { return k.pub }
func (k *circlPrivateKey) MarshalBinary() ([]byte, error) { return k.key.MarshalBinary() }

type circlPublicKey struct {
	alg    envelope.Algorithm
	scheme sign.Scheme
	key    sign.PublicKey
}

func (k *circlPublicKey) Verify(message, signature []byte) bool {
	if len(signature) != k.scheme.SignatureSize() {
		return false
	}

	return k.scheme.Verify(k.key, message, signature, nil)
}

func (k *circlPublicKey) Algorithm() envelope.Algorithm  { return k.alg }
func (k *circlPublicKey) MarshalBinary() ([]byte, error) { return k.key.MarshalBinary() }
