package scheme

import (
	"encoding/pem"
	"fmt"

	"github.com/vitalvas/pqsig/envelope"
)

// PEM block types and the header carrying the algorithm identifier.
const (
	PEMTypePublicKey  = "PQSIG PUBLIC KEY"
	PEMTypePrivateKey = "PQSIG PRIVATE KEY"
	PEMHeaderAlg      = "Algorithm"
)

// MarshalPublicKeyPEM encodes a public key as a PEM block.
func MarshalPublicKeyPEM(key PublicKey) ([]byte, error) {
	return marshalPEM(PEMTypePublicKey, key.Algorithm(), key.MarshalBinary)
}

// MarshalPrivateKeyPEM encodes a private key as a PEM block.
func MarshalPrivateKeyPEM(key PrivateKey) ([]byte, error) {
	return marshalPEM(PEMTypePrivateKey, key.Algorithm(), key.MarshalBinary)
}

func marshalPEM(blockType string, alg envelope.Algorithm, marshal func() ([]byte, error)) ([]byte, error) {
	der, err := marshal()
	if err != nil {
		return nil, err
	}

	return pem.EncodeToMemory(&pem.Block{
		Type:    blockType,
		Headers: map[string]string{PEMHeaderAlg: alg.String()},
		Bytes:   der,
	}), nil
}

// ParsePublicKeyPEM decodes a public key produced by MarshalPublicKeyPEM.
func ParsePublicKeyPEM(data []byte) (PublicKey, error) {
	block, alg, err := decodePEM(data, PEMTypePublicKey)
	if err != nil {
		return nil, err
	}

	return ParsePublicKey(alg, block.Bytes)
}

// ParsePrivateKeyPEM decodes a private key produced by MarshalPrivateKeyPEM.
func ParsePrivateKeyPEM(data []byte) (PrivateKey, error) {
	block, alg, err := decodePEM(data, PEMTypePrivateKey)
	if err != nil {
		return nil, err
	}

	return ParsePrivateKey(alg, block.Bytes)
}

func decodePEM(data []byte, blockType string) (*pem.Block, envelope.Algorithm, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, "", fmt.Errorf("%w: no PEM block found", ErrInvalidKey)
	}

	if block.Type != blockType {
		return nil, "", fmt.Errorf("%w: unexpected PEM block %q, want %q", ErrInvalidKey, block.Type, blockType)
	}

	alg := block.Headers[PEMHeaderAlg]
	if alg == "" {
		return nil, "", fmt.Errorf("%w: PEM block has no %s header", ErrInvalidKey, PEMHeaderAlg)
	}

	return block, envelope.Algorithm(alg), nil
}
