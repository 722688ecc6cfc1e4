package keystore

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vitalvas/pqsig/envelope"
	"github.com/vitalvas/pqsig/scheme"
)

// ErrInvalidKeystore is returned when a keystore file cannot be parsed.
var ErrInvalidKeystore = errors.New("keystore: invalid keystore file")

// File is the on-disk keystore document.
//
//	sources:
//	  payer-fsp:
//	    algorithm: ml_dsa65
//	    publicKey: <base64 raw public key>
//	  payee-fsp:
//	    publicKeyFile: keys/payee-fsp.pem
type File struct {
	Sources map[string]Entry `yaml:"sources"`
}

// Entry describes the verification key of one source. Exactly one of
// PublicKey and PublicKeyFile must be set. PublicKeyFile paths are
// resolved relative to the keystore file and must hold a PEM block, whose
// header names the algorithm.
type Entry struct {
	Algorithm     envelope.Algorithm `yaml:"algorithm,omitempty"`
	PublicKey     string             `yaml:"publicKey,omitempty"`
	PublicKeyFile string             `yaml:"publicKeyFile,omitempty"`
}

// Parse decodes a keystore document. Relative key file paths are resolved
// against baseDir.
func Parse(data []byte, baseDir string) (map[string]envelope.PublicKey, error) {
	var doc File
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeystore, err)
	}

	keys := make(map[string]envelope.PublicKey, len(doc.Sources))

	for source, entry := range doc.Sources {
		if source == "" {
			return nil, fmt.Errorf("%w: empty source identifier", ErrInvalidKeystore)
		}

		key, err := entry.publicKey(baseDir)
		if err != nil {
			return nil, fmt.Errorf("%w: source %q: %v", ErrInvalidKeystore, source, err)
		}

		keys[source] = key
	}

	return keys, nil
}

func (e Entry) publicKey(baseDir string) (envelope.PublicKey, error) {
	switch {
	case e.PublicKey != "" && e.PublicKeyFile != "":
		return nil, errors.New("publicKey and publicKeyFile are mutually exclusive")

	case e.PublicKey != "":
		alg := e.Algorithm
		if alg == "" {
			alg = scheme.Default
		}

		raw, err := base64.StdEncoding.DecodeString(e.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 public key: %w", err)
		}

		return scheme.ParsePublicKey(alg, raw)

	case e.PublicKeyFile != "":
		path := e.PublicKeyFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		key, err := scheme.ParsePublicKeyPEM(data)
		if err != nil {
			return nil, err
		}

		if e.Algorithm != "" && key.Algorithm() != e.Algorithm {
			return nil, fmt.Errorf("key file algorithm %q does not match %q", key.Algorithm(), e.Algorithm)
		}

		return key, nil

	default:
		return nil, errors.New("publicKey or publicKeyFile is required")
	}
}

// Marshal encodes raw public keys as a keystore document.
func Marshal(keys map[string]scheme.PublicKey) ([]byte, error) {
	doc := File{Sources: make(map[string]Entry, len(keys))}

	for source, key := range keys {
		raw, err := key.MarshalBinary()
		if err != nil {
			return nil, err
		}

		doc.Sources[source] = Entry{
			Algorithm: key.Algorithm(),
			PublicKey: base64.StdEncoding.EncodeToString(raw),
		}
	}

	return yaml.Marshal(doc)
}
