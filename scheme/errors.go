package scheme

import "errors"

var (
	// ErrInvalidKey is returned when key material is invalid (wrong size,
	// nil, wrong curve, etc.).
	ErrInvalidKey = errors.New("scheme: invalid key material")

	// ErrUnsupportedAlgorithm is returned for an algorithm identifier with
	// no registered implementation.
	ErrUnsupportedAlgorithm = errors.New("scheme: unsupported algorithm")

	// ErrSeedUnsupported is returned when a seed is supplied for an
	// algorithm that cannot derive keys deterministically.
	ErrSeedUnsupported = errors.New("scheme: algorithm does not support seeded key generation")
)
