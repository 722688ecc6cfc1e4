package envelope

import (
	"maps"
	"slices"
)

// Keystore resolves a source identifier to its verification key.
// Implementations must be safe for concurrent reads.
type Keystore interface {
	// Lookup returns the public key registered for source.
	Lookup(source string) (PublicKey, bool)

	// Sources returns the known source identifiers in sorted order.
	Sources() []string
}

// StaticKeystore is an immutable Keystore backed by a map. It must not be
// modified after it is handed to a Validator.
type StaticKeystore map[string]PublicKey

// Lookup implements Keystore.
func (k StaticKeystore) Lookup(source string) (PublicKey, bool) {
	key, ok := k[source]
	if !ok || key == nil {
		return nil, false
	}

	return key, true
}

// Sources implements Keystore.
func (k StaticKeystore) Sources() []string {
	return slices.Sorted(maps.Keys(k))
}
