package envelope

// Algorithm identifies the signature scheme recorded in the protected
// header "alg" member.
type Algorithm string

// String returns the algorithm identifier.
func (a Algorithm) String() string {
	return string(a)
}

// SigningKey produces detached signatures over canonical payloads.
type SigningKey interface {
	// Sign produces a signature over the given message bytes.
	Sign(message []byte) ([]byte, error)

	// Algorithm returns the scheme identifier for this key.
	Algorithm() Algorithm
}

// PublicKey verifies detached signatures over canonical payloads.
type PublicKey interface {
	// Verify reports whether signature is valid for message. An invalid
	// signature is a normal outcome, not an error.
	Verify(message, signature []byte) bool

	// Algorithm returns the scheme identifier for this key.
	Algorithm() Algorithm
}
