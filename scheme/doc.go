// Package scheme provides the signature primitives used by package
// envelope.
//
// Supported algorithms:
//
//   - ml_dsa44, ml_dsa65, ml_dsa87 (ML-DSA, FIPS 204)
//   - ed25519 (Edwards-Curve DSA)
//   - ecdsa-p256-sha256 (ECDSA P-256)
//
// ML-DSA and Ed25519 are backed by github.com/cloudflare/circl and support
// deterministic key derivation from a seed:
//
//	seed := make([]byte, 32)
//	if _, err := rand.Read(seed); err != nil {
//	    log.Fatal(err)
//	}
//
//	kp, err := scheme.GenerateKey(scheme.MLDSA65, seed)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Keys are exchanged as PEM blocks whose Algorithm header names the scheme:
//
//	pemBytes, err := scheme.MarshalPublicKeyPEM(kp.Public)
//	pub, err := scheme.ParsePublicKeyPEM(pemBytes)
package scheme
