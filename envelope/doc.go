// Package envelope implements FSPIOP-style signed request envelopes: a
// detached signature over the canonical message payload together with a
// protected header that binds the signature to the FSPIOP-Source,
// FSPIOP-Destination, FSPIOP-URI and Date transport headers.
//
// The signature primitive is pluggable through the SigningKey and PublicKey
// interfaces; package scheme provides ML-DSA, Ed25519 and ECDSA keys.
//
// # Signing
//
//	signer, err := envelope.NewSigner(envelope.SignerConfig{SigningKey: key})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rc := envelope.NewRequestContext(map[string]any{"amount": 10})
//	rc.Headers.Set(envelope.HeaderSource, "payer-fsp")
//	rc.Headers.Set(envelope.HeaderURI, "/transfers")
//
//	if err := signer.Sign(rc); err != nil {
//	    log.Fatal(err)
//	}
//
// After Sign the FSPIOP-Signature header holds the encoded envelope and
// rc.Body holds the canonical JSON string that was signed.
//
// # Validating
//
//	validator, err := envelope.NewValidator(envelope.ValidatorConfig{
//	    Keystore: envelope.StaticKeystore{"payer-fsp": publicKey},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	valid, err := validator.Validate(rc)
//
// A non-nil error reports a protocol defect (missing header, unknown
// source, malformed envelope, binding mismatch). A nil error with
// valid == false means the headers are correctly bound but the payload
// does not match the signature. Use errors.Is with the Err* sentinels or
// ErrorCode to tell the defects apart.
//
// # Canonical payload
//
// Strings and byte slices are signed verbatim. Structured values are
// marshaled to JSON and canonicalized per RFC 8785, so signer and
// validator derive identical bytes from equivalent values.
package envelope
