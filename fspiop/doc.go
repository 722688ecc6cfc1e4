// Package fspiop carries signature envelopes over HTTP: a signing
// http.RoundTripper for clients and a verifying middleware for servers.
//
// # Client
//
// Transport signs every outgoing request body with the configured signer.
// FSPIOP-URI defaults to the request URI and FSPIOP-Source to
// TransportConfig.Source when the caller did not set them:
//
//	transport, err := fspiop.NewTransport(nil, fspiop.TransportConfig{
//	    Signer: signer,
//	    Source: "payerfsp",
//	    Date:   true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client := &http.Client{Transport: transport}
//
// # Server
//
// Middleware validates the FSPIOP-Signature header and stores the outcome
// in the request context. Rejected requests are answered with an FSPIOP
// error body unless MiddlewareConfig.OnError is set:
//
//	verify, err := fspiop.Middleware(fspiop.MiddlewareConfig{Validator: validator})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	http.Handle("/transfers", verify(handler))
//
// StatusCode maps errors to 401 for unauthenticated callers, 413 for bodies
// over the server limit and 400 for other protocol defects.
package fspiop
