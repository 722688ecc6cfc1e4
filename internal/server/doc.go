// Package server implements the pqsig demo HTTP server: it signs transfer
// requests with its own key and validates them against a keystore.
package server
