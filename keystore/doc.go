// Package keystore provides a file-backed envelope.Keystore that can be
// reloaded while validators are reading from it.
//
// The file is YAML and maps source identifiers to public keys, given as
// base64 raw keys or as PEM files relative to the keystore file. See File.
//
// Keys registered with WithPinned are merged into every reload, so a
// server's own key stays resolvable while the file is swapped.
package keystore
