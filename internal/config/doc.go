// Package config loads the pqsig server configuration.
package config
