package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vitalvas/pqsig/envelope"
	"github.com/vitalvas/pqsig/keystore"
	"github.com/vitalvas/pqsig/scheme"
)

func newKeygenCmd() *cobra.Command {
	var (
		algorithm    string
		out          string
		seedHex      string
		keystorePath string
		source       string
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a signing key pair",
		Long: `Generate a key pair and write it as <out>.pem (private) and
<out>.pub.pem (public).

With --keystore and --source the public key is also registered in a
keystore file. Existing entries are rewritten with inline keys.

Examples:
  pqsig keygen --out payer
  pqsig keygen --algorithm ed25519 --out payee --keystore keystore.yaml --source payee-fsp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (keystorePath == "") != (source == "") {
				return errors.New("--keystore and --source must be used together")
			}

			var seed []byte
			if seedHex != "" {
				var err error
				if seed, err = hex.DecodeString(seedHex); err != nil {
					return fmt.Errorf("invalid seed: %w", err)
				}
			}

			kp, err := scheme.GenerateKey(envelope.Algorithm(algorithm), seed)
			if err != nil {
				return err
			}

			privPEM, err := scheme.MarshalPrivateKeyPEM(kp.Private)
			if err != nil {
				return err
			}

			pubPEM, err := scheme.MarshalPublicKeyPEM(kp.Public)
			if err != nil {
				return err
			}

			if err := os.WriteFile(out+".pem", privPEM, 0o600); err != nil {
				return err
			}

			if err := os.WriteFile(out+".pub.pem", pubPEM, 0o644); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s key pair written to %s.pem and %s.pub.pem\n",
				okFmt("generated"), kp.Private.Algorithm(), out, out)

			if keystorePath == "" {
				return nil
			}

			if err := register(keystorePath, source, kp.Public); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s in %s\n", okFmt("registered"), source, keystorePath)

			return nil
		},
	}

	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", string(scheme.Default), "Signature algorithm")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path prefix")
	cmd.Flags().StringVar(&seedHex, "seed", "", "Hex-encoded key generation seed (circl algorithms only)")
	cmd.Flags().StringVar(&keystorePath, "keystore", "", "Keystore file to register the public key in")
	cmd.Flags().StringVar(&source, "source", "", "Source identifier for the keystore entry")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

// register adds key under source to the keystore file at path, creating
// the file when it does not exist.
func register(path, source string, key scheme.PublicKey) error {
	keys := map[string]scheme.PublicKey{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		existing, err := keystore.Parse(data, filepath.Dir(path))
		if err != nil {
			return err
		}

		for id, k := range existing {
			sk, ok := k.(scheme.PublicKey)
			if !ok {
				return fmt.Errorf("%w: source %q key cannot be serialized", keystore.ErrInvalidKeystore, id)
			}

			keys[id] = sk
		}

	case !errors.Is(err, os.ErrNotExist):
		return err
	}

	keys[source] = key

	out, err := keystore.Marshal(keys)
	if err != nil {
		return err
	}

	return os.WriteFile(path, out, 0o644)
}
