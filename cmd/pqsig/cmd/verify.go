package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vitalvas/pqsig/envelope"
	"github.com/vitalvas/pqsig/fspiop"
	"github.com/vitalvas/pqsig/keystore"
)

func newVerifyCmd() *cobra.Command {
	var (
		keystorePath string
		data         string
		signature    string
		envelopePath string
		headers      headerFlags
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a signed payload file",
		Long: `Verify a payload file against an FSPIOP-Signature header value or a
CBOR envelope file, resolving the signer key from a keystore file.

The command exits non-zero unless the signature is valid.

Examples:
  pqsig verify --keystore keystore.yaml --data transfer.json --source payer-fsp --signature "$SIG"
  pqsig verify --keystore keystore.yaml --data transfer.json --source payer-fsp --envelope transfer.sig`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (signature == "") == (envelopePath == "") {
				return errors.New("exactly one of --signature and --envelope is required")
			}

			if envelopePath != "" {
				raw, err := os.ReadFile(envelopePath)
				if err != nil {
					return err
				}

				var env envelope.Envelope
				if err := env.UnmarshalCBOR(raw); err != nil {
					return err
				}

				if signature, err = env.Encode(); err != nil {
					return err
				}
			}

			keys, err := keystore.Load(keystorePath)
			if err != nil {
				return err
			}

			validator, err := envelope.NewValidator(envelope.ValidatorConfig{Keystore: keys})
			if err != nil {
				return err
			}

			body, err := readData(cmd, data)
			if err != nil {
				return err
			}

			rc := headers.context(body)
			rc.Headers.Set(envelope.HeaderSignature, signature)

			valid, err := validator.Validate(rc)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", failFmt("ERROR"), dimFmt(fspiop.ErrorCode(err)))
				return err
			}

			if !valid {
				fmt.Fprintln(cmd.OutOrStdout(), failFmt("INVALID"))
				return fspiop.ErrInvalidSignature
			}

			fmt.Fprintln(cmd.OutOrStdout(), okFmt("VALID"))

			return nil
		},
	}

	cmd.Flags().StringVar(&keystorePath, "keystore", "", "Keystore file")
	cmd.Flags().StringVarP(&data, "data", "d", "", "Payload file, - for stdin")
	cmd.Flags().StringVarP(&signature, "signature", "s", "", "FSPIOP-Signature header value")
	cmd.Flags().StringVarP(&envelopePath, "envelope", "e", "", "CBOR envelope file")
	headers.register(cmd)
	_ = cmd.MarkFlagRequired("keystore")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}
