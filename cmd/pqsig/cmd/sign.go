package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vitalvas/pqsig/envelope"
	"github.com/vitalvas/pqsig/scheme"
)

// headerFlags are the transport headers bound by the protected header.
type headerFlags struct {
	source      string
	destination string
	uri         string
	date        string
}

func (h *headerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&h.source, "source", "", "FSPIOP-Source header")
	cmd.Flags().StringVar(&h.destination, "destination", "", "FSPIOP-Destination header")
	cmd.Flags().StringVar(&h.uri, "uri", "", "FSPIOP-URI header")
	cmd.Flags().StringVar(&h.date, "date", "", "Date header")
}

func (h *headerFlags) context(body []byte) *envelope.RequestContext {
	rc := envelope.NewRequestContext(json.RawMessage(body))

	for name, value := range map[string]string{
		envelope.HeaderSource:      h.source,
		envelope.HeaderDestination: h.destination,
		envelope.HeaderURI:         h.uri,
		envelope.HeaderDate:        h.date,
	} {
		if value != "" {
			rc.Headers.Set(name, value)
		}
	}

	return rc
}

func newSignCmd() *cobra.Command {
	var (
		keyPath string
		data    string
		out     string
		headers headerFlags
	)

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a payload file",
		Long: `Sign the bytes of a payload file and print the FSPIOP-Signature
header value. With --out the envelope is written as a CBOR file instead.

Examples:
  pqsig sign --key payer.pem --data transfer.json --source payer-fsp --uri /transfers
  pqsig sign --key payer.pem --data - --source payer-fsp --out transfer.sig`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keyPEM, err := os.ReadFile(keyPath)
			if err != nil {
				return err
			}

			key, err := scheme.ParsePrivateKeyPEM(keyPEM)
			if err != nil {
				return err
			}

			body, err := readData(cmd, data)
			if err != nil {
				return err
			}

			signer, err := envelope.NewSigner(envelope.SignerConfig{SigningKey: key})
			if err != nil {
				return err
			}

			env, err := signer.Envelope(headers.context(body))
			if err != nil {
				return err
			}

			if out != "" {
				raw, err := env.MarshalCBOR()
				if err != nil {
					return err
				}

				if err := os.WriteFile(out, raw, 0o644); err != nil {
					return err
				}

				fmt.Fprintf(cmd.ErrOrStderr(), "%s envelope written to %s\n", okFmt("signed"), out)

				return nil
			}

			encoded, err := env.Encode()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), encoded)

			return nil
		},
	}

	cmd.Flags().StringVarP(&keyPath, "key", "k", "", "PEM private key")
	cmd.Flags().StringVarP(&data, "data", "d", "", "Payload file, - for stdin")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write a CBOR envelope file instead of printing the header value")
	headers.register(cmd)
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func readData(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}

	return os.ReadFile(path)
}
