// Package cmd implements the pqsig CLI commands.
package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

var (
	okFmt   = color.New(color.FgGreen, color.Bold).SprintFunc()
	failFmt = color.New(color.FgRed, color.Bold).SprintFunc()
	dimFmt  = color.New(color.Faint).SprintFunc()
)

// NewRootCmd builds the pqsig command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pqsig",
		Short: "Post-quantum signed FSPIOP request envelopes",
		Long: `pqsig signs and validates FSPIOP request envelopes with ML-DSA,
Ed25519 or ECDSA keys.

It can generate key pairs, sign and verify payloads from files, and run
a demo server that signs and validates transfer requests.`,
		Version:      Version,
		SilenceUsage: true,
	}

	root.AddCommand(
		newKeygenCmd(),
		newSignCmd(),
		newVerifyCmd(),
		newServeCmd(),
	)

	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
