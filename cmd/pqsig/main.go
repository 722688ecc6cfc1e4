package main

import (
	"os"

	"github.com/vitalvas/pqsig/cmd/pqsig/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
