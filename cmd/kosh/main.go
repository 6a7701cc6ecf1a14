// Package main is the entry point for the kosh CLI.
package main

import (
	"os"

	"github.com/f3rmion/kosh/cmd/kosh/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
