// Package main is the entry point for the freqtab CLI.
package main

import (
	"os"

	"github.com/f3rmion/freqtab/cmd/freqtab/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
