// Package main is the entry point for the cps CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/cps/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
