// Package main is the entry point for the linvoke command.
package main

import (
	"fmt"
	"os"

	"github.com/dshills/linvoke/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
