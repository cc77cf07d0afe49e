package main

import (
	"os"

	"github.com/arthur-debert/packdrop/cmd/packdrop"
	"github.com/arthur-debert/packdrop/pkg/ui"
)

func main() {
	rootCmd := packdrop.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
