package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/packdrop/cmd/packdrop"
	"github.com/arthur-debert/packdrop/internal/version"
)

func main() {
	rootCmd := packdrop.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "PACKDROP",
		Section: "1",
		Source:  "packdrop " + version.Version,
		Manual:  "packdrop manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
