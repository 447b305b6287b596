// Package main provides the entry point for the ghostwatch CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ghostwatch",
	Short: "Ghost job detector",
	Long:  "Ghostwatch scores job postings for ghost-job risk by combining posting freshness, salary disclosure, update cadence, and content-change history into a weighted verdict.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
