// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Command codedna fingerprints JVM plugin archives, computes structural
// and behavioral similarity between them, and serves a searchable
// corpus index through a cobra-based CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "codedna",
		Short: "Structural and behavioral fingerprinting for JVM plugin artifacts",
		Long:  "codedna extracts a CodeDNA fingerprint from JVM plugin archives and compares, indexes, and searches them for similarity.",
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (compare also prints detail counts)")

	rootCmd.AddCommand(
		newFingerprintCmd(),
		newCompareCmd(),
		newChurnCmd(),
		newBuildIndexCmd(),
		newSearchCmd(),
		newServeCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("codedna version 0.1.0")
		},
	}
}
