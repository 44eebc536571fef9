// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codedna/fingerprint"
)

func newFingerprintCmd() *cobra.Command {
	var fuzzy bool
	var parallel bool
	var outPath string
	var hashAlgo string

	cmd := &cobra.Command{
		Use:   "fingerprint <archive>",
		Short: "Compute a CodeDNA fingerprint for a plugin archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := modeFromFlag(fuzzy)
			dna, diags, err := buildDNA(args[0], mode, parallel)
			if err != nil {
				return err
			}
			printDiagnostics(diags)

			data, err := fingerprint.Marshal(dna, hashAlgo, mode)
			if err != nil {
				return fmt.Errorf("marshaling codedna: %w", err)
			}

			if outPath == "" {
				fmt.Println(string(data))
				return nil
			}
			return os.WriteFile(outPath, data, 0o644)
		},
	}

	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "use fuzzy instruction categories instead of exact opcodes")
	cmd.Flags().BoolVar(&parallel, "parallel", true, "analyze classes across goroutines")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write CodeDNA JSON to this path instead of stdout")
	cmd.Flags().StringVar(&hashAlgo, "hash-algo", "sha256", "name recorded in the persisted envelope's hash_algorithm field")
	return cmd
}
