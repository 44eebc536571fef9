// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"codedna/similarity"
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <codedna-a.json> <codedna-b.json>",
		Short: "Compute the similarity score between two persisted CodeDNA fingerprints",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			envA, envB, err := loadEnvelopePair(args[0], args[1])
			if err != nil {
				return err
			}

			score := similarity.Compute(&envA.DNA, &envB.DNA)
			out, err := json.MarshalIndent(score, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling score: %w", err)
			}
			fmt.Println(string(out))
			if verbose {
				fmt.Printf("classes: %d common (%d / %d)\n", score.ClassCommon, score.ClassA, score.ClassB)
				fmt.Printf("external references: %d common (%d / %d)\n", score.ExternalRefCommon, score.ExternalRefA, score.ExternalRefB)
				fmt.Printf("method signatures: %d common (%d / %d)\n", score.MethodSigCommon, score.MethodSigA, score.MethodSigB)
			}
			return nil
		},
	}
	return cmd
}
