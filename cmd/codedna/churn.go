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

func newChurnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "churn <old-codedna.json> <new-codedna.json>",
		Short: "Compute added/removed/unchanged class and method churn between two plugin versions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldEnv, newEnv, err := loadEnvelopePair(args[0], args[1])
			if err != nil {
				return err
			}

			churn := similarity.ComputeChurn(&oldEnv.DNA, &newEnv.DNA)
			out, err := json.MarshalIndent(churn, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling churn: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}
	return cmd
}
