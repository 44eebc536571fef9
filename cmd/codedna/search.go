// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codedna/api"
	"codedna/cerrors"
	"codedna/fingerprint"
	"codedna/store"
)

func newSearchCmd() *cobra.Command {
	var threshold float64
	var topK int
	var minBandMatches int
	var exact bool

	cmd := &cobra.Command{
		Use:   "search <db> <query-codedna.json>",
		Short: "Search a corpus database for plugins similar to a query fingerprint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening corpus database: %w", err)
			}
			defer db.Close()

			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[1], err)
			}
			queryEnv, err := fingerprint.UnmarshalEnvelope(data)
			if err != nil {
				return err
			}

			eng, err := api.NewSearchEngine(db)
			if err != nil {
				return fmt.Errorf("rebuilding search index: %w", err)
			}
			if queryEnv.Mode() != eng.Mode() {
				return cerrors.NewSchemaError("fuzzy_mode",
					fmt.Sprintf("query fingerprint is %v but corpus was built %v", queryEnv.Mode(), eng.Mode()))
			}

			results, err := eng.Search(api.SearchRequest{
				Query:          &queryEnv.DNA,
				Threshold:      threshold,
				TopK:           topK,
				MinBandMatches: minBandMatches,
				Exact:          exact,
			})
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(results, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling results: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 0.0, "minimum overall similarity score to report")
	cmd.Flags().IntVar(&topK, "top-k", 10, "maximum number of results to report")
	cmd.Flags().IntVar(&minBandMatches, "min-band-matches", 1, "minimum LSH band matches to consider a candidate")
	cmd.Flags().BoolVar(&exact, "exact", false, "bypass LSH narrowing and score every corpus entry directly")
	return cmd
}
