// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codedna/api"
	"codedna/fingerprint"
	"codedna/store"
)

func newServeCmd() *cobra.Command {
	var addr string
	var parallel bool

	cmd := &cobra.Command{
		Use:   "serve <db>",
		Short: "Serve the corpus search API over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening corpus database: %w", err)
			}
			defer db.Close()

			eng, err := api.NewSearchEngine(db)
			if err != nil {
				return fmt.Errorf("rebuilding search index: %w", err)
			}

			// Uploaded archives are fingerprinted with the corpus's own
			// recorded mode, never an independently chosen one, so
			// /v1/fingerprint can never hand /v1/search a query built
			// under the opposite mode from the corpus it's compared
			// against.
			builder := fingerprint.NewBuilder(fingerprint.BuilderOptions{
				Mode:     eng.Mode(),
				Parallel: parallel,
			})

			srv := api.NewServer(eng, builder, os.Stdout)
			fmt.Printf("codedna search API listening on %s\n", addr)
			return srv.Router().Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	cmd.Flags().BoolVar(&parallel, "parallel", true, "analyze classes across goroutines for uploaded archives")
	return cmd
}
