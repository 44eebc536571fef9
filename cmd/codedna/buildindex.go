// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"codedna/minhash"
	"codedna/store"
)

func newBuildIndexCmd() *cobra.Command {
	var fuzzy bool
	var parallel bool
	var k, b int
	var hashAlgo string

	cmd := &cobra.Command{
		Use:   "build-index <out.db> <archive>...",
		Short: "Fingerprint a set of plugin archives and persist them to a corpus database",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath := args[0]
			archivePaths, err := expandGlobs(args[1:])
			if err != nil {
				return err
			}

			db, err := store.Open(dbPath)
			if err != nil {
				return fmt.Errorf("opening corpus database: %w", err)
			}
			defer db.Close()

			if err := db.PutMeta(store.Meta{K: k, B: b, HashAlgo: hashAlgo, FuzzyMode: fuzzy}); err != nil {
				return fmt.Errorf("writing corpus meta: %w", err)
			}

			mode := modeFromFlag(fuzzy)
			mh := minhash.New(k, 0)

			for _, path := range archivePaths {
				dna, diags, err := buildDNA(path, mode, parallel)
				if err != nil {
					fmt.Printf("skipping %s: %v\n", path, err)
					continue
				}
				printDiagnostics(diags)

				rec := store.PluginRecord{
					PluginID:       dna.Hash,
					ArtifactName:   dna.Metadata.ArtifactName,
					Version:        dna.Metadata.Version,
					DNA:            dna,
					MinHashClass:   mh.Signature(dna.Structure.ClassHashes),
					MinHashMethods: mh.Signature(dna.APIFootprint.MethodSignatureHashes),
					MinHashAPI:     mh.Signature(dna.APIFootprint.ExternalReferences),
				}
				if err := db.Put(rec, hashAlgo, mode); err != nil {
					return fmt.Errorf("persisting %s: %w", path, err)
				}
				fmt.Printf("indexed %s (plugin_id=%s)\n", path, dna.Hash)
			}

			count, err := db.Count()
			if err != nil {
				return err
			}
			fmt.Printf("corpus now holds %d plugins\n", count)
			return nil
		},
	}

	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "use fuzzy instruction categories instead of exact opcodes")
	cmd.Flags().BoolVar(&parallel, "parallel", true, "analyze classes across goroutines")
	cmd.Flags().IntVar(&k, "k", 128, "MinHash signature width")
	cmd.Flags().IntVar(&b, "b", 16, "number of LSH bands (must divide k)")
	cmd.Flags().StringVar(&hashAlgo, "hash-algo", "sha256", "hash algorithm name recorded with the corpus")
	return cmd
}

func expandGlobs(patterns []string) ([]string, error) {
	var out []string
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("expanding glob %q: %w", p, err)
		}
		if len(matches) == 0 {
			out = append(out, p)
			continue
		}
		out = append(out, matches...)
	}
	return out, nil
}
