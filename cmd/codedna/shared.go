// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"codedna/archive"
	"codedna/cerrors"
	"codedna/classfile"
	"codedna/fingerprint"
)

// modeFromFlag maps the --fuzzy CLI flag onto classfile.Mode.
func modeFromFlag(fuzzy bool) classfile.Mode {
	if fuzzy {
		return classfile.ModeFuzzy
	}
	return classfile.ModeExact
}

// buildDNA fingerprints the plugin archive at path.
func buildDNA(path string, mode classfile.Mode, parallel bool) (*fingerprint.CodeDNA, []fingerprint.Diagnostic, error) {
	ar, err := archive.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer ar.Close()

	entries, err := ar.ClassEntries()
	if err != nil {
		return nil, nil, fmt.Errorf("reading entries from %s: %w", path, err)
	}

	builder := fingerprint.NewBuilder(fingerprint.BuilderOptions{Mode: mode, Parallel: parallel})
	return builder.Build(path, entries)
}

// loadDNA reads a previously persisted CodeDNA JSON envelope from disk.
func loadDNA(path string) (*fingerprint.CodeDNA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return fingerprint.Unmarshal(data)
}

// loadEnvelopePair reads two persisted CodeDNA envelopes from disk and
// rejects the pair with a SchemaError if one was built in exact mode
// and the other in fuzzy mode: their opcode tokenizations aren't
// comparable, so similarity.Compute or similarity.ComputeChurn over
// them would silently score noise.
func loadEnvelopePair(pathA, pathB string) (*fingerprint.Envelope, *fingerprint.Envelope, error) {
	dataA, err := os.ReadFile(pathA)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", pathA, err)
	}
	envA, err := fingerprint.UnmarshalEnvelope(dataA)
	if err != nil {
		return nil, nil, err
	}

	dataB, err := os.ReadFile(pathB)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", pathB, err)
	}
	envB, err := fingerprint.UnmarshalEnvelope(dataB)
	if err != nil {
		return nil, nil, err
	}

	if envA.Mode() != envB.Mode() {
		return nil, nil, cerrors.NewSchemaError("fuzzy_mode",
			fmt.Sprintf("%s is %v but %s is %v: cannot compare across modes", pathA, envA.Mode(), pathB, envB.Mode()))
	}
	return envA, envB, nil
}

func printDiagnostics(diags []fingerprint.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "skipped %s: %v\n", d.EntryName, d.Err)
	}
}
