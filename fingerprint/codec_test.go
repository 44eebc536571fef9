// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fingerprint

import (
	"testing"

	"codedna/classfile"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	dna := &CodeDNA{
		Metadata: Metadata{ArtifactName: "widget.jar", TotalClasses: 1},
		Structure: Structure{
			ClassHashes:      []string{"abc123"},
			PackageStructure: map[string]int{"com/acme": 1},
		},
		Hash: "deadbeef",
	}

	data, err := Marshal(dna, "sha256", classfile.ModeFuzzy)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if got.Hash != dna.Hash {
		t.Errorf("Hash = %q, want %q", got.Hash, dna.Hash)
	}
	if got.Metadata.ArtifactName != dna.Metadata.ArtifactName {
		t.Errorf("ArtifactName = %q, want %q", got.Metadata.ArtifactName, dna.Metadata.ArtifactName)
	}

	env, err := UnmarshalEnvelope(data)
	if err != nil {
		t.Fatalf("UnmarshalEnvelope() failed: %v", err)
	}
	if env.Mode() != classfile.ModeFuzzy {
		t.Errorf("env.Mode() = %v, want ModeFuzzy", env.Mode())
	}
}

func TestUnmarshalRejectsMissingHash(t *testing.T) {
	env := `{"codec_version":1,"hash_algorithm":"sha256","dna":{"metadata":{"artifact_name":"x"}}}`
	_, err := Unmarshal([]byte(env))
	if err == nil {
		t.Fatal("Unmarshal() with missing hash: want error, got nil")
	}
}

func TestUnmarshalRejectsMissingAlgo(t *testing.T) {
	env := `{"codec_version":1,"dna":{"hash":"abc"}}`
	_, err := Unmarshal([]byte(env))
	if err == nil {
		t.Fatal("Unmarshal() with missing hash_algorithm: want error, got nil")
	}
}
