// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package fingerprint aggregates many parsed class files into a single
// CodeDNA record: a deterministic, serializable digest of an artifact's
// structure, API surface and behavior.
package fingerprint

// Metadata carries identity and size information about the artifact a
// CodeDNA was built from.
type Metadata struct {
	ArtifactName string `json:"artifact_name"`
	Version      string `json:"version,omitempty"`
	TimestampMs  int64  `json:"timestamp_ms"`
	TotalClasses int    `json:"total_classes"`
	TotalMethods int    `json:"total_methods"`
	TotalFields  int    `json:"total_fields"`
}

// Structure captures an artifact's class topology: what extends what,
// what implements what, and how classes are distributed across packages.
type Structure struct {
	ClassHashes       []string       `json:"class_hashes"`
	PackageStructure  map[string]int `json:"package_structure"`
	InheritanceHashes []string       `json:"inheritance_hashes"`
	InterfaceHashes   []string       `json:"interface_hashes"`
}

// APIFootprint captures what an artifact's code touches and exposes.
type APIFootprint struct {
	ExternalReferences    []string `json:"external_references"`
	MethodSignatureHashes []string `json:"method_signature_hashes"`
	AnnotationHashes      []string `json:"annotation_hashes"`
}

// Behavioral captures per-method instruction shape, independent of
// naming or structure.
type Behavioral struct {
	InstructionPatternHashes []string          `json:"instruction_pattern_hashes"`
	InstructionHistograms    map[string]Histogram `json:"instruction_histograms"`
}

// Histogram maps a hashed opcode token to its occurrence count within a
// single method.
type Histogram map[string]int

// CodeDNA is the canonical fingerprint of one compiled plugin artifact.
// It is immutable after construction and safe to serialize; every set
// field is stored pre-sorted so two independently-built CodeDNA records
// over the same input serialize identically except for
// metadata.timestamp_ms, which records when each was built.
type CodeDNA struct {
	Metadata     Metadata     `json:"metadata"`
	Structure    Structure    `json:"structure"`
	APIFootprint APIFootprint `json:"api_footprint"`
	Behavioral   Behavioral   `json:"behavioral"`
	Hash         string       `json:"hash"`
}
