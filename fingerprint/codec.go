// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fingerprint

import (
	"github.com/goccy/go-json"

	"codedna/cerrors"
	"codedna/classfile"
)

const codecVersion = 1

// Envelope wraps a CodeDNA with enough metadata for a reader to reject
// an incompatible document before trusting its contents: the codec
// version this repo writes, the name of the hash algorithm that
// produced every hash inside dna, and the classfile.Mode it was built
// with, so two standalone envelopes can be checked for mode agreement
// before a fuzzy fingerprint is compared against an exact one.
type Envelope struct {
	CodecVersion int     `json:"codec_version"`
	HashAlgo     string  `json:"hash_algorithm"`
	FuzzyMode    bool    `json:"fuzzy_mode"`
	DNA          CodeDNA `json:"dna"`
}

// Marshal serializes dna into its persisted envelope form.
func Marshal(dna *CodeDNA, hashAlgo string, mode classfile.Mode) ([]byte, error) {
	env := Envelope{
		CodecVersion: codecVersion,
		HashAlgo:     hashAlgo,
		FuzzyMode:    mode == classfile.ModeFuzzy,
		DNA:          *dna,
	}
	return json.MarshalIndent(&env, "", "  ")
}

// UnmarshalEnvelope parses a persisted envelope and validates it has
// enough shape to be usable: a non-empty hash and hash algorithm name.
// Unlike Unmarshal it keeps the envelope's mode tag, for callers (such
// as a standalone fingerprint comparison) that need to check two
// documents were built under the same mode before comparing them.
func UnmarshalEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, cerrors.NewSchemaError("dna", "invalid JSON envelope: "+err.Error())
	}
	if env.HashAlgo == "" {
		return nil, cerrors.NewSchemaError("hash_algorithm", "missing")
	}
	if env.DNA.Hash == "" {
		return nil, cerrors.NewSchemaError("hash", "missing")
	}
	return &env, nil
}

// Unmarshal parses a persisted envelope and returns its CodeDNA,
// discarding the mode tag. Used by callers that only need the
// fingerprint itself, such as corpus iteration.
func Unmarshal(data []byte) (*CodeDNA, error) {
	env, err := UnmarshalEnvelope(data)
	if err != nil {
		return nil, err
	}
	dna := env.DNA
	return &dna, nil
}

// Mode reports the classfile.Mode an envelope was built with.
func (e *Envelope) Mode() classfile.Mode {
	if e.FuzzyMode {
		return classfile.ModeFuzzy
	}
	return classfile.ModeExact
}
