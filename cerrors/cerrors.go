// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package cerrors defines the four error kinds CodeDNA recognizes:
// ParseError, UnsupportedArtifactError, SchemaError and
// IndexConfigError. Each captures the file/line of the call that raised
// it via runtime.Caller, as four typed constructors instead of one
// untyped one so callers can errors.As to recover the offending class
// name, field, or config value.
package cerrors

import (
	"fmt"
	"runtime"
)

func callerLoc(skip int) string {
	pc, _, _, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown"
	}
	fn := runtime.FuncForPC(pc)
	file, line := fn.FileLine(pc)
	return fmt.Sprintf("%s:%d", file, line)
}

// ParseError reports a single malformed class file. It is always
// recoverable: the caller skips the offending class and continues.
type ParseError struct {
	ClassName string // best-effort; empty if not yet known when the error occurred
	Reason    string
	Loc       string
}

func (e *ParseError) Error() string {
	if e.ClassName != "" {
		return fmt.Sprintf("parse error in class %q: %s (at %s)", e.ClassName, e.Reason, e.Loc)
	}
	return fmt.Sprintf("parse error: %s (at %s)", e.Reason, e.Loc)
}

// NewParseError builds a ParseError capturing the caller's location.
func NewParseError(className, reason string) *ParseError {
	return &ParseError{ClassName: className, Reason: reason, Loc: callerLoc(1)}
}

// UnsupportedArtifactError reports that an archive contained no readable
// class file at all. Fatal to fingerprint generation for that artifact.
type UnsupportedArtifactError struct {
	ArtifactName string
	Reason       string
	Loc          string
}

func (e *UnsupportedArtifactError) Error() string {
	return fmt.Sprintf("unsupported artifact %q: %s (at %s)", e.ArtifactName, e.Reason, e.Loc)
}

// NewUnsupportedArtifactError builds an UnsupportedArtifactError.
func NewUnsupportedArtifactError(artifactName, reason string) *UnsupportedArtifactError {
	return &UnsupportedArtifactError{ArtifactName: artifactName, Reason: reason, Loc: callerLoc(1)}
}

// SchemaError reports a deserialized fingerprint missing a required
// field, or two fingerprints whose hash/mode are incompatible for the
// requested comparison (e.g. mixing exact and fuzzy mode).
type SchemaError struct {
	Field  string
	Reason string
	Loc    string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error on field %q: %s (at %s)", e.Field, e.Reason, e.Loc)
}

// NewSchemaError builds a SchemaError.
func NewSchemaError(field, reason string) *SchemaError {
	return &SchemaError{Field: field, Reason: reason, Loc: callerLoc(1)}
}

// IndexConfigError reports an LSHIndex constructed with k not divisible
// by b.
type IndexConfigError struct {
	K, B int
	Loc  string
}

func (e *IndexConfigError) Error() string {
	return fmt.Sprintf("index config error: k=%d not divisible by b=%d (at %s)", e.K, e.B, e.Loc)
}

// NewIndexConfigError builds an IndexConfigError.
func NewIndexConfigError(k, b int) *IndexConfigError {
	return &IndexConfigError{K: k, B: b, Loc: callerLoc(1)}
}
