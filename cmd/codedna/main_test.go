// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"codedna/classfile"
	"codedna/fingerprint"
)

func TestExpandGlobsFallsBackToLiteralOnNoMatch(t *testing.T) {
	got, err := expandGlobs([]string{"/no/such/path/*.jar"})
	if err != nil {
		t.Fatalf("expandGlobs() failed: %v", err)
	}
	if len(got) != 1 || got[0] != "/no/such/path/*.jar" {
		t.Errorf("expandGlobs() = %v, want literal passthrough on zero matches", got)
	}
}

func TestExpandGlobsMatchesFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.jar", "b.jar"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile() failed: %v", err)
		}
	}

	got, err := expandGlobs([]string{filepath.Join(dir, "*.jar")})
	if err != nil {
		t.Fatalf("expandGlobs() failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expandGlobs() = %v, want 2 matches", got)
	}
}

func TestModeFromFlag(t *testing.T) {
	if modeFromFlag(false) != classfile.ModeExact {
		t.Errorf("modeFromFlag(false) = %v, want ModeExact", modeFromFlag(false))
	}
	if modeFromFlag(true) != classfile.ModeFuzzy {
		t.Errorf("modeFromFlag(true) = %v, want ModeFuzzy", modeFromFlag(true))
	}
}

func writeDNAFixture(t *testing.T, dir, name, hash string, mode classfile.Mode) string {
	t.Helper()
	dna := &fingerprint.CodeDNA{Hash: hash}
	data, err := fingerprint.Marshal(dna, "sha256", mode)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return path
}

func TestLoadEnvelopePairAcceptsMatchingModes(t *testing.T) {
	dir := t.TempDir()
	pathA := writeDNAFixture(t, dir, "a.json", "aaa", classfile.ModeFuzzy)
	pathB := writeDNAFixture(t, dir, "b.json", "bbb", classfile.ModeFuzzy)

	envA, envB, err := loadEnvelopePair(pathA, pathB)
	if err != nil {
		t.Fatalf("loadEnvelopePair() failed: %v", err)
	}
	if envA.DNA.Hash != "aaa" || envB.DNA.Hash != "bbb" {
		t.Errorf("loadEnvelopePair() = %+v, %+v, want hashes aaa/bbb", envA.DNA, envB.DNA)
	}
}

func TestLoadEnvelopePairRejectsMixedModes(t *testing.T) {
	dir := t.TempDir()
	pathA := writeDNAFixture(t, dir, "a.json", "aaa", classfile.ModeExact)
	pathB := writeDNAFixture(t, dir, "b.json", "bbb", classfile.ModeFuzzy)

	_, _, err := loadEnvelopePair(pathA, pathB)
	if err == nil {
		t.Fatal("loadEnvelopePair() with mismatched modes: want error, got nil")
	}
}
