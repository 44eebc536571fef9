// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fingerprint

import (
	"encoding/binary"
	"strings"
	"testing"

	"codedna/classfile"
)

// buf is a tiny big-endian byte builder for assembling synthetic class
// files, mirroring the same approach classfile's own tests use.
type buf struct{ b []byte }

func (w *buf) u1(v byte) *buf { w.b = append(w.b, v); return w }
func (w *buf) u2(v uint16) *buf {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	w.b = append(w.b, tmp[:]...)
	return w
}
func (w *buf) u4(v uint32) *buf {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	w.b = append(w.b, tmp[:]...)
	return w
}
func (w *buf) raw(v []byte) *buf { w.b = append(w.b, v...); return w }
func (w *buf) utf8(s string) *buf {
	w.u2(uint16(len(s)))
	w.b = append(w.b, s...)
	return w
}

const (
	tagUtf8        = 1
	tagClass       = 7
	tagNameAndType = 12
)

// buildTrivialClass assembles a minimal class named className extending
// java/lang/Object, with no fields or methods.
func buildTrivialClass(className string) []byte {
	cp := new(buf)
	cp.u1(tagUtf8).utf8(className)
	cp.u1(tagClass).u2(1)
	cp.u1(tagUtf8).utf8("java/lang/Object")
	cp.u1(tagClass).u2(3)

	out := new(buf)
	out.u4(0xCAFEBABE)
	out.u2(0)
	out.u2(52)
	out.u2(5) // constant_pool_count
	out.raw(cp.b)
	out.u2(0x0021)
	out.u2(2) // this_class
	out.u2(4) // super_class
	out.u2(0) // interfaces_count
	out.u2(0) // fields_count
	out.u2(0) // methods_count
	out.u2(0) // class attributes_count
	return out.b
}

func TestBuildAggregatesMultipleClasses(t *testing.T) {
	b := NewBuilder(BuilderOptions{Mode: classfile.ModeExact})

	entries := []ClassEntry{
		{Name: "com/acme/A.class", Data: buildTrivialClass("com/acme/A")},
		{Name: "com/acme/B.class", Data: buildTrivialClass("com/acme/B")},
		{Name: "README.txt", Data: []byte("not a class file")},
	}

	dna, diagnostics, err := b.Build("widget-1.2.3.jar", entries)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if len(diagnostics) != 0 {
		t.Errorf("diagnostics = %v, want none (non-.class entries are skipped silently)", diagnostics)
	}

	if dna.Metadata.TotalClasses != 2 {
		t.Errorf("TotalClasses = %d, want 2", dna.Metadata.TotalClasses)
	}
	if dna.Metadata.Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", dna.Metadata.Version, "1.2.3")
	}
	if len(dna.Structure.ClassHashes) != 2 {
		t.Errorf("len(ClassHashes) = %d, want 2", len(dna.Structure.ClassHashes))
	}
	if dna.Structure.PackageStructure["com/acme"] != 2 {
		t.Errorf("PackageStructure[com/acme] = %d, want 2", dna.Structure.PackageStructure["com/acme"])
	}
	if dna.Hash == "" {
		t.Error("Hash is empty")
	}
}

func TestBuildDeterministic(t *testing.T) {
	b := NewBuilder(BuilderOptions{Mode: classfile.ModeExact})
	entries := []ClassEntry{
		{Name: "a/A.class", Data: buildTrivialClass("a/A")},
	}

	dna1, _, err := b.Build("plugin", entries)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	dna2, _, err := b.Build("plugin", entries)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if dna1.Hash != dna2.Hash {
		t.Errorf("Hash not deterministic: %q vs %q", dna1.Hash, dna2.Hash)
	}
}

func TestBuildSkipsUnparsableClassesAndContinues(t *testing.T) {
	b := NewBuilder(BuilderOptions{Mode: classfile.ModeExact})
	entries := []ClassEntry{
		{Name: "good/Good.class", Data: buildTrivialClass("good/Good")},
		{Name: "bad/Bad.class", Data: []byte{0x00, 0x00, 0x00, 0x00}},
	}

	dna, diagnostics, err := b.Build("plugin", entries)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if len(diagnostics) != 1 {
		t.Fatalf("len(diagnostics) = %d, want 1", len(diagnostics))
	}
	if dna.Metadata.TotalClasses != 1 {
		t.Errorf("TotalClasses = %d, want 1", dna.Metadata.TotalClasses)
	}
}

func TestBuildFatalWhenNoReadableClass(t *testing.T) {
	b := NewBuilder(BuilderOptions{Mode: classfile.ModeExact})
	entries := []ClassEntry{
		{Name: "bad/Bad.class", Data: []byte{0x00, 0x00, 0x00, 0x00}},
	}

	_, _, err := b.Build("plugin", entries)
	if err == nil {
		t.Fatal("Build() with zero readable classes: want error, got nil")
	}
	if !strings.Contains(err.Error(), "unsupported artifact") {
		t.Errorf("err = %v, want UnsupportedArtifactError", err)
	}
}

func TestBuildParallelMatchesSequential(t *testing.T) {
	entries := []ClassEntry{
		{Name: "a/A.class", Data: buildTrivialClass("a/A")},
		{Name: "b/B.class", Data: buildTrivialClass("b/B")},
		{Name: "c/C.class", Data: buildTrivialClass("c/C")},
	}

	seq := NewBuilder(BuilderOptions{Mode: classfile.ModeExact, Parallel: false})
	par := NewBuilder(BuilderOptions{Mode: classfile.ModeExact, Parallel: true})

	seqDNA, _, err := seq.Build("plugin", entries)
	if err != nil {
		t.Fatalf("sequential Build() failed: %v", err)
	}
	parDNA, _, err := par.Build("plugin", entries)
	if err != nil {
		t.Fatalf("parallel Build() failed: %v", err)
	}

	if seqDNA.Hash != parDNA.Hash {
		t.Errorf("parallel aggregation order affected hash: %q vs %q", seqDNA.Hash, parDNA.Hash)
	}
}
