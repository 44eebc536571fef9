// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package similarity

import (
	"testing"

	"codedna/fingerprint"
)

func sampleDNA(classHashes, inheritanceHashes, interfaceHashes, extRefs, methodSigs, patterns []string, pkgStructure map[string]int) *fingerprint.CodeDNA {
	return &fingerprint.CodeDNA{
		Structure: fingerprint.Structure{
			ClassHashes:       classHashes,
			PackageStructure:  pkgStructure,
			InheritanceHashes: inheritanceHashes,
			InterfaceHashes:   interfaceHashes,
		},
		APIFootprint: fingerprint.APIFootprint{
			ExternalReferences:    extRefs,
			MethodSignatureHashes: methodSigs,
		},
		Behavioral: fingerprint.Behavioral{
			InstructionPatternHashes: patterns,
		},
	}
}

func TestComputeReflexivity(t *testing.T) {
	dna := sampleDNA(
		[]string{"c1", "c2"},
		[]string{"i1"},
		[]string{"f1"},
		[]string{"e1", "e2"},
		[]string{"m1", "m2"},
		[]string{"p1"},
		map[string]int{"a/b": 2},
	)

	score := Compute(dna, dna)
	if score.Structural != 1 {
		t.Errorf("Structural = %v, want 1", score.Structural)
	}
	if score.API != 1 {
		t.Errorf("API = %v, want 1", score.API)
	}
	if score.Overall < 0.7 {
		t.Errorf("Overall = %v, want >= 0.7", score.Overall)
	}
}

func TestComputeSymmetry(t *testing.T) {
	a := sampleDNA([]string{"c1"}, nil, nil, []string{"e1"}, []string{"m1"}, nil, nil)
	b := sampleDNA([]string{"c2"}, nil, nil, []string{"e2"}, []string{"m2"}, nil, nil)

	ab := Compute(a, b)
	ba := Compute(b, a)

	if ab.Overall != ba.Overall || ab.Structural != ba.Structural || ab.API != ba.API || ab.Behavioral != ba.Behavioral {
		t.Errorf("Compute(a,b) = %+v, Compute(b,a) = %+v: not symmetric", ab, ba)
	}
}

func TestBehavioralNeutralWhenBothEmpty(t *testing.T) {
	a := sampleDNA([]string{"c1"}, nil, nil, nil, nil, nil, nil)
	b := sampleDNA([]string{"c2"}, nil, nil, nil, nil, nil, nil)

	score := Compute(a, b)
	if score.Behavioral != 0.5 {
		t.Errorf("Behavioral = %v, want 0.5 (neutral)", score.Behavioral)
	}
}

func TestBehavioralAsymmetricEmpty(t *testing.T) {
	a := sampleDNA([]string{"c1"}, nil, nil, nil, nil, []string{"p1"}, nil)
	b := sampleDNA([]string{"c2"}, nil, nil, nil, nil, nil, nil)

	score := Compute(a, b)
	if score.Behavioral != 0.1 {
		t.Errorf("Behavioral = %v, want 0.1 (one-sided empty)", score.Behavioral)
	}
}

func TestJaccardEmptySetConvention(t *testing.T) {
	if got := jaccard(nil, nil); got != 1 {
		t.Errorf("jaccard(nil, nil) = %v, want 1", got)
	}
	if got := jaccard([]string{"a"}, nil); got != 0 {
		t.Errorf("jaccard(non-empty, nil) = %v, want 0", got)
	}
}

func TestComputeChurnIdentity(t *testing.T) {
	dna := sampleDNA([]string{"c1", "c2"}, nil, nil, []string{"e1"}, []string{"m1", "m2"}, nil, nil)

	churn := ComputeChurn(dna, dna)
	if churn.ChurnPercentage != 0 {
		t.Errorf("ChurnPercentage = %v, want 0", churn.ChurnPercentage)
	}
	if churn.AddedClasses != 0 || churn.RemovedClasses != 0 {
		t.Errorf("expected zero added/removed classes, got added=%d removed=%d", churn.AddedClasses, churn.RemovedClasses)
	}
}

func TestComputeChurnTotalityOnEmpty(t *testing.T) {
	oldDNA := sampleDNA(nil, nil, nil, nil, nil, nil, nil)
	newDNA := sampleDNA(nil, nil, nil, nil, nil, nil, nil)

	churn := ComputeChurn(oldDNA, newDNA)
	if churn.ChurnPercentage != 100 {
		t.Errorf("ChurnPercentage = %v, want 100 when old has nothing to change", churn.ChurnPercentage)
	}
}

func TestComputeChurnAddRemove(t *testing.T) {
	oldDNA := sampleDNA([]string{"A", "B", "C", "D"}, nil, nil, nil, []string{"m1", "m2", "m3", "m4", "m5", "m6"}, nil, nil)
	newDNA := sampleDNA([]string{"A", "B", "C", "E"}, nil, nil, nil, []string{"m1", "m2", "m3", "m4", "m7"}, nil, nil)

	churn := ComputeChurn(oldDNA, newDNA)
	if churn.AddedClasses != 1 || churn.RemovedClasses != 1 {
		t.Errorf("AddedClasses=%d RemovedClasses=%d, want 1,1", churn.AddedClasses, churn.RemovedClasses)
	}
	if churn.UnchangedClasses != 3 {
		t.Errorf("UnchangedClasses=%d, want 3", churn.UnchangedClasses)
	}
	if churn.AddedMethods != 1 || churn.RemovedMethods != 2 {
		t.Errorf("AddedMethods=%d RemovedMethods=%d, want 1,2", churn.AddedMethods, churn.RemovedMethods)
	}
}
