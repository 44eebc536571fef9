// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package minhash

import (
	"fmt"
	"math/rand"
	"testing"
)

func TestSignatureEmptySet(t *testing.T) {
	mh := New(16, 42)
	sig := mh.Signature(nil)
	if len(sig) != 16 {
		t.Fatalf("len(sig) = %d, want 16", len(sig))
	}
	for i, v := range sig {
		if v != ^uint64(0) {
			t.Errorf("sig[%d] = %d, want max uint64", i, v)
		}
	}
}

func TestSignatureDeterministic(t *testing.T) {
	mh := New(32, 1234)
	set := []string{"a", "b", "c"}

	sig1 := mh.Signature(set)
	sig2 := mh.Signature(set)
	for i := range sig1 {
		if sig1[i] != sig2[i] {
			t.Fatalf("signature not deterministic at slot %d: %d vs %d", i, sig1[i], sig2[i])
		}
	}
}

func TestEstimateSimilaritySymmetry(t *testing.T) {
	mh := New(64, 99)
	a := mh.Signature([]string{"x", "y", "z"})
	b := mh.Signature([]string{"y", "z", "w"})

	if EstimateSimilarity(a, b) != EstimateSimilarity(b, a) {
		t.Errorf("EstimateSimilarity not symmetric")
	}
}

func TestExactJaccardConventions(t *testing.T) {
	if got := ExactJaccard(nil, nil); got != 1 {
		t.Errorf("ExactJaccard(nil, nil) = %v, want 1", got)
	}
	if got := ExactJaccard([]string{"a"}, nil); got != 0 {
		t.Errorf("ExactJaccard(non-empty, nil) = %v, want 0", got)
	}
}

func TestMinHashApproximatesJaccard(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	mh := New(128, 0)

	trials := 200
	failures := 0
	for trial := 0; trial < trials; trial++ {
		a, b := randomOverlappingSets(r, 50)
		exact := ExactJaccard(a, b)
		estimate := EstimateSimilarity(mh.Signature(a), mh.Signature(b))
		if diff := exact - estimate; diff > 0.2 || diff < -0.2 {
			failures++
		}
	}

	if float64(failures)/float64(trials) > 0.05 {
		t.Errorf("MinHash approximation failed on %d/%d trials (want <= 5%%)", failures, trials)
	}
}

func randomOverlappingSets(r *rand.Rand, n int) ([]string, []string) {
	universe := make([]string, n*2)
	for i := range universe {
		universe[i] = fmt.Sprintf("elem-%d", i)
	}
	r.Shuffle(len(universe), func(i, j int) { universe[i], universe[j] = universe[j], universe[i] })

	shared := universe[:n]
	a := append([]string{}, shared...)
	a = append(a, universe[n:n+n/2]...)
	b := append([]string{}, shared...)
	b = append(b, universe[n+n/2:]...)
	return a, b
}
