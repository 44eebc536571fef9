// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package minhash computes k-wide MinHash signatures that approximate
// Jaccard similarity over sets of strings, for sub-linear retrieval via
// an LSH index.
package minhash

import (
	"hash/fnv"
	"math"
)

const defaultSeed = 0x9e3779b97f4a7c15

// MinHash produces deterministic, k-wide signatures for string sets. A
// MinHash value is immutable after construction and safe for concurrent
// use: Signature never mutates any shared state.
type MinHash struct {
	k         int
	slotSeeds []uint64
}

// New constructs a MinHash with k hash functions derived from seed. The
// per-slot seeds are a fixed deterministic function of (seed, slot
// index), so two MinHash values built with the same (k, seed) always
// agree on every signature they produce.
func New(k int, seed uint64) *MinHash {
	if seed == 0 {
		seed = defaultSeed
	}
	slotSeeds := make([]uint64, k)
	for i := range slotSeeds {
		slotSeeds[i] = mix(seed ^ uint64(i)*defaultSeed)
	}
	return &MinHash{k: k, slotSeeds: slotSeeds}
}

// K returns the signature width this MinHash was constructed with.
func (m *MinHash) K() int { return m.k }

// Signature computes the k-wide MinHash signature of s. An empty set
// yields a signature of all-max values, matching the convention that no
// element was ever small enough to beat the initial minimum.
func (m *MinHash) Signature(s []string) []uint64 {
	sig := make([]uint64, m.k)
	for i := range sig {
		sig[i] = math.MaxUint64
	}

	for _, elem := range s {
		base := hash64(elem)
		for i, seed := range m.slotSeeds {
			combined := mix(base ^ seed)
			if combined < sig[i] {
				sig[i] = combined
			}
		}
	}
	return sig
}

// EstimateSimilarity returns the fraction of positions where sig1 and
// sig2 agree, an unbiased estimator of Jaccard similarity over the sets
// the signatures were built from. Both signatures must have equal
// length.
func EstimateSimilarity(sig1, sig2 []uint64) float64 {
	if len(sig1) != len(sig2) || len(sig1) == 0 {
		return 0
	}
	matches := 0
	for i := range sig1 {
		if sig1[i] == sig2[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(sig1))
}

// ExactJaccard computes exact Jaccard similarity between two string
// sets, with the same empty-set conventions used across the rest of the
// engine: J(∅,∅) = 1, J(X,∅) = J(∅,X) = 0 for non-empty X.
func ExactJaccard(x, y []string) float64 {
	if len(x) == 0 && len(y) == 0 {
		return 1
	}
	if len(x) == 0 || len(y) == 0 {
		return 0
	}

	setX := make(map[string]struct{}, len(x))
	for _, v := range x {
		setX[v] = struct{}{}
	}
	setY := make(map[string]struct{}, len(y))
	for _, v := range y {
		setY[v] = struct{}{}
	}

	intersection := 0
	for v := range setX {
		if _, ok := setY[v]; ok {
			intersection++
		}
	}
	union := len(setX) + len(setY) - intersection
	if union == 0 {
		return 1
	}
	return float64(intersection) / float64(union)
}

func hash64(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// mix is a 64-bit avalanche finalizer (splitmix64's output stage):
// combined with distinct per-slot seeds it yields k effectively
// independent hash families from a single base hash.
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
