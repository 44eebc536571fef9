// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package lshindex provides banded locality-sensitive hashing over
// MinHash signatures for sub-linear approximate retrieval of similar
// CodeDNA fingerprints.
package lshindex

import (
	"hash/fnv"
	"sync"

	"codedna/cerrors"
	"codedna/fingerprint"
	"codedna/minhash"
)

// storedSignatures holds every MinHash signature kept for one indexed
// plugin: one per dimension estimateSimilarity can approximate.
type storedSignatures struct {
	classHashes       []uint64
	methodSignatures  []uint64
	externalReferences []uint64
}

// LSHIndex buckets plugins by the bands of their class-hash MinHash
// signature so that plugins with high Jaccard similarity over
// class_hashes are likely to collide in at least one band. It has a
// build phase (concurrent Add calls) and a query phase (concurrent
// FindCandidates/EstimateSimilarity calls); both may be interleaved
// safely via the index's RWMutex.
type LSHIndex struct {
	k int
	b int
	r int

	mh *minhash.MinHash

	mu      sync.RWMutex
	buckets []map[uint64][]string // one bucket map per band
	signatures map[string]storedSignatures
}

// New constructs an LSHIndex with k MinHash functions split into b
// bands of r = k/b rows each. k must be divisible by b; violating this
// is an IndexConfigError, not a panic, since it's a caller configuration
// mistake discoverable at construction time.
func New(k, b int, seed uint64) (*LSHIndex, error) {
	if b == 0 || k%b != 0 {
		return nil, cerrors.NewIndexConfigError(k, b)
	}

	buckets := make([]map[uint64][]string, b)
	for i := range buckets {
		buckets[i] = make(map[uint64][]string)
	}

	return &LSHIndex{
		k:          k,
		b:          b,
		r:          k / b,
		mh:         minhash.New(k, seed),
		buckets:    buckets,
		signatures: make(map[string]storedSignatures),
	}, nil
}

// Add computes and stores the three dimension signatures for dna and
// inserts it into the class-hash signature's band buckets, keyed by
// dna.Hash (the plugin identity).
func (idx *LSHIndex) Add(dna *fingerprint.CodeDNA) {
	sigs := storedSignatures{
		classHashes:        idx.mh.Signature(dna.Structure.ClassHashes),
		methodSignatures:   idx.mh.Signature(dna.APIFootprint.MethodSignatureHashes),
		externalReferences: idx.mh.Signature(dna.APIFootprint.ExternalReferences),
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.signatures[dna.Hash] = sigs
	for band := 0; band < idx.b; band++ {
		bucket := idx.hashBand(sigs.classHashes, band)
		idx.buckets[band][bucket] = append(idx.buckets[band][bucket], dna.Hash)
	}
}

// FindCandidates returns the IDs of plugins whose class-hash signature
// shares at least minBandMatches bands with query's.
func (idx *LSHIndex) FindCandidates(query *fingerprint.CodeDNA, minBandMatches int) []string {
	if minBandMatches < 1 {
		minBandMatches = 1
	}
	querySig := idx.mh.Signature(query.Structure.ClassHashes)

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	bandMatches := make(map[string]int)
	for band := 0; band < idx.b; band++ {
		bucket := idx.hashBand(querySig, band)
		for _, id := range idx.buckets[band][bucket] {
			bandMatches[id]++
		}
	}

	var out []string
	for id, count := range bandMatches {
		if count >= minBandMatches {
			out = append(out, id)
		}
	}
	return out
}

// EstimateResult is the per-dimension and summary output of
// EstimateSimilarity: a ranking shortcut, never the authoritative score
// (see the similarity package for that).
type EstimateResult struct {
	ClassHashesEstimate     float64
	MethodSignaturesEstimate float64
	ExternalReferencesEstimate float64
	Overall                 float64
}

// estimateFoldConstant folds in for the dimensions an LSH index keeps
// no signature for at all (inheritance, interfaces, package structure,
// annotations, instruction histograms): a neutral midpoint, consistent
// with EstimateResult's "ranking-only, never authoritative" caveat.
const estimateFoldConstant = 0.5

// EstimateSimilarity returns a fast, MinHash-only approximation of
// similarity between an already-indexed plugin and a query CodeDNA,
// composed with the same dimension weights as similarity.Compute but
// folding in estimateFoldConstant for every sub-dimension this index
// keeps no signature for. ok is false if pluginID is unknown.
func (idx *LSHIndex) EstimateSimilarity(pluginID string, query *fingerprint.CodeDNA) (result EstimateResult, ok bool) {
	idx.mu.RLock()
	stored, found := idx.signatures[pluginID]
	idx.mu.RUnlock()
	if !found {
		return EstimateResult{}, false
	}

	querySigs := storedSignatures{
		classHashes:        idx.mh.Signature(query.Structure.ClassHashes),
		methodSignatures:   idx.mh.Signature(query.APIFootprint.MethodSignatureHashes),
		externalReferences: idx.mh.Signature(query.APIFootprint.ExternalReferences),
	}

	classEst := minhash.EstimateSimilarity(stored.classHashes, querySigs.classHashes)
	methodEst := minhash.EstimateSimilarity(stored.methodSignatures, querySigs.methodSignatures)
	extRefEst := minhash.EstimateSimilarity(stored.externalReferences, querySigs.externalReferences)

	structural := 0.4*classEst + 0.6*estimateFoldConstant // inheritance/interfaces/package folded in
	api := 0.5*extRefEst + 0.3*methodEst + 0.2*estimateFoldConstant // annotations folded in
	behavioral := estimateFoldConstant // no histogram signature kept at all

	overall := 0.4*structural + 0.3*api + 0.3*behavioral
	if overall > 1 {
		overall = 1
	}
	if overall < 0 {
		overall = 0
	}

	return EstimateResult{
		ClassHashesEstimate:        classEst,
		MethodSignaturesEstimate:   methodEst,
		ExternalReferencesEstimate: extRefEst,
		Overall:                    overall,
	}, true
}

// Stats reports summary statistics over the index's current bucket
// occupancy.
type Stats struct {
	NumPlugins    int
	NumBuckets    int
	AvgBucketSize float64
	MaxBucketSize int
}

func (idx *LSHIndex) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	totalBuckets := 0
	totalEntries := 0
	maxBucket := 0
	for _, band := range idx.buckets {
		for _, bucket := range band {
			totalBuckets++
			totalEntries += len(bucket)
			if len(bucket) > maxBucket {
				maxBucket = len(bucket)
			}
		}
	}

	var avg float64
	if totalBuckets > 0 {
		avg = float64(totalEntries) / float64(totalBuckets)
	}

	return Stats{
		NumPlugins:    len(idx.signatures),
		NumBuckets:    totalBuckets,
		AvgBucketSize: avg,
		MaxBucketSize: maxBucket,
	}
}

// hashBand folds one band's r-wide slice of a signature into a single
// bucket key.
func (idx *LSHIndex) hashBand(sig []uint64, band int) uint64 {
	start := band * idx.r
	end := start + idx.r

	h := fnv.New64a()
	var tmp [8]byte
	for i := start; i < end && i < len(sig); i++ {
		v := sig[i]
		for j := 0; j < 8; j++ {
			tmp[j] = byte(v >> (j * 8))
		}
		h.Write(tmp[:])
	}
	return h.Sum64()
}
