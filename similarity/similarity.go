// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package similarity compares two CodeDNA records across structural,
// API and behavioral dimensions, and reports churn between versions of
// the same artifact.
package similarity

import (
	"codedna/fingerprint"
)

// Score is the result of comparing two CodeDNA records: three weighted
// dimension scores, an overall blend, and detail counts for the callers
// that want to show their work.
type Score struct {
	Structural float64 `json:"structural"`
	API        float64 `json:"api"`
	Behavioral float64 `json:"behavioral"`
	Overall    float64 `json:"overall"`

	ClassCommon, ClassA, ClassB             int `json:"-"`
	ExternalRefCommon, ExternalRefA, ExternalRefB int `json:"-"`
	MethodSigCommon, MethodSigA, MethodSigB int `json:"-"`
}

// Compute computes the three-dimensional similarity between a and b.
func Compute(a, b *fingerprint.CodeDNA) Score {
	structural := 0.4*jaccard(a.Structure.ClassHashes, b.Structure.ClassHashes) +
		0.2*jaccard(a.Structure.InheritanceHashes, b.Structure.InheritanceHashes) +
		0.2*jaccard(a.Structure.InterfaceHashes, b.Structure.InterfaceHashes) +
		0.2*cosineCounts(a.Structure.PackageStructure, b.Structure.PackageStructure)

	api := 0.5*jaccard(a.APIFootprint.ExternalReferences, b.APIFootprint.ExternalReferences) +
		0.3*jaccard(a.APIFootprint.MethodSignatureHashes, b.APIFootprint.MethodSignatureHashes) +
		0.2*jaccard(a.APIFootprint.AnnotationHashes, b.APIFootprint.AnnotationHashes)

	behavioral := computeBehavioral(a, b)

	overall := 0.4*structural + 0.3*api + 0.3*behavioral

	classCommon, classA, classB := detailCounts(a.Structure.ClassHashes, b.Structure.ClassHashes)
	extCommon, extA, extB := detailCounts(a.APIFootprint.ExternalReferences, b.APIFootprint.ExternalReferences)
	sigCommon, sigA, sigB := detailCounts(a.APIFootprint.MethodSignatureHashes, b.APIFootprint.MethodSignatureHashes)

	return Score{
		Structural: structural,
		API:        api,
		Behavioral: behavioral,
		Overall:    overall,

		ClassCommon: classCommon, ClassA: classA, ClassB: classB,
		ExternalRefCommon: extCommon, ExternalRefA: extA, ExternalRefB: extB,
		MethodSigCommon: sigCommon, MethodSigA: sigA, MethodSigB: sigB,
	}
}

func computeBehavioral(a, b *fingerprint.CodeDNA) float64 {
	aEmpty := len(a.Behavioral.InstructionPatternHashes) == 0
	bEmpty := len(b.Behavioral.InstructionPatternHashes) == 0

	switch {
	case aEmpty && bEmpty:
		return 0.5
	case aEmpty != bEmpty:
		return 0.1
	}

	p := jaccard(a.Behavioral.InstructionPatternHashes, b.Behavioral.InstructionPatternHashes)
	h := histogramSimilarity(a.Behavioral.InstructionHistograms, b.Behavioral.InstructionHistograms)
	raw := 0.7*p + 0.3*h

	kappa := complexityFactor(a.Behavioral.InstructionHistograms, b.Behavioral.InstructionHistograms)
	return raw * kappa
}

// histogramSimilarity aggregates both sides' per-method histograms into
// single count maps, computes cosine similarity over the aggregates,
// then applies the size-disparity penalty min(n_A,n_B)/max(n_A,n_B)
// where n_X is the number of methods that contributed a histogram.
func histogramSimilarity(a, b map[string]fingerprint.Histogram) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	aggA := aggregateHistograms(a)
	aggB := aggregateHistograms(b)
	cos := cosineCounts(aggA, aggB)

	nA, nB := len(a), len(b)
	penalty := float64(min(nA, nB)) / float64(max(nA, nB))
	return cos * penalty
}

func aggregateHistograms(histograms map[string]fingerprint.Histogram) map[string]int {
	agg := make(map[string]int)
	for _, h := range histograms {
		for token, count := range h {
			agg[token] += count
		}
	}
	return agg
}

// complexityFactor computes κ from the mean per-method instruction
// count across both sides, dampening similarity scores between very
// simple methods. If either side has no histograms, κ defaults to 1.0
// (no dampening to apply).
func complexityFactor(a, b map[string]fingerprint.Histogram) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 1.0
	}

	meanA := meanInstructionCount(a)
	meanB := meanInstructionCount(b)
	s := (meanA + meanB) / 2

	switch {
	case s < 3:
		return 0.3
	case s < 5:
		return 0.5
	case s < 10:
		return 0.7
	case s < 20:
		return 0.9
	default:
		return 1.0
	}
}

func meanInstructionCount(histograms map[string]fingerprint.Histogram) float64 {
	total := 0
	for _, h := range histograms {
		for _, count := range h {
			total += count
		}
	}
	return float64(total) / float64(len(histograms))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
