// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package similarity

import "math"

// jaccard computes |X ∩ Y| / |X ∪ Y| over two hash-string slices, with
// the convention J(∅,∅) = 1 and J(X,∅) = J(∅,X) = 0 for non-empty X.
func jaccard(x, y []string) float64 {
	if len(x) == 0 && len(y) == 0 {
		return 1
	}
	if len(x) == 0 || len(y) == 0 {
		return 0
	}

	setX := toSet(x)
	setY := toSet(y)

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

func toSet(vs []string) map[string]struct{} {
	s := make(map[string]struct{}, len(vs))
	for _, v := range vs {
		s[v] = struct{}{}
	}
	return s
}

// cosineCounts computes cosine similarity between two count-valued
// maps, with C(∅,∅) = 1 and C(·,∅) = 0 otherwise.
func cosineCounts(p, q map[string]int) float64 {
	if len(p) == 0 && len(q) == 0 {
		return 1
	}
	if len(p) == 0 || len(q) == 0 {
		return 0
	}

	var dot, normP, normQ float64
	for k, v := range p {
		normP += float64(v) * float64(v)
		if qv, ok := q[k]; ok {
			dot += float64(v) * float64(qv)
		}
	}
	for _, v := range q {
		normQ += float64(v) * float64(v)
	}

	denom := math.Sqrt(normP) * math.Sqrt(normQ)
	if denom == 0 {
		return 0
	}
	return dot / denom
}

// detailCounts reports the intersection size and per-side sizes of two
// hash-string slices, for SimilarityScore's detail counts.
func detailCounts(x, y []string) (common, sizeX, sizeY int) {
	setX := toSet(x)
	setY := toSet(y)
	for v := range setX {
		if _, ok := setY[v]; ok {
			common++
		}
	}
	return common, len(setX), len(setY)
}
