// Copyright 2026 codedna contributors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package api exposes the corpus search driver over HTTP, built on a
// gin.Engine router-construction shape generalized from blockchain
// forensics endpoints to plugin fingerprint search.
package api

import (
	"fmt"
	"sort"

	"github.com/go-kratos/kratos/v2/log"

	"codedna/classfile"
	"codedna/fingerprint"
	"codedna/lshindex"
	"codedna/similarity"
	"codedna/store"
)

// SearchEngine holds everything a search request needs: the persisted
// corpus plus the in-memory LSHIndex rebuilt from it at startup.
type SearchEngine struct {
	db   *store.Store
	idx  *lshindex.LSHIndex
	meta store.Meta
	// byID holds every indexed plugin's CodeDNA for exact similarity
	// scoring once LSHIndex.FindCandidates narrows the candidate set.
	byID map[string]*fingerprint.CodeDNA
}

// NewSearchEngine rebuilds an in-memory LSHIndex from every record in
// db: the index is disposable, never itself the system of record.
func NewSearchEngine(db *store.Store) (*SearchEngine, error) {
	meta, err := db.Meta()
	if err != nil {
		return nil, err
	}

	idx, err := lshindex.New(meta.K, meta.B, 0)
	if err != nil {
		return nil, err
	}

	eng := &SearchEngine{db: db, idx: idx, meta: meta, byID: make(map[string]*fingerprint.CodeDNA)}
	err = db.All(func(rec store.PluginRecord) error {
		idx.Add(rec.DNA)
		eng.byID[rec.DNA.Hash] = rec.DNA
		return nil
	})
	if err != nil {
		return nil, err
	}
	return eng, nil
}

// SetLogger attaches a logger to the underlying store. Only store reads
// made after the call use it: the index rebuild in NewSearchEngine has
// already run by then, so a corrupt row met during that rebuild is
// reported through NewSearchEngine's returned error, not this logger.
func (e *SearchEngine) SetLogger(logger *log.Helper) {
	e.db.SetLogger(logger)
}

// Mode reports the classfile analysis mode (exact or fuzzy opcodes) the
// corpus was built with, so a caller fingerprinting a new archive for
// comparison against this corpus uses the same tokenization instead of
// silently mixing the two.
func (e *SearchEngine) Mode() classfile.Mode {
	if e.meta.FuzzyMode {
		return classfile.ModeFuzzy
	}
	return classfile.ModeExact
}

// Candidate is one ranked search result.
type Candidate struct {
	PluginID string           `json:"plugin_id"`
	Score    similarity.Score `json:"score"`
}

// SearchRequest controls a similarity search.
type SearchRequest struct {
	Query          *fingerprint.CodeDNA
	Threshold      float64
	TopK           int
	MinBandMatches int
	// Exact skips LSH narrowing and scores every corpus entry directly.
	// The index is always a ranking shortcut and similarity.Compute is
	// always the authoritative score on whatever candidate set is
	// chosen; Exact only changes how that set is chosen, trading the
	// index's recall risk for an O(n) scan of the whole corpus.
	Exact bool
}

// Search finds plugins in the corpus similar to req.Query. By default
// LSHIndex narrows to a candidate set first; with req.Exact every
// corpus entry is scored instead, bypassing the index's probabilistic
// recall entirely.
func (e *SearchEngine) Search(req SearchRequest) ([]Candidate, error) {
	if req.Query == nil {
		return nil, fmt.Errorf("api: search request has no query fingerprint")
	}

	var candidateIDs []string
	if req.Exact {
		candidateIDs = make([]string, 0, len(e.byID))
		for id := range e.byID {
			candidateIDs = append(candidateIDs, id)
		}
	} else {
		minBand := req.MinBandMatches
		if minBand < 1 {
			minBand = 1
		}
		candidateIDs = e.idx.FindCandidates(req.Query, minBand)
	}

	results := make([]Candidate, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		dna, ok := e.byID[id]
		if !ok {
			continue
		}
		score := similarity.Compute(req.Query, dna)
		if score.Overall < req.Threshold {
			continue
		}
		results = append(results, Candidate{PluginID: id, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score.Overall > results[j].Score.Overall
	})

	if req.TopK > 0 && len(results) > req.TopK {
		results = results[:req.TopK]
	}
	return results, nil
}

// Stats reports the current in-memory index occupancy.
func (e *SearchEngine) Stats() lshindex.Stats {
	return e.idx.Stats()
}
