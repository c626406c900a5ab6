// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package query implements the multi-strategy search pipeline: exact,
// prefix, and fuzzy retrieval with an AND-coverage penalty, followed by a
// semantic-description rerank and filename-base deduplication.
//
// # Description
//
// Control flow is grounded on the reference search() pipeline; the
// fuzzy-fallback primitive is grounded on the teacher's
// levenshteinDistance in services/trace/index/symbol_index.go.
package query

import (
	"math"
	"sort"
	"strings"

	"github.com/AleutianAI/manidx/internal/manfile"
	"github.com/AleutianAI/manidx/internal/text"
)

// Tuning constants, grounded on the original implementation's constants.rs.
const (
	semanticRerankN = 50
	semanticWeight  = 15.0
	prefixMinLen    = 4
	prefixMinIDF    = 1.0
	fuzzyMinLen     = 4
	prefixPenalty   = 0.6
	fuzzyPenalty    = 0.5
	minIDF          = 0.01
)

// Result is one ranked hit returned by Search.
type Result struct {
	DocID    uint32
	Fname    string
	NameDesc string
	Score    float32
}

// Search runs the full pipeline over index for raw and returns results in
// descending score order, deduplicated by filename base. An empty or
// stop-word-only query returns an empty, non-nil slice.
//
// # Thread Safety
//
// Search only reads from index; concurrent calls over the same MmapIndex
// are safe.
func Search(raw string, index *manfile.MmapIndex) []Result {
	queryTokens := text.Tokenize(raw)
	if len(queryTokens) == 0 {
		return []Result{}
	}

	queryTokenSet := make(map[string]struct{}, len(queryTokens))
	for _, t := range queryTokens {
		queryTokenSet[t] = struct{}{}
	}

	n := float64(index.DocCount())

	tokenIDF := make(map[string]float64, len(queryTokenSet))
	for t := range queryTokenSet {
		tokenIDF[t] = queryIDF(t, index, n)
	}
	var totalIDF float64
	for _, v := range tokenIDF {
		totalIDF += v
	}

	docScore := make(map[uint32]float64)
	docMatchedIDF := make(map[uint32]float64)

	dictKeys := index.Keys()

	for _, token := range queryTokens {
		tokIDF := tokenIDF[token]
		tokenPosts := make(map[uint32]float64)

		for _, p := range index.GetPostings(token) {
			tokenPosts[p.DocID] += float64(p.Score)
		}

		if len(token) >= prefixMinLen && tokIDF > prefixMinIDF {
			for _, key := range dictKeys {
				if key == token || !strings.HasPrefix(key, token) {
					continue
				}
				penalty := math.Pow(prefixPenalty, float64(len(key)-len(token))+1)
				for _, p := range index.GetPostings(key) {
					tokenPosts[p.DocID] += float64(p.Score) * penalty
				}
			}
		}

		if len(tokenPosts) == 0 && len(token) >= fuzzyMinLen {
			for _, key := range dictKeys {
				if absDiff(len(key), len(token)) > 1 {
					continue
				}
				if text.EditDistance(key, token, 1) > 1 {
					continue
				}
				for _, p := range index.GetPostings(key) {
					tokenPosts[p.DocID] += float64(p.Score) * fuzzyPenalty
				}
			}
		}

		for _, docID := range index.DescIndex[token] {
			if _, ok := tokenPosts[docID]; !ok {
				tokenPosts[docID] = 0
			}
		}

		matched := len(tokenPosts) > 0
		for docID, score := range tokenPosts {
			docScore[docID] += score
			if matched {
				docMatchedIDF[docID] += tokIDF
			}
		}
	}

	andExp := math.Max(2.0, float64(len(queryTokens)-1))

	type candidate struct {
		docID uint32
		score float64
	}
	candidates := make([]candidate, 0, len(docScore))
	for docID, score := range docScore {
		midf := docMatchedIDF[docID]
		if midf == 0 {
			continue
		}
		coverage := math.Min(1.0, midf/totalIDF)
		candidates = append(candidates, candidate{docID: docID, score: score * math.Pow(coverage, andExp)})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	if len(candidates) > semanticRerankN {
		candidates = candidates[:semanticRerankN]
	}

	for i := range candidates {
		doc := index.Docs[candidates[i].docID]
		sem := semanticDescScore(queryTokenSet, tokenIDF, doc.NameDescRaw)
		candidates[i].score *= 1 + semanticWeight*sem
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	type best struct {
		docID uint32
		score float64
	}
	bestForBase := make(map[string]best)
	for _, c := range candidates {
		base := filenameBase(index.Docs[c.docID].Fname)
		b, ok := bestForBase[base]
		if !ok || c.score > b.score {
			bestForBase[base] = best{docID: c.docID, score: c.score}
		}
	}

	deduped := make([]best, 0, len(bestForBase))
	for _, b := range bestForBase {
		deduped = append(deduped, b)
	}
	sort.Slice(deduped, func(i, j int) bool { return deduped[i].score > deduped[j].score })

	out := make([]Result, 0, len(deduped))
	for _, b := range deduped {
		doc := index.Docs[b.docID]
		out = append(out, Result{
			DocID:    b.docID,
			Fname:    doc.Fname,
			NameDesc: doc.NameDescRaw,
			Score:    float32(b.score),
		})
	}
	return out
}

// queryIDF computes max(0.01, ln((N-df+0.5)/(df+0.5)+1)) for token against
// index's dictionary, defaulting df to 1 when token is absent.
func queryIDF(token string, index *manfile.MmapIndex, n float64) float64 {
	df := float64(index.DF(token))
	if df == 0 {
		df = 1
	}
	v := math.Log((n-df+0.5)/(df+0.5) + 1)
	if v < minIDF {
		return minIDF
	}
	return v
}

// semanticDescScore computes the F1^2 score between the query and a
// document's NAME-line description per the median-IDF gating rule: with
// more than one query token, every token whose IDF is at or above the
// median must appear in the description or the match is rejected outright.
func semanticDescScore(queryTokens map[string]struct{}, tokenIDF map[string]float64, nameDesc string) float64 {
	if nameDesc == "" || len(queryTokens) == 0 {
		return 0
	}

	descTokenList := text.Tokenize(nameDesc)
	descTokens := make(map[string]struct{}, len(descTokenList))
	for _, t := range descTokenList {
		descTokens[t] = struct{}{}
	}
	if len(descTokens) == 0 {
		return 0
	}

	idfs := make([]float64, 0, len(tokenIDF))
	for _, v := range tokenIDF {
		idfs = append(idfs, v)
	}
	sort.Float64s(idfs)
	medianIDF := 0.0
	if len(idfs) > 0 {
		medianIDF = idfs[len(idfs)/2]
	}

	if len(idfs) > 1 {
		for tok, idf := range tokenIDF {
			if idf >= medianIDF {
				if _, ok := descTokens[tok]; !ok {
					return 0
				}
			}
		}
	}

	var idfOverlap, totalQueryIDF float64
	for qt := range queryTokens {
		idf, ok := tokenIDF[qt]
		if !ok {
			idf = minIDF
		}
		totalQueryIDF += idf
		if _, ok := descTokens[qt]; ok {
			idfOverlap += idf
		}
	}
	if totalQueryIDF == 0 {
		return 0
	}

	coverage := idfOverlap / totalQueryIDF

	var matched float64
	for qt := range queryTokens {
		if _, ok := descTokens[qt]; ok {
			matched++
		}
	}
	precision := matched / float64(len(descTokens))

	if coverage+precision == 0 {
		return 0
	}
	f1 := 2 * coverage * precision / (coverage + precision)
	return f1 * f1
}

// filenameBase returns the substring before the first '.', lowercased.
func filenameBase(fname string) string {
	if idx := strings.Index(fname, "."); idx >= 0 {
		fname = fname[:idx]
	}
	return strings.ToLower(fname)
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
