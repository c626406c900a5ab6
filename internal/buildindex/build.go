// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package buildindex implements Pass 2 of index construction: it streams
// the per-document records the crawler wrote, scores every (term,
// document) pair with a four-field BM25 kernel, and assembles the
// in-memory inverted index that internal/manfile then serializes.
//
// # Description
//
// The BM25 kernel here generalizes the single-field binary-presence
// scoring in the router's BM25Index (services/trace/agent/routing/bm25.go)
// to four independently weighted fields with real term frequencies:
// command name, NAME-line description, synopsis, and body.
package buildindex

import (
	"bufio"
	"io"
	"math"
	"os"
	"sort"

	"github.com/AleutianAI/manidx/internal/crawl"
	"github.com/AleutianAI/manidx/internal/docparse"
	"github.com/AleutianAI/manidx/internal/ioutil"
)

// BM25 tuning constants, standard values per Robertson et al. They are
// baked into every posting score at build time, so they live here rather
// than in a config file: changing them invalidates every existing index.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// Field score weights applied before summing into a document's raw score.
const (
	cmdWeight  = 30.0
	descWeight = 12.0
	synWeight  = 2.5
	bodyWeight = 1.0
)

// Posting is one (document, score) pair in a term's posting list.
type Posting struct {
	DocID uint32
	Score float32
}

// DocMeta is the per-document metadata the final index persists verbatim.
type DocMeta struct {
	Fname       string
	CmdName     string
	NameDescRaw string
}

// Index is the complete in-memory Pass 2 result: document metadata plus
// one posting list per term, sorted by score descending.
type Index struct {
	Docs     []DocMeta
	Postings map[string][]Posting

	// CmdNameIndex maps a stemmed command name to the doc IDs whose
	// CmdName equals it.
	CmdNameIndex map[string][]uint32
}

// bm25 computes the shared BM25 kernel. Returns 0 when tf is 0; df and N
// enter only through the precomputed idf.
func bm25(tf, dl, avgdl float64, idf float64) float64 {
	if tf <= 0 {
		return 0
	}
	return idf * (tf * (bm25K1 + 1)) / (tf + bm25K1*(1-bm25B+bm25B*dl/avgdl))
}

// idf computes max(0, ln((N-df+0.5)/(df+0.5)+1)).
func idf(n, df float64) float64 {
	v := math.Log((n-df+0.5)/(df+0.5) + 1)
	if v < 0 {
		return 0
	}
	return v
}

// Build streams records from tempPath (written by internal/crawl) and
// produces the scored Index, each posting list sorted by score
// descending. stats must be the Stats returned
// by the crawl pass that produced tempPath.
func Build(tempPath string, stats crawl.Stats) (*Index, error) {
	f, err := os.Open(tempPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)

	idx := &Index{
		Postings:     make(map[string][]Posting),
		CmdNameIndex: make(map[string][]uint32),
	}

	n := float64(stats.TotalDocs)
	avgDesc := math.Max(1, float64(stats.AvgDescLen))
	avgSyn := math.Max(1, float64(stats.AvgSynopsisLen))
	avgBody := math.Max(1, float64(stats.AvgBodyLen))

	var docID uint32
	for {
		rec, err := readRecord(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		idx.Docs = append(idx.Docs, DocMeta{
			Fname:       rec.fname,
			CmdName:     rec.cmdName,
			NameDescRaw: rec.nameDescRaw,
		})

		mult := float64(docparse.DocTypeMultiplier(rec.fname))

		terms := make(map[string]struct{}, len(rec.descTF)+len(rec.synTF)+len(rec.bodyTF)+1)
		for t := range rec.descTF {
			terms[t] = struct{}{}
		}
		for t := range rec.synTF {
			terms[t] = struct{}{}
		}
		for t := range rec.bodyTF {
			terms[t] = struct{}{}
		}
		if rec.cmdName != "" {
			terms[rec.cmdName] = struct{}{}
		}

		for term := range terms {
			df := float64(stats.GlobalDF[term])
			if df == 0 {
				df = 1
			}
			termIDF := idf(n, df)

			var cmdScore, descScore, synScore, bodyScore float64
			if rec.cmdName != "" && term == rec.cmdName {
				cmdScore = bm25(1, 1, 1, idf(n, df)) * cmdWeight
			}
			if rec.descLen > 0 {
				descScore = bm25(float64(rec.descTF[term]), float64(rec.descLen), avgDesc, termIDF) * descWeight
			}
			if rec.synLen > 0 {
				synScore = bm25(float64(rec.synTF[term]), float64(rec.synLen), avgSyn, termIDF) * synWeight
			}
			if rec.bodyLen > 0 {
				bodyScore = bm25(float64(rec.bodyTF[term]), float64(rec.bodyLen), avgBody, termIDF) * bodyWeight
			}

			score := (cmdScore + descScore + synScore + bodyScore) * mult
			if score > 0 {
				idx.Postings[term] = append(idx.Postings[term], Posting{DocID: docID, Score: float32(score)})
			}
		}

		if rec.cmdName != "" {
			idx.CmdNameIndex[rec.cmdName] = append(idx.CmdNameIndex[rec.cmdName], docID)
		}

		docID++
	}

	for term, postings := range idx.Postings {
		sort.Slice(postings, func(i, j int) bool { return postings[i].Score > postings[j].Score })
		idx.Postings[term] = postings
	}

	return idx, nil
}

type record struct {
	fname       string
	cmdName     string
	descLen     uint32
	synLen      uint32
	bodyLen     uint32
	descTF      map[string]uint32
	synTF       map[string]uint32
	bodyTF      map[string]uint32
	nameDescRaw string
}

func readRecord(r *bufio.Reader) (record, error) {
	var rec record
	var err error

	if rec.fname, err = ioutil.ReadStr(r); err != nil {
		return record{}, err
	}
	if rec.cmdName, err = ioutil.ReadStr(r); err != nil {
		return record{}, err
	}
	if rec.descLen, err = ioutil.ReadU32(r); err != nil {
		return record{}, err
	}
	if rec.synLen, err = ioutil.ReadU32(r); err != nil {
		return record{}, err
	}
	if rec.bodyLen, err = ioutil.ReadU32(r); err != nil {
		return record{}, err
	}
	if rec.descTF, err = ioutil.ReadTFMap(r); err != nil {
		return record{}, err
	}
	if rec.synTF, err = ioutil.ReadTFMap(r); err != nil {
		return record{}, err
	}
	if rec.bodyTF, err = ioutil.ReadTFMap(r); err != nil {
		return record{}, err
	}
	if rec.nameDescRaw, err = ioutil.ReadStr(r); err != nil {
		return record{}, err
	}
	return rec, nil
}
