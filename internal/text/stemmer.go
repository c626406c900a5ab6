// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package text

import "github.com/kljensen/snowball/english"

// Stemmer reduces English words to their Snowball/English stem. The zero
// value is ready to use: Stemmer carries no state and every call is a pure
// function of its input, so Tokenize shares a single package-level
// instance read-only without synchronization, and any caller may create
// its own with NewStemmer.
//
// Grounding: other_examples/438cd6ee_covrom-bm25s__bm25s.go.go, a BM25
// text-search engine, stems through github.com/kljensen/snowball/english
// rather than a hand-rolled implementation — the same library is used
// here. It is also the Go port of the same Snowball English algorithm the
// original Rust implementation wraps via rust_stemmers, so stems match the
// reference across tokenize, cmd_name, postings, desc_index, and the
// semantic rerank.
type Stemmer struct{}

// NewStemmer returns a ready-to-use Stemmer.
func NewStemmer() Stemmer { return Stemmer{} }

// Stem reduces w (already lowercase) to its stem. Deterministic:
// Stem(w) == Stem(w) for any input.
func (Stemmer) Stem(w string) string {
	if len(w) <= 2 {
		return w
	}
	return english.Stem(w, false)
}
