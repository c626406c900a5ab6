// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package text implements the tokenizer, stop-word filter, Snowball/English stemmer,
// and bounded edit-distance primitive shared by the crawler, the index
// builder, and the query engine.
package text

import (
	"strings"
	"unicode"
)

// defaultStemmer is the single shared, stateless Stemmer instance used by
// Tokenize. Stemmer has no fields to race on, so sharing it across
// goroutines needs no synchronization.
var defaultStemmer = NewStemmer()

// isWordChar reports whether r may appear inside a token: alphanumeric,
// '-', or '_'.
func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}

// Tokenize splits text into lowercase, stemmed tokens. Stop words and
// tokens of length <= 2 are dropped, except tokens beginning with '-',
// which only require length >= 2. Duplicates are preserved; callers that
// need term frequencies aggregate the returned slice themselves.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return !isWordChar(r) })

	out := make([]string, 0, len(fields))
	for _, w := range fields {
		w = strings.ToLower(w)
		if IsStopWord(w) {
			continue
		}
		if strings.HasPrefix(w, "-") {
			if len(w) < 2 {
				continue
			}
		} else if len(w) <= 2 {
			continue
		}
		out = append(out, defaultStemmer.Stem(w))
	}
	return out
}
