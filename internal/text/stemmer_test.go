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

import "testing"

func TestStemmer_Deterministic(t *testing.T) {
	s := NewStemmer()
	for _, w := range []string{"copying", "directories", "listed", "compression"} {
		if s.Stem(w) != s.Stem(w) {
			t.Fatalf("Stem(%q) not deterministic", w)
		}
	}
}

func TestStemmer_ReducesCommonSuffixes(t *testing.T) {
	s := NewStemmer()
	cases := map[string]string{
		"caresses": "caress",
		"ponies":   "poni",
		"cats":     "cat",
		"feed":     "feed",
	}
	for in, want := range cases {
		if got := s.Stem(in); got != want {
			t.Errorf("Stem(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStemmer_ShortWordsUnchanged(t *testing.T) {
	s := NewStemmer()
	for _, w := range []string{"ls", "a", "cp"} {
		if got := s.Stem(w); got != w {
			t.Errorf("Stem(%q) = %q, want unchanged %q", w, got, w)
		}
	}
}
