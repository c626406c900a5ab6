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

// stopWords is the fixed set of tokens dropped before stemming. It is a
// process-wide constant paid once at package init, never mutated.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "if": {}, "then": {}, "else": {},
	"when": {}, "while": {}, "where": {}, "why": {}, "how": {}, "of": {}, "to": {}, "in": {},
	"on": {}, "at": {}, "by": {}, "for": {}, "with": {}, "about": {}, "from": {}, "into": {},
	"over": {}, "after": {}, "before": {}, "does": {}, "between": {}, "through": {},
	"during": {}, "without": {}, "within": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "do": {}, "will": {}, "did": {}, "doing": {}, "have": {},
	"has": {}, "had": {}, "having": {}, "can": {}, "could": {}, "should": {}, "would": {},
	"may": {}, "might": {}, "must": {}, "such": {}, "shall": {}, "as": {}, "it": {}, "its": {},
	"it's": {}, "this": {}, "that": {}, "these": {}, "those": {}, "he": {}, "she": {}, "they": {},
	"them": {}, "yes": {}, "their": {}, "there": {}, "here": {}, "we": {}, "you": {}, "your": {},
	"i": {}, "me": {}, "my": {}, "our": {}, "us": {}, "not": {}, "no": {}, "use": {}, "than": {},
	"too": {}, "very": {}, "also": {}, "just": {}, "only": {}, "even": {}, "more": {}, "most": {},
	"some": {}, "any": {}, "each": {}, "other": {}, "used": {}, "call": {}, "called": {},
	"return": {}, "returns": {}, "value": {}, "set": {}, "get": {}, "new": {}, "see": {},
}

// IsStopWord reports whether w is in the fixed stop-word list.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}
