// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package docparse

// ParseFile renders path via the host man formatter and parses the
// result into Fields. Returns (nil, false) when rendering fails (ingest
// error: the caller skips the document and continues the crawl) or when
// the parsed document is empty across all three fields.
func ParseFile(path, fname string) (*Fields, bool) {
	rendered, err := Render(path)
	if err != nil {
		return nil, false
	}
	return Parse(fname, rendered)
}
