// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package manfile

import "errors"

// ErrCorruptIndex is returned when a loaded index file's structure doesn't
// match the expected footer-addressed layout (bad offsets, truncated
// dictionary entries, out-of-range posting ranges).
var ErrCorruptIndex = errors.New("manfile: corrupt index")

// ErrTruncated is returned when the index file is smaller than the
// minimum 8-byte footer. A footer pointer past the end of the file is
// reported as ErrCorruptIndex.
var ErrTruncated = errors.New("manfile: truncated index file")
