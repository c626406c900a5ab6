// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package manfile implements the final binary index format: a
// footer-addressed layout where the document table is written first, the
// posting blobs next, then the word dictionary, and an 8-byte footer
// pointing at the dictionary is the only fixed-location element. Save writes this format; Load
// memory-maps it read-only for zero-copy querying.
package manfile

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"sort"

	"github.com/AleutianAI/manidx/internal/buildindex"
	"github.com/AleutianAI/manidx/internal/ioutil"
)

// Save writes idx to path in the footer-addressed format described in the
// package comment. Terms are written to the dictionary in sorted order so
// that two builds over an identical corpus produce byte-identical files.
func Save(path string, idx *buildindex.Index) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	var offset uint64

	countingWrite := func(p []byte) error {
		n, err := w.Write(p)
		offset += uint64(n)
		return err
	}

	if err := ioutil.WriteU32(countingWriter{countingWrite}, uint32(len(idx.Docs))); err != nil {
		return err
	}
	for _, doc := range idx.Docs {
		if err := ioutil.WriteStr(countingWriter{countingWrite}, doc.Fname); err != nil {
			return err
		}
		if err := ioutil.WriteStr(countingWriter{countingWrite}, doc.CmdName); err != nil {
			return err
		}
		if err := ioutil.WriteStr(countingWriter{countingWrite}, doc.NameDescRaw); err != nil {
			return err
		}
	}

	terms := make([]string, 0, len(idx.Postings))
	for term := range idx.Postings {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	type dictEntry struct {
		word   string
		offset uint64
		count  uint32
	}
	dict := make([]dictEntry, 0, len(terms))

	for _, term := range terms {
		postings := idx.Postings[term]
		entryOffset := offset
		for _, p := range postings {
			if err := ioutil.WriteU32(countingWriter{countingWrite}, p.DocID); err != nil {
				return err
			}
			if err := ioutil.WriteF32(countingWriter{countingWrite}, p.Score); err != nil {
				return err
			}
		}
		dict = append(dict, dictEntry{word: term, offset: entryOffset, count: uint32(len(postings))})
	}

	dictOffset := offset
	if err := ioutil.WriteU32(countingWriter{countingWrite}, uint32(len(dict))); err != nil {
		return err
	}
	for _, e := range dict {
		if err := ioutil.WriteStr(countingWriter{countingWrite}, e.word); err != nil {
			return err
		}
		if err := writeU64(countingWriter{countingWrite}, e.offset); err != nil {
			return err
		}
		if err := ioutil.WriteU32(countingWriter{countingWrite}, e.count); err != nil {
			return err
		}
	}

	if err := writeU64(w, dictOffset); err != nil {
		return err
	}

	return w.Flush()
}

// countingWriter adapts a byte-counting write function to io.Writer so the
// shared ioutil primitives can be reused while Save tracks stream offsets.
type countingWriter struct {
	write func([]byte) error
}

func (c countingWriter) Write(p []byte) (int, error) {
	if err := c.write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func writeU64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}
