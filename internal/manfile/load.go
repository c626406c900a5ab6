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

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"golang.org/x/sys/unix"

	"github.com/AleutianAI/manidx/internal/ioutil"
	"github.com/AleutianAI/manidx/internal/text"
)

const footerSize = 8
const postingRecordSize = 8 // u32 doc_id + f32 score

// dictEntry is a dictionary lookup's resolved location in the mmap.
type dictEntry struct {
	offset uint64
	count  uint32
}

// DocMeta is the per-document metadata recovered from the index file.
type DocMeta struct {
	Fname       string
	CmdName     string
	NameDescRaw string
}

// Posting is one (document, score) pair fetched from a term's posting list.
type Posting struct {
	DocID uint32
	Score float32
}

// MmapIndex is a read-only, memory-mapped view over a saved index file.
//
// # Thread Safety
//
// MmapIndex is immutable after Load returns: every exposed map and slice
// is built once during loading and never mutated afterward, and the mmap
// region itself is never written to. A host may share one MmapIndex across
// concurrent query goroutines without synchronization. Close unmaps the
// file and must not be called concurrently with any read.
type MmapIndex struct {
	data []byte

	Docs         []DocMeta
	CmdNameIndex map[string][]uint32
	DescIndex    map[string][]uint32

	dict map[string]dictEntry
}

// DocCount returns the number of documents in the index.
func (m *MmapIndex) DocCount() int { return len(m.Docs) }

// DictSize returns the number of distinct terms in the dictionary.
func (m *MmapIndex) DictSize() int { return len(m.dict) }

// DF returns the posting-list length for word, or 0 if word is absent.
func (m *MmapIndex) DF(word string) int {
	e, ok := m.dict[word]
	if !ok {
		return 0
	}
	return int(e.count)
}

// Keys returns every dictionary word. Used by the query engine's prefix
// and fuzzy expansion, which must scan the full vocabulary.
func (m *MmapIndex) Keys() []string {
	keys := make([]string, 0, len(m.dict))
	for k := range m.dict {
		keys = append(keys, k)
	}
	return keys
}

// GetPostings reads word's posting list directly from the mmap and
// returns a freshly allocated copy. Callers never see mmap-borrowed
// memory: every byte is copied into Go-owned Posting values before return.
func (m *MmapIndex) GetPostings(word string) []Posting {
	e, ok := m.dict[word]
	if !ok {
		return nil
	}
	out := make([]Posting, 0, e.count)
	base := e.offset
	for i := uint32(0); i < e.count; i++ {
		off := base + uint64(i)*postingRecordSize
		if off+postingRecordSize > uint64(len(m.data)) {
			break
		}
		docID := binary.LittleEndian.Uint32(m.data[off : off+4])
		scoreBits := binary.LittleEndian.Uint32(m.data[off+4 : off+8])
		out = append(out, Posting{DocID: docID, Score: math.Float32frombits(scoreBits)})
	}
	return out
}

// Close unmaps the underlying file. The MmapIndex must not be used after
// Close returns.
func (m *MmapIndex) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	return err
}

// Load memory-maps path read-only and parses its footer-addressed layout
// into an MmapIndex. Returns ErrTruncated if the file is smaller than the
// 8-byte footer, and ErrCorruptIndex if the footer points outside the
// file or any embedded length runs past the end of the data.
func Load(path string) (*MmapIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := st.Size()
	if size < footerSize {
		return nil, ErrTruncated
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("manfile: mmap %s: %w", path, err)
	}

	idx, err := parse(data)
	if err != nil {
		_ = unix.Munmap(data)
		return nil, err
	}
	idx.data = data
	return idx, nil
}

func parse(data []byte) (*MmapIndex, error) {
	n := len(data)
	dictOffset := binary.LittleEndian.Uint64(data[n-footerSize:])
	if dictOffset > uint64(n-footerSize) {
		return nil, ErrCorruptIndex
	}

	r := bytes.NewReader(data)

	docCount, err := ioutil.ReadU32(r)
	if err != nil {
		return nil, ErrCorruptIndex
	}

	idx := &MmapIndex{
		Docs:         make([]DocMeta, 0, docCount),
		CmdNameIndex: make(map[string][]uint32),
		DescIndex:    make(map[string][]uint32),
		dict:         make(map[string]dictEntry),
	}

	for i := uint32(0); i < docCount; i++ {
		fname, err := ioutil.ReadStr(r)
		if err != nil {
			return nil, ErrCorruptIndex
		}
		cmdName, err := ioutil.ReadStr(r)
		if err != nil {
			return nil, ErrCorruptIndex
		}
		nameDesc, err := ioutil.ReadStr(r)
		if err != nil {
			return nil, ErrCorruptIndex
		}
		idx.Docs = append(idx.Docs, DocMeta{Fname: fname, CmdName: cmdName, NameDescRaw: nameDesc})
		if cmdName != "" {
			idx.CmdNameIndex[cmdName] = append(idx.CmdNameIndex[cmdName], i)
		}
		for _, tok := range text.Tokenize(nameDesc) {
			idx.DescIndex[tok] = appendUnique(idx.DescIndex[tok], i)
		}
	}

	dictReader := bytes.NewReader(data[dictOffset : n-footerSize])
	dictLen, err := ioutil.ReadU32(dictReader)
	if err != nil {
		return nil, ErrCorruptIndex
	}
	for i := uint32(0); i < dictLen; i++ {
		word, err := ioutil.ReadStr(dictReader)
		if err != nil {
			return nil, ErrCorruptIndex
		}
		off, err := readU64(dictReader)
		if err != nil {
			return nil, ErrCorruptIndex
		}
		count, err := ioutil.ReadU32(dictReader)
		if err != nil {
			return nil, ErrCorruptIndex
		}
		if off > dictOffset || uint64(count) > (dictOffset-off)/postingRecordSize {
			return nil, ErrCorruptIndex
		}
		idx.dict[word] = dictEntry{offset: off, count: count}
	}

	return idx, nil
}

func appendUnique(s []uint32, v uint32) []uint32 {
	if len(s) > 0 && s[len(s)-1] == v {
		return s
	}
	return append(s, v)
}

func readU64(r *bytes.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}
