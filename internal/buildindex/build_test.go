// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package buildindex

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/manidx/internal/crawl"
	"github.com/AleutianAI/manidx/internal/docparse"
	"github.com/AleutianAI/manidx/internal/ioutil"
)

func writeTestRecord(t *testing.T, w *bufio.Writer, fname, cmdName string, descTF, synTF, bodyTF map[string]uint32, raw string) {
	t.Helper()
	sum := func(m map[string]uint32) uint32 {
		var n uint32
		for range m {
			n++
		}
		return n
	}
	require.NoError(t, ioutil.WriteStr(w, fname))
	require.NoError(t, ioutil.WriteStr(w, cmdName))
	require.NoError(t, ioutil.WriteU32(w, sum(descTF)))
	require.NoError(t, ioutil.WriteU32(w, sum(synTF)))
	require.NoError(t, ioutil.WriteU32(w, sum(bodyTF)))
	require.NoError(t, ioutil.WriteTFMap(w, descTF))
	require.NoError(t, ioutil.WriteTFMap(w, synTF))
	require.NoError(t, ioutil.WriteTFMap(w, bodyTF))
	require.NoError(t, ioutil.WriteStr(w, raw))
}

func TestBuild_TwoDocumentCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temp_index.bin")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := bufio.NewWriter(f)

	writeTestRecord(t, w, "ls.1", "ls",
		map[string]uint32{"list": 1, "directori": 1, "content": 1},
		map[string]uint32{"ls": 1},
		map[string]uint32{"list": 3, "option": 1, "copi": 1},
		"list directory contents")

	writeTestRecord(t, w, "cp.1", "cp",
		map[string]uint32{"copi": 1, "file": 1},
		map[string]uint32{"cp": 1},
		map[string]uint32{"file": 2, "copi": 1},
		"copy files")

	require.NoError(t, w.Flush())
	require.NoError(t, f.Close())

	stats := crawl.Stats{
		TotalDocs:      2,
		GlobalDF:       map[string]uint32{"list": 1, "directori": 1, "content": 1, "ls": 1, "option": 1, "copi": 2, "file": 2, "cp": 1},
		AvgDescLen:     2.5,
		AvgSynopsisLen: 1,
		AvgBodyLen:     2.5,
	}

	idx, err := Build(path, stats)
	require.NoError(t, err)
	require.Len(t, idx.Docs, 2)
	require.Equal(t, "ls.1", idx.Docs[0].Fname)
	require.Equal(t, "cp.1", idx.Docs[1].Fname)

	// "ls" is both the command name and the section-1 doc gets the VIP
	// multiplier, so it should score far higher than a shared body term.
	require.NotEmpty(t, idx.Postings["ls"])
	require.Equal(t, uint32(0), idx.Postings["ls"][0].DocID)

	require.Contains(t, idx.CmdNameIndex, "ls")
	require.Equal(t, []uint32{0}, idx.CmdNameIndex["ls"])
	require.Equal(t, []uint32{1}, idx.CmdNameIndex["cp"])

	// "copi" appears in both docs' body/desc; postings should be sorted
	// descending by score.
	postings := idx.Postings["copi"]
	for i := 1; i < len(postings); i++ {
		require.GreaterOrEqual(t, postings[i-1].Score, postings[i].Score)
	}
}

func TestBuild_EmptyTempFileYieldsEmptyIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temp_index.bin")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	idx, err := Build(path, crawl.Stats{})
	require.NoError(t, err)
	require.Empty(t, idx.Docs)
	require.Empty(t, idx.Postings)
}

func TestBM25_ZeroTermFrequencyYieldsZero(t *testing.T) {
	require.Equal(t, 0.0, bm25(0, 10, 5, 2.0))
}

func TestIDF_NeverNegative(t *testing.T) {
	require.Equal(t, 0.0, idf(1, 1000))
}

func TestDocTypeMultiplierIsExercisedByBuild(t *testing.T) {
	// Sanity check that the docparse multiplier this package depends on
	// still behaves as build.go assumes for a plain section-1 command.
	require.Equal(t, float32(4.0*5.0), docparse.DocTypeMultiplier("ls.1"))
}
