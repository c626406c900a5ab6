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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/manidx/internal/buildindex"
)

func sampleIndex() *buildindex.Index {
	return &buildindex.Index{
		Docs: []buildindex.DocMeta{
			{Fname: "ls.1", CmdName: "ls", NameDescRaw: "list directory contents"},
			{Fname: "cp.1", CmdName: "cp", NameDescRaw: "copy files and directories"},
		},
		Postings: map[string][]buildindex.Posting{
			"ls":        {{DocID: 0, Score: 42.5}},
			"cp":        {{DocID: 1, Score: 38.1}},
			"directori": {{DocID: 0, Score: 12.0}, {DocID: 1, Score: 5.0}},
		},
		CmdNameIndex: map[string][]uint32{
			"ls": {0},
			"cp": {1},
		},
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "man.idx")
	require.NoError(t, Save(path, sampleIndex()))

	idx, err := Load(path)
	require.NoError(t, err)
	defer idx.Close()

	require.Equal(t, 2, idx.DocCount())
	require.Equal(t, "ls.1", idx.Docs[0].Fname)
	require.Equal(t, "ls", idx.Docs[0].CmdName)
	require.Equal(t, "cp.1", idx.Docs[1].Fname)

	require.Equal(t, 2, idx.DF("directori"))
	require.Equal(t, 1, idx.DF("ls"))
	require.Equal(t, 0, idx.DF("nonexistent"))

	postings := idx.GetPostings("directori")
	require.Len(t, postings, 2)
	require.Equal(t, uint32(0), postings[0].DocID)
	require.InDelta(t, 12.0, postings[0].Score, 0.001)
	require.Equal(t, uint32(1), postings[1].DocID)
	require.InDelta(t, 5.0, postings[1].Score, 0.001)

	require.Equal(t, []uint32{0}, idx.CmdNameIndex["ls"])
	require.Equal(t, []uint32{1}, idx.CmdNameIndex["cp"])

	require.Contains(t, idx.DescIndex["list"], uint32(0))
	require.Contains(t, idx.DescIndex["directori"], uint32(0))
	require.Contains(t, idx.DescIndex["directori"], uint32(1))
}

func TestLoad_EmptyIndexRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "man.idx")
	require.NoError(t, Save(path, &buildindex.Index{Postings: map[string][]buildindex.Posting{}}))

	idx, err := Load(path)
	require.NoError(t, err)
	defer idx.Close()
	require.Equal(t, 0, idx.DocCount())
	require.Equal(t, 0, idx.DictSize())
}

func TestLoad_TooSmallFileIsTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "man.idx")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))

	_, err := Load(path)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestLoad_CorruptFooterOffsetIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "man.idx")
	// 8 bytes that decode to a dict_offset far beyond the file's length.
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}, 0o644))

	_, err := Load(path)
	require.ErrorIs(t, err, ErrCorruptIndex)
}

func TestKeys_ContainsEveryDictionaryWord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "man.idx")
	require.NoError(t, Save(path, sampleIndex()))

	idx, err := Load(path)
	require.NoError(t, err)
	defer idx.Close()

	keys := idx.Keys()
	require.ElementsMatch(t, []string{"ls", "cp", "directori"}, keys)
}
