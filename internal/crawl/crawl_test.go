// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package crawl

import (
	"bufio"
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/manidx/internal/docparse"
	"github.com/AleutianAI/manidx/internal/ioutil"
)

func TestCrawl_EmptySourceDirsYieldsZeroStats(t *testing.T) {
	out := filepath.Join(t.TempDir(), "temp_index.bin")
	stats, err := Crawl(Options{SourceDirs: nil, OutPath: out})
	require.NoError(t, err)
	require.Equal(t, uint32(0), stats.TotalDocs)
	require.Empty(t, stats.GlobalDF)
}

func TestCrawl_MissingSourceDirIsSkippedNotFatal(t *testing.T) {
	out := filepath.Join(t.TempDir(), "temp_index.bin")
	stats, err := Crawl(Options{SourceDirs: []string{"/does/not/exist/at/all"}, OutPath: out})
	require.NoError(t, err)
	require.Equal(t, uint32(0), stats.TotalDocs)
}

func TestCrawl_ProgressCallbackFiresFinalizingPhase(t *testing.T) {
	out := filepath.Join(t.TempDir(), "temp_index.bin")
	var phases []ProgressPhase
	_, err := Crawl(Options{
		SourceDirs: nil,
		OutPath:    out,
		ProgressCallback: func(p CrawlProgress) {
			phases = append(phases, p.Phase)
		},
	})
	require.NoError(t, err)
	require.Contains(t, phases, ProgressPhaseFinalizing)
}

func TestWriteRecord_RoundTripsThroughIoutil(t *testing.T) {
	f := &docparse.Fields{
		Fname:       "ls.1",
		CmdName:     "ls",
		NameDescRaw: "list directory contents",
		NameDescTF:  map[string]uint32{"list": 1, "directori": 1, "content": 1},
		NameDescLen: 3,
		SynopsisTF:  map[string]uint32{"ls": 1},
		SynopsisLen: 1,
		BodyTF:      map[string]uint32{"option": 2},
		BodyLen:     2,
	}

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	require.NoError(t, writeRecord(w, f))
	require.NoError(t, w.Flush())

	fname, err := ioutil.ReadStr(&buf)
	require.NoError(t, err)
	require.Equal(t, "ls.1", fname)

	cmdName, err := ioutil.ReadStr(&buf)
	require.NoError(t, err)
	require.Equal(t, "ls", cmdName)

	descLen, err := ioutil.ReadU32(&buf)
	require.NoError(t, err)
	require.Equal(t, uint32(3), descLen)

	synLen, err := ioutil.ReadU32(&buf)
	require.NoError(t, err)
	require.Equal(t, uint32(1), synLen)

	bodyLen, err := ioutil.ReadU32(&buf)
	require.NoError(t, err)
	require.Equal(t, uint32(2), bodyLen)

	descTF, err := ioutil.ReadTFMap(&buf)
	require.NoError(t, err)
	require.Equal(t, f.NameDescTF, descTF)

	synTF, err := ioutil.ReadTFMap(&buf)
	require.NoError(t, err)
	require.Equal(t, f.SynopsisTF, synTF)

	bodyTF, err := ioutil.ReadTFMap(&buf)
	require.NoError(t, err)
	require.Equal(t, f.BodyTF, bodyTF)

	raw, err := ioutil.ReadStr(&buf)
	require.NoError(t, err)
	require.Equal(t, "list directory contents", raw)
}
