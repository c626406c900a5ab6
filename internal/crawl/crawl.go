// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package crawl implements Pass 1 of index construction: an iterative
// depth-first walk of the source directories that parses every regular
// file it finds and streams per-document records to a temp file, while
// accumulating the global statistics Pass 2 needs for BM25 normalization.
package crawl

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/AleutianAI/manidx/internal/docparse"
	"github.com/AleutianAI/manidx/internal/ioutil"
)

// ProgressPhase indicates which phase of the crawl is in progress.
type ProgressPhase int

const (
	// ProgressPhaseWalking indicates the directory tree is being traversed.
	ProgressPhaseWalking ProgressPhase = iota
	// ProgressPhaseFinalizing indicates the temp file is being flushed.
	ProgressPhaseFinalizing
)

// String returns the string representation of the ProgressPhase.
func (p ProgressPhase) String() string {
	switch p {
	case ProgressPhaseWalking:
		return "walking"
	case ProgressPhaseFinalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}

// CrawlProgress reports crawl progress to an optional callback.
type CrawlProgress struct {
	// Phase is the current crawl phase.
	Phase ProgressPhase
	// FilesProcessed is the number of regular files visited so far,
	// including ones skipped for failing to parse.
	FilesProcessed int
	// DocsWritten is the number of documents successfully parsed and
	// serialized to the temp file so far.
	DocsWritten int
}

// ProgressFunc is a callback invoked periodically during a crawl. May be nil.
type ProgressFunc func(CrawlProgress)

// Stats is the aggregate output of a crawl: everything Pass 2 needs for
// BM25 normalization, keyed the same way as the per-document TF maps.
type Stats struct {
	TotalDocs      uint32
	GlobalDF       map[string]uint32
	AvgDescLen     float32
	AvgSynopsisLen float32
	AvgBodyLen     float32
}

// Options configures Crawl.
type Options struct {
	// SourceDirs are the root directories to traverse, DFS. Directories
	// are taken from a stack, so the last root given is walked first;
	// within a directory, files are visited in filename order (os.ReadDir
	// sorts) before any subdirectory, and subdirectories are walked last
	// name first.
	SourceDirs []string
	// OutPath is the temp file Crawl streams per-document records to.
	OutPath string
	// ProgressCallback is invoked after every file visit. May be nil.
	ProgressCallback ProgressFunc
}

// Crawl walks opts.SourceDirs, parses every regular file it finds via
// docparse, and streams successfully parsed documents to opts.OutPath in
// the wire format internal/buildindex's Pass 2 reader expects: fname,
// cmd_name, three lengths, three TF maps, name_desc_raw, in that order.
//
// Directories that fail to open (permission errors, races with deletion)
// are skipped rather than aborting the whole crawl, matching the
// reference implementation's best-effort traversal.
func Crawl(opts Options) (Stats, error) {
	f, err := os.Create(opts.OutPath)
	if err != nil {
		return Stats{}, err
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	globalDF := make(map[string]uint32)
	var totalDocs uint32
	var sumDesc, sumSynopsis, sumBody uint64
	var filesProcessed, docsWritten int

	report := func(phase ProgressPhase) {
		if opts.ProgressCallback == nil {
			return
		}
		opts.ProgressCallback(CrawlProgress{
			Phase:          phase,
			FilesProcessed: filesProcessed,
			DocsWritten:    docsWritten,
		})
	}

	dirs := append([]string(nil), opts.SourceDirs...)
	for len(dirs) > 0 {
		dir := dirs[len(dirs)-1]
		dirs = dirs[:len(dirs)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				dirs = append(dirs, path)
				continue
			}
			if !entry.Type().IsRegular() {
				continue
			}

			filesProcessed++

			fields, ok := docparse.ParseFile(path, entry.Name())
			if !ok {
				report(ProgressPhaseWalking)
				continue
			}

			seen := make(map[string]struct{}, len(fields.NameDescTF)+len(fields.SynopsisTF)+len(fields.BodyTF)+1)
			bumpDF := func(term string) {
				if _, dup := seen[term]; dup {
					return
				}
				seen[term] = struct{}{}
				globalDF[term]++
			}
			for term := range fields.NameDescTF {
				bumpDF(term)
			}
			for term := range fields.SynopsisTF {
				bumpDF(term)
			}
			for term := range fields.BodyTF {
				bumpDF(term)
			}
			if fields.CmdName != "" {
				bumpDF(fields.CmdName)
			}

			sumDesc += uint64(fields.NameDescLen)
			sumSynopsis += uint64(fields.SynopsisLen)
			sumBody += uint64(fields.BodyLen)

			if err := writeRecord(w, fields); err != nil {
				return Stats{}, err
			}

			totalDocs++
			docsWritten++
			report(ProgressPhaseWalking)
		}
	}

	report(ProgressPhaseFinalizing)
	if err := w.Flush(); err != nil {
		return Stats{}, err
	}

	n := float64(totalDocs)
	if n < 1 {
		n = 1
	}

	return Stats{
		TotalDocs:      totalDocs,
		GlobalDF:       globalDF,
		AvgDescLen:     float32(float64(sumDesc) / n),
		AvgSynopsisLen: float32(float64(sumSynopsis) / n),
		AvgBodyLen:     float32(float64(sumBody) / n),
	}, nil
}

func writeRecord(w *bufio.Writer, f *docparse.Fields) error {
	if err := ioutil.WriteStr(w, f.Fname); err != nil {
		return err
	}
	if err := ioutil.WriteStr(w, f.CmdName); err != nil {
		return err
	}
	if err := ioutil.WriteU32(w, f.NameDescLen); err != nil {
		return err
	}
	if err := ioutil.WriteU32(w, f.SynopsisLen); err != nil {
		return err
	}
	if err := ioutil.WriteU32(w, f.BodyLen); err != nil {
		return err
	}
	if err := ioutil.WriteTFMap(w, f.NameDescTF); err != nil {
		return err
	}
	if err := ioutil.WriteTFMap(w, f.SynopsisTF); err != nil {
		return err
	}
	if err := ioutil.WriteTFMap(w, f.BodyTF); err != nil {
		return err
	}
	return ioutil.WriteStr(w, f.NameDescRaw)
}
