// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// manindex runs the full two-pass build: crawl every configured source
// directory into a temp file, score and assemble the inverted index, and
// save it to the final on-disk format. It also records the build in the
// local manifest history so manidxtool can report whether the corpus has
// drifted since the last run.
//
// Usage:
//
//	manindex [--config /path/to/config.yaml]
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/manidx/internal/buildindex"
	"github.com/AleutianAI/manidx/internal/config"
	"github.com/AleutianAI/manidx/internal/crawl"
	"github.com/AleutianAI/manidx/internal/manfile"
	"github.com/AleutianAI/manidx/internal/manifest"
	"github.com/AleutianAI/manidx/internal/metrics"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "manindex",
		Short: "Crawl man pages and build the search index",
		RunE:  runIndex,
	}
	root.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file overriding the built-in defaults")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "manindex: %v\n", err)
		os.Exit(1)
	}
}

func runIndex(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Printf("[1/4] Crawling %d source directories...\n", len(cfg.SourceDirs))
	stats, err := crawl.Crawl(crawl.Options{
		SourceDirs: cfg.SourceDirs,
		OutPath:    cfg.TempIndexPath,
		ProgressCallback: func(p crawl.CrawlProgress) {
			if p.Phase == crawl.ProgressPhaseFinalizing {
				fmt.Printf("      %d files processed, %d docs written\n", p.FilesProcessed, p.DocsWritten)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("crawling: %w", err)
	}
	metrics.CrawlDocumentsTotal.WithLabelValues("indexed").Add(float64(stats.TotalDocs))
	fmt.Printf("      %d docs  |  avg desc=%.1f synopsis=%.1f body=%.1f\n",
		stats.TotalDocs, stats.AvgDescLen, stats.AvgSynopsisLen, stats.AvgBodyLen)

	fmt.Println("[2/4] Building BM25 index...")
	buildStart := time.Now()
	idx, err := buildindex.Build(cfg.TempIndexPath, stats)
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}
	buildDuration := time.Since(buildStart)
	metrics.BuildDurationSeconds.WithLabelValues().Observe(buildDuration.Seconds())
	fmt.Printf("      %d index terms  |  %d cmd names\n", len(idx.Postings), len(idx.CmdNameIndex))

	fmt.Printf("[3/4] Saving index to '%s'...\n", cfg.FinalIndexPath)
	if err := manfile.Save(cfg.FinalIndexPath, idx); err != nil {
		return fmt.Errorf("saving index: %w", err)
	}
	_ = os.Remove(cfg.TempIndexPath)

	fmt.Println("[4/4] Recording build in manifest history...")
	if err := recordBuild(cfg, idx, buildDuration); err != nil {
		// The index was already saved successfully; a manifest failure is
		// diagnostic-only and must not fail the build.
		fmt.Fprintf(os.Stderr, "warning: could not record build manifest: %v\n", err)
	}

	fmt.Println("Done. Run `mansearch` to search.")
	return nil
}

func recordBuild(cfg *config.Config, idx *buildindex.Index, duration time.Duration) error {
	hash, err := manifest.ComputeCorpusHash(cfg.SourceDirs)
	if err != nil {
		return fmt.Errorf("computing corpus hash: %w", err)
	}

	store, err := manifest.Open(cfg.ManifestDir)
	if err != nil {
		return fmt.Errorf("opening manifest store: %w", err)
	}
	defer func() { _ = store.Close() }()

	return store.SaveRecord(manifest.BuildRecord{
		CorpusHash: hash,
		DocCount:   len(idx.Docs),
		TermCount:  len(idx.Postings),
		Duration:   duration,
		Timestamp:  time.Now(),
	})
}
