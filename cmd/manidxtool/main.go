// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// manidxtool inspects a built index file and the local build manifest,
// and dumps the Prometheus metrics registry. The index is mmap'd
// read-only. The manifest BadgerDB is opened through manifest.Open, which
// opens it read-write and creates the directory when it is missing; this
// tool only reads records from it.
//
// Usage:
//
//	manidxtool dict   [--config path] [--index path]     dictionary summary
//	manidxtool history [--config path]                    build history
//	manidxtool metrics [--out path]                       dump metrics (default: stdout)
//
// Exit codes:
//
//	0 — success
//	1 — error opening or reading state
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/AleutianAI/manidx/internal/config"
	"github.com/AleutianAI/manidx/internal/manfile"
	"github.com/AleutianAI/manidx/internal/manifest"
	"github.com/AleutianAI/manidx/internal/metrics"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "dict":
		runDict(os.Args[2:])
	case "history":
		runHistory(os.Args[2:])
	case "metrics":
		runMetrics(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: manidxtool <dict|history|metrics> [flags]")
}

func runDict(args []string) {
	fs := flag.NewFlagSet("dict", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a YAML config file overriding the built-in defaults")
	indexPath := fs.String("index", "", "Path to the index file (overrides the config's final_index_path)")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("loading config: %v", err)
	}
	path := *indexPath
	if path == "" {
		path = cfg.FinalIndexPath
	}

	idx, err := manfile.Load(path)
	if err != nil {
		fatalf("loading index %s: %v", path, err)
	}
	defer func() { _ = idx.Close() }()

	keys := idx.Keys()
	sort.Slice(keys, func(i, j int) bool { return idx.DF(keys[i]) > idx.DF(keys[j]) })

	fmt.Printf("Index:      %s\n", path)
	fmt.Printf("Documents:  %d\n", idx.DocCount())
	fmt.Printf("Dictionary: %d terms\n", idx.DictSize())
	fmt.Println(strings.Repeat("─", 60))

	top := 20
	if len(keys) < top {
		top = len(keys)
	}
	fmt.Printf("\nTop %d terms by document frequency:\n", top)
	fmt.Printf("%-24s %s\n", "Term", "DF")
	fmt.Println(strings.Repeat("─", 32))
	for _, k := range keys[:top] {
		fmt.Printf("%-24s %d\n", k, idx.DF(k))
	}
}

func runHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a YAML config file overriding the built-in defaults")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("loading config: %v", err)
	}

	store, err := manifest.Open(cfg.ManifestDir)
	if err != nil {
		fatalf("opening manifest store %s: %v", cfg.ManifestDir, err)
	}
	defer func() { _ = store.Close() }()

	records, err := store.History()
	if err != nil {
		fatalf("reading history: %v", err)
	}

	if len(records) == 0 {
		fmt.Println("No build history found. Run `manindex` to create the first build.")
		return
	}

	currentHash, err := manifest.ComputeCorpusHash(cfg.SourceDirs)
	if err != nil {
		fatalf("computing corpus hash: %v", err)
	}

	fmt.Printf("Found %d build record(s):\n", len(records))
	fmt.Println(strings.Repeat("─", 80))
	for i, r := range records {
		marker := ""
		if r.CorpusHash == currentHash && i == 0 {
			marker = "  (matches current corpus)"
		}
		fmt.Printf("\n[%d] %s\n", i+1, r.Timestamp.Format("2006-01-02 15:04:05 MST"))
		fmt.Printf("    Corpus hash: %s%s\n", r.CorpusHash, marker)
		fmt.Printf("    Docs:        %d\n", r.DocCount)
		fmt.Printf("    Terms:       %d\n", r.TermCount)
		fmt.Printf("    Duration:    %s\n", r.Duration)
	}

	if records[0].CorpusHash != currentHash {
		fmt.Println("\nWarning: the source corpus has changed since the last build. Run `manindex` to refresh the index.")
	}
}

func runMetrics(args []string) {
	fs := flag.NewFlagSet("metrics", flag.ExitOnError)
	outPath := fs.String("out", "", "Write metrics to this file instead of stdout")
	_ = fs.Parse(args)

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fatalf("creating %s: %v", *outPath, err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	if err := metrics.Dump(out); err != nil {
		fatalf("dumping metrics: %v", err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "manidxtool: "+format+"\n", args...)
	os.Exit(1)
}
