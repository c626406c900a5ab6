// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// mansearch loads a pre-built index once and answers queries instantly:
// a single query given as arguments, or an interactive REPL when none
// are given.
//
// Usage:
//
//	mansearch [--index /path/to/man.idx] [--config /path/to/config.yaml] [query words...]
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/manidx/internal/config"
	"github.com/AleutianAI/manidx/internal/manfile"
	"github.com/AleutianAI/manidx/internal/metrics"
	"github.com/AleutianAI/manidx/internal/query"
	"github.com/AleutianAI/manidx/internal/text"
)

const defaultTopK = 10

var (
	indexPath  string
	configPath string
)

func main() {
	root := &cobra.Command{
		Use:   "mansearch [query words...]",
		Short: "Search the man page index",
		RunE:  runSearch,
	}
	root.Flags().StringVar(&indexPath, "index", "", "Path to the index file (overrides the config's final_index_path)")
	root.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file overriding the built-in defaults")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mansearch: %v\n", err)
		os.Exit(1)
	}
}

func runSearch(_ *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	path := indexPath
	if path == "" {
		path = cfg.FinalIndexPath
	}

	fmt.Fprintf(os.Stderr, "Loading index '%s'... ", path)
	idx, err := manfile.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Failed to load index:", err)
		fmt.Fprintln(os.Stderr, "Have you run `manindex` first?")
		return err
	}
	defer func() { _ = idx.Close() }()
	fmt.Fprintf(os.Stderr, "OK (%d docs)\n", idx.DocCount())

	if len(args) > 0 {
		searchAndPrint(strings.Join(args, " "), idx, defaultTopK)
		return nil
	}

	fmt.Println("Type a query and press Enter. Ctrl-D / empty line to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}
		searchAndPrint(line, idx, defaultTopK)
	}
	return nil
}

// searchAndPrint runs one query and prints its results in the reference
// CLI's format: tokens echoed back, then a ranked list of "[score] fname -> desc".
func searchAndPrint(q string, idx *manfile.MmapIndex, topK int) {
	tokens := text.Tokenize(q)

	fmt.Printf("\nQuery: '%s'\n", q)
	fmt.Printf("  Tokens: %v\n", tokens)

	if len(tokens) == 0 {
		fmt.Println("  No searchable terms.")
		return
	}

	start := time.Now()
	results := query.Search(q, idx)
	metrics.QueryDurationSeconds.WithLabelValues().Observe(time.Since(start).Seconds())
	metrics.QueryResultsTotal.WithLabelValues(hadResultsLabel(results)).Inc()

	if len(results) == 0 {
		fmt.Println("  No results found.")
		return
	}

	if len(results) > topK {
		results = results[:topK]
	}
	for _, r := range results {
		preview := ""
		if r.NameDesc != "" {
			preview = " -> " + r.NameDesc
		}
		fmt.Printf("  [%.3f] %s%s\n", r.Score, r.Fname, preview)
	}
}

func hadResultsLabel(results []query.Result) string {
	if len(results) > 0 {
		return "true"
	}
	return "false"
}
