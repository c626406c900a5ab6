// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package manifest persists a history of build records to a local
// BadgerDB directory, keyed by corpus hash. This is a diagnostic trail
// only: indexing is always a full rebuild (see spec Non-goals on
// incremental updates), so the manifest never gates or skips a build —
// it only lets a diagnostic tool answer "has the corpus changed since
// the last build?" and show build history.
//
// Grounded on BadgerRouterCacheStore in
// services/trace/agent/routing/router_cache.go: gob-encoded values, a
// versioned key prefix, and a sentinel "not found" error distinguished
// from genuine storage failure. Unlike the router cache, entries here
// have no TTL — history is meant to accumulate, not expire.
package manifest

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// recordKeyPrefix versions the BadgerDB key layout.
const recordKeyPrefix = "manifest/build/v1/"

// BuildRecord is one successful build's diagnostic summary.
type BuildRecord struct {
	CorpusHash string
	DocCount   int
	TermCount  int
	Duration   time.Duration
	Timestamp  time.Time
}

// Store persists BuildRecords to a BadgerDB directory.
//
// # Thread Safety
//
// Safe for concurrent use; BadgerDB transactions are per-goroutine.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) the BadgerDB directory at dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("manifest: creating %s: %w", dir, err)
	}
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("manifest: opening badger at %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying BadgerDB handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRecord persists rec, keyed by corpus hash and timestamp so every
// build's history accumulates rather than overwriting the previous entry.
func (s *Store) SaveRecord(rec BuildRecord) error {
	raw, err := gobEncode(rec)
	if err != nil {
		return fmt.Errorf("manifest: encoding record: %w", err)
	}
	key := recordKey(rec.CorpusHash, rec.Timestamp)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, raw)
	})
}

// LoadLatest returns the most recent BuildRecord for corpusHash. The
// second return value is false when no record exists for that hash.
func (s *Store) LoadLatest(corpusHash string) (BuildRecord, bool, error) {
	prefix := []byte(recordKeyPrefix + corpusHash + "/")
	var latest BuildRecord
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			raw, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("copy value: %w", err)
			}
			var rec BuildRecord
			if err := gobDecode(raw, &rec); err != nil {
				return fmt.Errorf("decode record: %w", err)
			}
			if !found || rec.Timestamp.After(latest.Timestamp) {
				latest = rec
				found = true
			}
		}
		return nil
	})
	if err != nil {
		return BuildRecord{}, false, fmt.Errorf("manifest: load latest: %w", err)
	}
	if !found {
		return BuildRecord{}, false, nil
	}
	return latest, true, nil
}

// History returns every stored BuildRecord across all corpus hashes,
// sorted by timestamp descending (newest first).
func (s *Store) History() ([]BuildRecord, error) {
	var records []BuildRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := []byte(recordKeyPrefix)
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			raw, err := it.Item().ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("copy value: %w", err)
			}
			var rec BuildRecord
			if err := gobDecode(raw, &rec); err != nil {
				return fmt.Errorf("decode record: %w", err)
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("manifest: history: %w", err)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Timestamp.After(records[j].Timestamp) })
	return records, nil
}

func recordKey(corpusHash string, ts time.Time) []byte {
	return []byte(fmt.Sprintf("%s%s/%020d", recordKeyPrefix, corpusHash, ts.UnixNano()))
}

func gobEncode(rec BuildRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gobDecode(raw []byte, rec *BuildRecord) error {
	return gob.NewDecoder(bytes.NewReader(raw)).Decode(rec)
}

// ComputeCorpusHash computes a deterministic SHA-256 hash over the sorted
// listing of every source directory: each non-directory entry's path, size, and
// modification time. Any change to the corpus — an added, removed, or
// edited man page — changes the hash, which is how manidxtool reports
// whether a rebuild is due.
//
// Grounded on computeCorpusHash in router_cache.go: sort everything that
// feeds the hash first so the result does not depend on OS readdir order.
func ComputeCorpusHash(sourceDirs []string) (string, error) {
	type entry struct {
		path  string
		size  int64
		mtime int64
	}
	var entries []entry

	for _, dir := range sourceDirs {
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil // unreadable entries are skipped, matching the crawler
			}
			if d.IsDir() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			entries = append(entries, entry{path: path, size: info.Size(), mtime: info.ModTime().UnixNano()})
			return nil
		})
		if err != nil {
			return "", err
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].path < entries[j].path })

	h := sha256.New()
	for _, e := range entries {
		fmt.Fprintf(h, "%s\t%d\t%d\n", e.path, e.size, e.mtime)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
