// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads manidx's path tunables from an embedded default
// YAML document, optionally overridden by a user-supplied file, and
// validates the result before handing it to a caller.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigYAML []byte

// Config holds every path and location manidx needs to run a build or a
// query. The scoring tunables in spec.md §6 (BM25_K1, field weights,
// SEMANTIC_RERANK_N, etc.) are not here: they are load-bearing constants
// that must not drift between an index build and the query that reads
// it, so they stay as Go constants in internal/buildindex and
// internal/query rather than configuration a user could change out from
// under an already-built index.
type Config struct {
	// SourceDirs are the root directories the crawler walks, DFS; the last
	// one listed is walked first.
	SourceDirs []string `yaml:"source_dirs" validate:"required,min=1,dive,required"`

	// TempIndexPath is where the crawler streams Pass 1 records.
	TempIndexPath string `yaml:"temp_index_path" validate:"required"`

	// FinalIndexPath is where the builder saves the finished index.
	FinalIndexPath string `yaml:"final_index_path" validate:"required"`

	// ManifestDir is the BadgerDB directory backing the build-history store.
	ManifestDir string `yaml:"manifest_dir" validate:"required"`
}

var validate = validator.New()

// Default returns the embedded default configuration. Never nil, never
// returns an error: the embedded document is a build-time invariant.
func Default() *Config {
	cfg, err := parse(defaultConfigYAML)
	if err != nil {
		panic(fmt.Sprintf("config: embedded default_config.yaml is invalid: %v", err))
	}
	return cfg
}

// Load reads the embedded defaults and, if overridePath is non-empty,
// unmarshals overridePath on top of them before validating the result.
// Invalid configuration is a startup error: there is no silent fallback
// past the embedded baseline.
func Load(overridePath string) (*Config, error) {
	cfg := Default()
	if overridePath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(overridePath)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", overridePath, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", overridePath, err)
	}
	cfg.expandHome()

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: validating %s: %w", overridePath, err)
	}
	return cfg, nil
}

func parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.expandHome()
	if err := validate.Struct(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// expandHome replaces a leading "~" in ManifestDir with the user's home
// directory, matching how the reference config's path-like defaults are
// meant to be interpreted.
func (c *Config) expandHome() {
	if c.ManifestDir == "" || c.ManifestDir[0] != '~' {
		return
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	c.ManifestDir = filepath.Join(home, c.ManifestDir[1:])
}
