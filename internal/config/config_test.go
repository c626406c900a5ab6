// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NotEmpty(t, cfg.SourceDirs)
	require.Equal(t, "temp_index.bin", cfg.TempIndexPath)
	require.Equal(t, "man.idx", cfg.FinalIndexPath)
}

func TestDefault_ExpandsHomeInManifestDir(t *testing.T) {
	cfg := Default()
	require.NotContains(t, cfg.ManifestDir, "~")
}

func TestLoad_EmptyOverridePathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_OverrideMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source_dirs:\n  - /custom/man\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"/custom/man"}, cfg.SourceDirs)
	require.Equal(t, "temp_index.bin", cfg.TempIndexPath) // unset fields keep the embedded default
}

func TestLoad_RejectsMissingRequiredField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source_dirs: []\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFileIsAnError(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	require.Error(t, err)
}
