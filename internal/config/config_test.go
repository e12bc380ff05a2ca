// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xjs "github.com/ExJson/xjs-data"
)

func TestLoadMissing(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFindsAncestor(t *testing.T) {
	root := t.TempDir()
	const body = `
indent = "\t"
allow_condense = false
max_spacing = 1
omit_quotes = true
`
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(body), 0o644))

	sub := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	cfg, err := Load(sub)
	require.NoError(t, err)
	assert.Equal(t, "\t", cfg.Indent)
	assert.False(t, cfg.AllowCondense)
	assert.Equal(t, 1, cfg.MaxSpacing)
	assert.True(t, cfg.OmitQuotes)
	// Fields the file didn't set keep Default's values.
	assert.Equal(t, Default().MinSpacing, cfg.MinSpacing)
}

func TestLoadFileInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("not valid toml `` ["), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestToWriterOptions(t *testing.T) {
	cfg := Default()
	cfg.OmitRootBraces = true

	djs := cfg.ToWriterOptions(xjs.SyntaxDJS)
	assert.True(t, djs.OmitRootBraces)

	json := cfg.ToWriterOptions(xjs.SyntaxJSON)
	assert.False(t, json.OmitRootBraces, "JSON never omits root braces regardless of config")
}
