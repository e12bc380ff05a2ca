// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSourceFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a.djs", true},
		{"a.xjs", true},
		{"a.json", true},
		{"a.jsonc", true},
		{"a.json5", true},
		{"a.hjson", true},
		{"a.DJS", true},
		{"a.txt", false},
		{"a", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isSourceFile(tt.name), tt.name)
	}
}

func TestWriteResultRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.djs")
	require.NoError(t, os.WriteFile(path, []byte("{a:1}"), 0o644))

	info, err := os.Stat(path)
	require.NoError(t, err)

	err = writeResult(info, path, []byte("{a:1}"), []byte("{\"a\": 1}\n"))
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\": 1}\n", string(got))

	// No leftover temp backup file.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteResultNoInfo(t *testing.T) {
	err := writeResult(nil, "whatever", nil, nil)
	require.Error(t, err)
}

func TestRunTransformMissingPath(t *testing.T) {
	err := runTransform("format", func(b []byte) ([]byte, error) { return b, nil }, transformFlags{}, []string{filepath.Join(t.TempDir(), "nope.djs")})
	require.Error(t, err)
}
