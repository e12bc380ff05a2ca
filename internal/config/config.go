// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads cmd/xjsfmt's optional .xjsfmt.toml settings file.
// The core xjs package never reads files itself; this is CLI-only.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	xjs "github.com/ExJson/xjs-data"
)

// FileName is the settings file cmd/xjsfmt looks for, walking up from the
// current directory until it finds one or reaches the filesystem root.
const FileName = ".xjsfmt.toml"

// Config mirrors the subset of xjs.WriterOptions a user may want to pin as
// a project default.
type Config struct {
	Indent         string `toml:"indent"`
	AllowCondense  bool   `toml:"allow_condense"`
	MaxSpacing     int    `toml:"max_spacing"`
	MinSpacing     int    `toml:"min_spacing"`
	DefaultSpacing int    `toml:"default_spacing"`
	SmartSpacing   bool   `toml:"smart_spacing"`
	OmitRootBraces bool   `toml:"omit_root_braces"`
	OmitQuotes     bool   `toml:"omit_quotes"`
}

// Default returns the settings cmd/xjsfmt falls back to when no
// .xjsfmt.toml is found, matching xjs.DefaultWriterOptions(xjs.SyntaxDJS).
func Default() Config {
	return Config{
		Indent:         "  ",
		AllowCondense:  true,
		MaxSpacing:     2,
		MinSpacing:     0,
		DefaultSpacing: 0,
		SmartSpacing:   false,
		OmitRootBraces: true,
		OmitQuotes:     false,
	}
}

// Load searches dir and its ancestors for a .xjsfmt.toml, decodes the first
// one found, and returns it merged over Default. It returns Default with no
// error when none is found anywhere up to the filesystem root.
func Load(dir string) (Config, error) {
	path, err := find(dir)
	if err != nil {
		return Config{}, err
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile decodes path directly, without searching for it.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	return cfg, nil
}

// ToWriterOptions builds xjs.WriterOptions for format from c, starting from
// xjs.DefaultWriterOptions and overriding every field c controls.
func (c Config) ToWriterOptions(format xjs.Syntax) xjs.WriterOptions {
	o := xjs.DefaultWriterOptions(format)
	o.Indent = c.Indent
	o.AllowCondense = c.AllowCondense
	o.MaxSpacing = c.MaxSpacing
	o.MinSpacing = c.MinSpacing
	o.DefaultSpacing = c.DefaultSpacing
	o.SmartSpacing = c.SmartSpacing
	o.OmitRootBraces = c.OmitRootBraces && format == xjs.SyntaxDJS
	o.OmitQuotes = c.OmitQuotes
	return o
}

// find walks up from dir looking for FileName, returning "" if it reaches
// the root without finding one.
func find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("config: resolving %s: %w", dir, err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("config: stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
