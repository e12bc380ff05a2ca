// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	xjs "github.com/ExJson/xjs-data"
	"github.com/ExJson/xjs-data/internal/config"
)

var formatFlags transformFlags

var formatCmd = &cobra.Command{
	Use:   "format [path ...]",
	Short: "Canonicalize DJS/JSON files, preserving comments and structure",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		opts := cfg.ToWriterOptions(xjs.SyntaxDJS)
		return runTransform("format", func(src []byte) ([]byte, error) {
			v, err := xjs.Parse(src)
			if err != nil {
				return src, err
			}
			return renderValue(v, opts)
		}, formatFlags, args)
	},
}

func init() {
	formatFlags.bind(formatCmd.Flags())
}

func loadConfig() (config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	dir, err := filepath.Abs(".")
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(dir)
}

func renderValue(v xjs.Value, opts xjs.WriterOptions) ([]byte, error) {
	var b strings.Builder
	if err := xjs.WriteValue(&b, v, opts); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}
