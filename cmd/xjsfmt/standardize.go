// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	xjs "github.com/ExJson/xjs-data"
)

var standardizeFlags transformFlags
var standardizeStream bool

var standardizeCmd = &cobra.Command{
	Use:   "standardize [path ...]",
	Short: "Rewrite DJS files as strict JSON",
	Long: `Rewrite DJS files as strict JSON.

By default this fully parses each file into the DOM and re-renders it,
which validates the complete DJS grammar (unquoted keys, single- and
triple-quoted strings, an open root) but costs an allocation proportional
to the file's size. --stream instead runs the file through NewStandardizer,
a single-pass io.Reader that elides comments and trailing commas in place
without materializing a DOM; it only understands the JSON-plus-comments-
and-trailing-commas subset of DJS and leaves anything else for the
downstream JSON parser to reject. Its buffer stays small except after a
possible trailing comma, where all whitespace up to the next token is
held before it can be written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if standardizeStream {
			return runStreamStandardize(standardizeFlags, args)
		}
		return runTransform("standardize", xjs.Standardize, standardizeFlags, args)
	},
}

func init() {
	standardizeFlags.bind(standardizeCmd.Flags())
	standardizeCmd.Flags().BoolVar(&standardizeStream, "stream", false,
		"standardize with a single-pass streaming reader instead of a full DOM parse (no -l/-d)")
}

// runStreamStandardize pipes each path through xjs.NewStandardizer without
// ever holding the full output in memory, for large comment-and-trailing-
// comma-only documents where runTransform's full-buffer []byte transform
// isn't worth the allocation.
func runStreamStandardize(flags transformFlags, args []string) error {
	if flags.list || flags.diff {
		return fmt.Errorf("xjsfmt standardize --stream: -l and -d require the full rendering -stream skips")
	}
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		if flags.write {
			return fmt.Errorf("xjsfmt standardize --stream: cannot use -w with standard input")
		}
		return streamOne("<standard input>", os.Stdin, os.Stdout)
	}
	for _, arg := range args {
		if err := streamPath(arg, flags); err != nil {
			return err
		}
	}
	return nil
}

func streamPath(path string, flags transformFlags) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("xjsfmt standardize --stream: %s is a directory, pass files directly", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if !flags.write {
		return streamOne(path, f, os.Stdout)
	}

	tmp, err := os.CreateTemp("", "xjsfmt-standardize-stream-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	if err := streamOne(path, f, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if perm := info.Mode().Perm(); perm != 0 {
		if err := os.Chmod(tmpName, perm); err != nil {
			return err
		}
	}
	return os.Rename(tmpName, path)
}

func streamOne(name string, in io.Reader, out io.Writer) error {
	log.Debugf("xjsfmt standardize --stream: %s", name)
	if _, err := io.Copy(out, xjs.NewStandardizer(in)); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
