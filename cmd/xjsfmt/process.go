// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"github.com/spf13/pflag"
)

var chmodSupported = runtime.GOOS != "windows"

// transformFlags are the -w/-l/-d flags every subcommand shares.
type transformFlags struct {
	write bool
	list  bool
	diff  bool
}

func (f *transformFlags) bind(fs *pflag.FlagSet) {
	fs.BoolVarP(&f.write, "write", "w", false, "write result to (source) file instead of stdout")
	fs.BoolVarP(&f.list, "list", "l", false, "list files whose formatting differs")
	fs.BoolVarP(&f.diff, "diff", "d", false, "display diffs instead of rewriting files")
}

// transformFunc converts source bytes, returning the result and any error.
type transformFunc func(src []byte) ([]byte, error)

// runTransform applies transform to every path named in args (files or
// directories, walked for .djs/.xjs/.json/.jsonc/.json5/.hjson files;
// "-" or no args reads
// stdin) according to flags.
func runTransform(name string, transform transformFunc, flags transformFlags, args []string) error {
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			return fmt.Errorf("xjsfmt %s: no file paths or stdin provided", name)
		}
		if flags.write {
			return fmt.Errorf("xjsfmt %s: cannot use -w with standard input", name)
		}
		return processFile(name, transform, flags, nil, "<standard input>", os.Stdin)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			if err := processFile(name, transform, flags, info, arg, nil); err != nil {
				return err
			}
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !isSourceFile(d.Name()) {
				return err
			}
			fi, err := d.Info()
			if err != nil {
				return err
			}
			return processFile(name, transform, flags, fi, path, nil)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func isSourceFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".djs", ".xjs", ".json", ".jsonc", ".json5", ".hjson":
		return true
	default:
		return false
	}
}

func processFile(name string, transform transformFunc, flags transformFlags, info fs.FileInfo, filename string, in io.Reader) error {
	src, err := readSource(filename, in)
	if err != nil {
		return err
	}

	input := make([]byte, len(src))
	copy(input, src)

	output, err := transform(input)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}

	log.Debugf("xjsfmt %s: %s", name, filename)

	switch {
	case flags.diff:
		printDiff(filename, src, output)
	case flags.list:
		if string(src) != string(output) {
			fmt.Println(filename)
		}
	case flags.write:
		return writeResult(info, filename, src, output)
	default:
		fmt.Print(string(output))
	}
	return nil
}

func readSource(path string, in io.Reader) ([]byte, error) {
	if in == nil {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}
	return io.ReadAll(in)
}

func printDiff(filename string, src, modified []byte) {
	old, new := string(src), string(modified)
	if old == new {
		return
	}
	origFile := filename + ".orig"
	edits := myers.ComputeEdits(span.URIFromPath(origFile), old, new)
	diff := fmt.Sprint(gotextdiff.ToUnified(origFile, filename, old, edits))
	fmt.Printf("diff %s %s\n", origFile, filename)
	fmt.Println(diff)
}

func writeResult(info fs.FileInfo, filename string, src, data []byte) error {
	if info == nil {
		return fmt.Errorf("xjsfmt: -w should not have been allowed with standard input")
	}
	perms := info.Mode().Perm()

	bak, err := backupFile(filename, src, perms)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, perms); err != nil {
		_ = os.Rename(bak, filename)
		return err
	}
	return os.Remove(bak)
}

// backupFile writes src to a sibling temp file before filename is
// overwritten, so a failed write can be rolled back.
func backupFile(filename string, src []byte, perms fs.FileMode) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename))
	if err != nil {
		return "", err
	}
	defer f.Close()
	backup := f.Name()

	if chmodSupported {
		if err := f.Chmod(perms); err != nil {
			_ = os.Remove(backup)
			return "", err
		}
	}
	if _, err := f.Write(src); err != nil {
		_ = os.Remove(backup)
		return "", err
	}
	return backup, nil
}
