// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xjs

import (
	"bytes"
	"io"
	"strings"
)

// FileFormat is a registered (parse, write) pair for one on-disk extension.
type FileFormat struct {
	Parse func([]byte) (Value, error)
	Write func(io.Writer, Value, WriterOptions) error
}

// Formats is the extension registry, keyed by lowercased extension with
// no leading dot. It is the full extent of the format-selection surface:
// there is no content sniffing and no MIME-type negotiation.
var Formats = map[string]FileFormat{
	"json": {
		Parse: func(b []byte) (Value, error) { return ParseJSONString(string(b)) },
		Write: func(w io.Writer, v Value, o WriterOptions) error { return WriteJSON(w, v, o) },
	},
	"djs": {
		Parse: func(b []byte) (Value, error) { return ParseDJSString(string(b)) },
		Write: func(w io.Writer, v Value, o WriterOptions) error { return WriteDJS(w, v, o) },
	},
}

// extensionAliases maps a recognized alias to the canonical key under
// which Formats stores its (parse, write) pair.
var extensionAliases = map[string]string{
	"xjs":   "djs",
	"jsonc": "djs",
	"hjson": "djs",
	"json5": "djs",
}

// lookupFormat resolves ext (with or without a leading dot) to a
// registered FileFormat, applying extensionAliases first and defaulting to
// "djs" -- a syntactic superset of JSON -- for anything unrecognized.
func lookupFormat(ext string) FileFormat {
	key := strings.ToLower(strings.TrimPrefix(ext, "."))
	if canon, ok := extensionAliases[key]; ok {
		key = canon
	}
	if f, ok := Formats[key]; ok {
		return f
	}
	return Formats["djs"]
}

// ParseExtension parses src using the FileFormat registered for ext.
func ParseExtension(ext string, src []byte) (Value, error) {
	return lookupFormat(ext).Parse(src)
}

// WriteExtension writes v to w using the FileFormat registered for ext.
func WriteExtension(ext string, w io.Writer, v Value, o WriterOptions) error {
	return lookupFormat(ext).Write(w, v, o)
}

// formatBytes renders v through a FileFormat's Write function into a []byte,
// used by the top-level Format/Minimize convenience functions.
func formatBytes(ext string, v Value, o WriterOptions) ([]byte, error) {
	var b bytes.Buffer
	if err := WriteExtension(ext, &b, v, o); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
