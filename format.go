// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xjs

// Parse parses data as DJS, the JSON superset this package centers on.
// Strict JSON is a subset of DJS, so any valid JSON document also parses
// here; use ParseJSON when the stricter grammar (and its rejection of
// comments, trailing commas, and an open root) is what's wanted.
func Parse(data []byte) (Value, error) {
	return ParseDJSString(string(data))
}

// ParseJSON parses data as strict JSON.
func ParseJSON(data []byte) (Value, error) {
	return ParseJSONString(string(data))
}

// Format parses data as DJS and re-renders it with the package's default
// (pretty-printing) DJS writer options, canonicalizing indentation and
// spacing while preserving comments, blank-line runs, and an open root.
// On a parse error it returns data unchanged alongside the error.
func Format(data []byte) ([]byte, error) {
	v, err := Parse(data)
	if err != nil {
		return data, err
	}
	out, err := formatBytes("djs", v, DefaultWriterOptions(SyntaxDJS))
	if err != nil {
		return data, err
	}
	return out, nil
}

// Minimize parses data as DJS and re-renders it with all optional
// whitespace collapsed and comments dropped, the smallest faithful DJS
// rendering of the same document. On a parse error it returns data
// unchanged alongside the error.
func Minimize(data []byte) ([]byte, error) {
	v, err := Parse(data)
	if err != nil {
		return data, err
	}
	opts := MinimizeOptions(SyntaxDJS)
	out, err := formatBytes("djs", stripComments(v), opts)
	if err != nil {
		return data, err
	}
	return out, nil
}

// Standardize parses data as DJS and re-renders it as strict JSON,
// stripping comments, expanding an open root into explicit braces, and
// rejecting nothing further JSON itself would accept (DJS's infinity
// literals are saturated to a large finite exponent; see formatNumber).
// On a parse error it returns data unchanged alongside the error.
func Standardize(data []byte) ([]byte, error) {
	v, err := Parse(data)
	if err != nil {
		return data, err
	}
	out, err := formatBytes("json", v, WriterOptions{Format: SyntaxJSON})
	if err != nil {
		return data, err
	}
	return out, nil
}

// stripComments returns a clone of v with every attached Comment removed,
// used by Minimize.
func stripComments(v Value) Value {
	out := v.Clone()
	clearComments(&out)
	return out
}

func clearComments(v *Value) {
	v.Formatting.Comments = nil
	switch v.Kind {
	case KindObject:
		if v.Object != nil {
			for i := range v.Object.Members {
				clearComments(&v.Object.Members[i].Value)
			}
		}
	case KindArray:
		if v.Array != nil {
			for i := range v.Array.Elements {
				clearComments(&v.Array.Elements[i])
			}
		}
	}
}
