// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xjs

// Tag discriminates the payload carried by a Token.
type Tag int

const (
	TagWord Tag = iota
	TagNumber
	TagString
	TagComment
	TagSymbol
	TagBreak
	TagOpen         // root container with no closing delimiter
	TagBraces       // { ... }
	TagBrackets     // [ ... ]
	TagParentheses  // ( ... )
)

func (t Tag) String() string {
	switch t {
	case TagWord:
		return "WORD"
	case TagNumber:
		return "NUMBER"
	case TagString:
		return "STRING"
	case TagComment:
		return "COMMENT"
	case TagSymbol:
		return "SYMBOL"
	case TagBreak:
		return "BREAK"
	case TagOpen:
		return "OPEN"
	case TagBraces:
		return "BRACES"
	case TagBrackets:
		return "BRACKETS"
	case TagParentheses:
		return "PARENTHESES"
	default:
		return "UNKNOWN"
	}
}

// IsContainer reports whether the tag is one of the four bracket-group tags.
func (t Tag) IsContainer() bool {
	switch t {
	case TagOpen, TagBraces, TagBrackets, TagParentheses:
		return true
	default:
		return false
	}
}

// StringFlavor records the surface spelling a STRING token (or an object
// key) was written with, so the writer can preserve it where still legal.
type StringFlavor int

const (
	FlavorNone StringFlavor = iota
	FlavorSingle
	FlavorDouble
	FlavorMulti
	FlavorBacktick
	FlavorImplicit // unquoted identifier; keys only
)

// CommentStyle records the surface spelling of a comment.
type CommentStyle int

const (
	CommentStyleLine  CommentStyle = iota // // ...
	CommentStyleHash                      // # ...
	CommentStyleBlock                     // /* ... */
)

// Token is a span over the logical character sequence, tagged with a
// lexical kind and that kind's payload. Container tokens (OPEN, BRACES,
// BRACKETS, PARENTHESES) additionally carry a Stream through which their
// children are produced; for those tokens, End and LastLine are
// provisional until Stream reports itself exhausted, so callers that need
// the authoritative span use EndPos/LastLinePos rather than the raw
// fields directly.
type Token struct {
	Start, End     int
	Line, LastLine int
	Offset         int
	Tag            Tag

	Word string

	Number       float64
	NumberSource string

	String       string
	StringFlavor StringFlavor

	Comment      string
	CommentStyle CommentStyle

	Symbol rune

	Stream *TokenStream
}

// EndPos returns the authoritative end offset of the token, following
// through to the producing stream for container tokens.
func (t Token) EndPos() int {
	if t.Stream != nil {
		return t.Stream.End
	}
	return t.End
}

// LastLinePos returns the authoritative last line of the token, following
// through to the producing stream for container tokens.
func (t Token) LastLinePos() int {
	if t.Stream != nil {
		return t.Stream.LastLine
	}
	return t.LastLine
}

// IsSymbol reports whether the token is a SYMBOL with the given rune.
func (t Token) IsSymbol(r rune) bool { return t.Tag == TagSymbol && t.Symbol == r }

// Equal reports structural equality by tag, payload, and span. Container
// tokens compare by Stream identity since two distinct streams are never
// considered equal even if their contents happen to match.
func (t Token) Equal(o Token) bool {
	if t.Tag != o.Tag || t.Start != o.Start || t.End != o.End ||
		t.Line != o.Line || t.LastLine != o.LastLine || t.Offset != o.Offset {
		return false
	}
	switch t.Tag {
	case TagWord:
		return t.Word == o.Word
	case TagNumber:
		return t.Number == o.Number && t.NumberSource == o.NumberSource
	case TagString:
		return t.String == o.String && t.StringFlavor == o.StringFlavor
	case TagComment:
		return t.Comment == o.Comment && t.CommentStyle == o.CommentStyle
	case TagSymbol:
		return t.Symbol == o.Symbol
	case TagBreak:
		return true
	default:
		return t.Stream == o.Stream
	}
}
