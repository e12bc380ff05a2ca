// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xjs

import (
	"fmt"
	"strings"
)

// TokenStream is both a Token (its span grows as children are discovered)
// and a lazy, peekable sequence of child tokens. It is produced either by
// a Tokenizer in containerized mode (one stream per bracket group, plus a
// root OPEN stream with no closer) or fully pre-populated for tests.
//
// A stream supports a single active iterator at a time. Calling Next,
// Peek, or Skip concurrently from two goroutines, or maintaining two
// independent cursors over the same non-preserving stream, is not
// supported -- this mirrors the single-threaded-per-document model the
// whole pipeline assumes.
type TokenStream struct {
	Container Tag

	Start, End     int
	Line, LastLine int
	Offset         int

	tokenizer *Tokenizer

	// buf holds tokens at absolute indices [base, base+len(buf)).
	buf  []Token
	base int

	// delivered is the absolute index of the last token returned by Next;
	// -1 before the first call. produced is the absolute index of the
	// last token appended to buf; -1 before anything has been produced.
	delivered int
	produced  int

	preserving bool
}

// NewTokenStream constructs a fully materialized stream from already-known
// children, useful for tests and for hand-assembled token trees.
func NewTokenStream(container Tag, children []Token) *TokenStream {
	s := &TokenStream{Container: container, buf: children, delivered: -1, produced: len(children) - 1}
	if len(children) > 0 {
		s.Start = children[0].Start
		s.Line = children[0].Line
		s.Offset = children[0].Offset
		last := children[len(children)-1]
		s.End = last.EndPos()
		s.LastLine = last.LastLinePos()
	}
	return s
}

// SetPreserving switches the stream into (or out of) preserving mode. In
// preserving mode every produced child is retained in Source indefinitely.
func (s *TokenStream) SetPreserving(v bool) { s.preserving = v }

// Preserving reports whether the stream retains all produced children.
func (s *TokenStream) Preserving() bool { return s.preserving }

// Source returns the currently retained children. In preserving mode,
// once the stream is exhausted this is the complete sequence of delivered
// tokens (invariant 5 of the specification); in non-preserving mode it is
// only the tokens still reachable by lookahead.
func (s *TokenStream) Source() []Token {
	out := make([]Token, len(s.buf))
	copy(out, s.buf)
	return out
}

// Closed reports whether the stream has stopped being able to produce
// more tokens (its tokenizer link has been cleared).
func (s *TokenStream) Closed() bool { return s.tokenizer == nil }

// Close forwards to the producing tokenizer's reader, releasing it. It is
// idempotent and safe once the stream is already fully materialized.
func (s *TokenStream) Close() error {
	if s.tokenizer == nil {
		return nil
	}
	t := s.tokenizer
	s.tokenizer = nil
	return t.r.Close()
}

// produceNext pulls one more token from the producing tokenizer into buf,
// returning false once the stream has exhausted its input (end of file
// for an OPEN stream, or its matching closer for a bracketed one).
func (s *TokenStream) produceNext() (bool, error) {
	if s.tokenizer == nil {
		return false, nil
	}
	tok, ok, err := s.tokenizer.Next()
	if err != nil {
		return false, err
	}
	if !ok {
		if s.Container != TagOpen {
			return false, newSyntaxError(s.tokenizer.r.Line(), s.tokenizer.r.Column(),
				"expected '%c'", closerFor(s.Container))
		}
		s.tokenizer = nil
		return false, nil
	}
	if s.Container != TagOpen && tok.IsSymbol(closerFor(s.Container)) {
		s.tokenizer = nil
		s.End = tok.End
		s.LastLine = tok.LastLine
		return false, nil
	}

	s.End = tok.EndPos()
	s.LastLine = tok.LastLinePos()
	s.buf = append(s.buf, tok)
	s.produced++
	return true, nil
}

// ensure makes sure token at absolute index idx has been produced, when
// possible. It returns false if idx is (and will remain) out of range.
func (s *TokenStream) ensure(idx int) (bool, error) {
	for s.produced < idx {
		ok, err := s.produceNext()
		if err != nil {
			return false, err
		}
		if !ok {
			return s.produced >= idx, nil
		}
	}
	return true, nil
}

func (s *TokenStream) at(idx int) *Token {
	rel := idx - s.base
	if rel < 0 || rel >= len(s.buf) {
		return nil
	}
	return &s.buf[rel]
}

// Peek returns the k-th child ahead of the most recently delivered one
// without advancing (k=1 is the next unread child); k=-1 returns the
// previously delivered child. In preserving mode, arbitrary negative k is
// permitted and indexes from the current position.
func (s *TokenStream) Peek(k int) (*Token, error) {
	if k < 0 && !s.preserving && k != -1 {
		return nil, fmt.Errorf("xjs: arbitrary negative peek requires a preserving stream")
	}
	idx := s.delivered + k
	if idx < s.base {
		return nil, nil
	}
	ok, err := s.ensure(idx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return s.at(idx), nil
}

// Next returns the next child, or nil when the stream is exhausted.
func (s *TokenStream) Next() (*Token, error) {
	idx := s.delivered + 1
	ok, err := s.ensure(idx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	tok := s.at(idx)
	s.delivered = idx
	if !s.preserving {
		s.trim()
	}
	return tok, nil
}

// trim drops tokens that non-preserving mode no longer needs to retain:
// everything strictly before the previously delivered child (kept so
// Peek(-1) still works).
func (s *TokenStream) trim() {
	keepFrom := s.delivered - 1
	if keepFrom <= s.base {
		return
	}
	drop := keepFrom - s.base
	if drop >= len(s.buf) {
		drop = len(s.buf)
	}
	s.buf = append([]Token(nil), s.buf[drop:]...)
	s.base += drop
}

// Skip advances the cursor by n children, discarding them.
func (s *TokenStream) Skip(n int) error {
	if n < 0 {
		return s.SkipTo(s.delivered + n)
	}
	for i := 0; i < n; i++ {
		if _, err := s.Next(); err != nil {
			return err
		}
	}
	return nil
}

// SkipTo moves the cursor so that GetIndex returns index. Rewinding
// (index < GetIndex()) is only supported in preserving mode.
func (s *TokenStream) SkipTo(index int) error {
	if index < s.delivered {
		if !s.preserving {
			return fmt.Errorf("xjs: rewinding SkipTo requires a preserving stream")
		}
		if index < s.base-1 {
			return fmt.Errorf("xjs: index %d no longer retained", index)
		}
		s.delivered = index
		return nil
	}
	for s.delivered < index {
		if _, err := s.Next(); err != nil {
			return err
		}
	}
	return nil
}

// GetIndex returns the index of the most recently delivered child, or -1
// if nothing has been delivered yet.
func (s *TokenStream) GetIndex() int { return s.delivered }

// Lookup is the result of a successful symbol scan.
type Lookup struct {
	Index int
	Token Token
}

// LookupSymbol scans forward from fromIndex (inclusive of the next
// undelivered position) for a SYMBOL token matching sym. With exact set,
// a candidate match is skipped when it sits directly adjacent (no
// whitespace between) to another SYMBOL token, so that only an isolated
// operator is reported.
func (s *TokenStream) LookupSymbol(sym rune, fromIndex int, exact bool) (*Lookup, error) {
	idx := fromIndex
	if idx <= s.delivered {
		idx = s.delivered + 1
	}
	for {
		ok, err := s.ensure(idx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		tok := s.at(idx)
		if tok.IsSymbol(sym) {
			if !exact || s.isolated(idx) {
				return &Lookup{Index: idx, Token: *tok}, nil
			}
		}
		idx++
	}
}

func (s *TokenStream) isolated(idx int) bool {
	cur := s.at(idx)
	if idx-1 >= s.base {
		if prev := s.at(idx - 1); prev != nil && prev.Tag == TagSymbol && prev.End == cur.Start {
			return false
		}
	}
	if ok, _ := s.ensure(idx + 1); ok {
		if next := s.at(idx + 1); next != nil && next.Tag == TagSymbol && next.Start == cur.EndPos() {
			return false
		}
	}
	return true
}

// Stringify renders an indented textual tree of the stream's tokens for
// diagnostics, recursing into nested sub-streams. If called before the
// stream is exhausted, a "<reading...>" marker stands in for the unread
// tail.
func (s *TokenStream) Stringify() string {
	var b strings.Builder
	s.stringify(&b, 0)
	return b.String()
}

func (s *TokenStream) stringify(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%s%s\n", indent, s.Container)
	for i := range s.buf {
		tok := s.buf[i]
		if tok.Stream != nil {
			tok.Stream.stringify(b, depth+1)
			continue
		}
		fmt.Fprintf(b, "%s  %s\n", indent, describeToken(tok))
	}
	if s.tokenizer != nil {
		fmt.Fprintf(b, "%s  <reading...>\n", indent)
	}
}

func describeToken(t Token) string {
	switch t.Tag {
	case TagWord:
		return fmt.Sprintf("WORD %q", t.Word)
	case TagNumber:
		return fmt.Sprintf("NUMBER %v", t.Number)
	case TagString:
		return fmt.Sprintf("STRING %q", t.String)
	case TagComment:
		return fmt.Sprintf("COMMENT %q", t.Comment)
	case TagSymbol:
		return fmt.Sprintf("SYMBOL %q", t.Symbol)
	case TagBreak:
		return "BREAK"
	default:
		return t.Tag.String()
	}
}
