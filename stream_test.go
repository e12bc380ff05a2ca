// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xjs

import "testing"

func tokWord(start, end int, w string) Token {
	return Token{Tag: TagWord, Start: start, End: end, Word: w}
}

func tokSym(start, end int, r rune) Token {
	return Token{Tag: TagSymbol, Start: start, End: end, Symbol: r}
}

func TestTokenStreamNext(t *testing.T) {
	s := NewTokenStream(TagBrackets, []Token{
		tokWord(0, 1, "a"),
		tokSym(1, 2, ','),
		tokWord(2, 3, "b"),
	})
	var got []string
	for {
		tok, err := s.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if tok == nil {
			break
		}
		got = append(got, describeToken(*tok))
	}
	want := []string{`WORD "a"`, `SYMBOL ','`, `WORD "b"`}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTokenStreamPeekDoesNotAdvance(t *testing.T) {
	s := NewTokenStream(TagBrackets, []Token{tokWord(0, 1, "a"), tokWord(1, 2, "b")})
	p, err := s.Peek(1)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if p == nil || p.Word != "a" {
		t.Fatalf("Peek(1) = %+v, want WORD a", p)
	}
	if s.GetIndex() != -1 {
		t.Errorf("GetIndex() = %d after Peek, want -1 (unchanged)", s.GetIndex())
	}
	next, err := s.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if next == nil || next.Word != "a" {
		t.Fatalf("Next() = %+v, want WORD a", next)
	}
}

func TestTokenStreamExhausted(t *testing.T) {
	s := NewTokenStream(TagBrackets, []Token{tokWord(0, 1, "a")})
	if _, err := s.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	tok, err := s.Next()
	if err != nil {
		t.Fatalf("Next at end: %v", err)
	}
	if tok != nil {
		t.Errorf("Next() past end = %+v, want nil", tok)
	}
}

func TestTokenStreamLookupSymbol(t *testing.T) {
	s := NewTokenStream(TagBrackets, []Token{
		tokWord(0, 1, "a"),
		tokSym(1, 2, ':'),
		tokWord(2, 3, "b"),
		tokSym(3, 4, ':'),
	})
	lk, err := s.LookupSymbol(':', 0, false)
	if err != nil {
		t.Fatalf("LookupSymbol: %v", err)
	}
	if lk == nil || lk.Index != 1 {
		t.Fatalf("LookupSymbol first match = %+v, want index 1", lk)
	}
	lk2, err := s.LookupSymbol(':', lk.Index+1, false)
	if err != nil {
		t.Fatalf("LookupSymbol: %v", err)
	}
	if lk2 == nil || lk2.Index != 3 {
		t.Fatalf("LookupSymbol second match = %+v, want index 3", lk2)
	}
}

func TestTokenStreamSkip(t *testing.T) {
	s := NewTokenStream(TagBrackets, []Token{
		tokWord(0, 1, "a"),
		tokWord(1, 2, "b"),
		tokWord(2, 3, "c"),
	})
	if err := s.Skip(2); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	tok, err := s.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if tok == nil || tok.Word != "c" {
		t.Fatalf("Next() after Skip(2) = %+v, want WORD c", tok)
	}
}

func TestTokenStreamPreservingRewind(t *testing.T) {
	s := NewTokenStream(TagBrackets, []Token{tokWord(0, 1, "a"), tokWord(1, 2, "b")})
	s.SetPreserving(true)
	if _, err := s.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, err := s.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if err := s.SkipTo(0); err != nil {
		t.Fatalf("SkipTo: %v", err)
	}
	tok, err := s.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if tok == nil || tok.Word != "b" {
		t.Fatalf("Next() after rewind = %+v, want WORD b", tok)
	}
}

func TestTokenStreamNonPreservingRewindFails(t *testing.T) {
	s := NewTokenStream(TagBrackets, []Token{tokWord(0, 1, "a"), tokWord(1, 2, "b")})
	if _, err := s.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if err := s.SkipTo(-1); err == nil {
		t.Error("SkipTo backward on non-preserving stream: want error")
	}
}
