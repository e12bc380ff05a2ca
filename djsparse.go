// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xjs

import (
	"fmt"
	"io"
	"math"
)

// ParseDJS parses a DJS document from r, preserving enough formatting
// metadata (blank-line counts and attached comments) to round-trip back
// to equivalent text with Write.
func ParseDJS(r io.Reader) (Value, error) {
	rd := NewReader(r)
	defer rd.Close()
	return parseDJSFromReader(rd)
}

// ParseDJSString parses a DJS document held in s.
func ParseDJSString(s string) (Value, error) {
	rd := NewReaderString(s)
	defer rd.Close()
	return parseDJSFromReader(rd)
}

func parseDJSFromReader(rd *Reader) (Value, error) {
	tok := NewTokenizer(rd, true)
	root := &TokenStream{Container: TagOpen, tokenizer: tok, delivered: -1, produced: -1}
	p := &djsParser{root: root}
	return p.parseDocument()
}

type djsParser struct {
	root *TokenStream
}

// peekSubstantive looks past any BREAK/COMMENT tokens without consuming
// them, returning the next meaningful token (or nil at end of stream).
func (p *djsParser) peekSubstantive(s *TokenStream) (*Token, error) {
	for k := 1; ; k++ {
		tok, err := s.Peek(k)
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return nil, nil
		}
		if tok.Tag != TagBreak && tok.Tag != TagComment {
			return tok, nil
		}
	}
}

// scanTrivia consumes a run of BREAK and COMMENT tokens, converting it
// into a leading blank-line count (the gap before the first comment, or
// before the next substantive token if there are no comments) and a list
// of Comments whose BlankLinesAfter records the gap following each one.
func (p *djsParser) scanTrivia(s *TokenStream) (leadingGap int, comments []Comment, err error) {
	breaks := 0
	for {
		tok, err := s.Peek(1)
		if err != nil {
			return 0, nil, err
		}
		if tok == nil {
			break
		}
		switch tok.Tag {
		case TagBreak:
			if _, err := s.Next(); err != nil {
				return 0, nil, err
			}
			breaks++
		case TagComment:
			if _, err := s.Next(); err != nil {
				return 0, nil, err
			}
			gap := blankLinesFor(breaks)
			if len(comments) == 0 {
				leadingGap = gap
			} else {
				comments[len(comments)-1].BlankLinesAfter = gap
			}
			comments = append(comments, Comment{Style: tok.CommentStyle, Text: tok.Comment})
			breaks = 0
		default:
			gap := blankLinesFor(breaks)
			if len(comments) == 0 {
				leadingGap = gap
			} else {
				comments[len(comments)-1].BlankLinesAfter = gap
			}
			return leadingGap, comments, nil
		}
	}
	gap := blankLinesFor(breaks)
	if len(comments) == 0 {
		leadingGap = gap
	} else {
		comments[len(comments)-1].BlankLinesAfter = gap
	}
	return leadingGap, comments, nil
}

// blankLinesFor converts a count of consumed newline (BREAK) tokens into
// a blank-line count: the first newline just ends the current line.
func blankLinesFor(breaks int) int {
	if breaks == 0 {
		return 0
	}
	return breaks - 1
}

// scanEOL consumes a single same-line trailing comment, if the very next
// token (with no intervening BREAK) is one.
func (p *djsParser) scanEOL(s *TokenStream) (*Comment, error) {
	tok, err := s.Peek(1)
	if err != nil || tok == nil || tok.Tag != TagComment {
		return nil, err
	}
	if _, err := s.Next(); err != nil {
		return nil, err
	}
	return &Comment{Style: tok.CommentStyle, Text: tok.Comment}, nil
}

func (p *djsParser) parseDocument() (Value, error) {
	leadingGap, headerComments, err := p.scanTrivia(p.root)
	if err != nil {
		return Value{}, err
	}
	next, err := p.peekSubstantive(p.root)
	if err != nil {
		return Value{}, err
	}

	var result Value
	switch {
	case next == nil:
		result = NewLiteral(Null())
	case next.Tag == TagBraces:
		tok, err := p.root.Next()
		if err != nil {
			return Value{}, err
		}
		obj, trailingGap, trailingComments, err := p.parseContainerObject(tok.Stream, false)
		if err != nil {
			return Value{}, err
		}
		result = NewObject(obj)
		result.Formatting.LinesTrailing = trailingGap
		if len(trailingComments) > 0 {
			result.Formatting.Comments = Comments{CommentInterior: trailingComments}
		}
	case next.Tag == TagBrackets:
		tok, err := p.root.Next()
		if err != nil {
			return Value{}, err
		}
		arr, trailingGap, trailingComments, err := p.parseContainerArray(tok.Stream, false)
		if err != nil {
			return Value{}, err
		}
		result = NewArray(arr)
		result.Formatting.LinesTrailing = trailingGap
		if len(trailingComments) > 0 {
			result.Formatting.Comments = Comments{CommentInterior: trailingComments}
		}
	default:
		lookup, err := p.root.LookupSymbol(':', p.root.GetIndex()+1, false)
		if err != nil {
			return Value{}, err
		}
		if lookup != nil {
			obj, trailingGap, trailingComments, err := p.parseContainerObject(p.root, true)
			if err != nil {
				return Value{}, err
			}
			result = NewObject(obj)
			result.Formatting.LinesTrailing = trailingGap
			result.Formatting.OpenRoot = true
			if len(trailingComments) > 0 {
				result.Formatting.Comments = Comments{CommentFooter: trailingComments}
			}
			return finishDocument(result, leadingGap, headerComments), nil
		}
		result, err = p.parseValue(p.root)
		if err != nil {
			return Value{}, err
		}
	}

	result = finishDocument(result, leadingGap, headerComments)

	trailingGap, footerComments, err := p.scanTrivia(p.root)
	if err != nil {
		return Value{}, err
	}
	result.Formatting.LinesTrailing = trailingGap
	if len(footerComments) > 0 {
		result.Formatting.Comments[CommentFooter] = footerComments
	}

	if extra, err := p.peekSubstantive(p.root); err != nil {
		return Value{}, err
	} else if extra != nil {
		return Value{}, p.errAt(*extra, "unexpected trailing content after top-level value")
	}
	return result, nil
}

func finishDocument(v Value, leadingGap int, headerComments []Comment) Value {
	v.Formatting.LinesAbove = leadingGap
	if v.Formatting.Comments == nil {
		v.Formatting.Comments = Comments{}
	}
	if len(headerComments) > 0 {
		v.Formatting.Comments[CommentHeader] = headerComments
	}
	return v
}

// parseContainerObject parses key:value members from s until s is
// exhausted (its closing delimiter, if any, is swallowed internally by
// the TokenStream). The returned gap/comments describe the trivia found
// after the last member (or, for an empty object, the whole interior).
// isRoot marks s as the document's open-root container (no enclosing
// braces): its first member gets LinesAbove -1 ("auto") rather than the
// 0 scanTrivia computes once the document-level header trivia has
// already consumed any leading blank lines ahead of it. A brace-wrapped
// top-level object has real bracket punctuation to hang its own
// openBody gap off of, so it doesn't need this override.
func (p *djsParser) parseContainerObject(s *TokenStream, isRoot bool) (*Object, int, []Comment, error) {
	obj := &Object{}
	for {
		next, err := p.peekSubstantive(s)
		if err != nil {
			return nil, 0, nil, err
		}
		if next == nil {
			gap, comments, err := p.scanTrivia(s)
			return obj, gap, comments, err
		}

		leadingGap, headerComments, err := p.scanTrivia(s)
		if err != nil {
			return nil, 0, nil, err
		}
		keyTok, err := s.Next()
		if err != nil {
			return nil, 0, nil, err
		}
		if keyTok == nil {
			return nil, 0, nil, fmt.Errorf("xjs: unexpected end of object")
		}
		key, err := p.memberKey(*keyTok)
		if err != nil {
			return nil, 0, nil, err
		}
		if err := p.expectSymbol(s, ':'); err != nil {
			return nil, 0, nil, err
		}
		betweenGap, betweenComments, err := p.scanTrivia(s)
		if err != nil {
			return nil, 0, nil, err
		}
		val, err := p.parseValue(s)
		if err != nil {
			return nil, 0, nil, err
		}
		if isRoot && len(obj.Members) == 0 {
			val.Formatting.LinesAbove = -1
		} else {
			val.Formatting.LinesAbove = leadingGap
		}
		val.Formatting.LinesBetween = betweenGap
		if val.Formatting.Comments == nil {
			val.Formatting.Comments = Comments{}
		}
		if len(headerComments) > 0 {
			val.Formatting.Comments[CommentHeader] = headerComments
		}
		if len(betweenComments) > 0 {
			val.Formatting.Comments[CommentValue] = betweenComments
		}
		eol, err := p.scanEOL(s)
		if err != nil {
			return nil, 0, nil, err
		}
		if eol != nil {
			val.Formatting.Comments[CommentEOL] = []Comment{*eol}
		}

		obj.Members = append(obj.Members, ObjectMember{Key: key, Value: val})

		if sym, err := p.peekSubstantive(s); err != nil {
			return nil, 0, nil, err
		} else if sym != nil && sym.IsSymbol(',') {
			if _, err := s.Next(); err != nil {
				return nil, 0, nil, err
			}
		}
	}
}

// parseContainerArray parses elements from s the same way
// parseContainerObject parses members, minus the key. isRoot has the
// same meaning as in parseContainerObject.
func (p *djsParser) parseContainerArray(s *TokenStream, isRoot bool) (*Array, int, []Comment, error) {
	arr := &Array{}
	for {
		next, err := p.peekSubstantive(s)
		if err != nil {
			return nil, 0, nil, err
		}
		if next == nil {
			gap, comments, err := p.scanTrivia(s)
			return arr, gap, comments, err
		}

		leadingGap, headerComments, err := p.scanTrivia(s)
		if err != nil {
			return nil, 0, nil, err
		}
		val, err := p.parseValue(s)
		if err != nil {
			return nil, 0, nil, err
		}
		if isRoot && len(arr.Elements) == 0 {
			val.Formatting.LinesAbove = -1
		} else {
			val.Formatting.LinesAbove = leadingGap
		}
		if val.Formatting.Comments == nil {
			val.Formatting.Comments = Comments{}
		}
		if len(headerComments) > 0 {
			val.Formatting.Comments[CommentHeader] = headerComments
		}
		eol, err := p.scanEOL(s)
		if err != nil {
			return nil, 0, nil, err
		}
		if eol != nil {
			val.Formatting.Comments[CommentEOL] = []Comment{*eol}
		}

		arr.Elements = append(arr.Elements, val)

		if sym, err := p.peekSubstantive(s); err != nil {
			return nil, 0, nil, err
		} else if sym != nil && sym.IsSymbol(',') {
			if _, err := s.Next(); err != nil {
				return nil, 0, nil, err
			}
		}
	}
}

func (p *djsParser) memberKey(tok Token) (MemberKey, error) {
	switch tok.Tag {
	case TagWord:
		return MemberKey{Text: tok.Word, Origin: KeyWord}, nil
	case TagString:
		return MemberKey{Text: tok.String, Origin: KeyString, Flavor: tok.StringFlavor}, nil
	case TagNumber:
		return MemberKey{Text: tok.NumberSource, Origin: KeyNumber}, nil
	default:
		return MemberKey{}, p.errAt(tok, "expected an object key")
	}
}

func (p *djsParser) expectSymbol(s *TokenStream, sym rune) error {
	tok, err := s.Next()
	if err != nil {
		return err
	}
	if tok == nil {
		return fmt.Errorf("xjs: expected '%c', got end of input", sym)
	}
	if !tok.IsSymbol(sym) {
		return p.errAt(*tok, "expected '%c'", sym)
	}
	return nil
}

func (p *djsParser) parseValue(s *TokenStream) (Value, error) {
	tok, err := s.Next()
	if err != nil {
		return Value{}, err
	}
	if tok == nil {
		return Value{}, fmt.Errorf("xjs: expected a value, got end of input")
	}
	switch tok.Tag {
	case TagBraces:
		obj, trailingGap, trailingComments, err := p.parseContainerObject(tok.Stream, false)
		if err != nil {
			return Value{}, err
		}
		v := NewObject(obj)
		v.Formatting.LinesTrailing = trailingGap
		if len(trailingComments) > 0 {
			v.Formatting.Comments = Comments{CommentInterior: trailingComments}
		}
		return v, nil
	case TagBrackets:
		arr, trailingGap, trailingComments, err := p.parseContainerArray(tok.Stream, false)
		if err != nil {
			return Value{}, err
		}
		v := NewArray(arr)
		v.Formatting.LinesTrailing = trailingGap
		if len(trailingComments) > 0 {
			v.Formatting.Comments = Comments{CommentInterior: trailingComments}
		}
		return v, nil
	case TagString:
		return NewLiteral(Literal{Kind: KindString, String: tok.String, StringFlavor: tok.StringFlavor}), nil
	case TagNumber:
		return NewLiteral(Literal{Kind: KindNumber, Number: tok.Number, NumberSource: tok.NumberSource}), nil
	case TagWord:
		switch tok.Word {
		case "true":
			return NewLiteral(Bool(true)), nil
		case "false":
			return NewLiteral(Bool(false)), nil
		case "null":
			return NewLiteral(Null()), nil
		case "infinity":
			return NewLiteral(Number(math.Inf(1))), nil
		default:
			return Value{}, p.errAt(*tok, "unexpected word %q", tok.Word)
		}
	default:
		return Value{}, p.errAt(*tok, "unexpected token, expected a value")
	}
}

func (p *djsParser) errAt(tok Token, format string, args ...any) error {
	return newSyntaxError(tok.Line, tok.Offset, format, args...)
}
