// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xjs

import "io"

// ParseJSONReader parses strict RFC 8259 JSON from r. It rejects
// everything DJS permits beyond JSON: comments, trailing commas,
// unquoted keys, bare identifiers other than true/false/null, and an
// open root.
func ParseJSONReader(r io.Reader) (Value, error) {
	rd := NewReader(r)
	defer rd.Close()
	p := &jsonParser{r: rd}
	return p.parseDocument()
}

// ParseJSONString parses strict JSON held in s.
func ParseJSONString(s string) (Value, error) {
	rd := NewReaderString(s)
	defer rd.Close()
	p := &jsonParser{r: rd}
	return p.parseDocument()
}

// parseDocument captures the blank-line gap surrounding the top-level
// value the same way scanTrivia/blankLinesFor do for DJS (spec.md §4.5's
// formatting-capture requirement), even though JSON's own round trip
// never inspects it.
func (p *jsonParser) parseDocument() (Value, error) {
	p.r.ResetLinesSkipped()
	p.r.SkipWhitespace(true)
	leadingGap := blankLinesFor(p.r.LinesSkipped())
	v, err := p.parseValue()
	if err != nil {
		return Value{}, err
	}
	v.Formatting.LinesAbove = leadingGap
	p.r.ResetLinesSkipped()
	p.r.SkipWhitespace(true)
	v.Formatting.LinesTrailing = blankLinesFor(p.r.LinesSkipped())
	if !p.r.IsEndOfText() {
		return Value{}, p.r.Unexpected("trailing content after top-level value")
	}
	return v, nil
}

type jsonParser struct {
	r *Reader
}

func (p *jsonParser) parseValue() (Value, error) {
	p.r.SkipWhitespace(true)
	switch c := p.r.Current(); {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"':
		s, err := p.r.ReadQuoted('"')
		if err != nil {
			return Value{}, err
		}
		return NewLiteral(Literal{Kind: KindString, String: s, StringFlavor: FlavorDouble}), nil
	case c == '-' || (c >= '0' && c <= '9'):
		f, text, err := p.r.ReadNumber()
		if err != nil {
			return Value{}, err
		}
		return NewLiteral(Literal{Kind: KindNumber, Number: f, NumberSource: text}), nil
	case c == 't':
		if err := p.literal("true"); err != nil {
			return Value{}, err
		}
		return NewLiteral(Bool(true)), nil
	case c == 'f':
		if err := p.literal("false"); err != nil {
			return Value{}, err
		}
		return NewLiteral(Bool(false)), nil
	case c == 'n':
		if err := p.literal("null"); err != nil {
			return Value{}, err
		}
		return NewLiteral(Null()), nil
	case p.r.IsEndOfText():
		return Value{}, p.r.Unexpected("end of input, expected a value")
	default:
		return Value{}, p.r.Unexpected("character, expected a value")
	}
}

func (p *jsonParser) literal(word string) error {
	for i := 0; i < len(word); i++ {
		if !p.r.ReadIf(rune(word[i])) {
			return p.r.Expected("'" + word + "'")
		}
	}
	return nil
}

func (p *jsonParser) parseObject() (Value, error) {
	if err := p.r.Expect('{'); err != nil {
		return Value{}, err
	}
	obj := &Object{}
	p.r.ResetLinesSkipped()
	p.r.SkipWhitespace(true)
	if p.r.ReadIf('}') {
		v := NewObject(obj)
		v.Formatting.LinesTrailing = blankLinesFor(p.r.LinesSkipped())
		return v, nil
	}
	for {
		leadingGap := blankLinesFor(p.r.LinesSkipped())
		if p.r.Current() != '"' {
			return Value{}, p.r.Expected("double-quoted key")
		}
		key, err := p.r.ReadQuoted('"')
		if err != nil {
			return Value{}, err
		}
		p.r.ResetLinesSkipped()
		p.r.SkipWhitespace(true)
		if err := p.r.Expect(':'); err != nil {
			return Value{}, err
		}
		p.r.ResetLinesSkipped()
		p.r.SkipWhitespace(true)
		betweenGap := blankLinesFor(p.r.LinesSkipped())
		val, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		val.Formatting.LinesAbove = leadingGap
		val.Formatting.LinesBetween = betweenGap
		obj.Members = append(obj.Members, ObjectMember{
			Key:   MemberKey{Text: key, Origin: KeyString, Flavor: FlavorDouble},
			Value: val,
		})
		p.r.ResetLinesSkipped()
		p.r.SkipWhitespace(true)
		trailingGap := blankLinesFor(p.r.LinesSkipped())
		switch {
		case p.r.ReadIf(','):
			p.r.ResetLinesSkipped()
			p.r.SkipWhitespace(true)
			if p.r.Current() == '}' {
				return Value{}, p.r.Unexpected("trailing comma before '}'")
			}
			continue
		case p.r.ReadIf('}'):
			v := NewObject(obj)
			v.Formatting.LinesTrailing = trailingGap
			return v, nil
		default:
			return Value{}, p.r.Expected("',' or '}'")
		}
	}
}

func (p *jsonParser) parseArray() (Value, error) {
	if err := p.r.Expect('['); err != nil {
		return Value{}, err
	}
	arr := &Array{}
	p.r.ResetLinesSkipped()
	p.r.SkipWhitespace(true)
	if p.r.ReadIf(']') {
		v := NewArray(arr)
		v.Formatting.LinesTrailing = blankLinesFor(p.r.LinesSkipped())
		return v, nil
	}
	for {
		leadingGap := blankLinesFor(p.r.LinesSkipped())
		val, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		val.Formatting.LinesAbove = leadingGap
		arr.Elements = append(arr.Elements, val)
		p.r.ResetLinesSkipped()
		p.r.SkipWhitespace(true)
		trailingGap := blankLinesFor(p.r.LinesSkipped())
		switch {
		case p.r.ReadIf(','):
			p.r.ResetLinesSkipped()
			p.r.SkipWhitespace(true)
			if p.r.Current() == ']' {
				return Value{}, p.r.Unexpected("trailing comma before ']'")
			}
			continue
		case p.r.ReadIf(']'):
			v := NewArray(arr)
			v.Formatting.LinesTrailing = trailingGap
			return v, nil
		default:
			return Value{}, p.r.Expected("',' or ']'")
		}
	}
}
