// Copyright (c) 2021 Tailscale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xjs

import (
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Syntax selects which surface syntax a Writer emits.
type Syntax int

const (
	SyntaxJSON Syntax = iota
	SyntaxDJS
)

// WriterOptions controls how a Value is rendered back to text.
type WriterOptions struct {
	Format Syntax

	// Indent is the per-level indent string ("" disables pretty layout
	// and instead always condenses, like Minimize).
	Indent string

	// AllowCondense collapses a member/element onto the previous line
	// when its LinesAbove is 0.
	AllowCondense bool

	// MaxSpacing caps the number of blank lines reproduced between two
	// siblings (-1 means unlimited).
	MaxSpacing int

	// MinSpacing is the floor applied when LinesAbove is a concrete,
	// non-auto count greater than zero.
	MinSpacing int

	// DefaultSpacing is substituted whenever a Formatting field is -1
	// ("auto").
	DefaultSpacing int

	// OmitRootBraces drops a non-empty root object's outer "{" "}" (DJS only).
	OmitRootBraces bool

	// OmitQuotes allows unquoted ("implicit") keys when legal (DJS only).
	// When false, keys are always quoted even if they would qualify.
	OmitQuotes bool

	// SmartSpacing is set by MinimizeOptions and carried through config,
	// but the writer does not read it: it has no effect on the output.
	SmartSpacing bool

	// Newline is the line terminator used between elements ("\n" if unset).
	Newline string

	// EOL is appended once after the very last byte of output.
	EOL string
}

// DefaultWriterOptions returns the conventional pretty-printing defaults
// for format.
func DefaultWriterOptions(format Syntax) WriterOptions {
	return WriterOptions{
		Format:         format,
		Indent:         "  ",
		AllowCondense:  true,
		MaxSpacing:     2,
		MinSpacing:     0,
		DefaultSpacing: 0,
		OmitRootBraces: format == SyntaxDJS,
		OmitQuotes:     false,
		SmartSpacing:   false,
		Newline:        "\n",
		EOL:            "\n",
	}
}

// MinimizeOptions returns options that collapse a document to the
// smallest faithful rendering for its format.
func MinimizeOptions(format Syntax) WriterOptions {
	o := DefaultWriterOptions(format)
	o.Indent = ""
	o.AllowCondense = true
	o.MaxSpacing = 0
	o.MinSpacing = 0
	o.DefaultSpacing = 0
	o.SmartSpacing = true
	o.OmitRootBraces = false
	o.OmitQuotes = true
	o.EOL = ""
	return o
}

type writer struct {
	w   io.Writer
	o   WriterOptions
	err error
}

func newWriter(w io.Writer, o WriterOptions) *writer {
	if o.Newline == "" {
		o.Newline = "\n"
	}
	return &writer{w: w, o: o}
}

func (w *writer) write(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

func (w *writer) indent(level int) string {
	if level < 0 || w.o.Indent == "" {
		return ""
	}
	return strings.Repeat(w.o.Indent, level)
}

func (w *writer) blankLines(n int) string {
	if n <= 0 {
		return ""
	}
	if w.o.MaxSpacing >= 0 && n > w.o.MaxSpacing {
		n = w.o.MaxSpacing
	}
	return strings.Repeat(w.o.Newline, n)
}

func (w *writer) resolveSpacing(n int) int {
	if n < 0 {
		return w.o.DefaultSpacing
	}
	if n > 0 && n < w.o.MinSpacing {
		return w.o.MinSpacing
	}
	return n
}

// WriteValue writes v as a full document (root-level conventions: open
// root objects, header/footer comments) to w using o.
func WriteValue(w io.Writer, v Value, o WriterOptions) error {
	wr := newWriter(w, o)
	wr.writeDocument(v)
	if wr.o.EOL != "" {
		wr.write(wr.o.EOL)
	}
	return wr.err
}

func (w *writer) writeDocument(v Value) {
	w.writeComments(v.Formatting.Comments[CommentHeader], 0, true)
	if w.o.Format == SyntaxDJS && w.o.OmitRootBraces && v.Formatting.OpenRoot && v.Kind == KindObject && v.Object != nil && len(v.Object.Members) > 0 {
		w.writeMembers(v.Object.Members, -1)
		w.writeTrailingBlankLines(v.Formatting.LinesTrailing)
	} else {
		w.writeTopLevelValue(v)
	}
	w.writeFooterComments(v.Formatting.Comments[CommentFooter])
}

// writeTopLevelValue writes v without any open-root unwrapping, used by
// Value.String for debugging individual values.
func (w *writer) writeTopLevelValue(v Value) {
	w.writeValue(v, 0)
}

func (w *writer) writeValue(v Value, level int) {
	switch v.Kind {
	case KindNull:
		w.write("null")
	case KindBool:
		if v.Literal.Bool {
			w.write("true")
		} else {
			w.write("false")
		}
	case KindNumber:
		w.write(formatNumber(v.Literal, w.o.Format))
	case KindString:
		w.write(w.formatString(v.Literal))
	case KindArray:
		w.writeArray(v, level)
	case KindObject:
		w.writeObject(v, level)
	}
	w.writeEOLComments(v.Formatting.Comments[CommentEOL])
}

func (w *writer) writeArray(v Value, level int) {
	a := v.Array
	if a == nil || len(a.Elements) == 0 {
		w.write("[")
		w.writeInterior(v.Formatting.Comments[CommentInterior])
		w.write("]")
		return
	}
	w.write("[")
	w.openBody(a.Elements[0].Formatting.LinesAbove, level+1)
	for i, el := range a.Elements {
		if i > 0 {
			w.writeSeparator(a.Elements[i-1], el, level+1)
		}
		hs := el.Formatting.Comments[CommentHeader]
		w.writeComments(hs, level+1, false)
		if len(hs) > 0 && w.o.Format == SyntaxDJS {
			w.write(w.indent(level + 1))
		}
		w.writeValue(el, level+1)
		next := 0
		if i+1 < len(a.Elements) {
			next = a.Elements[i+1].Formatting.LinesAbove
		}
		if w.wantsTrailingComma(i, len(a.Elements), next) {
			w.write(",")
		}
	}
	w.writeTrailing(v.Formatting.LinesTrailing, level)
	w.write("]")
}

func (w *writer) writeObject(v Value, level int) {
	o := v.Object
	if o == nil || len(o.Members) == 0 {
		w.write("{")
		w.writeInterior(v.Formatting.Comments[CommentInterior])
		w.write("}")
		return
	}
	w.write("{")
	w.openBody(o.Members[0].Value.Formatting.LinesAbove, level+1)
	w.writeMembers(o.Members, level+1)
	w.writeTrailing(v.Formatting.LinesTrailing, level)
	w.write("}")
}

// writeMembers places a member's key:value inline after whatever gap
// openBody/writeSeparator already wrote for it; the indent is only
// rewritten here when CommentHeader or CommentValue comments came first
// and left the cursor at the start of a fresh, as-yet-unindented line.
func (w *writer) writeMembers(members []ObjectMember, level int) {
	for i, m := range members {
		if i > 0 {
			w.writeSeparator(members[i-1].Value, m.Value, level)
		}
		cs := append(append([]Comment(nil), m.Value.Formatting.Comments[CommentHeader]...), m.Value.Formatting.Comments[CommentValue]...)
		w.writeComments(cs, level, false)
		if len(cs) > 0 && w.o.Format == SyntaxDJS {
			w.write(w.indent(level))
		}
		w.writeKey(m.Key)
		w.write(":")
		w.write(w.spacingAfterColon(m.Value.Formatting.LinesBetween))
		w.writeValue(m.Value, level)
		next := 0
		if i+1 < len(members) {
			next = members[i+1].Value.Formatting.LinesAbove
		}
		if w.wantsTrailingComma(i, len(members), next) {
			w.write(",")
		}
	}
}

// condenseSpace is the separator written in place of a line break when
// collapsing onto one line: a single space in pretty mode, nothing at
// all in fully-minimized mode (Indent == "").
func (w *writer) condenseSpace() string {
	if w.o.Indent == "" {
		return ""
	}
	return " "
}

// mayCondense reports whether a zero-gap sibling boundary collapses onto
// one line: always true in fully-minimized mode (no indent to break to),
// otherwise whenever the writer's AllowCondense option permits it.
func (w *writer) mayCondense() bool {
	return w.o.Indent == "" || w.o.AllowCondense
}

// openBody writes the gap between an opening bracket/brace and its first
// child. Unlike writeSeparator, condensing here writes no space at all --
// "[1, 2]" hugs its bracket even though siblings get a space after their
// comma.
func (w *writer) openBody(firstLinesAbove, level int) {
	n := w.resolveSpacing(firstLinesAbove)
	if n == 0 && w.mayCondense() {
		return
	}
	w.write(w.o.Newline)
	w.write(w.blankLines(n))
	w.write(w.indent(level))
}

func (w *writer) writeSeparator(prev, next Value, level int) {
	n := w.resolveSpacing(next.Formatting.LinesAbove)
	if n == 0 && w.mayCondense() {
		w.write(w.condenseSpace())
		return
	}
	w.write(w.o.Newline)
	w.write(w.blankLines(n))
	w.write(w.indent(level))
}

// writeTrailing writes the gap before a closing bracket/brace; like
// openBody, condensing here hugs the bracket with no space.
func (w *writer) writeTrailing(linesTrailing, level int) {
	n := w.resolveSpacing(linesTrailing)
	if n == 0 && w.mayCondense() {
		return
	}
	w.write(w.o.Newline)
	w.write(w.blankLines(n))
	w.write(w.indent(level))
}

func (w *writer) writeTrailingBlankLines(n int) {
	n = w.resolveSpacing(n)
	if n > 0 {
		w.write(w.blankLines(n))
	}
}

// wantsTrailingComma reports whether a "," belongs after element i of
// count total. Never after the last element. JSON's grammar makes the
// comma the only separator, so it is always wanted between non-last
// siblings. DJS lets a newline stand in for the comma: a comma is only
// required there when the gap before the next sibling (nextLinesAbove)
// collapses onto the same line; otherwise the line break it writes is
// what separates the two values.
func (w *writer) wantsTrailingComma(i, count, nextLinesAbove int) bool {
	if i >= count-1 {
		return false
	}
	if w.o.Format == SyntaxJSON {
		return true
	}
	return w.resolveSpacing(nextLinesAbove) == 0 && w.mayCondense()
}

func (w *writer) writeInterior(cs []Comment) {
	if len(cs) == 0 || w.o.Format == SyntaxJSON {
		return
	}
	w.write(" ")
	for i, c := range cs {
		if i > 0 {
			w.write(" ")
		}
		w.write(w.renderComment(c))
	}
	w.write(" ")
}

func (w *writer) writeComments(cs []Comment, level int, header bool) {
	if len(cs) == 0 {
		return
	}
	if w.o.Format == SyntaxJSON {
		return // JSON never carries comments.
	}
	for _, c := range cs {
		w.write(w.indent(level))
		w.write(w.renderComment(c))
		w.write(w.o.Newline)
		w.write(w.blankLines(c.BlankLinesAfter))
	}
}

func (w *writer) writeEOLComments(cs []Comment) {
	if len(cs) == 0 || w.o.Format == SyntaxJSON {
		return
	}
	for _, c := range cs {
		w.write(" ")
		w.write(w.renderComment(c))
	}
}

func (w *writer) writeFooterComments(cs []Comment) {
	if len(cs) == 0 || w.o.Format == SyntaxJSON {
		return
	}
	for _, c := range cs {
		w.write(w.o.Newline)
		w.write(w.renderComment(c))
	}
}

func (w *writer) renderComment(c Comment) string {
	switch c.Style {
	case CommentStyleHash:
		return "#" + c.Text
	case CommentStyleBlock:
		return "/*" + c.Text + "*/"
	default:
		return "//" + c.Text
	}
}

var implicitKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_$]+$`)

// writeKey renders an object member's key. In JSON it is always quoted.
// In DJS, a key originally written as a bare word stays unquoted as long
// as its text is still a legal identifier; a key originally quoted is
// re-quoted unless OmitQuotes allows converting it to the implicit form.
func (w *writer) writeKey(k MemberKey) {
	if w.o.Format == SyntaxJSON {
		w.write(strconv.Quote(k.Text))
		return
	}
	legal := implicitKeyPattern.MatchString(k.Text)
	if legal && (k.Origin == KeyWord || w.o.OmitQuotes) {
		w.write(k.Text)
		return
	}
	flavor := k.Flavor
	if !flavorStillLegal(k.Text, flavor) {
		flavor = chooseFlavor(k.Text)
	}
	w.write(renderString(k.Text, flavor))
}

func (w *writer) spacingAfterColon(linesBetween int) string {
	n := w.resolveSpacing(linesBetween)
	if n == 0 {
		return w.condenseSpace()
	}
	return w.o.Newline + w.blankLines(n-1)
}

func formatNumber(l Literal, format Syntax) string {
	f := l.Number
	switch {
	case math.IsInf(f, 1):
		if format == SyntaxJSON {
			return "1e999" // strict JSON has no Infinity literal; saturate instead.
		}
		return "infinity"
	case math.IsInf(f, -1):
		if format == SyntaxJSON {
			return "-1e999"
		}
		return "-infinity"
	}
	if l.NumberSource != "" && parsesBackTo(l.NumberSource, f) {
		return l.NumberSource
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func parsesBackTo(source string, f float64) bool {
	got, err := parseNumberText(source)
	return err == nil && got == f
}

// formatString selects a string's surface flavor for the target format
// and renders it accordingly.
func (w *writer) formatString(l Literal) string {
	if w.o.Format == SyntaxJSON {
		return strconv.Quote(l.String)
	}
	flavor := l.StringFlavor
	if !flavorStillLegal(l.String, flavor) {
		flavor = chooseFlavor(l.String)
	}
	return renderString(l.String, flavor)
}

func flavorStillLegal(s string, flavor StringFlavor) bool {
	switch flavor {
	case FlavorSingle:
		return !strings.ContainsAny(s, "\n'")
	case FlavorDouble:
		return !strings.Contains(s, "\n")
	case FlavorMulti:
		return true
	default:
		return false
	}
}

// chooseFlavor picks the writer's default string flavor: multi-line
// content gets a triple-quoted block, an embedded single quote forces
// double quotes, otherwise single quotes are preferred.
func chooseFlavor(s string) StringFlavor {
	switch {
	case strings.Contains(s, "\n"):
		return FlavorMulti
	case strings.Contains(s, "'"):
		return FlavorDouble
	default:
		return FlavorSingle
	}
}

func renderString(s string, flavor StringFlavor) string {
	switch flavor {
	case FlavorSingle:
		return "'" + escapeQuoted(s, '\'') + "'"
	case FlavorMulti:
		return "'''\n" + indentMultiline(s) + "\n'''"
	case FlavorImplicit:
		return s
	default:
		return strconv.Quote(s)
	}
}

func indentMultiline(s string) string {
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		lines[i] = "  " + ln
	}
	return strings.Join(lines, "\n")
}

func escapeQuoted(s string, q rune) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case q:
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WriteJSON writes v as strict JSON, ignoring all DJS-only options.
func WriteJSON(w io.Writer, v Value, o WriterOptions) error {
	o.Format = SyntaxJSON
	o.OmitRootBraces = false
	o.OmitQuotes = false
	return WriteValue(w, v, o)
}

// WriteDJS writes v as DJS.
func WriteDJS(w io.Writer, v Value, o WriterOptions) error {
	o.Format = SyntaxDJS
	return WriteValue(w, v, o)
}
