// Copyright 2016 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cxxtoken

import (
	"github.com/mzdun/cxxmodgen/internal/combinator"
)

// rawToken is a token as produced directly by the grammar, before line
// post-processing rebases its offsets and splits it across line boundaries.
type rawToken struct {
	Start, End int
	Kind       Kind
}

// scanState holds the grammar's running state for a single source: the
// accumulated raw tokens, and the small bits of context (line-start,
// just-saw-export, just-saw-import, raw-string-in-progress) that the C++
// module grammar needs but that don't belong in the generic combinator
// kernel.
type scanState struct {
	src []byte
	raw []rawToken

	atLineStart bool
	afterExport bool
	afterImport bool

	// udlKind tells udlSuffix which kind to tag a trailing user-defined
	// literal identifier with; set by the caller just before attempting it.
	udlKind Kind
}

func newScanState(src []byte) *scanState {
	return &scanState{src: src, atLineStart: true}
}

func (s *scanState) emit(kind Kind) func(ctx *combinator.Context, start, end int) {
	return func(ctx *combinator.Context, start, end int) {
		s.raw = append(s.raw, rawToken{start, end, kind})
		if kind != Whitespace && kind != LineComment && kind != BlockComment {
			s.atLineStart = false
		}
	}
}

// --- byte classes -----------------------------------------------------

func isHSpace(b byte) bool  { return b == ' ' || b == '\t' || b == '\v' || b == '\f' }
func isDigit(b byte) bool   { return b >= '0' && b <= '9' }
func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
func isIdentStart(b byte) bool { return isAlpha(b) || b == '_' }
func isIdentCont(b byte) bool  { return isIdentStart(b) || isDigit(b) }

// --- deleted line-splice filter ----------------------------------------

// spliceFilter recognizes zero or more "\<CR|LF|CRLF>" sequences, firing the
// synthetic {deleted_newline, newline} token pair described in spec.md
// §4.B for each one found, then continuing. It is built from raw byte
// primitives only (never CharClass) so it can be installed as Context.Filter
// without recursing into itself.
func (s *scanState) spliceFilter() combinator.Recognizer {
	eol := combinator.Alt(
		combinator.Seq(combinator.RawByte('\r'), combinator.ZeroOrOne(combinator.RawByte('\n'))),
		combinator.RawByte('\n'),
	)
	one := func(ctx *combinator.Context) bool {
		start := ctx.Pos
		if !combinator.RawByte('\\')(ctx) {
			return false
		}
		eolStart := ctx.Pos
		if !eol(ctx) {
			ctx.Pos = start
			return false
		}
		end := ctx.Pos
		if !ctx.ActionsSuppressed() {
			s.raw = append(s.raw, rawToken{start, eolStart, DeletedNewline})
			s.raw = append(s.raw, rawToken{eolStart, end, Newline})
		}
		return true
	}
	return combinator.ZeroOrMore(one)
}

// cxxChar matches a single byte against pred, tolerating an embedded
// deleted line-splice immediately before it (scenario S5: a splice may
// appear in the middle of any token, including a keyword).
func cxxChar(pred func(byte) bool) combinator.Recognizer {
	return combinator.CharClass(pred)
}

func cxxByte(b byte) combinator.Recognizer {
	return cxxChar(func(c byte) bool { return c == b })
}

// rawEOL matches one physical line terminator and consumes it without
// emitting a token; genuine newline tokens are synthesized during line
// post-processing from an independently computed list of line boundaries,
// so that a terminator embedded inside a multi-line literal is not
// double-tokenized.
func rawEOL() combinator.Recognizer {
	return combinator.Alt(
		combinator.Seq(combinator.RawByte('\r'), combinator.ZeroOrOne(combinator.RawByte('\n'))),
		combinator.RawByte('\n'),
	)
}

// --- comments & whitespace ----------------------------------------------

func (s *scanState) lineComment() combinator.Recognizer {
	body := combinator.ZeroOrMore(combinator.Diff(cxxChar(func(byte) bool { return true }), rawEOLAhead()))
	return combinator.Action(combinator.Seq(combinator.RawByte('/'), combinator.RawByte('/'), body), s.emit(LineComment))
}

func rawEOLAhead() combinator.Recognizer {
	return combinator.Ahead(rawEOL())
}

func (s *scanState) blockComment() combinator.Recognizer {
	notStar := combinator.Diff(combinator.AnyByte(), combinator.RawByte('*'))
	closing := combinator.Ahead(combinator.RawByte('/'))
	star := combinator.Seq(combinator.RawByte('*'), combinator.Not(closing))
	body := combinator.ZeroOrMore(combinator.Alt(notStar, star, rawEOL()))
	whole := combinator.Seq(combinator.RawByte('/'), combinator.RawByte('*'), body, combinator.RawByte('*'), combinator.RawByte('/'))
	return combinator.Action(whole, s.emit(BlockComment))
}

func (s *scanState) whitespace() combinator.Recognizer {
	return combinator.Action(combinator.OneOrMore(combinator.Byte(isHSpace)), s.emit(Whitespace))
}

// --- identifiers & preprocessing numbers --------------------------------

func (s *scanState) identifierSpan() combinator.Recognizer {
	return combinator.Seq(cxxChar(isIdentStart), combinator.ZeroOrMore(cxxChar(isIdentCont)))
}

func (s *scanState) identifier() combinator.Recognizer {
	return combinator.Action(s.identifierSpan(), s.emit(Identifier))
}

func (s *scanState) ppNumber() combinator.Recognizer {
	signExp := combinator.Seq(cxxChar(func(b byte) bool { return b == 'e' || b == 'E' || b == 'p' || b == 'P' }), cxxChar(func(b byte) bool { return b == '+' || b == '-' }))
	tick := combinator.Seq(cxxByte('\''), cxxChar(func(b byte) bool { return isDigit(b) || isIdentStart(b) }))
	tail := combinator.ZeroOrMore(combinator.Alt(cxxChar(isDigit), cxxChar(isIdentCont), tick, signExp))
	whole := combinator.Seq(combinator.ZeroOrOne(cxxByte('.')), cxxChar(isDigit), tail)
	return combinator.Action(whole, s.emit(Number))
}

// --- punctuators ---------------------------------------------------------

// multiCharPunctuators is tried longest-first so maximal munch falls out of
// simple left-to-right alternation.
var multiCharPunctuators = []string{
	"<=>", "...", "->*", "<<=", ">>=",
	"::", "->", "++", "--", "<<", ">>", "<=", ">=", "==", "!=",
	"&&", "||", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"##", "<:", ":>", "<%", "%>", "%:",
}

var singleCharPunctuators = "{}[]()<>%:;.?*+-/^&|~!=,#@$\\'\""

func (s *scanState) punctuator() combinator.Recognizer {
	alts := make([]combinator.Recognizer, 0, len(multiCharPunctuators)+1)
	for _, lit := range multiCharPunctuators {
		alts = append(alts, s.cxxLit(lit))
	}
	alts = append(alts, cxxChar(func(b byte) bool {
		for i := 0; i < len(singleCharPunctuators); i++ {
			if singleCharPunctuators[i] == b {
				return true
			}
		}
		return false
	}))
	return combinator.Action(combinator.Alt(alts...), s.emit(Punctuator))
}

// cxxLit matches a literal multi-byte sequence, one splice-tolerant byte at
// a time. A splice discovered by the filter mid-sequence fires its
// deleted_newline/newline action as soon as it's found; if the overall
// literal then fails to match (this wasn't actually that keyword/operator),
// the raw token list is rolled back along with the cursor so the action
// never outlives the failed speculative attempt.
func (s *scanState) cxxLit(lit string) combinator.Recognizer {
	return func(ctx *combinator.Context) bool {
		save := ctx.Pos
		rawSave := len(s.raw)
		for i := 0; i < len(lit); i++ {
			if !cxxByte(lit[i])(ctx) {
				ctx.Pos = save
				s.raw = s.raw[:rawSave]
				return false
			}
		}
		return true
	}
}

// cxxKeyword matches lit as a whole word: lit's bytes, not followed by a
// further identifier-continuation byte. The boundary check runs under Ahead
// so a splice the filter finds while probing the following byte never
// sticks around after a failed (non-word-boundary) probe.
func (s *scanState) cxxKeyword(lit string) combinator.Recognizer {
	notIdentCont := combinator.Ahead(combinator.Not(cxxChar(isIdentCont)))
	return combinator.Seq(s.cxxLit(lit), notIdentCont)
}
