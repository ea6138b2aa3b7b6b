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

import "github.com/mzdun/cxxmodgen/internal/combinator"

// encodingPrefix matches one of the four string/character encoding prefixes
// (u8, u, U, L), longest first, emitting kind.
func (s *scanState) encodingPrefix(kind Kind) combinator.Recognizer {
	return combinator.Action(combinator.Alt(s.cxxLit("u8"), s.cxxLit("u"), s.cxxLit("U"), s.cxxLit("L")), s.emit(kind))
}

// escapeOrUCN matches one escape-sequence or universal-character-name
// starting at the current position, emitting the matching kind. Used inside
// both character and string literal content.
func (s *scanState) escapeOrUCN() combinator.Recognizer {
	simple := cxxChar(func(b byte) bool {
		switch b {
		case '\'', '"', '?', '\\', 'a', 'b', 'f', 'n', 'r', 't', 'v':
			return true
		}
		return false
	})
	octal := combinator.Between(1, 3, cxxChar(func(b byte) bool { return b >= '0' && b <= '7' }))
	hex := combinator.Seq(cxxByte('x'), combinator.OneOrMore(cxxChar(isHexDigit)))
	escape := combinator.Action(combinator.Seq(cxxByte('\\'), combinator.Alt(simple, hex, octal)), s.emit(EscapeSequence))

	ucn4 := combinator.Seq(cxxByte('u'), combinator.Exactly(4, cxxChar(isHexDigit)))
	ucn8 := combinator.Seq(cxxByte('U'), combinator.Exactly(8, cxxChar(isHexDigit)))
	ucn := combinator.Action(combinator.Seq(cxxByte('\\'), combinator.Alt(ucn8, ucn4)), s.emit(UniversalCharacterName))

	return combinator.Alt(ucn, escape)
}

// udlSuffix matches an optional user-defined-literal identifier suffix.
func (s *scanState) udlSuffix() combinator.Recognizer {
	return combinator.Action(s.identifierSpan(), s.emit(s.udlKind))
}

// charLiteral recognizes an (optionally prefixed) character literal:
// encoding? ' c-char* '.
func (s *scanState) charLiteral() combinator.Recognizer {
	return func(ctx *combinator.Context) bool {
		save := ctx.Pos
		rawSave := len(s.raw)
		fail := func() bool {
			ctx.Pos = save
			s.raw = s.raw[:rawSave]
			return false
		}
		combinator.ZeroOrOne(s.encodingPrefix(CharEncoding))(ctx)
		openStart := ctx.Pos
		if !combinator.RawByte('\'')(ctx) {
			return fail()
		}
		if !ctx.ActionsSuppressed() {
			s.raw = append(s.raw, rawToken{openStart, ctx.Pos, CharDelim})
		}
		for {
			if ctx.Pos >= len(ctx.Src) {
				return fail()
			}
			if ctx.Src[ctx.Pos] == '\'' {
				break
			}
			if ctx.Src[ctx.Pos] == '\\' {
				if !s.escapeOrUCN()(ctx) {
					// Malformed escape: consume the backslash as content and
					// keep going rather than aborting the whole literal.
					combinator.Action(cxxByte('\\'), s.emit(Character))(ctx)
				}
				continue
			}
			if ctx.Src[ctx.Pos] == '\n' || ctx.Src[ctx.Pos] == '\r' {
				return fail()
			}
			runStart := ctx.Pos
			for ctx.Pos < len(ctx.Src) && ctx.Src[ctx.Pos] != '\'' && ctx.Src[ctx.Pos] != '\\' && ctx.Src[ctx.Pos] != '\n' && ctx.Src[ctx.Pos] != '\r' {
				ctx.Pos++
			}
			if ctx.Pos > runStart && !ctx.ActionsSuppressed() {
				s.raw = append(s.raw, rawToken{runStart, ctx.Pos, Character})
			}
		}
		closeStart := ctx.Pos
		ctx.Pos++
		if !ctx.ActionsSuppressed() {
			s.raw = append(s.raw, rawToken{closeStart, ctx.Pos, CharDelim})
		}
		s.udlKind = CharUDL
		combinator.ZeroOrOne(s.udlSuffix())(ctx)
		if !ctx.ActionsSuppressed() {
			s.atLineStart = false
		}
		return true
	}
}

// stringLiteral recognizes an (optionally prefixed) ordinary string literal:
// encoding? " s-char* ".
func (s *scanState) stringLiteral() combinator.Recognizer {
	return func(ctx *combinator.Context) bool {
		save := ctx.Pos
		rawSave := len(s.raw)
		fail := func() bool {
			ctx.Pos = save
			s.raw = s.raw[:rawSave]
			return false
		}
		combinator.ZeroOrOne(s.encodingPrefix(StringEncoding))(ctx)
		openStart := ctx.Pos
		if !combinator.RawByte('"')(ctx) {
			return fail()
		}
		if !ctx.ActionsSuppressed() {
			s.raw = append(s.raw, rawToken{openStart, ctx.Pos, StringDelim})
		}
		for {
			if ctx.Pos >= len(ctx.Src) {
				return fail()
			}
			if ctx.Src[ctx.Pos] == '"' {
				break
			}
			if ctx.Src[ctx.Pos] == '\\' {
				if !s.escapeOrUCN()(ctx) {
					combinator.Action(cxxByte('\\'), s.emit(String))(ctx)
				}
				continue
			}
			if ctx.Src[ctx.Pos] == '\n' || ctx.Src[ctx.Pos] == '\r' {
				return fail()
			}
			runStart := ctx.Pos
			for ctx.Pos < len(ctx.Src) && ctx.Src[ctx.Pos] != '"' && ctx.Src[ctx.Pos] != '\\' && ctx.Src[ctx.Pos] != '\n' && ctx.Src[ctx.Pos] != '\r' {
				ctx.Pos++
			}
			if ctx.Pos > runStart && !ctx.ActionsSuppressed() {
				s.raw = append(s.raw, rawToken{runStart, ctx.Pos, String})
			}
		}
		closeStart := ctx.Pos
		ctx.Pos++
		if !ctx.ActionsSuppressed() {
			s.raw = append(s.raw, rawToken{closeStart, ctx.Pos, StringDelim})
		}
		s.udlKind = StringUDL
		combinator.ZeroOrOne(s.udlSuffix())(ctx)
		if !ctx.ActionsSuppressed() {
			s.atLineStart = false
		}
		return true
	}
}

// rawStringLiteral recognizes encoding? R" delim ( ... ) delim " udl?. The
// closing sequence depends on the delimiter captured at the opening, so
// (unlike the other literal rules) this is matched procedurally rather than
// through static combinator composition — the same way a hand-written
// recursive-descent scanner would handle it.
func (s *scanState) rawStringLiteral() combinator.Recognizer {
	return func(ctx *combinator.Context) bool {
		save := ctx.Pos
		rawSave := len(s.raw)
		fail := func() bool {
			ctx.Pos = save
			s.raw = s.raw[:rawSave]
			return false
		}
		combinator.ZeroOrOne(s.encodingPrefix(StringEncoding))(ctx)
		openStart := ctx.Pos
		if !combinator.Seq(combinator.RawByte('R'), combinator.RawByte('"'))(ctx) {
			return fail()
		}
		delimStart := ctx.Pos
		for ctx.Pos < len(ctx.Src) && ctx.Src[ctx.Pos] != '(' && ctx.Src[ctx.Pos] != ' ' &&
			ctx.Src[ctx.Pos] != '\t' && ctx.Src[ctx.Pos] != '\n' && ctx.Src[ctx.Pos] != '\r' &&
			ctx.Src[ctx.Pos] != ')' && ctx.Src[ctx.Pos] != '\\' && delimStart+16 > ctx.Pos {
			ctx.Pos++
		}
		delim := string(ctx.Src[delimStart:ctx.Pos])
		if ctx.Pos >= len(ctx.Src) || ctx.Src[ctx.Pos] != '(' {
			return fail()
		}
		if !ctx.ActionsSuppressed() {
			s.raw = append(s.raw, rawToken{openStart, ctx.Pos, StringDelim})
		}
		ctx.Pos++ // '('
		closer := ")" + delim + "\""
		contentStart := ctx.Pos
		idx := indexFrom(ctx.Src, ctx.Pos, closer)
		if idx < 0 {
			return fail()
		}
		if idx > contentStart && !ctx.ActionsSuppressed() {
			s.raw = append(s.raw, rawToken{contentStart, idx, RawString})
		}
		closeStart := idx
		ctx.Pos = idx + len(closer)
		if !ctx.ActionsSuppressed() {
			s.raw = append(s.raw, rawToken{closeStart, ctx.Pos, StringDelim})
		}
		s.udlKind = StringUDL
		combinator.ZeroOrOne(s.udlSuffix())(ctx)
		if !ctx.ActionsSuppressed() {
			s.atLineStart = false
		}
		return true
	}
}

func indexFrom(src []byte, from int, needle string) int {
	for i := from; i+len(needle) <= len(src); i++ {
		if string(src[i:i+len(needle)]) == needle {
			return i
		}
	}
	return -1
}
