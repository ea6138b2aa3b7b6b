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

// tryModuleMarkers recognizes the C++20 "export", "module" and "import"
// contextual keywords, but only where they can actually introduce a
// module-declaration or import-declaration: as the first meaningful token
// of a line, or immediately following a just-recognized "export" on the
// same line. Everywhere else "module"/"import"/"export" fall through and
// tokenize as plain identifiers.
//
// A module_name wrapper token (spec.md §4.B) is deliberately not emitted:
// the scanner (internal/modscan) recovers the same information by reading
// the identifier/punctuator/header-name tokens that follow a marker up to
// the terminating ';', which is what the reference implementation's
// within(name_start, name_end) filter amounts to after its own
// is_decl-based token removal pass — without requiring a second, and
// overlapping, marker span. See DESIGN.md.
func (s *scanState) tryModuleMarkers(ctx *combinator.Context) bool {
	// Horizontal whitespace after a marker leaves its context in place; the
	// whitespace itself is tokenized by the caller.
	if (s.afterExport || s.afterImport) && ctx.Pos < len(ctx.Src) && isHSpace(ctx.Src[ctx.Pos]) {
		return false
	}
	if s.afterImport {
		s.afterImport = false
		if s.headerName()(ctx) {
			return true
		}
	}

	wasAfterExport := s.afterExport
	s.afterExport = false
	if wasAfterExport {
		if combinator.Action(s.cxxKeyword("module"), s.emit(ModuleDecl))(ctx) {
			return true
		}
		if combinator.Action(s.cxxKeyword("import"), s.emit(ModuleImport))(ctx) {
			s.afterImport = true
			return true
		}
		return false
	}

	if !s.atLineStart {
		return false
	}
	if combinator.Action(s.cxxKeyword("export"), s.emit(ModuleExport))(ctx) {
		s.afterExport = true
		return true
	}
	if combinator.Action(s.cxxKeyword("module"), s.emit(ModuleDecl))(ctx) {
		return true
	}
	if combinator.Action(s.cxxKeyword("import"), s.emit(ModuleImport))(ctx) {
		s.afterImport = true
		return true
	}
	return false
}

// headerName recognizes a <h-char-sequence> or "q-char-sequence" header
// name. It is only ever attempted directly after a recognized import
// marker, since '<' and '"' are ordinary punctuator/string-literal starts
// everywhere else.
func (s *scanState) headerName() combinator.Recognizer {
	return func(ctx *combinator.Context) bool {
		if ctx.Pos >= len(ctx.Src) {
			return false
		}
		start := ctx.Pos
		var closer byte
		var kind Kind
		switch ctx.Src[ctx.Pos] {
		case '<':
			closer, kind = '>', SystemHeaderName
		case '"':
			closer, kind = '"', LocalHeaderName
		default:
			return false
		}
		end := -1
		for i := ctx.Pos + 1; i < len(ctx.Src); i++ {
			if ctx.Src[i] == '\n' || ctx.Src[i] == '\r' {
				break
			}
			if ctx.Src[i] == closer {
				end = i
				break
			}
		}
		if end < 0 {
			return false
		}
		ctx.Pos = end + 1
		if !ctx.ActionsSuppressed() {
			s.raw = append(s.raw, rawToken{start, ctx.Pos, kind})
			s.atLineStart = false
		}
		return true
	}
}

// controlLine recognizes a preprocessor directive line (# directive ...),
// tagging the directive name and, for #define, the macro name; the
// replacement text is kept as a single opaque token since macro expansion
// is out of scope. Embedded deleted line-splices keep the directive going
// across physical lines.
func (s *scanState) controlLine() combinator.Recognizer {
	return func(ctx *combinator.Context) bool {
		if !s.atLineStart || ctx.Pos >= len(ctx.Src) || ctx.Src[ctx.Pos] != '#' {
			return false
		}
		start := ctx.Pos
		ctx.Pos++
		if !ctx.ActionsSuppressed() {
			s.raw = append(s.raw, rawToken{start, ctx.Pos, Punctuator})
		}

		skipHSpace := func() {
			wsStart := ctx.Pos
			for ctx.Pos < len(ctx.Src) && isHSpace(ctx.Src[ctx.Pos]) {
				ctx.Pos++
			}
			if ctx.Pos > wsStart && !ctx.ActionsSuppressed() {
				s.raw = append(s.raw, rawToken{wsStart, ctx.Pos, Whitespace})
			}
		}
		skipHSpace()

		dirStart := ctx.Pos
		for ctx.Pos < len(ctx.Src) && isIdentCont(ctx.Src[ctx.Pos]) {
			ctx.Pos++
		}
		directive := string(ctx.Src[dirStart:ctx.Pos])
		if ctx.Pos > dirStart && !ctx.ActionsSuppressed() {
			s.raw = append(s.raw, rawToken{dirStart, ctx.Pos, PreprocessorIdentifier})
		}

		if directive == "define" {
			skipHSpace()
			nameStart := ctx.Pos
			for ctx.Pos < len(ctx.Src) && isIdentCont(ctx.Src[ctx.Pos]) {
				ctx.Pos++
			}
			if ctx.Pos > nameStart && !ctx.ActionsSuppressed() {
				s.raw = append(s.raw, rawToken{nameStart, ctx.Pos, MacroName})
			}
		}

		bodyStart := ctx.Pos
		for ctx.Pos < len(ctx.Src) {
			c := ctx.Src[ctx.Pos]
			if c == '\\' && ctx.Pos+1 < len(ctx.Src) && (ctx.Src[ctx.Pos+1] == '\n' || ctx.Src[ctx.Pos+1] == '\r') {
				if ctx.Pos > bodyStart && !ctx.ActionsSuppressed() {
					s.raw = append(s.raw, rawToken{bodyStart, ctx.Pos, MacroReplacement})
				}
				spliceStart := ctx.Pos
				ctx.Pos++
				eolStart := ctx.Pos
				if ctx.Src[ctx.Pos] == '\r' {
					ctx.Pos++
					if ctx.Pos < len(ctx.Src) && ctx.Src[ctx.Pos] == '\n' {
						ctx.Pos++
					}
				} else {
					ctx.Pos++
				}
				if !ctx.ActionsSuppressed() {
					s.raw = append(s.raw, rawToken{spliceStart, eolStart, DeletedNewline})
					s.raw = append(s.raw, rawToken{eolStart, ctx.Pos, Newline})
				}
				bodyStart = ctx.Pos
				continue
			}
			if c == '\n' || c == '\r' {
				break
			}
			ctx.Pos++
		}
		if ctx.Pos > bodyStart && !ctx.ActionsSuppressed() {
			s.raw = append(s.raw, rawToken{bodyStart, ctx.Pos, MacroReplacement})
		}
		s.atLineStart = false
		return true
	}
}
