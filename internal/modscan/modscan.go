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

// Package modscan extracts a translation unit's module identity and its
// import set from a preprocessing-token stream produced by internal/cxxtoken.
package modscan

import "github.com/mzdun/cxxmodgen/internal/cxxtoken"

// Name identifies a module, optionally qualified down to one of its
// partitions.
type Name struct {
	Module string
	Part   string
}

// Import is one import-declaration found in a unit, after partition names
// have been resolved against the enclosing module (see Scan).
type Import struct {
	Module string
	Part   string
}

// Unit is the result of scanning one translation unit: its own module
// identity (the zero Name if the unit carries no module declaration at all,
// e.g. a legacy source with only #include directives), whether its
// declaration was an export (interface unit), and its normalized imports.
type Unit struct {
	Name        Name
	IsInterface bool
	Imports     []Import
}

var closers = map[byte]byte{'{': '}', '(': ')'}

// Scan tokenizes src and extracts its module_unit. A malformed module
// declaration (an unrecognized token inside it, or two partition markers)
// is dropped silently, per spec: scanner failures stay local to the
// offending declaration rather than aborting the scan.
func Scan(src []byte) Unit {
	s := &scanner{src: src}
	cxxtoken.Tokenize(src, s.onLine)
	s.normalize()
	return s.unit
}

type scanner struct {
	src   []byte
	brack []byte // stack of expected closing brackets
	// tokens of lines ending in a deleted splice, at absolute offsets
	carry []cxxtoken.Token
	unit  Unit
}

func (s *scanner) onLine(line cxxtoken.Line) {
	// A line ending in a deleted line-splice continues on the next physical
	// line, so its tokens are held back and scanned together with that line.
	toks, spliced := s.carry, false
	for _, t := range line.Tokens {
		spliced = spliced || t.Kind == cxxtoken.DeletedNewline
		toks = append(toks, cxxtoken.Token{Start: line.Offset + t.Start, End: line.Offset + t.End, Kind: t.Kind})
	}
	if spliced {
		s.carry = toks
		return
	}
	s.carry = nil
	line = cxxtoken.Line{Tokens: toks}

	if len(s.brack) == 0 && startsModuleDecl(line) {
		s.onModuleLine(line)
		return
	}
	s.trackBrackets(line)
}

// startsModuleDecl reports whether the first token on the line that is not
// whitespace, a comment, or a splice artifact is one of the contextual
// export/module/import markers. Leading whitespace doesn't disqualify a
// line the way it would in a sparse syntax highlighter, matching
// cxxtoken's own atLineStart handling (see that package's module.go).
func startsModuleDecl(line cxxtoken.Line) bool {
	for _, t := range line.Tokens {
		switch t.Kind {
		case cxxtoken.Whitespace, cxxtoken.LineComment, cxxtoken.BlockComment,
			cxxtoken.DeletedNewline, cxxtoken.Newline:
			continue
		case cxxtoken.ModuleExport, cxxtoken.ModuleDecl, cxxtoken.ModuleImport:
			return true
		default:
			return false
		}
	}
	return false
}

func (s *scanner) trackBrackets(line cxxtoken.Line) {
	for _, t := range line.Tokens {
		if t.Kind != cxxtoken.Punctuator {
			continue
		}
		text := line.Slice(s.src, t)
		if len(text) != 1 {
			continue
		}
		if close, ok := closers[text[0]]; ok {
			s.brack = append(s.brack, close)
			continue
		}
		switch text[0] {
		case '}', ')':
			s.popBracket(text[0])
		}
	}
}

// popBracket matches a closing bracket against the stack. A mismatched
// close (e.g. a macro-mangled "} // namespace)" artifact) doesn't wedge the
// tracker forever: a scan from the top for any matching entry truncates the
// stack down to just below it, tolerating the occasional brace that a
// preprocessing-token-only view can't fully account for.
func (s *scanner) popBracket(close byte) {
	for i := len(s.brack) - 1; i >= 0; i-- {
		if s.brack[i] == close {
			s.brack = s.brack[:i]
			return
		}
	}
}

// onModuleLine extracts a module_export/module_decl/module_import
// declaration. Unlike the sparse-highlighter the scanner is grounded on,
// every byte on the line is tokenized (there are no implicit unhighlighted
// gaps), so whitespace and comments between the marker and the terminating
// ';' are skipped explicitly rather than relied upon to never appear.
func (s *scanner) onModuleLine(line cxxtoken.Line) {
	var isExport, isDecl, isImport, legacyHeader bool
	var moduleName, partName []byte
	dest := &moduleName

tokens:
	for _, t := range line.Tokens {
		switch t.Kind {
		case cxxtoken.ModuleExport:
			isExport = true
		case cxxtoken.ModuleDecl:
			isDecl = true
		case cxxtoken.ModuleImport:
			isImport = true
		case cxxtoken.Whitespace, cxxtoken.LineComment, cxxtoken.BlockComment,
			cxxtoken.DeletedNewline, cxxtoken.Newline:
			// gaps the original sparse highlighter never surfaced as tokens
		case cxxtoken.Identifier:
			*dest = append(*dest, line.Slice(s.src, t)...)
		case cxxtoken.SystemHeaderName, cxxtoken.LocalHeaderName:
			legacyHeader = true
			*dest = append(*dest, line.Slice(s.src, t)...)
		case cxxtoken.Punctuator:
			text := line.Slice(s.src, t)
			if len(text) != 1 {
				return // malformed: no multi-char punctuator belongs here
			}
			switch text[0] {
			case ';':
				break tokens
			case ':':
				if dest == &partName {
					return // two partition markers: drop the declaration
				}
				dest = &partName
			case '.':
				*dest = append(*dest, '.')
			default:
				return
			}
		default:
			return
		}
	}

	name := string(moduleName)
	part := string(partName)

	if isDecl {
		s.unit.IsInterface = isExport
		if !isExport {
			s.unit.Imports = append(s.unit.Imports, Import{Module: name, Part: part})
		}
		s.unit.Name = Name{Module: name, Part: part}
		return
	}
	if isImport {
		if legacyHeader {
			if name != "" && part == "" {
				s.unit.Imports = append(s.unit.Imports, Import{Module: name})
			}
			return
		}
		s.unit.Imports = append(s.unit.Imports, Import{Module: name, Part: part})
	}
}

// normalize resolves partition-only imports ("import :part;") against the
// enclosing unit's own module name, and drops anything that still can't
// name a module afterwards: a partition import whose module field was
// already set explicitly (a cross-module partition reference has no
// meaning) or whose enclosing unit has no module declaration to resolve
// against at all.
func (s *scanner) normalize() {
	out := s.unit.Imports[:0]
	for _, imp := range s.unit.Imports {
		if imp.Part != "" {
			if imp.Module != "" || s.unit.Name.Module == "" {
				continue
			}
			imp.Module = s.unit.Name.Module
		}
		if imp.Module == "" {
			continue
		}
		out = append(out, imp)
	}
	s.unit.Imports = out
}
