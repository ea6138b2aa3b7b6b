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
	"sort"

	"github.com/mzdun/cxxmodgen/internal/combinator"
)

// Tokenize scans src for preprocessing tokens and invokes onLine once per
// physical line, in source order, with that line's tokens.
//
// Line boundaries are computed in a pass over the raw bytes, independent of
// the grammar: this lets a block comment or raw string literal swallow an
// embedded physical newline as ordinary content (the C++ standard says
// nothing stops one from spanning several lines) while still letting every
// other line start its own Line record, without the newline ever belonging
// to two tokens at once.
func Tokenize(src []byte, onLine func(Line)) {
	s := newScanState(src)
	ctx := &combinator.Context{Src: src}
	ctx.Filter = s.spliceFilter()

	for ctx.Pos < len(src) {
		if s.step(ctx) {
			continue
		}
		// No recognizer matched (a stray control byte outside any grammar
		// production): consume it as a single punctuator-kind token rather
		// than stall the scan.
		start := ctx.Pos
		ctx.Pos++
		s.raw = append(s.raw, rawToken{start, ctx.Pos, Punctuator})
		s.atLineStart = false
	}

	for _, l := range s.buildLines(src) {
		onLine(l)
	}
}

// step tries each top-level recognizer in turn at the current position.
// Every attempt is wrapped so that a recognizer which partially matches
// through a deleted-splice filter hit and then ultimately fails never
// leaves that splice's tokens behind in s.raw: ctx.Pos and s.raw are both
// snapshotted before the attempt and restored together on failure.
func (s *scanState) step(ctx *combinator.Context) bool {
	try := func(r combinator.Recognizer) bool {
		save, rawSave := ctx.Pos, len(s.raw)
		if r(ctx) {
			return true
		}
		ctx.Pos, s.raw = save, s.raw[:rawSave]
		return false
	}

	if try(func(ctx *combinator.Context) bool {
		if !rawEOL()(ctx) {
			return false
		}
		s.atLineStart = true
		s.afterExport = false
		s.afterImport = false
		return true
	}) {
		return true
	}
	if try(s.controlLine()) {
		return true
	}
	if try(s.tryModuleMarkers) {
		return true
	}
	if try(s.blockComment()) {
		return true
	}
	if try(s.lineComment()) {
		return true
	}
	if try(s.whitespace()) {
		return true
	}
	if try(s.charLiteral()) {
		return true
	}
	if try(s.rawStringLiteral()) {
		return true
	}
	if try(s.stringLiteral()) {
		return true
	}
	if try(s.ppNumber()) {
		return true
	}
	if try(s.identifier()) {
		return true
	}
	if try(s.punctuator()) {
		return true
	}
	return false
}

type boundary struct{ start, end int }

func computeBoundaries(src []byte) []boundary {
	var bs []boundary
	for i := 0; i < len(src); {
		switch src[i] {
		case '\r':
			if i+1 < len(src) && src[i+1] == '\n' {
				bs = append(bs, boundary{i, i + 2})
				i += 2
				continue
			}
			bs = append(bs, boundary{i, i + 1})
			i++
		case '\n':
			bs = append(bs, boundary{i, i + 1})
			i++
		default:
			i++
		}
	}
	return bs
}

// splitAcrossBoundaries rebases s.raw into a flat, line-boundary-respecting
// token list: any token whose span crosses one or more physical line
// terminators is cut into same-kind fragments that each stop short of the
// terminator, and every terminator not already covered by an explicit
// deleted_newline/newline pair gets a synthesized newline token of its own.
func (s *scanState) splitAcrossBoundaries(src []byte) []rawToken {
	sort.Slice(s.raw, func(i, j int) bool {
		if s.raw[i].Start != s.raw[j].Start {
			return s.raw[i].Start < s.raw[j].Start
		}
		return s.raw[i].End < s.raw[j].End
	})
	bounds := computeBoundaries(src)

	out := make([]rawToken, 0, len(s.raw)+len(bounds))
	bi := 0
	emitUncoveredUpTo := func(limit int) {
		for bi < len(bounds) && bounds[bi].end <= limit {
			out = append(out, rawToken{bounds[bi].start, bounds[bi].end, Newline})
			bi++
		}
	}

	for _, t := range s.raw {
		emitUncoveredUpTo(t.Start)

		if t.Kind == Newline {
			// Already the content half of a deleted-splice pair: passes
			// through untouched, and its matching boundary is consumed so
			// it isn't synthesized a second time.
			out = append(out, t)
			for bi < len(bounds) && bounds[bi].start >= t.Start && bounds[bi].end <= t.End {
				bi++
			}
			continue
		}

		cur := t.Start
		for bi < len(bounds) && bounds[bi].start >= cur && bounds[bi].start < t.End {
			b := bounds[bi]
			if b.start > cur {
				out = append(out, rawToken{cur, b.start, t.Kind})
			}
			cur = b.end
			bi++
		}
		if cur < t.End {
			out = append(out, rawToken{cur, t.End, t.Kind})
		}
	}
	emitUncoveredUpTo(len(src))

	// A fragment cut at a deleted splice still reaches over the splice's
	// backslash, and the splice pair sorts after the fragments of the token
	// it interrupts: restore source order and trim the overlap.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	trimmed := out[:0]
	for i, t := range out {
		if i+1 < len(out) && t.End > out[i+1].Start {
			t.End = out[i+1].Start
		}
		if t.End > t.Start {
			trimmed = append(trimmed, t)
		}
	}
	return trimmed
}

func (s *scanState) buildLines(src []byte) []Line {
	flat := s.splitAcrossBoundaries(src)
	bounds := computeBoundaries(src)

	var lines []Line
	lineStart := 0
	ti := 0
	appendLine := func(lineEnd, nextStart int) {
		var toks []Token
		for ti < len(flat) && flat[ti].Start < nextStart {
			t := flat[ti]
			toks = append(toks, Token{t.Start - lineStart, t.End - lineStart, t.Kind})
			ti++
		}
		lines = append(lines, Line{Offset: lineStart, Size: lineEnd - lineStart, Tokens: toks})
		lineStart = nextStart
	}

	for _, b := range bounds {
		appendLine(b.start, b.end)
	}
	if lineStart < len(src) {
		var toks []Token
		for ti < len(flat) {
			t := flat[ti]
			toks = append(toks, Token{t.Start - lineStart, t.End - lineStart, t.Kind})
			ti++
		}
		lines = append(lines, Line{Offset: lineStart, Size: len(src) - lineStart, Tokens: toks})
	}
	return lines
}
