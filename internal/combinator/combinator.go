// Copyright 2014 Google Inc. All rights reserved.
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

// Package combinator is a small, attributeless parser-combinator kernel over
// byte slices. A Recognizer consumes a forward cursor held in a Context: it
// either advances Context.Pos on success, or leaves it untouched on failure.
// Composition (sequence, alternative, difference, negation, lookahead,
// repetition, semantic actions) is built entirely out of that one contract,
// the way a hand-written recursive-descent scanner is, rather than through
// compile-time expression templates.
package combinator

// Context carries the cursor over Src plus the scan-wide state a Recognizer
// may need: a Filter recognizer consulted by CharClass before testing a
// byte, and the range of the most recently fired semantic action.
type Context struct {
	Src []byte
	Pos int

	// Filter is consulted by CharClass to skip whitespace/comments before
	// testing the next byte. It must be built from Byte/Seq/Alt primitives,
	// never from CharClass itself — the filter is never recursive with
	// itself.
	Filter Recognizer

	// actionsDisabled is set for the duration of an Ahead() subtree so that
	// speculative lookahead never double-emits tokens. Restored on every
	// exit path, including a failed parse.
	actionsDisabled bool

	// RangeStart/RangeEnd hold the span of the most recent Action firing.
	RangeStart, RangeEnd int
}

// Recognizer is the single operation every combinator exposes.
type Recognizer func(ctx *Context) bool

// ActionsSuppressed reports whether the context is inside a lookahead
// subtree, for recognizers that need to special-case it (e.g. a raw-string
// flag that must not stick after a failed speculative parse).
func (c *Context) ActionsSuppressed() bool { return c.actionsDisabled }

// Byte matches a single byte against pred without consulting the filter.
// It is the primitive used to build filters themselves.
func Byte(pred func(b byte) bool) Recognizer {
	return func(ctx *Context) bool {
		if ctx.Pos >= len(ctx.Src) {
			return false
		}
		if !pred(ctx.Src[ctx.Pos]) {
			return false
		}
		ctx.Pos++
		return true
	}
}

// CharClass first runs the active filter to advance past skippable bytes,
// then tests the single next byte against pred. On failure Pos is restored
// to where it stood before the filter ran, preserving every Recognizer's
// contract that a failed match never advances the cursor.
func CharClass(pred func(b byte) bool) Recognizer {
	return func(ctx *Context) bool {
		save := ctx.Pos
		if ctx.Filter != nil {
			ctx.Filter(ctx)
		}
		if Byte(pred)(ctx) {
			return true
		}
		ctx.Pos = save
		return false
	}
}

// LitByte matches one exact byte, applying the filter first.
func LitByte(b byte) Recognizer {
	return CharClass(func(c byte) bool { return c == b })
}

// RawByte matches one exact byte without consulting the filter.
func RawByte(b byte) Recognizer {
	return Byte(func(c byte) bool { return c == b })
}

// Lit matches a literal string, applying the filter before the first byte
// only (matching the teacher convention that multi-byte tokens filter once
// at their head, not between internal bytes).
func Lit(s string) Recognizer {
	return func(ctx *Context) bool {
		save := ctx.Pos
		if ctx.Filter != nil {
			ctx.Filter(ctx)
		}
		for i := 0; i < len(s); i++ {
			if ctx.Pos >= len(ctx.Src) || ctx.Src[ctx.Pos] != s[i] {
				ctx.Pos = save
				return false
			}
			ctx.Pos++
		}
		return true
	}
}

// AnyByte matches any single remaining byte, raw (no filter).
func AnyByte() Recognizer {
	return Byte(func(byte) bool { return true })
}

// EOF succeeds, without consuming, when the cursor is at the end of Src.
func EOF() Recognizer {
	return func(ctx *Context) bool { return ctx.Pos >= len(ctx.Src) }
}

// Seq runs each operand in order; if any fails, Pos rolls back to where the
// sequence started and the whole sequence fails.
func Seq(parts ...Recognizer) Recognizer {
	return func(ctx *Context) bool {
		save := ctx.Pos
		for _, p := range parts {
			if !p(ctx) {
				ctx.Pos = save
				return false
			}
		}
		return true
	}
}

// Alt tries each operand in order and stops at the first success.
func Alt(parts ...Recognizer) Recognizer {
	return func(ctx *Context) bool {
		save := ctx.Pos
		for _, p := range parts {
			if p(ctx) {
				return true
			}
			ctx.Pos = save
		}
		return false
	}
}

// Diff matches a only when b would not match at the same position.
func Diff(a, b Recognizer) Recognizer {
	return func(ctx *Context) bool {
		save := ctx.Pos
		if b(ctx) {
			ctx.Pos = save
			return false
		}
		ctx.Pos = save
		return a(ctx)
	}
}

// Not succeeds iff subject fails; it never consumes input.
func Not(subject Recognizer) Recognizer {
	return func(ctx *Context) bool {
		save := ctx.Pos
		ok := subject(ctx)
		ctx.Pos = save
		return !ok
	}
}

// Ahead parses subject but never consumes, and suppresses semantic actions
// for the duration of the attempt so speculative parses don't double-emit.
func Ahead(subject Recognizer) Recognizer {
	return func(ctx *Context) bool {
		save := ctx.Pos
		prevDisabled := ctx.actionsDisabled
		ctx.actionsDisabled = true
		ok := subject(ctx)
		ctx.actionsDisabled = prevDisabled
		ctx.Pos = save
		return ok
	}
}

// ZeroOrMore always succeeds, consuming as many matches of subject as
// possible.
func ZeroOrMore(subject Recognizer) Recognizer {
	return func(ctx *Context) bool {
		for subject(ctx) {
		}
		return true
	}
}

// OneOrMore requires at least one match of subject.
func OneOrMore(subject Recognizer) Recognizer {
	return func(ctx *Context) bool {
		if !subject(ctx) {
			return false
		}
		for subject(ctx) {
		}
		return true
	}
}

// ZeroOrOne always succeeds, consuming subject once if it matches.
func ZeroOrOne(subject Recognizer) Recognizer {
	return func(ctx *Context) bool {
		subject(ctx)
		return true
	}
}

// Exactly requires precisely n matches of subject, rolling back entirely on
// a short count.
func Exactly(n int, subject Recognizer) Recognizer {
	return func(ctx *Context) bool {
		save := ctx.Pos
		for i := 0; i < n; i++ {
			if !subject(ctx) {
				ctx.Pos = save
				return false
			}
		}
		return true
	}
}

// AtLeast requires at least n matches, consuming as many as are available.
func AtLeast(n int, subject Recognizer) Recognizer {
	return func(ctx *Context) bool {
		save := ctx.Pos
		count := 0
		for subject(ctx) {
			count++
		}
		if count < n {
			ctx.Pos = save
			return false
		}
		return true
	}
}

// Between requires between lo and hi (inclusive) matches of subject.
func Between(lo, hi int, subject Recognizer) Recognizer {
	return func(ctx *Context) bool {
		save := ctx.Pos
		count := 0
		for count < hi && subject(ctx) {
			count++
		}
		if count < lo {
			ctx.Pos = save
			return false
		}
		return true
	}
}

// Action attaches a semantic action: on a successful parse of subject, fn is
// invoked with the matched byte range unless actions are currently
// suppressed (inside an Ahead subtree).
func Action(subject Recognizer, fn func(ctx *Context, start, end int)) Recognizer {
	return func(ctx *Context) bool {
		start := ctx.Pos
		if !subject(ctx) {
			return false
		}
		end := ctx.Pos
		if !ctx.actionsDisabled && fn != nil {
			ctx.RangeStart, ctx.RangeEnd = start, end
			fn(ctx, start, end)
		}
		return true
	}
}
