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

package combinator

import "testing"

func run(t *testing.T, r Recognizer, src string) (bool, int) {
	t.Helper()
	ctx := &Context{Src: []byte(src)}
	ok := r(ctx)
	return ok, ctx.Pos
}

func TestSeqRollsBackOnFailure(t *testing.T) {
	r := Seq(RawByte('a'), RawByte('b'), RawByte('c'))
	if ok, pos := run(t, r, "abx"); ok || pos != 0 {
		t.Fatalf("got ok=%v pos=%d, want ok=false pos=0", ok, pos)
	}
}

func TestAltFirstWins(t *testing.T) {
	r := Alt(Lit("int"), Lit("in"))
	if ok, pos := run(t, r, "in"); !ok || pos != 2 {
		t.Fatalf("got ok=%v pos=%d, want ok=true pos=2", ok, pos)
	}
}

func TestDiffExcludesRight(t *testing.T) {
	r := Diff(AnyByte(), RawByte('*'))
	if ok, _ := run(t, r, "*"); ok {
		t.Fatalf("Diff should reject when the excluded alternative matches")
	}
	if ok, pos := run(t, r, "x"); !ok || pos != 1 {
		t.Fatalf("got ok=%v pos=%d, want ok=true pos=1", ok, pos)
	}
}

func TestNotConsumesNothing(t *testing.T) {
	r := Not(RawByte('a'))
	if ok, pos := run(t, r, "a"); ok || pos != 0 {
		t.Fatalf("got ok=%v pos=%d, want ok=false pos=0", ok, pos)
	}
	if ok, pos := run(t, r, "b"); !ok || pos != 0 {
		t.Fatalf("got ok=%v pos=%d, want ok=true pos=0", ok, pos)
	}
}

func TestAheadDoesNotConsumeOrEmit(t *testing.T) {
	var fired int
	inner := Action(RawByte('a'), func(ctx *Context, start, end int) { fired++ })
	r := Ahead(inner)
	if ok, pos := run(t, r, "a"); !ok || pos != 0 {
		t.Fatalf("got ok=%v pos=%d, want ok=true pos=0", ok, pos)
	}
	if fired != 0 {
		t.Fatalf("action fired %d times under Ahead, want 0", fired)
	}
}

func TestRepetitionOperators(t *testing.T) {
	digit := Byte(func(b byte) bool { return b >= '0' && b <= '9' })

	if ok, pos := run(t, ZeroOrMore(digit), "123a"); !ok || pos != 3 {
		t.Fatalf("ZeroOrMore: got ok=%v pos=%d", ok, pos)
	}
	if ok, pos := run(t, ZeroOrMore(digit), "a"); !ok || pos != 0 {
		t.Fatalf("ZeroOrMore on no matches: got ok=%v pos=%d", ok, pos)
	}
	if ok, _ := run(t, OneOrMore(digit), "a"); ok {
		t.Fatalf("OneOrMore should fail with zero matches")
	}
	if ok, pos := run(t, Exactly(3, digit), "12a"); ok || pos != 0 {
		t.Fatalf("Exactly(3): got ok=%v pos=%d, want ok=false pos=0", ok, pos)
	}
	if ok, pos := run(t, Between(1, 2, digit), "123"); !ok || pos != 2 {
		t.Fatalf("Between(1,2): got ok=%v pos=%d, want ok=true pos=2", ok, pos)
	}
}

func TestCharClassConsultsFilterOnce(t *testing.T) {
	ws := Byte(func(b byte) bool { return b == ' ' })
	filter := ZeroOrMore(ws)

	letter := CharClass(func(b byte) bool { return b >= 'a' && b <= 'z' })
	ctx := &Context{Src: []byte("   x"), Filter: filter}
	if !letter(ctx) {
		t.Fatalf("CharClass should skip leading filter bytes before matching")
	}
	if ctx.Pos != 4 {
		t.Fatalf("got pos=%d, want 4", ctx.Pos)
	}
}

func TestActionFiresMatchedRange(t *testing.T) {
	var gotStart, gotEnd int
	r := Action(Lit("module"), func(ctx *Context, start, end int) {
		gotStart, gotEnd = start, end
	})
	ctx := &Context{Src: []byte("module m;")}
	if !r(ctx) {
		t.Fatalf("expected match")
	}
	if gotStart != 0 || gotEnd != 6 {
		t.Fatalf("got range [%d,%d), want [0,6)", gotStart, gotEnd)
	}
}
