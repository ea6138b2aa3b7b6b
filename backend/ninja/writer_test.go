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

package ninja

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriterRuleAndScopedAssign(t *testing.T) {
	var buf bytes.Buffer
	nw := NewWriter(&buf)

	if err := nw.Rule("cc"); err != nil {
		t.Fatal(err)
	}
	if err := nw.ScopedAssign("command", "c++ -c $in -o $out"); err != nil {
		t.Fatal(err)
	}

	want := "rule cc\n    command = c++ -c $in -o $out\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestWriterBuildWritesDepsInOrder(t *testing.T) {
	var buf bytes.Buffer
	nw := NewWriter(&buf)

	err := nw.Build("", "cc", []string{"a.o"}, nil, []string{"a.cc"}, nil, []string{"bmi/core.pcm"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	if !strings.Contains(got, "build a.o: cc a.cc || bmi/core.pcm") {
		t.Fatalf("got %q", got)
	}
}

func TestWriterBlankLineCoalesces(t *testing.T) {
	var buf bytes.Buffer
	nw := NewWriter(&buf)

	if err := nw.BlankLine(); err != nil {
		t.Fatal(err)
	}
	if err := nw.BlankLine(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\n" {
		t.Fatalf("expected a single blank line, got %q", buf.String())
	}
}

func TestWriterCommentWrapsLongLines(t *testing.T) {
	var buf bytes.Buffer
	nw := NewWriter(&buf)

	long := strings.Repeat("word ", 30)
	if err := nw.Comment(long); err != nil {
		t.Fatal(err)
	}

	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		if len(line) > lineWidth {
			t.Fatalf("line too long: %q", line)
		}
		if !strings.HasPrefix(line, "# ") {
			t.Fatalf("expected comment prefix, got %q", line)
		}
	}
}
