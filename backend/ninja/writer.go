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

// Package ninja renders a target.Target/target.Rule/target.ProjectSetup
// graph as a Ninja build file.
package ninja

import (
	"io"
	"strings"
	"unicode"
)

const (
	indentWidth    = 4
	maxIndentDepth = 2
	lineWidth      = 80
)

var indentString = strings.Repeat(" ", indentWidth*maxIndentDepth)

// Writer is a low-level Ninja syntax emitter: it knows how to lay out rule
// and build blocks and how to wrap long lines with Ninja's "$\n"
// continuation, but nothing about what a rule or build statement means.
type Writer struct {
	w io.Writer

	justDidBlankLine bool
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (n *Writer) Comment(comment string) error {
	n.justDidBlankLine = false

	const lineHeaderLen = len("# ")
	const maxLineLen = lineWidth - lineHeaderLen

	var lineStart, lastSplitPoint int
	for i, r := range comment {
		if unicode.IsSpace(r) {
			lastSplitPoint = i + 1
		}

		var line string
		var writeLine bool
		switch {
		case r == '\n':
			line = strings.TrimRightFunc(comment[lineStart:i], unicode.IsSpace)
			writeLine = true
		case (i-lineStart > maxLineLen) && (lastSplitPoint > lineStart):
			line = strings.TrimSpace(comment[lineStart:lastSplitPoint])
			writeLine = true
		}

		if writeLine {
			line = strings.TrimSpace("# "+line) + "\n"
			if _, err := io.WriteString(n.w, line); err != nil {
				return err
			}
			lineStart = lastSplitPoint
		}
	}

	if lineStart != len(comment) {
		line := strings.TrimSpace(comment[lineStart:])
		if _, err := io.WriteString(n.w, "# "+line+"\n"); err != nil {
			return err
		}
	}

	return nil
}

func (n *Writer) Rule(name string) error {
	n.justDidBlankLine = false
	_, err := io.WriteString(n.w, "rule "+name+"\n")
	return err
}

// Build writes one Ninja build statement. validations carries the `|@`
// validation-only dependency list Ninja supports alongside the ordinary
// explicit/implicit/order-only ones.
func (n *Writer) Build(comment, rule string, outputs, implicitOuts,
	explicitDeps, implicitDeps, orderOnlyDeps, validations []string) error {

	n.justDidBlankLine = false

	const lineWrapLen = len(" $")
	const maxLineLen = lineWidth - lineWrapLen

	wrapper := writerWithWrap{Writer: n, maxLineLen: maxLineLen}

	if comment != "" {
		if err := wrapper.Comment(comment); err != nil {
			return err
		}
	}

	wrapper.WriteString("build")

	for _, output := range outputs {
		wrapper.WriteStringWithSpace(output)
	}

	if len(implicitOuts) > 0 {
		wrapper.WriteStringWithSpace("|")
		for _, out := range implicitOuts {
			wrapper.WriteStringWithSpace(out)
		}
	}

	wrapper.WriteString(":")
	wrapper.WriteStringWithSpace(rule)

	for _, dep := range explicitDeps {
		wrapper.WriteStringWithSpace(dep)
	}

	if len(implicitDeps) > 0 {
		wrapper.WriteStringWithSpace("|")
		for _, dep := range implicitDeps {
			wrapper.WriteStringWithSpace(dep)
		}
	}

	if len(orderOnlyDeps) > 0 {
		wrapper.WriteStringWithSpace("||")
		for _, dep := range orderOnlyDeps {
			wrapper.WriteStringWithSpace(dep)
		}
	}

	if len(validations) > 0 {
		wrapper.WriteStringWithSpace("|@")
		for _, dep := range validations {
			wrapper.WriteStringWithSpace(dep)
		}
	}

	return wrapper.Flush()
}

func (n *Writer) Assign(name, value string) error {
	n.justDidBlankLine = false
	_, err := io.WriteString(n.w, name+" = "+value+"\n")
	return err
}

func (n *Writer) ScopedAssign(name, value string) error {
	n.justDidBlankLine = false
	_, err := io.WriteString(n.w, indentString[:indentWidth]+name+" = "+value+"\n")
	return err
}

func (n *Writer) Default(targets ...string) error {
	n.justDidBlankLine = false

	const lineWrapLen = len(" $")
	const maxLineLen = lineWidth - lineWrapLen

	wrapper := writerWithWrap{Writer: n, maxLineLen: maxLineLen}
	wrapper.WriteString("default")
	for _, t := range targets {
		wrapper.WriteString(" " + t)
	}
	return wrapper.Flush()
}

func (n *Writer) BlankLine() (err error) {
	if !n.justDidBlankLine {
		n.justDidBlankLine = true
		_, err = io.WriteString(n.w, "\n")
	}
	return err
}

type writerWithWrap struct {
	*Writer
	maxLineLen int
	writtenLen int
	err        error
}

func (n *writerWithWrap) writeString(s string, space bool) {
	if n.err != nil {
		return
	}

	spaceLen := 0
	if space {
		spaceLen = 1
	}

	if n.writtenLen+len(s)+spaceLen > n.maxLineLen {
		if _, n.err = io.WriteString(n.w, " $\n"); n.err != nil {
			return
		}
		if _, n.err = io.WriteString(n.w, indentString[:indentWidth*2]); n.err != nil {
			return
		}
		n.writtenLen = indentWidth * 2
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
	} else if space {
		if _, n.err = io.WriteString(n.w, " "); n.err != nil {
			return
		}
		n.writtenLen++
	}

	_, n.err = io.WriteString(n.w, s)
	n.writtenLen += len(s)
}

func (n *writerWithWrap) WriteString(s string)          { n.writeString(s, false) }
func (n *writerWithWrap) WriteStringWithSpace(s string) { n.writeString(s, true) }

func (n *writerWithWrap) Flush() error {
	if n.err != nil {
		return n.err
	}
	_, err := io.WriteString(n.w, "\n")
	return err
}
