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

package compiler

import (
	"context"
	"fmt"
	"strings"
)

// Probe names one compiler vendor's identifying preprocessor guard: the
// #if condition under which it's the active compiler, and the macros to
// print (once guarded) that spell out its id and version. Detect chains
// every registered Probe into one #if/#elif/.../#endif ladder and asks the
// preprocessor itself which branch applies, exactly the way the original
// detector avoids hand-maintaining a compiler/version matrix of its own.
type Probe struct {
	ID            string
	IfMacro       string
	VersionMacros string
}

// DefaultProbes covers the three compiler families the XML descriptors in
// this tool's ecosystem are expected to target.
var DefaultProbes = []Probe{
	{ID: "gcc", IfMacro: "defined(__GNUC__) && !defined(__clang__)",
		VersionMacros: "__GNUC__ __GNUC_MINOR__ __GNUC_PATCHLEVEL__"},
	{ID: "clang", IfMacro: "defined(__clang__)",
		VersionMacros: "__clang_major__ __clang_minor__ __clang_patchlevel__"},
	{ID: "msvc", IfMacro: "defined(_MSC_VER)",
		VersionMacros: "_MSC_VER"},
}

// Detect spawns cxx as `cxx -E -o- -xc++ -`, feeding it a synthetic
// #if/#elif ladder built from probes on stdin, and reads back whichever
// branch the preprocessor kept: the first token on the surviving line is
// the matching Probe's ID, the rest is its raw version-macro expansion.
// ok is false if the compiler couldn't be run or matched no probe at all.
func Detect(ctx context.Context, cxx string, probes []Probe) (id, version string, ok bool) {
	var probe strings.Builder
	control := "#if"
	for _, p := range probes {
		fmt.Fprintf(&probe, "%s %s\n%s %s\n", control, p.IfMacro, p.ID, p.VersionMacros)
		control = "#elif"
	}
	if len(probes) > 0 {
		probe.WriteString("#endif\n")
	}

	out, _, ranOK := Exec(ctx, []string{cxx, "-E", "-o-", "-xc++", "-"}, []byte(probe.String()))
	if !ranOK {
		return "", "", false
	}

	text := strings.TrimSpace(stripDirectivesAndBlankLines(out))
	if text == "" {
		return "", "", false
	}

	sp := strings.IndexAny(text, " \t")
	if sp < 0 {
		return text, "", true
	}
	return text[:sp], strings.TrimSpace(text[sp:]), true
}

// stripDirectivesAndBlankLines drops everything from '#' to end of line on
// every line (the preprocessor's own line-marker directives) and removes
// lines left empty afterwards, the same cleanup compiler_type performs
// before parsing its surviving text.
func stripDirectivesAndBlankLines(raw []byte) string {
	lines := strings.Split(string(raw), "\n")
	var out []string
	for _, line := range lines {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
