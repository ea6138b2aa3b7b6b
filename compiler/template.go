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

import "strings"

// Template expands $name and ${name} placeholders in s against vars. It is
// the same "$var" scanning idiom the Ninja file writer uses for its own
// variable references, simplified to a single flat scope: a compiler
// descriptor's variable set ($in, $out, $cxx, ...) never nests the way a
// Ninja build file's scoped variables do, so there is no enclosing-scope
// chain to walk.
func Template(s string, vars map[string]string) string {
	var out strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		if c != '$' || i+1 >= len(s) {
			out.WriteByte(c)
			i++
			continue
		}
		i++
		switch s[i] {
		case '$':
			out.WriteByte('$')
			i++
		case '{':
			end := strings.IndexByte(s[i:], '}')
			if end < 0 {
				out.WriteString("${")
				i++
				continue
			}
			name := s[i+1 : i+end]
			out.WriteString(vars[name])
			i += end + 1
		default:
			start := i
			for i < len(s) && isVarByte(s[i]) {
				i++
			}
			out.WriteString(vars[s[start:i]])
		}
	}
	return out.String()
}

func isVarByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// TemplateAll expands every element of argv against vars, for a whole
// command line at once.
func TemplateAll(argv []string, vars map[string]string) []string {
	out := make([]string, len(argv))
	for i, a := range argv {
		out[i] = Template(a, vars)
	}
	return out
}
