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
	"fmt"
	"strings"
)

var (
	inputEscaper = strings.NewReplacer(
		"\n", "$\n",
		" ", "$ ")
	outputEscaper = strings.NewReplacer(
		"\n", "$\n",
		" ", "$ ",
		":", "$:")
)

func escapeInputs(paths []string) []string  { return escapeAll(paths, inputEscaper) }
func escapeOutputs(paths []string) []string { return escapeAll(paths, outputEscaper) }

func escapeAll(paths []string, escaper *strings.Replacer) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = escaper.Replace(p)
	}
	return out
}

// validateName reports whether name is safe to use as a Ninja rule or pool
// identifier unescaped.
func validateName(name string) error {
	for i, r := range name {
		if !isNameRune(r) {
			return fmt.Errorf("ninja: %q contains invalid name character %q at byte offset %d", name, r, i)
		}
	}
	return nil
}

func isNameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '_' || r == '-' || r == '.'
}
