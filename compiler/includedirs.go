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
	"os"
	"path/filepath"
	"strings"
)

// DiscoverIncludeDirs runs a compiler descriptor's include-path discovery
// recipe and returns the system search directories it reports: spawn the
// $-templated command, read whichever stream spec.UseStdout selects, find
// the line containing FilterStart, and collect every trimmed line after it
// up to (not including) the one containing FilterStop. A recipe that fails
// to run, or whose output never carries a FilterStart line, yields no
// directories - callers treat that the same as a compiler with no
// discovery recipe at all, leaving legacy-header imports unresolved rather
// than aborting the whole run.
func DiscoverIncludeDirs(ctx context.Context, cxx string, spec IncludeDirs) []string {
	if len(spec.Command) == 0 {
		return nil
	}
	argv := TemplateAll(spec.Command, map[string]string{"CXX": cxx})
	stdout, stderr, ok := Exec(ctx, argv, nil)
	if !ok {
		return nil
	}

	out := stdout
	if !spec.UseStdout {
		out = stderr
	}
	return parseIncludeDirs(string(out), spec.FilterStart, spec.FilterStop)
}

func parseIncludeDirs(text, start, stop string) []string {
	var dirs []string
	inList := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !inList {
			if start != "" && strings.Contains(trimmed, start) {
				inList = true
			}
			continue
		}
		if stop != "" && strings.Contains(trimmed, stop) {
			break
		}
		if trimmed != "" {
			dirs = append(dirs, trimmed)
		}
	}
	return dirs
}

// HeaderLocator resolves a legacy-header import's raw, delimiter-carrying
// spelling (e.g. "<vector>" or "\"config.h\"") to a path on disk. A nil
// HeaderLocator, or one that never reports found, leaves every
// legacy-header import unresolved - the same as a compiler descriptor with
// no include-path discovery recipe.
type HeaderLocator func(header string) (path string, found bool)

// NewHeaderLocator builds a HeaderLocator that searches dirs in order,
// matching the first one that actually contains the header file.
func NewHeaderLocator(dirs []string) HeaderLocator {
	return func(header string) (string, bool) {
		name := stripHeaderDelims(header)
		if name == "" {
			return "", false
		}
		for _, dir := range dirs {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
		return "", false
	}
}

func stripHeaderDelims(header string) string {
	if len(header) < 2 {
		return ""
	}
	switch header[0] {
	case '<':
		if header[len(header)-1] == '>' {
			return header[1 : len(header)-1]
		}
	case '"':
		if header[len(header)-1] == '"' {
			return header[1 : len(header)-1]
		}
	}
	return ""
}
