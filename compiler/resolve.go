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
	"os"
	"path/filepath"
	"strings"
)

// ResolveTool finds an executable the way a shell would: a name containing
// a path separator is used as-is, otherwise every directory on PATH is
// tried in order, appending each PATHEXT suffix in turn (an empty list on
// platforms that don't set PATHEXT, so the plain name is all that's
// tried). Returns name unchanged if nothing on PATH matches, so a caller
// can still try to exec it and report the real error.
func ResolveTool(name string) string {
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return name
	}

	exts := pathExt()
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if isRegularFile(candidate) {
			return candidate
		}
		for _, ext := range exts {
			withExt := candidate + ext
			if isRegularFile(withExt) {
				return withExt
			}
		}
	}
	return name
}

// ResolveToolchain walks the full tool-path resolution ladder for a
// triple-prefixed or versioned toolchain: <root>/<triple>-gcc-<tool>-<ver>,
// <root>/<triple>-<tool>-<ver>, <root>/<triple>-gcc-<tool>,
// <root>/<triple>-<tool>, <root>/<tool>-<ver>, <root>/<tool>, and finally
// <tool> resolved via PATH (ResolveTool's own extension probing). root,
// triple, and ver may each be empty, which simply drops the candidates that
// name them; with all three empty the ladder degenerates to a plain
// ResolveTool(tool) call.
func ResolveToolchain(root, triple, tool, ver string) string {
	var candidates []string
	add := func(name string) {
		if name == "" || root == "" {
			return
		}
		candidates = append(candidates, filepath.Join(root, name))
	}

	if triple != "" && ver != "" {
		add(triple + "-gcc-" + tool + "-" + ver)
		add(triple + "-" + tool + "-" + ver)
	}
	if triple != "" {
		add(triple + "-gcc-" + tool)
		add(triple + "-" + tool)
	}
	if ver != "" {
		add(tool + "-" + ver)
	}
	add(tool)

	for _, candidate := range candidates {
		if isRegularFile(candidate) {
			return candidate
		}
		for _, ext := range pathExt() {
			if isRegularFile(candidate + ext) {
				return candidate + ext
			}
		}
	}

	return ResolveTool(tool)
}

func pathExt() []string {
	raw := os.Getenv("PATHEXT")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, string(filepath.ListSeparator))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
