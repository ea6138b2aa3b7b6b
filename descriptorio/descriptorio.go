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

// Package descriptorio loads the project tree out of sources.json files:
// one per directory, each naming either a set of sub-directories to recurse
// into or a set of projects rooted in that directory.
package descriptorio

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/mzdun/cxxmodgen/project"
	"github.com/mzdun/cxxmodgen/vfs"
)

// descriptor is the raw sources.json shape: either a ".dirs" array of
// sub-directory names, or a map of project name to its own declaration.
// Both may appear in the same file.
type descriptor map[string]json.RawMessage

type projectDecl struct {
	Type    string   `json:"type"`
	Sources []string `json:"sources"`
}

var kindByTag = map[string]project.Kind{
	"executable": project.Executable,
	"static":     project.StaticLib,
	"shared":     project.SharedLib,
	"module":     project.ModuleLib,
}

// Load walks sourceDir recursively, reading a sources.json from every
// directory it or a ".dirs" entry names, and returns every project it finds
// keyed by identity. A directory naming no .dirs and no valid project
// entries simply contributes nothing, matching the original loader's
// "skip silently" treatment of absent or malformed entries.
func Load(fs vfs.FS, sourceDir string) (map[project.Project]project.Setup, error) {
	result := map[project.Project]project.Setup{}
	if err := loadDirectory(fs, result, sourceDir, sourceDir); err != nil {
		return nil, err
	}
	return result, nil
}

func loadDirectory(fs vfs.FS, result map[project.Project]project.Setup, current, sourceDir string) error {
	subdir := relSubdir(current, sourceDir)

	jsonPath := path.Join(current, "sources.json")
	r, err := fs.Open(jsonPath)
	if err != nil {
		return fmt.Errorf("descriptorio: cannot open %s: %w", jsonPath, err)
	}
	defer r.Close()

	var doc descriptor
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("descriptorio: parsing %s: %w", jsonPath, err)
	}

	for key, raw := range doc {
		if key == ".dirs" {
			var subdirs []string
			if err := json.Unmarshal(raw, &subdirs); err != nil {
				continue
			}
			for _, d := range subdirs {
				if err := loadDirectory(fs, result, path.Join(current, d), sourceDir); err != nil {
					return err
				}
			}
			continue
		}

		var decl projectDecl
		if err := json.Unmarshal(raw, &decl); err != nil {
			continue
		}
		kind, ok := kindByTag[decl.Type]
		if !ok || len(decl.Sources) == 0 {
			continue
		}

		result[project.Project{Name: key, Kind: kind}] = project.Setup{
			Subdir:  subdir,
			Sources: append([]string(nil), decl.Sources...),
		}
	}

	return nil
}

// relSubdir mirrors fs::relative(current, source_dir): the empty string
// when current *is* source_dir, or the portion of current below it
// otherwise. Paths here are afs URLs (slash-separated), not OS paths, so
// this is a plain prefix trim rather than filepath.Rel.
func relSubdir(current, sourceDir string) string {
	clean := path.Clean(current)
	root := path.Clean(sourceDir)
	if clean == root {
		return ""
	}
	if rest := strings.TrimPrefix(clean, root+"/"); rest != clean {
		return rest
	}
	return clean
}
