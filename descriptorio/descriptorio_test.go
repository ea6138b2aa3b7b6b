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

package descriptorio

import (
	"testing"

	"github.com/mzdun/cxxmodgen/project"
	"github.com/mzdun/cxxmodgen/vfs"
)

func TestLoadRecursesThroughDirsAndSkipsMalformedEntries(t *testing.T) {
	fs := vfs.NewMock()
	fs.AddFile("/src/sources.json", []byte(`{
		".dirs": ["lib", "app"],
		"stray": {"type": "executable"}
	}`))
	fs.AddFile("/src/lib/sources.json", []byte(`{
		"core": {"type": "module", "sources": ["core.cc", "util.cc"]},
		"unknown_type": {"type": "bogus", "sources": ["x.cc"]},
		"no_sources": {"type": "static", "sources": []}
	}`))
	fs.AddFile("/src/app/sources.json", []byte(`{
		"app": {"type": "executable", "sources": ["main.cc"]}
	}`))

	got, err := Load(fs, "/src")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	core, ok := got[project.Project{Name: "core", Kind: project.ModuleLib}]
	if !ok {
		t.Fatalf("missing core project, got %+v", got)
	}
	if core.Subdir != "lib" || len(core.Sources) != 2 {
		t.Fatalf("core setup = %+v", core)
	}

	app, ok := got[project.Project{Name: "app", Kind: project.Executable}]
	if !ok {
		t.Fatalf("missing app project, got %+v", got)
	}
	if app.Subdir != "app" || len(app.Sources) != 1 {
		t.Fatalf("app setup = %+v", app)
	}

	if _, ok := got[project.Project{Name: "stray", Kind: project.Executable}]; ok {
		t.Fatal("a project entry with no sources field should be skipped")
	}
	if _, ok := got[project.Project{Name: "unknown_type", Kind: project.StaticLib}]; ok {
		t.Fatal("a project with an unrecognized type should be skipped")
	}
	if _, ok := got[project.Project{Name: "no_sources", Kind: project.StaticLib}]; ok {
		t.Fatal("a project with no sources should be skipped")
	}
}

func TestLoadMissingDescriptorFails(t *testing.T) {
	fs := vfs.NewMock()
	if _, err := Load(fs, "/nowhere"); err == nil {
		t.Fatal("expected an error for a missing sources.json")
	}
}
