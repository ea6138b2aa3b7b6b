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

// Package msbuild renders the build graph as a set of Visual Studio
// vcxproj/sln files, for driving the same compile the Ninja back end
// drives through MSBuild instead.
package msbuild

import (
	"path"

	"github.com/mzdun/cxxmodgen/project"
	"github.com/mzdun/cxxmodgen/target"
)

// VsSource is one ClCompile entry: its path relative to the solution root,
// and - if it's a module interface unit - the module name MSBuild needs to
// tag it CompileAsCppModule.
type VsSource struct {
	Path    string
	Exports string
}

// VsProject is everything one vcxproj needs: its identity, its output
// kind, its compile units, and the GUIDs of the projects it links
// against.
type VsProject struct {
	Guid     string
	Name     string
	Kind     project.Kind
	Sources  []VsSource
	RefGuids []string
}

// BuildProjects derives one VsProject per project in build, in the same
// deterministic project order target.RegisterProjects assigned setup ids
// in, deriving each project's GUID from its linked artifact path the way
// the original keys projects by a hash of their output name rather than a
// freshly minted id, so repeated runs against the same binary directory
// keep assigning the same GUIDs.
func BuildProjects(build *project.BuildInfo, setups []target.ProjectSetup, ids map[string]int, backToSources, binaryDir string) []VsProject {
	guids := NewGuids(binaryDir)

	var projects []VsProject
	for _, prj := range build.SortedProjects() {
		info := build.Projects[prj]
		setup := setups[ids[prj.Name]]

		name := path.Join(setup.Subdir, prj.Filename())
		vp := VsProject{
			Guid: guids.Get(name),
			Name: name,
			Kind: prj.Kind,
		}

		for _, filename := range info.Sources {
			srcpath := path.Clean(path.Join(info.Subdir, filename))
			var exports string
			if modName, ok := build.Exports[srcpath]; ok {
				exports = modName.String()
			}
			vp.Sources = append(vp.Sources, VsSource{
				Path:    path.Join(backToSources, setup.Subdir, filename),
				Exports: exports,
			})
		}

		for _, dep := range project.SortedProjectSet(info.Links) {
			depSetup := setups[ids[dep.Name]]
			depName := path.Join(depSetup.Subdir, dep.Filename())
			vp.RefGuids = append(vp.RefGuids, guids.Get(depName))
		}

		projects = append(projects, vp)
	}
	return projects
}

// configurationType maps a project's output kind to the vcxproj
// <ConfigurationType> MSBuild expects. ModuleLib has no native VS project
// type of its own - same as the original, which falls back to "Utility"
// for anything it doesn't special-case.
func configurationType(k project.Kind) string {
	switch k {
	case project.Executable:
		return "Application"
	case project.StaticLib:
		return "StaticLibrary"
	case project.SharedLib:
		return "DynamicLibrary"
	default:
		return "Utility"
	}
}

// findProject looks up a project by GUID, for resolving a RefGuids entry
// back to the dependency's name when rendering a ProjectReference.
func findProject(projects []VsProject, guid string) (VsProject, bool) {
	for _, p := range projects {
		if p.Guid == guid {
			return p, true
		}
	}
	return VsProject{}, false
}
