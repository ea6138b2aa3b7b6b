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

// Package project holds the data model shared by the analyzer and the
// target synthesizer: project identity and kind, module names, and the
// per-project/per-module aggregates the analyzer folds scan results into.
package project

import "sort"

// Kind is a project's output type, closed per the descriptor format.
type Kind int

const (
	Executable Kind = iota
	StaticLib
	SharedLib
	ModuleLib
)

var prefixes = [...]string{"", "lib", "lib", "lib"}
var suffixes = [...]string{"", ".a", ".so", ".mod"}

// Project identifies a buildable unit by name and kind; it is comparable
// and used directly as a map key throughout the analyzer and synthesizer.
type Project struct {
	Name string
	Kind Kind
}

// Filename derives the on-disk output name: prefix[Kind] + Name + suffix[Kind],
// Unix-style defaults (an OS profile may override at the back-end level).
func (p Project) Filename() string {
	return prefixes[p.Kind] + p.Name + suffixes[p.Kind]
}

func (p Project) Less(o Project) bool {
	if p.Name != o.Name {
		return p.Name < o.Name
	}
	return p.Kind < o.Kind
}

// Setup is a project's filesystem layout as read from its descriptor: the
// subdirectory it lives in and its source paths, relative to that subdir.
type Setup struct {
	Subdir  string
	Sources []string
}

// Name identifies a module, optionally down to one of its partitions. The
// zero Name ("global", both fields empty) keys translation units that
// carry no module declaration at all.
type Name struct {
	Module string
	Part   string
}

// String renders "module[:part]", matching the C++ source's own
// spelling convention.
func (n Name) String() string {
	if n.Part == "" {
		return n.Module
	}
	return n.Module + ":" + n.Part
}

// Empty reports whether both fields are unset.
func (n Name) Empty() bool { return n.Module == "" && n.Part == "" }

func (n Name) Less(o Name) bool {
	if n.Module != o.Module {
		return n.Module < o.Module
	}
	return n.Part < o.Part
}

// Info is the per-project aggregate the analyzer produces: its layout plus
// the module names it exports, the ones it still imports externally after
// link-lifting, and the projects it links against.
type Info struct {
	Subdir  string
	Sources []string
	Exports map[Name]struct{}
	Imports map[Name]struct{}
	Links   map[Project]struct{}
}

func NewInfo(subdir string, sources []string) *Info {
	return &Info{
		Subdir:  subdir,
		Sources: append([]string(nil), sources...),
		Exports: map[Name]struct{}{},
		Imports: map[Name]struct{}{},
		Links:   map[Project]struct{}{},
	}
}

// ModuleInfo is the per-module aggregate: where its interface lives (if
// any), the implementation sources feeding it, the modules it requires
// (excluding itself), and the projects that contribute a source to it.
type ModuleInfo struct {
	Interface string
	Sources   []string
	Req       map[Name]struct{}
	Libs      map[Project]struct{}
}

func NewModuleInfo() *ModuleInfo {
	return &ModuleInfo{
		Req:  map[Name]struct{}{},
		Libs: map[Project]struct{}{},
	}
}

// BuildInfo is the full analyzer output: the normalized source/binary
// roots, the module and project aggregates, and the raw per-source import
// and export records the synthesizer consults directly.
type BuildInfo struct {
	SourceRoot string
	BinaryRoot string
	Modules    map[Name]*ModuleInfo
	Projects   map[Project]*Info
	Imports    map[string][]Name
	Exports    map[string]Name
}

func NewBuildInfo(sourceRoot, binaryRoot string) *BuildInfo {
	return &BuildInfo{
		SourceRoot: sourceRoot,
		BinaryRoot: binaryRoot,
		Modules:    map[Name]*ModuleInfo{},
		Projects:   map[Project]*Info{},
		Imports:    map[string][]Name{},
		Exports:    map[string]Name{},
	}
}

// Module returns, creating on first use, the aggregate for name. The
// analyzer reaches each scanned unit's own module through this accessor, so
// even the zero Name gets an entry, matching the original scanner's "the
// zero module_info is a valid, queryable value" behavior. A module that is
// only imported, never declared, gets no entry.
func (b *BuildInfo) Module(name Name) *ModuleInfo {
	m, ok := b.Modules[name]
	if !ok {
		m = NewModuleInfo()
		b.Modules[name] = m
	}
	return m
}

// SortedModules returns every known module name in the deterministic total
// order §5 requires of all map iteration.
func (b *BuildInfo) SortedModules() []Name {
	out := make([]Name, 0, len(b.Modules))
	for n := range b.Modules {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// SortedProjects returns every known project in deterministic order.
func (b *BuildInfo) SortedProjects() []Project {
	out := make([]Project, 0, len(b.Projects))
	for p := range b.Projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// SortedNames sorts an arbitrary slice of module names in place and
// returns it, for callers rendering a set as a deterministic list.
func SortedNames(names []Name) []Name {
	sort.Slice(names, func(i, j int) bool { return names[i].Less(names[j]) })
	return names
}

// SortedProjectSet renders a project set (as produced by link-lifting) as
// a deterministic slice.
func SortedProjectSet(set map[Project]struct{}) []Project {
	out := make([]Project, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// SortedNameSet renders a module-name set as a deterministic slice.
func SortedNameSet(set map[Name]struct{}) []Name {
	out := make([]Name, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	return SortedNames(out)
}
