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

// Package analyze folds a project tree's preprocessed, scanned sources into
// a project.BuildInfo: per-module aggregates, per-project import/export
// sets, and the project-level link dependencies module imports lift to.
package analyze

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mzdun/cxxmodgen/internal/modscan"
	"github.com/mzdun/cxxmodgen/project"
)

// Preprocessor runs a source file through the selected compiler's
// preprocessor. ok is false when the compiler could not be invoked or
// exited non-zero; the offending source is then skipped rather than
// aborting the whole analysis, matching the original analyzer's tolerance
// for a single broken translation unit. argv and stderr are populated
// whenever ok is false, so the failure can be reported with the attempted
// command line and whatever the compiler printed.
type Preprocessor interface {
	Preprocess(path string) (text, stderr []byte, argv []string, ok bool)
}

// Severity classifies a Diag. Fatal diagnostics mean the resulting
// BuildInfo should not be handed to the target synthesizer.
type Severity int

const (
	Info Severity = iota
	Warning
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Fatal:
		return "fatal"
	default:
		return "diag"
	}
}

// Diag is one analysis-time diagnostic, independent of any particular
// output format (the driver decides how to render it).
type Diag struct {
	Severity Severity
	Message  string
}

// Analyze walks every project's sources in deterministic order, preprocessing
// and scanning each one, and folds the results into a project.BuildInfo:
// module interface/implementation bookkeeping, per-project import and
// export sets, and finally the two-stage link-lifting pass that turns
// leftover module imports into project-level link dependencies.
func Analyze(projects map[project.Project]project.Setup, cxx Preprocessor, sourceDir, buildDir string) (*project.BuildInfo, []Diag) {
	var diags []Diag
	build := project.NewBuildInfo(normalizePath(sourceDir), normalizePath(buildDir))

	for _, prj := range sortedProjects(projects) {
		setup := projects[prj]
		info := project.NewInfo(setup.Subdir, setup.Sources)
		build.Projects[prj] = info

		for _, source := range setup.Sources {
			srcfile := filepath.Clean(filepath.Join(sourceDir, setup.Subdir, source))
			text, errOut, argv, ok := cxx.Preprocess(srcfile)
			if !ok {
				diags = append(diags, Diag{
					Severity: Warning,
					Message: fmt.Sprintf("%s: could not be preprocessed, skipping\ncommand: %s\n%s",
						srcfile, strings.Join(argv, " "), strings.TrimRight(string(errOut), "\n")),
				})
				continue
			}

			unit := modscan.Scan(text)
			name := project.Name{Module: unit.Name.Module, Part: unit.Name.Part}
			upath := path.Clean(path.Join(setup.Subdir, source))

			mod := build.Module(name)

			if !name.Empty() && unit.IsInterface {
				if mod.Interface != "" && mod.Interface != upath {
					diags = append(diags, Diag{
						Severity: Fatal,
						Message: fmt.Sprintf("module %s has conflicting interface units: %s and %s",
							name, mod.Interface, upath),
					})
				}
				mod.Interface = upath
				build.Exports[upath] = name
				info.Exports[name] = struct{}{}
			}

			mod.Libs[prj] = struct{}{}
			if !unit.IsInterface {
				mod.Sources = append(mod.Sources, upath)
			}

			for _, imp := range unit.Imports {
				impName := project.Name{Module: imp.Module, Part: imp.Part}
				if name != impName {
					mod.Req[impName] = struct{}{}
				}
				info.Imports[impName] = struct{}{}
				build.Imports[upath] = append(build.Imports[upath], impName)
			}
		}

		// A project's own exports satisfy its own imports before anything
		// else is considered; invariant 7 (imports ∩ exports = ∅) is
		// enforced right here, not just implied.
		for exp := range info.Exports {
			delete(info.Imports, exp)
		}
	}

	liftImportsToLinks(build)

	return build, diags
}

// liftImportsToLinks is the second, project-wide pass: any import a project
// still carries after removing its own exports is resolved against every
// OTHER project's exports. A match both records the link dependency and
// drops the import; every exporting project is recorded; invariant
// elsewhere (a module interface may not live in two projects at once,
// reported as a Fatal Diag in Analyze) is what keeps this from ever
// attaching more than one real link per module in valid input.
func liftImportsToLinks(build *project.BuildInfo) {
	projects := build.SortedProjects()
	for _, prj := range projects {
		info := build.Projects[prj]
		for _, imp := range project.SortedNameSet(info.Imports) {
			found := false
			for _, rhsPrj := range projects {
				if _, ok := build.Projects[rhsPrj].Exports[imp]; ok {
					found = true
					info.Links[rhsPrj] = struct{}{}
				}
			}
			if found {
				delete(info.Imports, imp)
			}
		}
	}
}

func sortedProjects(projects map[project.Project]project.Setup) []project.Project {
	out := make([]project.Project, 0, len(projects))
	for p := range projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// normalizePath lexically normalizes an absolute form of p, falling back to
// a plain lexical clean if it can't be made absolute (e.g. a path on a
// filesystem with no working directory).
func normalizePath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return filepath.Clean(abs)
}
