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
	"path"
	"strings"

	"github.com/mzdun/cxxmodgen/project"
	"github.com/mzdun/cxxmodgen/target"
)

// Synth turns a project.BuildInfo into the full target graph this
// descriptor drives: per source, a pure source node, an optional
// standalone EMIT_BMI target, and a COMPILE target (carrying a
// side-effect BMI output instead when this compiler isn't standalone);
// per project, one link/archive target via target.CreateProjectTarget.
// Only rules at least one target actually needs are materialized. locate
// resolves legacy-header imports to an on-disk path (see HeaderLocator);
// passing nil leaves every header-module import unresolved, the same as a
// descriptor whose include-path discovery recipe found nothing.
func Synth(build *project.BuildInfo, d *Descriptor, locate HeaderLocator) ([]target.Target, []target.Rule, []target.ProjectSetup) {
	bin := NewBinaryInterface(d.BMI)
	setups, ids := target.RegisterProjects(build)

	var targets []target.Target
	var needed target.RuleSet
	headersTried := map[string]bool{}

	for _, prj := range build.SortedProjects() {
		info := build.Projects[prj]
		setupID := ids[prj.Name]

		for _, filename := range info.Sources {
			srcpath := path.Clean(path.Join(info.Subdir, filename))
			objfile := filename + ".o"

			imports, hasImports := build.Imports[srcpath]
			exportName, isInterface := build.Exports[srcpath]

			targets = append(targets, target.Target{
				MainOutput: target.Artifact{
					Kind: target.FileArtifact,
					File: target.FileRef{Setup: setupID, Path: filename, Kind: target.Input},
				},
			})

			if bin.Standalone() && isInterface {
				needed.Add(target.EmitBMI)
				bmi := target.Target{
					Rule: target.EmitBMI,
					MainOutput: target.Artifact{
						Kind: target.ModuleArtifact,
						Mod:  target.ModRef{Mod: exportName, Path: bin.AsInterface(exportName)},
					},
				}
				bmi.Inputs.Expl = append(bmi.Inputs.Expl, target.Artifact{
					Kind: target.FileArtifact,
					File: target.FileRef{Setup: setupID, Path: filename, Kind: target.Input},
				})
				if mod, ok := build.Modules[exportName]; ok {
					for _, req := range project.SortedNameSet(mod.Req) {
						bmi.Inputs.Order = append(bmi.Inputs.Order, bin.FromModule(req))
					}
				}
				targets = append(targets, bmi)
			}

			needed.Add(target.Compile)
			object := target.Target{
				Rule: target.Compile,
				MainOutput: target.Artifact{
					Kind: target.FileArtifact,
					File: target.FileRef{Setup: setupID, Path: objfile},
				},
			}
			if !bin.Standalone() && isInterface {
				object.Outputs.Impl = append(object.Outputs.Impl, target.Artifact{
					Kind: target.ModuleArtifact,
					Mod:  target.ModRef{Mod: exportName, Path: bin.AsInterface(exportName)},
				})
				object.Edge = exportName.String()
			}
			object.Inputs.Expl = append(object.Inputs.Expl, target.Artifact{
				Kind: target.FileArtifact,
				File: target.FileRef{Setup: setupID, Path: filename, Kind: target.Input},
			})
			if hasImports {
				for _, imp := range project.SortedNames(append([]project.Name(nil), imports...)) {
					if isLegacyHeader(imp.Module) && !headersTried[imp.Module] {
						headersTried[imp.Module] = true
						if incTarget, ok := synthIncludeTarget(bin, locate, imp); ok {
							needed.Add(target.EmitInclude)
							targets = append(targets, incTarget)
						}
					}
					object.Inputs.Order = append(object.Inputs.Order, bin.FromModule(imp))
				}
			}
			targets = append(targets, object)
		}

		library := target.CreateProjectTarget(build, prj, info, ids)
		needed.Add(library.Rule)
		targets = append(targets, library)
	}

	rules := target.AddRules(needed, func(k target.RuleKind) ([]string, string) {
		profile, ok := d.Rules[k]
		if !ok {
			return nil, ""
		}
		return flattenCommands(profile.Commands), profile.Message
	})

	return targets, rules, setups
}

// synthIncludeTarget builds the EMIT_INCLUDE target that produces a legacy
// header's canonicalized BMI artifact (per BinaryInterface.FromModule's
// naming), with the header's real on-disk path - found via locate - as its
// one explicit input. ok is false whenever locate is nil or can't find the
// header, in which case no target is built and the header stays an
// unresolved order-only reference, same as before header routing existed.
func synthIncludeTarget(bin *BinaryInterface, locate HeaderLocator, header project.Name) (target.Target, bool) {
	if locate == nil {
		return target.Target{}, false
	}
	path, found := locate(header.Module)
	if !found {
		return target.Target{}, false
	}
	t := target.Target{
		Rule:       target.EmitInclude,
		MainOutput: bin.FromModule(header),
	}
	t.Inputs.Expl = append(t.Inputs.Expl, target.Artifact{
		Kind: target.FileArtifact,
		File: target.FileRef{Path: path, Kind: target.External},
	})
	return t, true
}

// flattenCommands joins each command's argv into one space-separated
// template string; $-placeholders are left intact and are not expanded
// by Template here or in any back end.
func flattenCommands(cmds [][]string) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = strings.Join(c, " ")
	}
	return out
}
