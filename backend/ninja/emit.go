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
	"io"
	"path"
	"strings"

	"github.com/mzdun/cxxmodgen/target"
)

// ruleName gives a rule kind its Ninja rule identifier. MkDir has no
// identifier at all: Ninja creates a build statement's output directories
// on its own, so a MkDir target never gets a rule block or a build
// statement of its own.
func ruleName(k target.RuleKind) string {
	switch k {
	case target.Compile:
		return "cc"
	case target.EmitBMI:
		return "bmi"
	case target.EmitInclude:
		return "inc"
	case target.Archive:
		return "ar"
	case target.LinkShared:
		return "link-so"
	case target.LinkModule:
		return "link-macos-so"
	case target.LinkExecutable:
		return "link-exe"
	default:
		return ""
	}
}

func defaultMessage(k target.RuleKind) string {
	switch k {
	case target.MkDir:
		return "Create DIR $out"
	case target.Compile:
		return "Building CXX object $out"
	case target.EmitBMI:
		return "Building CXX module interface $out"
	case target.EmitInclude:
		return "Building CXX header-module interface $out"
	case target.Archive:
		return "Linking CXX static library $out"
	case target.LinkShared:
		return "Linking CXX shared library $out"
	case target.LinkModule:
		return "Linking CXX module library $out"
	case target.LinkExecutable:
		return "Linking CXX executable $out"
	default:
		return ""
	}
}

// Emit renders the full build graph as a Ninja manifest. backToSources is
// the relative path from the build directory back to the source tree, the
// same prefix every input artifact is rooted under.
func Emit(w io.Writer, rules []target.Rule, targets []target.Target, setups []target.ProjectSetup, cxxflags, backToSources string) error {
	nw := NewWriter(w)

	if cxxflags != "" {
		if err := nw.Assign("CXXFLAGS", cxxflags); err != nil {
			return err
		}
		if err := nw.BlankLine(); err != nil {
			return err
		}
	}

	for _, rule := range rules {
		name := ruleName(rule.Kind)
		if name == "" {
			continue
		}

		if err := validateName(name); err != nil {
			return err
		}
		if err := nw.Rule(name); err != nil {
			return err
		}
		if err := nw.ScopedAssign("command", strings.Join(rule.Commands, " && ")); err != nil {
			return err
		}

		msg := rule.Message
		if msg == "" {
			msg = defaultMessage(rule.Kind)
		}
		if msg != "" {
			if err := nw.ScopedAssign("description", msg); err != nil {
				return err
			}
		}
		if err := nw.BlankLine(); err != nil {
			return err
		}
	}

	ignored := map[target.Artifact]bool{}
	for _, t := range targets {
		if t.Rule != target.MkDir {
			continue
		}
		ignored[t.MainOutput] = true
		for _, a := range t.Outputs.Expl {
			ignored[a] = true
		}
		for _, a := range t.Outputs.Impl {
			ignored[a] = true
		}
		for _, a := range t.Outputs.Order {
			ignored[a] = true
		}
	}

	for _, t := range targets {
		name := ruleName(t.Rule)
		if name == "" {
			continue
		}

		outputs := []string{resolvePath(setups, t.MainOutput, backToSources)}
		for _, out := range t.Outputs.Expl {
			outputs = append(outputs, resolvePath(setups, out, backToSources))
		}

		var implicitOuts []string
		for _, out := range t.Outputs.Impl {
			implicitOuts = append(implicitOuts, resolvePath(setups, out, backToSources))
		}
		for _, out := range t.Outputs.Order {
			implicitOuts = append(implicitOuts, resolvePath(setups, out, backToSources))
		}

		var explicitDeps []string
		for _, in := range t.Inputs.Expl {
			if ignored[in] {
				continue
			}
			explicitDeps = append(explicitDeps, resolvePath(setups, in, backToSources))
		}

		var implicitDeps []string
		for _, in := range t.Inputs.Impl {
			if ignored[in] {
				continue
			}
			implicitDeps = append(implicitDeps, resolvePath(setups, in, backToSources))
		}

		var orderOnlyDeps []string
		for _, in := range t.Inputs.Order {
			if ignored[in] {
				continue
			}
			orderOnlyDeps = append(orderOnlyDeps, resolvePath(setups, in, backToSources))
		}

		err := nw.Build("", name,
			escapeOutputs(outputs), escapeOutputs(implicitOuts),
			escapeInputs(explicitDeps), escapeInputs(implicitDeps), escapeInputs(orderOnlyDeps),
			nil)
		if err != nil {
			return err
		}
	}

	return nil
}

// resolvePath turns an artifact into the path a Ninja build statement
// should spell it with: a module artifact already carries its final BMI
// path; a plain file is rooted under back-to-sources for an input, under
// the project's private object directory for an output, or under the
// project's own subdirectory for a linked artifact.
func resolvePath(setups []target.ProjectSetup, a target.Artifact, backToSources string) string {
	if a.Kind == target.ModuleArtifact {
		return a.Mod.Path
	}

	if a.File.Kind == target.External {
		return a.File.Path
	}

	setup := setups[a.File.Setup]
	switch a.File.Kind {
	case target.Input:
		return path.Join(backToSources, setup.Subdir, a.File.Path)
	case target.Linked:
		return path.Join(setup.Subdir, a.File.Path)
	default: // target.Output
		return path.Join(setup.Subdir, setup.Objdir, a.File.Path)
	}
}
