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

// Package dot renders a target.Target graph as a Graphviz dependency
// diagram: one node per real build edge, shaped by its rule kind, with
// solid edges for explicit/implicit inputs and dashed edges for
// order-only (module/header) dependencies.
package dot

import (
	"fmt"
	"io"

	"github.com/mzdun/cxxmodgen/target"
)

func shapeFor(k target.RuleKind) string {
	switch k {
	case target.NoRule:
		return "house"
	case target.EmitBMI, target.EmitInclude:
		return "hexagon"
	case target.Archive:
		return "septagon"
	case target.LinkShared:
		return "pentagon"
	case target.LinkModule:
		return "octagon"
	case target.LinkExecutable:
		return "rect"
	default:
		return ""
	}
}

func printable(a target.Artifact) string {
	if a.Kind == target.ModuleArtifact {
		return a.Mod.Path
	}
	return a.File.Path
}

// Emit writes a Graphviz digraph to w. Only MkDir targets are ignorable
// here: a directory-creation step has nothing interesting to draw and
// never needs a node. A pure source node (NoRule) still gets its own
// house-shaped node — the diagram's whole point is showing which source
// feeds which compiled artifact.
func Emit(w io.Writer, targets []target.Target) error {
	if _, err := io.WriteString(w, "digraph {\n"+
		"    node [fontname=\"Atkinson Hyperlegible\"]\n"+
		"    edge [fontname=\"Atkinson Hyperlegible\"]\n"+
		"\n"); err != nil {
		return err
	}

	ignored := map[target.Artifact]bool{}
	nodeIDs := map[target.Artifact]string{}
	counter := 0

	for _, t := range targets {
		if ignorable(t.Rule) {
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
			continue
		}

		counter++
		nodeID := fmt.Sprintf("node%d", counter)
		shape := shapeFor(t.Rule)

		label := fmt.Sprintf("    %s [label=%q", nodeID, printable(t.MainOutput))
		if shape != "" {
			label += fmt.Sprintf(" shape=%q", shape)
		}
		label += "]\n"
		if _, err := io.WriteString(w, label); err != nil {
			return err
		}
		nodeIDs[t.MainOutput] = nodeID
	}

	for _, t := range targets {
		if ignorable(t.Rule) {
			continue
		}
		srcNode, ok := nodeIDs[t.MainOutput]
		if !ok {
			continue
		}

		var solid []string
		for _, in := range t.Inputs.Expl {
			if ignored[in] {
				continue
			}
			if dst, ok := nodeIDs[in]; ok {
				solid = append(solid, dst)
			}
		}
		for _, in := range t.Inputs.Impl {
			if ignored[in] {
				continue
			}
			if dst, ok := nodeIDs[in]; ok {
				solid = append(solid, dst)
			}
		}
		if len(solid) > 0 {
			line := "    " + srcNode + " -> {"
			for _, dst := range solid {
				line += " " + dst
			}
			line += " }"
			if t.Edge != "" {
				line += fmt.Sprintf(" [label=%q]", t.Edge)
			}
			line += "\n"
			if _, err := io.WriteString(w, line); err != nil {
				return err
			}
		}

		var dashed []string
		for _, in := range t.Inputs.Order {
			if ignored[in] {
				continue
			}
			name := resolveOrderOnlyNode(targets, nodeIDs, in)
			if name == "" {
				continue
			}
			dashed = append(dashed, name)
		}
		if len(dashed) > 0 {
			line := "    " + srcNode + " -> {"
			for _, dst := range dashed {
				line += " " + dst
			}
			line += " } [style=dashed]\n"
			if _, err := io.WriteString(w, line); err != nil {
				return err
			}
		}
	}

	_, err := io.WriteString(w, "}\n")
	return err
}

func ignorable(k target.RuleKind) bool {
	return k == target.MkDir
}

// resolveOrderOnlyNode finds the node an order-only artifact belongs to. An
// order-only dependency on a BMI (or other synthesized artifact) often
// isn't any target's main output directly — it's recorded as one of that
// target's own outputs — so this falls back to scanning every target for
// one that produces the artifact, the same linear search the original
// generator does for the same reason.
func resolveOrderOnlyNode(targets []target.Target, nodeIDs map[target.Artifact]string, want target.Artifact) string {
	if id, ok := nodeIDs[want]; ok {
		return id
	}
	for _, other := range targets {
		found := other.MainOutput == want
		if !found {
			found = containsArtifact(other.Outputs.Impl, want)
		}
		if !found {
			found = containsArtifact(other.Outputs.Order, want)
		}
		if !found {
			found = containsArtifact(other.Outputs.Expl, want)
		}
		if found {
			return nodeIDs[other.MainOutput]
		}
	}
	return ""
}

func containsArtifact(list []target.Artifact, want target.Artifact) bool {
	for _, a := range list {
		if a == want {
			return true
		}
	}
	return false
}
