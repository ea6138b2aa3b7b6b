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
	"bytes"
	"strings"
	"testing"

	"github.com/mzdun/cxxmodgen/target"
)

func TestEmitWritesRuleAndBuildBlocks(t *testing.T) {
	setups := []target.ProjectSetup{{Name: "app", Objdir: "app.dir", Subdir: "app"}}
	rules := []target.Rule{
		{Kind: target.Compile, Commands: []string{"c++ -c $in -o $out"}},
	}
	targets := []target.Target{
		{
			Rule: target.Compile,
			MainOutput: target.Artifact{
				Kind: target.FileArtifact,
				File: target.FileRef{Setup: 0, Path: "main.cc.o", Kind: target.Output},
			},
			Inputs: target.FileList{
				Expl: []target.Artifact{{
					Kind: target.FileArtifact,
					File: target.FileRef{Setup: 0, Path: "main.cc", Kind: target.Input},
				}},
				Order: []target.Artifact{{
					Kind: target.ModuleArtifact,
					Mod:  target.ModRef{Path: "bmi/core.pcm"},
				}},
			},
		},
	}

	var buf bytes.Buffer
	if err := Emit(&buf, rules, targets, setups, "-std=c++20", ".."); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "CXXFLAGS = -std=c++20\n\n") {
		t.Fatalf("expected CXXFLAGS header, got %q", out)
	}
	if !strings.Contains(out, "rule cc\n") {
		t.Fatalf("expected rule block, got %q", out)
	}
	if !strings.Contains(out, "    command = c++ -c $in -o $out\n") {
		t.Fatalf("expected command line, got %q", out)
	}
	if !strings.Contains(out, "    description = Building CXX object $out\n") {
		t.Fatalf("expected default description, got %q", out)
	}
	if !strings.Contains(out, "build app/app.dir/main.cc.o: cc ../app/main.cc || bmi/core.pcm\n") {
		t.Fatalf("expected build statement, got %q", out)
	}
}

func TestEmitKeepsPureSourceNodeArtifactsAsExplicitDeps(t *testing.T) {
	setups := []target.ProjectSetup{{Name: "app", Objdir: "app.dir", Subdir: "app"}}
	source := target.Artifact{
		Kind: target.FileArtifact,
		File: target.FileRef{Setup: 0, Path: "main.cc", Kind: target.Input},
	}
	rules := []target.Rule{{Kind: target.Compile, Commands: []string{"c++ -c $in -o $out"}}}
	targets := []target.Target{
		// A pure source node: Rule left at its zero value (NoRule), not
		// MkDir. It must not be treated as an ignorable rule target, or
		// every COMPILE step referencing its own source file would lose
		// that file from its explicit deps.
		{MainOutput: source},
		{
			Rule: target.Compile,
			MainOutput: target.Artifact{
				Kind: target.FileArtifact,
				File: target.FileRef{Setup: 0, Path: "main.cc.o", Kind: target.Output},
			},
			Inputs: target.FileList{Expl: []target.Artifact{source}},
		},
	}

	var buf bytes.Buffer
	if err := Emit(&buf, rules, targets, setups, "", ""); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "build app/app.dir/main.cc.o: cc app/main.cc\n") {
		t.Fatalf("expected the source file to survive as an explicit dep, got %q", out)
	}
}

func TestEmitSkipsMkDirRuleAndIgnoresItsOutputsAsInputs(t *testing.T) {
	setups := []target.ProjectSetup{{Name: "app", Objdir: "app.dir", Subdir: "app"}}
	dirOutput := target.Artifact{
		Kind: target.FileArtifact,
		File: target.FileRef{Setup: 0, Path: "app.dir", Kind: target.Output},
	}
	rules := []target.Rule{
		{Kind: target.MkDir, Commands: []string{"mkdir -p $out"}},
		{Kind: target.Archive, Commands: []string{"ar rcs $out $in"}},
	}
	targets := []target.Target{
		{Rule: target.MkDir, MainOutput: dirOutput},
		{
			Rule: target.Archive,
			MainOutput: target.Artifact{
				Kind: target.FileArtifact,
				File: target.FileRef{Setup: 0, Path: "libapp.a", Kind: target.Linked},
			},
			Inputs: target.FileList{
				Expl: []target.Artifact{
					{Kind: target.FileArtifact, File: target.FileRef{Setup: 0, Path: "main.cc.o", Kind: target.Output}},
					dirOutput,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := Emit(&buf, rules, targets, setups, "", ""); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if strings.Contains(out, "rule mkdir") {
		t.Fatalf("did not expect a MkDir rule block, got %q", out)
	}
	if !strings.Contains(out, "build app/libapp.a: ar app/app.dir/main.cc.o\n") {
		t.Fatalf("expected archive build statement without the dir dep, got %q", out)
	}
}
