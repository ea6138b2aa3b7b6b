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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/mzdun/cxxmodgen/analyze"
	"github.com/mzdun/cxxmodgen/backend/dot"
	"github.com/mzdun/cxxmodgen/backend/msbuild"
	"github.com/mzdun/cxxmodgen/backend/ninja"
	"github.com/mzdun/cxxmodgen/compiler"
	"github.com/mzdun/cxxmodgen/descriptorio"
	"github.com/mzdun/cxxmodgen/project"
	"github.com/mzdun/cxxmodgen/target"
	"github.com/mzdun/cxxmodgen/vfs"
)

const (
	defaultNinjaName = "build.ninja"
	defaultDotName   = "dependencies.dot"
	defaultSlnName   = "cxxmodgen.sln"
)

// outputOptions mirrors the --ninja/--msbuild/--dot flags: the path the
// user gave (possibly empty, meaning "use the default name") and whether
// the flag was given at all, since that's what decides the no-flags
// default of emitting a Ninja file and nothing else.
type outputOptions struct {
	ninja, msbuild, dot          string
	ninjaSet, msbuildSet, dotSet bool
}

var (
	warnPrefix  = color.New(color.FgYellow, color.Bold).SprintFunc()("warning:")
	fatalPrefix = color.New(color.FgRed, color.Bold).SprintFunc()("error:")
)

// run drives one end-to-end generation: load the project tree, detect and
// load the active compiler's descriptor, analyze the sources into a
// project.BuildInfo, and emit whichever back ends were asked for.
func run(sourceDirArg string, opts outputOptions, stdout, stderr io.Writer) error {
	shareDir, err := installShareDir()
	if err != nil {
		return fmt.Errorf("cxxmodgen: %w", err)
	}
	return runWithDescriptors(sourceDirArg, shareDir, opts, stdout, stderr)
}

// installShareDir returns <install>/share/compilers, derived from the
// running binary's own location (<install>/bin/cxxmodgen), matching where
// an installed copy of this tool keeps its compiler descriptors.
func installShareDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("cannot locate the installed binary: %w", err)
	}
	installDir := filepath.Dir(filepath.Dir(exe))
	return filepath.Join(installDir, "share", "compilers"), nil
}

// runWithDescriptors is run's actual body, parameterized on the directory
// compiler descriptors are loaded from so tests can point it at a fixture
// tree instead of the real install layout.
func runWithDescriptors(sourceDirArg, shareDir string, opts outputOptions, stdout, stderr io.Writer) error {
	sourceDir, err := filepath.Abs(sourceDirArg)
	if err != nil {
		return fmt.Errorf("cxxmodgen: cannot resolve %s: %w", sourceDirArg, err)
	}
	if info, statErr := os.Stat(sourceDir); statErr != nil || !info.IsDir() {
		return fmt.Errorf("cxxmodgen: %s is not a directory", sourceDir)
	}
	buildDir := filepath.Join(sourceDir, "build")

	projects, err := descriptorio.Load(vfs.NewReal(), sourceDir)
	if err != nil {
		return fmt.Errorf("cxxmodgen: %w", err)
	}

	cxxExe := os.Getenv("CXX")
	if cxxExe == "" {
		cxxExe = "c++"
	}
	// CXX_ROOT/CXX_TARGET_TRIPLE/CXX_TOOL_VERSION let a cross toolchain be
	// named the way its install tree actually lays binaries out (e.g. only
	// arm-none-eabi-g++-13 exists, never a bare g++) without requiring CXX
	// itself to spell out the full triple-and-version name.
	cxxPath := compiler.ResolveToolchain(os.Getenv("CXX_ROOT"), os.Getenv("CXX_TARGET_TRIPLE"), cxxExe, os.Getenv("CXX_TOOL_VERSION"))

	ctx := context.Background()
	id, _, ok := compiler.Detect(ctx, cxxPath, compiler.DefaultProbes)
	if !ok {
		return fmt.Errorf("cxxmodgen: could not run %q to detect the active compiler", cxxPath)
	}

	desc, descErr := loadDescriptorFrom(shareDir, id)
	if descErr != nil {
		printDiag(stderr, analyze.Diag{
			Severity: analyze.Warning,
			Message:  fmt.Sprintf("compiler %q has no descriptor (%v); no back-end-specific rules will be emitted", id, descErr),
		})
	}

	build, diags := analyze.Analyze(projects, compiler.CXX{Exec: cxxPath}, sourceDir, buildDir)
	fatal := false
	for _, d := range diags {
		printDiag(stderr, d)
		if d.Severity == analyze.Fatal {
			fatal = true
		}
	}
	if fatal {
		return fmt.Errorf("cxxmodgen: analysis reported a fatal diagnostic")
	}

	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return fmt.Errorf("cxxmodgen: cannot create %s: %w", buildDir, err)
	}

	if desc == nil {
		return nil
	}

	includeDirs := compiler.DiscoverIncludeDirs(ctx, cxxPath, desc.IncludeDirs)
	targets, rules, setups := compiler.Synth(build, desc, compiler.NewHeaderLocator(includeDirs))

	backToSources, err := filepath.Rel(buildDir, sourceDir)
	if err != nil {
		backToSources = ".."
	}
	backToSources = filepath.ToSlash(backToSources)

	anySet := opts.ninjaSet || opts.msbuildSet || opts.dotSet
	if !anySet {
		return emitNinjaFile(rules, targets, setups, backToSources, filepath.Join(buildDir, defaultNinjaName))
	}

	if opts.ninjaSet {
		path := opts.ninja
		if path == "" {
			path = filepath.Join(buildDir, defaultNinjaName)
		}
		if err := emitNinjaFile(rules, targets, setups, backToSources, path); err != nil {
			return err
		}
	}
	if opts.dotSet {
		path := opts.dot
		if path == "" {
			path = filepath.Join(buildDir, defaultDotName)
		}
		if err := emitDotFile(targets, path); err != nil {
			return err
		}
	}
	if opts.msbuildSet {
		dir := opts.msbuild
		if dir == "" {
			dir = buildDir
		}
		if err := emitMSBuildFiles(build, dir, backToSources); err != nil {
			return err
		}
	}

	return nil
}

// loadDescriptorFrom parses the XML descriptor for id out of shareDir,
// named "<id>.xml" the way every profile under share/compilers/ is.
func loadDescriptorFrom(shareDir, id string) (*compiler.Descriptor, error) {
	f, err := os.Open(filepath.Join(shareDir, id+".xml"))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return compiler.Load(f)
}

func emitNinjaFile(rules []target.Rule, targets []target.Target, setups []target.ProjectSetup, backToSources, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cxxmodgen: %w", err)
	}
	defer f.Close()
	// No --cxxflags knob exists yet, so every build invokes the compiler
	// with whatever flags its descriptor's own command templates bake in.
	return ninja.Emit(f, rules, targets, setups, "", backToSources)
}

func emitDotFile(targets []target.Target, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cxxmodgen: %w", err)
	}
	defer f.Close()
	return dot.Emit(f, targets)
}

func emitMSBuildFiles(build *project.BuildInfo, outDir, backToSources string) error {
	setups, ids := target.RegisterProjects(build)
	projects := msbuild.BuildProjects(build, setups, ids, backToSources, outDir)

	for _, prj := range projects {
		path := filepath.Join(outDir, prj.Name+".vcxproj")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("cxxmodgen: %w", err)
		}
		if err := writeVcxproj(path, prj, projects, outDir); err != nil {
			return err
		}
	}

	slnPath := filepath.Join(outDir, defaultSlnName)
	f, err := os.Create(slnPath)
	if err != nil {
		return fmt.Errorf("cxxmodgen: %w", err)
	}
	defer f.Close()
	if err := msbuild.EmitSolution(f, projects); err != nil {
		return fmt.Errorf("cxxmodgen: %w", err)
	}
	return nil
}

func writeVcxproj(path string, prj msbuild.VsProject, projects []msbuild.VsProject, binaryDir string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cxxmodgen: %w", err)
	}
	defer f.Close()
	if err := msbuild.EmitVcxproj(f, prj, projects, binaryDir); err != nil {
		return fmt.Errorf("cxxmodgen: %w", err)
	}
	return nil
}

func printDiag(w io.Writer, d analyze.Diag) {
	switch d.Severity {
	case analyze.Fatal:
		fmt.Fprintln(w, fatalPrefix, d.Message)
	case analyze.Warning:
		fmt.Fprintln(w, warnPrefix, d.Message)
	default:
		fmt.Fprintln(w, d.Message)
	}
}
