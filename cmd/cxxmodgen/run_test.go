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
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeCompiler writes a shell script that ignores both its arguments and
// its stdin and always reports as id: standing in for compiler.Detect's
// probe ladder and compiler.Preprocess's real invocation alike, since
// neither call's output needs to vary for these tests.
func fakeCompiler(t *testing.T, id string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fake-cxx")
	script := fmt.Sprintf("#!/bin/sh\ncat >/dev/null\nprintf '%s 1 0 0\\n'\n", id)
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

// sourceTree lays out a minimal one-project source tree: a single
// executable, rooted in its own "app" subdirectory, with one plain
// (non-module) translation unit.
func sourceTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sources.json"), []byte(`{".dirs": ["app"]}`), 0644); err != nil {
		t.Fatal(err)
	}
	appDir := filepath.Join(dir, "app")
	if err := os.Mkdir(appDir, 0755); err != nil {
		t.Fatal(err)
	}
	sources := `{"app": {"type": "executable", "sources": ["main.cc"]}}`
	if err := os.WriteFile(filepath.Join(appDir, "sources.json"), []byte(sources), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(appDir, "main.cc"), []byte("int main() { return 0; }\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

// writeDescriptor drops a minimal but valid compiler descriptor for id
// into shareDir, covering just the two rules a single-executable project
// needs: compiling its one source and linking the binary.
func writeDescriptor(t *testing.T, shareDir, id string) {
	t.Helper()
	doc := `<?xml version="1.0"?>
<compiler>
  <ident name="` + id + `" exe="c++" guard="__GNUC__" version="1"/>
  <bmi dir="bmi" ext=".gcm" standalone="false" supportsPartition="false"/>
  <includeDirs useStdout="true">
    <filterStart>#include &lt;...&gt; search starts here:</filterStart>
    <filterStop>End of search list.</filterStop>
    <command><arg>$CXX</arg><arg>-E</arg><arg>-v</arg><arg>-xc++</arg><arg>-</arg></command>
  </includeDirs>
  <rules>
    <rule kind="COMPILE">
      <message>Building CXX object $OUTPUT</message>
      <command><arg>$CXX</arg><arg>-c</arg><arg>$INPUT</arg><arg>-o</arg><arg>$OUTPUT</arg></command>
    </rule>
    <rule kind="LINK_EXECUTABLE">
      <message>Linking CXX executable $OUTPUT</message>
      <command><arg>$CXX</arg><arg>$INPUT</arg><arg>-o</arg><arg>$OUTPUT</arg></command>
    </rule>
  </rules>
</compiler>
`
	if err := os.WriteFile(filepath.Join(shareDir, id+".xml"), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestInstallShareDirSitsUnderTheBinaryLocation(t *testing.T) {
	dir, err := installShareDir()
	if err != nil {
		t.Fatalf("installShareDir: %v", err)
	}
	if filepath.Base(dir) != "compilers" || filepath.Base(filepath.Dir(dir)) != "share" {
		t.Fatalf("expected a .../share/compilers path, got %q", dir)
	}
}

func TestRunFailsWhenSourceDirMissing(t *testing.T) {
	err := runWithDescriptors(filepath.Join(t.TempDir(), "does-not-exist"), t.TempDir(), outputOptions{}, io.Discard, io.Discard)
	if err == nil {
		t.Fatal("expected an error for a missing source directory")
	}
}

func TestRunFailsWhenSourcesJSONMissing(t *testing.T) {
	err := runWithDescriptors(t.TempDir(), t.TempDir(), outputOptions{}, io.Discard, io.Discard)
	if err == nil {
		t.Fatal("expected an error when sources.json is missing")
	}
}

func TestRunWarnsAndSkipsEmissionWhenDescriptorMissing(t *testing.T) {
	src := sourceTree(t)
	t.Setenv("CXX", fakeCompiler(t, "gcc"))

	var stderr bytes.Buffer
	shareDir := t.TempDir() // deliberately left empty: no gcc.xml in it
	if err := runWithDescriptors(src, shareDir, outputOptions{}, io.Discard, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}

	if !strings.Contains(stderr.String(), "warning:") {
		t.Fatalf("expected a warning about the missing descriptor, got %q", stderr.String())
	}
	if _, err := os.Stat(filepath.Join(src, "build")); err != nil {
		t.Fatalf("expected the build directory to still be created: %v", err)
	}
	if _, err := os.Stat(filepath.Join(src, "build", defaultNinjaName)); !os.IsNotExist(err) {
		t.Fatalf("expected no build.ninja to be written without a matching descriptor, stat err=%v", err)
	}
}

func TestRunEmitsDefaultNinjaFileWhenDescriptorMatches(t *testing.T) {
	src := sourceTree(t)
	t.Setenv("CXX", fakeCompiler(t, "gcc"))

	shareDir := t.TempDir()
	writeDescriptor(t, shareDir, "gcc")

	var stderr bytes.Buffer
	if err := runWithDescriptors(src, shareDir, outputOptions{}, io.Discard, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if stderr.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %q", stderr.String())
	}

	out, err := os.ReadFile(filepath.Join(src, "build", defaultNinjaName))
	if err != nil {
		t.Fatalf("expected a build.ninja file: %v", err)
	}
	text := string(out)
	if !strings.Contains(text, "rule cc\n") {
		t.Fatalf("expected a compile rule in the Ninja file, got %q", text)
	}
	if !strings.Contains(text, "rule link-exe\n") {
		t.Fatalf("expected a link rule in the Ninja file, got %q", text)
	}

	if _, err := os.Stat(filepath.Join(src, "build", defaultDotName)); !os.IsNotExist(err) {
		t.Fatalf("expected no dependencies.dot without --dot, stat err=%v", err)
	}
}

func TestRunOnlyEmitsExplicitlyRequestedBackEnds(t *testing.T) {
	src := sourceTree(t)
	t.Setenv("CXX", fakeCompiler(t, "gcc"))

	shareDir := t.TempDir()
	writeDescriptor(t, shareDir, "gcc")

	dotPath := filepath.Join(t.TempDir(), "graph.dot")
	opts := outputOptions{dot: dotPath, dotSet: true}

	var stderr bytes.Buffer
	if err := runWithDescriptors(src, shareDir, opts, io.Discard, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}

	if _, err := os.Stat(dotPath); err != nil {
		t.Fatalf("expected the requested dot file to be written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(src, "build", defaultNinjaName)); !os.IsNotExist(err) {
		t.Fatalf("expected no build.ninja when only --dot was requested, stat err=%v", err)
	}
}

func TestRunEmitsMSBuildProjectAndSolution(t *testing.T) {
	src := sourceTree(t)
	t.Setenv("CXX", fakeCompiler(t, "gcc"))

	shareDir := t.TempDir()
	writeDescriptor(t, shareDir, "gcc")

	msbuildDir := t.TempDir()
	opts := outputOptions{msbuild: msbuildDir, msbuildSet: true}

	var stderr bytes.Buffer
	if err := runWithDescriptors(src, shareDir, opts, io.Discard, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}

	if _, err := os.Stat(filepath.Join(msbuildDir, defaultSlnName)); err != nil {
		t.Fatalf("expected a solution file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(msbuildDir, "app", "app.vcxproj")); err != nil {
		t.Fatalf("expected app's project file: %v", err)
	}
}
