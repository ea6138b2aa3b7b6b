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

package modscan

import (
	"reflect"
	"sort"
	"testing"
)

func sortedImports(imps []Import) []Import {
	out := append([]Import(nil), imps...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Module != out[j].Module {
			return out[i].Module < out[j].Module
		}
		return out[i].Part < out[j].Part
	})
	return out
}

// S1 simple interface.
func TestSimpleInterface(t *testing.T) {
	u := Scan([]byte("export module m; int f();"))
	if u.Name != (Name{"m", ""}) || !u.IsInterface || len(u.Imports) != 0 {
		t.Fatalf("got %+v", u)
	}
}

// S2 implementation: a non-export module declaration implicitly imports
// its own interface.
func TestImplementationUnitSelfImports(t *testing.T) {
	u := Scan([]byte("module m; int f(){return 0;}"))
	want := Unit{Name: Name{"m", ""}, IsInterface: false, Imports: []Import{{"m", ""}}}
	if u.Name != want.Name || u.IsInterface != want.IsInterface {
		t.Fatalf("got %+v", u)
	}
	if got := sortedImports(u.Imports); len(got) != 1 || got[0] != (Import{"m", ""}) {
		t.Fatalf("imports = %+v", got)
	}
}

// S3 qualified module and partition declaration.
func TestQualifiedPartitionInterface(t *testing.T) {
	u := Scan([]byte("export module a.b:part;"))
	if u.Name != (Name{"a.b", "part"}) || !u.IsInterface || len(u.Imports) != 0 {
		t.Fatalf("got %+v", u)
	}
}

// S3 continued: a partition-only import resolves against the enclosing
// unit's own module name, alongside the implicit self-import from the
// module declaration itself.
func TestPartitionOnlyImportResolvesAgainstOwnModule(t *testing.T) {
	u := Scan([]byte("module a.b;\nimport :part;\n"))
	if u.Name != (Name{"a.b", ""}) || u.IsInterface {
		t.Fatalf("got %+v", u)
	}
	want := []Import{{"a.b", ""}, {"a.b", "part"}}
	if got := sortedImports(u.Imports); len(got) != len(want) {
		t.Fatalf("imports = %+v, want %+v", got, want)
	} else {
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("imports = %+v, want %+v", got, want)
			}
		}
	}
}

// S4 legacy header import.
func TestLegacyHeaderImport(t *testing.T) {
	u := Scan([]byte("import <vector>;"))
	if u.Name != (Name{}) || u.IsInterface {
		t.Fatalf("got %+v", u)
	}
	if len(u.Imports) != 1 || u.Imports[0] != (Import{Module: "<vector>"}) {
		t.Fatalf("imports = %+v", u.Imports)
	}
}

// S5 deleted splice inside a declaration: splicing "mod\<LF>ule" must
// still be recognized as the "module" keyword, and the scan result must
// match the unspliced equivalent (invariant 5, module name idempotence).
func TestDeletedSpliceInsideDeclaration(t *testing.T) {
	spliced := Scan([]byte("export mod\\\nule m; int f();"))
	plain := Scan([]byte("export module m; int f();"))
	if !reflect.DeepEqual(spliced, plain) {
		t.Fatalf("spliced = %+v, want %+v", spliced, plain)
	}
}

// Invariant 5: rescanning a source stripped down to just its module
// declaration line reproduces the same module identity as the full scan.
func TestModuleNameIdempotence(t *testing.T) {
	full := Scan([]byte("export module net.http:client;\nint f() { return 1; }\n"))
	declOnly := Scan([]byte("export module net.http:client;\n"))
	if full.Name != declOnly.Name || full.IsInterface != declOnly.IsInterface {
		t.Fatalf("full = %+v, declOnly = %+v", full, declOnly)
	}
}

// Invariant 6: every normalized import with a non-empty Part resolves to
// the scanned unit's own module, and that module name is itself non-empty.
func TestPartitionScopingInvariant(t *testing.T) {
	u := Scan([]byte("module a.b;\nimport :x;\nimport :y;\n"))
	for _, imp := range u.Imports {
		if imp.Part == "" {
			continue
		}
		if u.Name.Module == "" {
			t.Fatalf("partitioned import %+v but unit has no module name", imp)
		}
		if imp.Module != u.Name.Module {
			t.Fatalf("import %+v does not scope to unit module %q", imp, u.Name.Module)
		}
	}
}

// A cross-module partition reference (module already set explicitly) has
// no meaning and is dropped, not resolved against the enclosing unit.
func TestExplicitCrossModulePartitionImportDropped(t *testing.T) {
	u := Scan([]byte("module a.b;\nimport other:part;\n"))
	for _, imp := range u.Imports {
		if imp.Module == "other" {
			t.Fatalf("cross-module partition import should have been dropped, got %+v", u.Imports)
		}
	}
}

// A partition-only import with no enclosing module declaration cannot be
// resolved and is dropped.
func TestPartitionImportWithoutOwnModuleDropped(t *testing.T) {
	u := Scan([]byte("import :part;"))
	if len(u.Imports) != 0 {
		t.Fatalf("imports = %+v, want none", u.Imports)
	}
}

// An ordinary identifier spelled "module"/"import"/"export" mid-expression
// (not at line start) is not mistaken for a declaration, and brace tracking
// correctly ignores module-decl-shaped punctuation once already nested.
func TestModuleKeywordInsideFunctionBodyIsNotADeclaration(t *testing.T) {
	u := Scan([]byte("module m;\nint f() {\n  int module = 1;\n  return module;\n}\n"))
	if u.Name != (Name{"m", ""}) {
		t.Fatalf("got %+v", u)
	}
	for _, imp := range u.Imports {
		if imp.Module == "1" {
			t.Fatalf("mistook a brace-nested statement for a declaration: %+v", u.Imports)
		}
	}
}

// A mismatched closing brace (as a macro-expanded "} // namespace foo)"
// artifact might produce) doesn't wedge bracket tracking permanently.
func TestMismatchedCloseDoesNotWedgeBracketTracking(t *testing.T) {
	u := Scan([]byte("module m;\nint f() { ) int g() { return 0; } return 1; }\n"))
	if u.Name != (Name{"m", ""}) {
		t.Fatalf("got %+v", u)
	}
}
