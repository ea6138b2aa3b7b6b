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

import "testing"

func TestTemplateExpandsBareAndBracedNames(t *testing.T) {
	vars := map[string]string{"in": "a.cc", "out": "a.o", "cxx": "c++"}
	got := Template("$cxx -c $in -o ${out}", vars)
	want := "c++ -c a.cc -o a.o"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTemplateLiteralDollarSign(t *testing.T) {
	got := Template("cost: $$5", nil)
	if got != "cost: $5" {
		t.Fatalf("got %q", got)
	}
}

func TestTemplateUnknownVarExpandsEmpty(t *testing.T) {
	got := Template("[$missing]", map[string]string{})
	if got != "[]" {
		t.Fatalf("got %q", got)
	}
}

func TestTemplateAllExpandsEveryArg(t *testing.T) {
	got := TemplateAll([]string{"$cxx", "-c", "$in"}, map[string]string{"cxx": "c++", "in": "a.cc"})
	want := []string{"c++", "-c", "a.cc"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
