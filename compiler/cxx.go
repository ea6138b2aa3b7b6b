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

import "context"

// CXX is a resolved compiler executable, satisfying analyze.Preprocessor so
// the analyzer never has to know how a source gets preprocessed.
type CXX struct {
	Exec string
}

// Preprocess satisfies analyze.Preprocessor, forwarding the attempted argv
// and the child's stderr alongside the usual text/ok pair so a failure
// carries enough detail to report.
func (c CXX) Preprocess(path string) (text, stderr []byte, argv []string, ok bool) {
	return Preprocess(context.Background(), c.Exec, path)
}
