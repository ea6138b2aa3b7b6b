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
	"bytes"
	"context"
	"os/exec"
)

// Exec runs argv[0] with the rest as arguments, feeding it stdin, fully
// draining both stdout and stderr, and only then checking its exit status
// - the same write-all/close/drain/block-for-exit shape every compiler
// subprocess invocation in this tool follows, so a child that's still
// writing output is never mistaken for having failed. stderr is always
// returned alongside stdout, whether or not the run succeeded, so a caller
// can forward or report it.
func Exec(ctx context.Context, argv []string, stdin []byte) (stdout, stderr []byte, ok bool) {
	if len(argv) == 0 {
		return nil, nil, false
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err := cmd.Run()
	return out.Bytes(), errOut.Bytes(), err == nil
}

// Preprocess runs cxx -E -o- -xc++ <path>, matching Analyze's Preprocessor
// interface. It always returns the argv it ran and the child's captured
// stderr, so a failed preprocess can be diagnosed with the attempted
// command line and whatever the compiler printed, not just a pass/fail bit.
func Preprocess(ctx context.Context, cxx, path string) (stdout, stderr []byte, argv []string, ok bool) {
	argv = []string{cxx, "-E", "-o-", "-xc++", path}
	stdout, stderr, ok = Exec(ctx, argv, nil)
	return stdout, stderr, argv, ok
}
