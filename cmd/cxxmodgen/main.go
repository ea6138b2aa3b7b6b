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

// Command cxxmodgen scans a C++20 project tree for module declarations and
// emits the build files a module-aware compile needs: a Ninja file by
// default, or a Visual Studio solution and a Graphviz dependency graph on
// request.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var ninjaOut, msbuildOut, dotOut string

	cmd := &cobra.Command{
		Use:           "cxxmodgen [source_dir]",
		Short:         "Generate module-aware build files from a C++20 project tree",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceDir := "."
			if len(args) == 1 {
				sourceDir = args[0]
			}
			opts := outputOptions{
				ninja:      ninjaOut,
				msbuild:    msbuildOut,
				dot:        dotOut,
				ninjaSet:   cmd.Flags().Changed("ninja"),
				msbuildSet: cmd.Flags().Changed("msbuild"),
				dotSet:     cmd.Flags().Changed("dot"),
			}
			return run(sourceDir, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&ninjaOut, "ninja", "", "path of the Ninja build file to emit")
	cmd.Flags().StringVar(&msbuildOut, "msbuild", "", "directory to emit the Visual Studio solution and project files into")
	cmd.Flags().StringVar(&dotOut, "dot", "", "path of the Graphviz dependency graph to emit")

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
