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

// Package compiler loads an XML compiler descriptor (identity, BMI naming
// convention, include-path discovery recipe, and one templated command list
// per build rule) and uses it to turn a project.BuildInfo into a
// target.Target graph.
package compiler

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/mzdun/cxxmodgen/target"
)

// Ident names the compiler a descriptor targets: a human-readable name, an
// executable name, and a preprocessor guard. Exe and Guard are parsed only:
// the driver takes the executable from $CXX (default "c++"), and Detect
// probes with DefaultProbes rather than with a descriptor's Guard.
type Ident struct {
	Name    string `xml:"name,attr"`
	Exe     string `xml:"exe,attr"`
	Guard   string `xml:"guard,attr"`
	Version string `xml:"version,attr"`
}

// BMIDecl is this compiler's precompiled-module-interface convention: the
// directory and extension its BMIs live under, whether emitting one is a
// standalone step (EmitBMI) or a side effect of compiling the interface
// unit (the COMPILE step's implicit output), and whether its BMI naming
// distinguishes module partitions from an ordinary dotted module name.
type BMIDecl struct {
	Dir               string `xml:"dir,attr"`
	Ext               string `xml:"ext,attr"`
	Standalone        bool   `xml:"standalone,attr"`
	SupportsPartition bool   `xml:"supportsPartition,attr"`
}

// IncludeDirs is the recipe for discovering this compiler's built-in
// system include search path: a command to run, which of its streams
// carries the answer, and the marker lines bracketing the path list within
// that output.
type IncludeDirs struct {
	UseStdout   bool     `xml:"useStdout,attr"`
	FilterStart string   `xml:"filterStart"`
	FilterStop  string   `xml:"filterStop"`
	Command     []string `xml:"command>arg"`
}

// argList is one <command> element's argv, each <arg> a templated token.
type argList struct {
	Args []string `xml:"arg"`
}

// ruleCommands is one <rule> element: the RuleKind it contributes commands
// for (by name, matching target.RuleKind.String()), and the templated
// command lines themselves.
type ruleCommands struct {
	Kind     string    `xml:"kind,attr"`
	Commands []argList `xml:"command"`
	Message  string    `xml:"message"`
}

type descriptorXML struct {
	XMLName     xml.Name       `xml:"compiler"`
	Ident       Ident          `xml:"ident"`
	BMI         BMIDecl        `xml:"bmi"`
	IncludeDirs IncludeDirs    `xml:"includeDirs"`
	Rules       []ruleCommands `xml:"rules>rule"`
}

// RuleProfile is one rule's templated command lines plus its progress
// message, ready for Template expansion.
type RuleProfile struct {
	Commands [][]string
	Message  string
}

// Descriptor is the parsed compiler profile: identity, BMI convention,
// include-path discovery recipe, and a command profile per rule it drives.
type Descriptor struct {
	Ident       Ident
	BMI         BMIDecl
	IncludeDirs IncludeDirs
	Rules       map[target.RuleKind]RuleProfile
}

var kindByName = func() map[string]target.RuleKind {
	m := map[string]target.RuleKind{}
	for k := target.MkDir; k <= target.LinkExecutable; k++ {
		m[k.String()] = k
	}
	return m
}()

// Load parses a compiler descriptor from r.
func Load(r io.Reader) (*Descriptor, error) {
	var raw descriptorXML
	if err := xml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("compiler: parsing descriptor: %w", err)
	}

	d := &Descriptor{
		Ident:       raw.Ident,
		BMI:         raw.BMI,
		IncludeDirs: raw.IncludeDirs,
		Rules:       map[target.RuleKind]RuleProfile{},
	}
	for _, r := range raw.Rules {
		kind, ok := kindByName[r.Kind]
		if !ok {
			return nil, fmt.Errorf("compiler: unknown rule kind %q", r.Kind)
		}
		cmds := make([][]string, len(r.Commands))
		for i, c := range r.Commands {
			cmds[i] = append([]string(nil), c.Args...)
		}
		d.Rules[kind] = RuleProfile{Commands: cmds, Message: r.Message}
	}
	return d, nil
}
