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
	"path"
	"strconv"
	"strings"

	"github.com/minio/highwayhash"

	"github.com/mzdun/cxxmodgen/project"
	"github.com/mzdun/cxxmodgen/target"
)

// highwayKey is a fixed key shared by every run: BMI path hashing only
// needs a stable, collision-resistant digest within one invocation, not a
// secret, so a single constant 32-byte key is enough.
var highwayKey = []byte("cxxmodgen-header-bmi-hash-key!!!")

// BinaryInterface knows one compiler descriptor's BMI naming convention
// and turns a scanned import into the artifact a COMPILE or EMIT_BMI
// target should depend on.
type BinaryInterface struct {
	bmi BMIDecl
}

func NewBinaryInterface(bmi BMIDecl) *BinaryInterface {
	return &BinaryInterface{bmi: bmi}
}

// Standalone reports whether this compiler emits a BMI through its own
// dedicated step (EmitBMI) rather than as a side effect of compiling the
// interface unit.
func (b *BinaryInterface) Standalone() bool { return b.bmi.Standalone }

// AsInterface names the BMI file for a module, honoring whether this
// compiler spells a partition's BMI with a separate character from an
// ordinary dotted module name.
func (b *BinaryInterface) AsInterface(name project.Name) string {
	sep := "."
	if b.bmi.SupportsPartition {
		sep = "-"
	}
	fname := name.Module
	if name.Part != "" {
		fname += sep + name.Part
	}
	return path.Join(b.bmi.Dir, fname) + ensureDot(b.bmi.Ext)
}

func ensureDot(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// FromModule returns the order-only artifact an import resolves to: an
// ordinary module's BMI, or a synthesized header-BMI artifact for a legacy
// <header>/"header" import (recognizable, post-normalization, as a Name
// with no Part whose Module text still carries its original bracket or
// quote delimiters).
func (b *BinaryInterface) FromModule(ref project.Name) target.Artifact {
	if isLegacyHeader(ref.Module) {
		return target.Artifact{
			Kind: target.ModuleArtifact,
			Mod:  target.ModRef{Mod: ref, Path: b.headerBMIPath(ref.Module)},
		}
	}
	return target.Artifact{
		Kind: target.ModuleArtifact,
		Mod:  target.ModRef{Mod: ref, Path: b.AsInterface(ref)},
	}
}

func isLegacyHeader(module string) bool {
	return len(module) > 0 && (module[0] == '<' || module[0] == '"')
}

// headerBMIPath synthesizes a stable BMI-like path for a legacy header
// import. Header spellings can be long, carry directory separators, or
// collide in their trailing segment once flattened into a single BMI
// directory, so the file's basename is a HighwayHash digest of the whole
// header text rather than any part of the header path itself.
func (b *BinaryInterface) headerBMIPath(header string) string {
	h, err := highwayhash.New64(highwayKey)
	if err != nil {
		// highwayKey is a fixed 32-byte constant; this can't fail.
		panic(err)
	}
	_, _ = h.Write([]byte(header))
	name := strconv.FormatUint(h.Sum64(), 16)
	return path.Join(b.bmi.Dir, name) + ensureDot(b.bmi.Ext)
}
