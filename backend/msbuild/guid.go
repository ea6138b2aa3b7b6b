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

package msbuild

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// guidNamespace seeds every derived GUID so two different cxxmodgen
// invocations against the same binary directory keep assigning the same
// project GUIDs across runs - Visual Studio treats a GUID change as a
// different project even when the name didn't move.
var guidNamespace = []byte("\xee\x30\xc4\xbe\x51\x92\x4f\xb0\xb3\x35\x72\x2a\x2d\xff\xe7\x60")

var uuidGroups = [5]int{4, 2, 2, 2, 6}

// Guids derives a stable, MD5-based (version 3) GUID for each project name,
// scoped to one binary directory, and caches the result so the same name
// always maps to the same string within a run.
type Guids struct {
	binDir string
	cache  map[string]string
}

func NewGuids(binDir string) *Guids {
	return &Guids{binDir: binDir, cache: map[string]string{}}
}

// Get returns name's GUID, computing and caching it on first use.
func (g *Guids) Get(name string) string {
	if guid, ok := g.cache[name]; ok {
		return guid
	}
	guid := uuid3(g.binDir + "|" + name)
	g.cache[name] = guid
	return guid
}

// uuid3 hashes payload against guidNamespace the way RFC 4122 section 4.3
// defines a name-based (MD5) UUID, then renders it as the bare
// "XXXXXXXX-XXXX-XXXX-XXXX-XXXXXXXXXXXX" form MSBuild project GUIDs use
// (no enclosing braces; those are added where the GUID is interpolated).
func uuid3(payload string) string {
	h := md5.New()
	h.Write(guidNamespace)
	h.Write([]byte(payload))
	sum := h.Sum(nil)

	sum[6] &= 0x0F
	sum[6] |= 3 << 4
	sum[8] &= 0x3F
	sum[8] |= 0x80

	var b strings.Builder
	pos := 0
	for i, group := range uuidGroups {
		if i > 0 {
			b.WriteByte('-')
		}
		for j := 0; j < group; j++ {
			fmt.Fprintf(&b, "%02x", sum[pos])
			pos++
		}
	}
	return strings.ToUpper(b.String())
}
