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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mzdun/cxxmodgen/target"
)

const sampleDescriptor = `<?xml version="1.0"?>
<compiler>
  <ident name="clang" exe="clang++" guard="clang" version="16"/>
  <bmi dir="bmi" ext=".pcm" standalone="true" supportsPartition="true"/>
  <includeDirs useStdout="true">
    <filterStart>#include &lt;...&gt; search starts here:</filterStart>
    <filterStop>End of search list.</filterStop>
    <command>
      <arg>$cxx</arg>
      <arg>-E</arg>
      <arg>-v</arg>
      <arg>-xc++</arg>
      <arg>/dev/null</arg>
    </command>
  </includeDirs>
  <rules>
    <rule kind="COMPILE">
      <command>
        <arg>$cxx</arg>
        <arg>-c</arg>
        <arg>$in</arg>
        <arg>-o</arg>
        <arg>$out</arg>
      </command>
      <message>Building CXX object $out</message>
    </rule>
    <rule kind="EMIT_BMI">
      <command>
        <arg>$cxx</arg>
        <arg>--precompile</arg>
        <arg>$in</arg>
        <arg>-o</arg>
        <arg>$out</arg>
      </command>
      <message>Emitting BMI $out</message>
    </rule>
  </rules>
</compiler>
`

func TestLoadParsesIdentBMIAndRules(t *testing.T) {
	d, err := Load(strings.NewReader(sampleDescriptor))
	require.NoError(t, err)

	require.Equal(t, "clang", d.Ident.Name)
	require.Equal(t, "clang++", d.Ident.Exe)
	require.True(t, d.BMI.Standalone)
	require.True(t, d.BMI.SupportsPartition)
	require.Equal(t, "bmi", d.BMI.Dir)
	require.Equal(t, ".pcm", d.BMI.Ext)

	require.Len(t, d.IncludeDirs.Command, 5)
	require.Equal(t, "$cxx", d.IncludeDirs.Command[0])

	compile, ok := d.Rules[target.Compile]
	require.True(t, ok)
	require.Len(t, compile.Commands, 1)
	require.Equal(t, []string{"$cxx", "-c", "$in", "-o", "$out"}, compile.Commands[0])
	require.Equal(t, "Building CXX object $out", compile.Message)

	bmi, ok := d.Rules[target.EmitBMI]
	require.True(t, ok)
	require.Equal(t, []string{"$cxx", "--precompile", "$in", "-o", "$out"}, bmi.Commands[0])

	_, hasArchive := d.Rules[target.Archive]
	require.False(t, hasArchive)
}

func TestLoadRejectsUnknownRuleKind(t *testing.T) {
	bad := strings.Replace(sampleDescriptor, `kind="COMPILE"`, `kind="FROBNICATE"`, 1)
	_, err := Load(strings.NewReader(bad))
	require.Error(t, err)
}

func TestLoadMultipleCommandsKeepPerCommandGrouping(t *testing.T) {
	const xmlDoc = `<compiler>
  <ident name="gcc" exe="g++"/>
  <bmi dir="gcm.cache" ext=""/>
  <rules>
    <rule kind="ARCHIVE">
      <command><arg>rm</arg><arg>-f</arg><arg>$out</arg></command>
      <command><arg>ar</arg><arg>rcs</arg><arg>$out</arg><arg>$in</arg></command>
      <message>Archiving $out</message>
    </rule>
  </rules>
</compiler>`

	d, err := Load(strings.NewReader(xmlDoc))
	require.NoError(t, err)

	archive, ok := d.Rules[target.Archive]
	require.True(t, ok)
	require.Len(t, archive.Commands, 2)
	require.Equal(t, []string{"rm", "-f", "$out"}, archive.Commands[0])
	require.Equal(t, []string{"ar", "rcs", "$out", "$in"}, archive.Commands[1])
}
