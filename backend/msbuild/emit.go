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
	"io"
	"path"
	"strings"
	"text/template"
)

type vcxprojSource struct {
	Path     string
	IsModule bool
}

type vcxprojRef struct {
	Path string
	Guid string
	Name string
}

type vcxprojData struct {
	Guid              string
	ProjectName       string
	ConfigurationType string
	Sources           []vcxprojSource
	References        []vcxprojRef
}

// EmitVcxproj writes prj's project file. Only the x64 platform and the
// Debug/Release configuration pair are generated - same scope the
// original itself hardcodes, since nothing in a descriptor ever varies
// them.
func EmitVcxproj(w io.Writer, prj VsProject, projects []VsProject, binaryDir string) error {
	back := backPrefix(prj.Name)

	data := vcxprojData{
		Guid:              prj.Guid,
		ProjectName:       path.Base(prj.Name),
		ConfigurationType: configurationType(prj.Kind),
	}
	for _, src := range prj.Sources {
		data.Sources = append(data.Sources, vcxprojSource{
			Path:     back + src.Path,
			IsModule: src.Exports != "",
		})
	}
	for _, guid := range prj.RefGuids {
		dep, ok := findProject(projects, guid)
		if !ok {
			continue
		}
		data.References = append(data.References, vcxprojRef{
			Path: path.Join(binaryDir, dep.Name) + ".vcxproj",
			Guid: guid,
			Name: dep.Name,
		})
	}

	return vcxprojTmpl.Execute(w, data)
}

type slnProject struct {
	DisplayName string
	Path        string
	Guid        string
	RefGuids    []string
}

type slnData struct {
	Projects []slnProject
}

// EmitSolution writes a solution file referencing every project, each
// depending on the projects it links against.
func EmitSolution(w io.Writer, projects []VsProject) error {
	data := slnData{}
	for _, prj := range projects {
		data.Projects = append(data.Projects, slnProject{
			DisplayName: path.Base(prj.Name),
			Path:        prj.Name + ".vcxproj",
			Guid:        prj.Guid,
			RefGuids:    prj.RefGuids,
		})
	}
	return slnTmpl.Execute(w, data)
}

// backPrefix counts the subdirectories a project's own name descends
// through, below the binary root, and returns that many "../" segments -
// the project file lives that deep, so every path inside it that's meant
// to be relative to the binary root needs to climb back out first.
func backPrefix(name string) string {
	depth := strings.Count(name, "/")
	return strings.Repeat("../", depth)
}

var vcxprojTmpl = template.Must(template.New("vcxproj").Parse(`<?xml version="1.0" encoding="utf-8"?>
<Project DefaultTargets="Build" ToolsVersion="17.0" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
  <PropertyGroup>
    <PreferredToolArchitecture>x64</PreferredToolArchitecture>
    <OutDir Condition="'$(Configuration)|$(Platform)'=='Debug|x64'">x64\Debug\</OutDir>
    <OutDir Condition="'$(Configuration)|$(Platform)'=='Release|x64'">x64\Release\</OutDir>
    <IntDir Condition="'$(Configuration)|$(Platform)'=='Debug|x64'">{{.ProjectName}}.dir\x64\Debug\</IntDir>
    <IntDir Condition="'$(Configuration)|$(Platform)'=='Release|x64'">{{.ProjectName}}.dir\x64\Release\</IntDir>
  </PropertyGroup>
  <ItemGroup Label="ProjectConfigurations">
    <ProjectConfiguration Include="Debug|x64">
      <Configuration>Debug</Configuration>
      <Platform>x64</Platform>
    </ProjectConfiguration>
    <ProjectConfiguration Include="Release|x64">
      <Configuration>Release</Configuration>
      <Platform>x64</Platform>
    </ProjectConfiguration>
  </ItemGroup>
  <PropertyGroup Label="Globals">
    <ProjectGuid>{{"{"}}{{.Guid}}{{"}"}}</ProjectGuid>
    <Keyword>Win32Proj</Keyword>
    <Platform>x64</Platform>
    <ProjectName>{{.ProjectName}}</ProjectName>
    <VCProjectUpgraderObjectName>NoUpgrade</VCProjectUpgraderObjectName>
  </PropertyGroup>
  <Import Project="$(VCTargetsPath)\Microsoft.Cpp.Default.props" />
  <PropertyGroup Label="Configuration">
    <ConfigurationType>{{.ConfigurationType}}</ConfigurationType>
    <CharacterSet>Unicode</CharacterSet>
    <PlatformToolset>v143</PlatformToolset>
  </PropertyGroup>
  <PropertyGroup Condition="'$(Configuration)|$(Platform)'=='Release|x64'" Label="Configuration">
    <UseDebugLibraries>false</UseDebugLibraries>
    <WholeProgramOptimization>true</WholeProgramOptimization>
  </PropertyGroup>
  <PropertyGroup Condition="'$(Configuration)|$(Platform)'=='Debug|x64'" Label="Configuration">
    <UseDebugLibraries>true</UseDebugLibraries>
  </PropertyGroup>
  <Import Project="$(VCTargetsPath)\Microsoft.Cpp.props" />
  <ImportGroup Label="ExtensionSettings">
  </ImportGroup>
  <ImportGroup Label="Shared">
  </ImportGroup>
  <ImportGroup Label="PropertySheets">
    <Import Project="$(UserRootDir)\Microsoft.Cpp.$(Platform).user.props" Condition="exists('$(UserRootDir)\Microsoft.Cpp.$(Platform).user.props')" Label="LocalAppDataPlatform" />
  </ImportGroup>
  <PropertyGroup Label="UserMacros" />
  <ItemDefinitionGroup Condition="'$(Configuration)|$(Platform)'=='Debug|x64'">
    <ClCompile>
      <WarningLevel>Level3</WarningLevel>
      <SDLCheck>true</SDLCheck>
      <PreprocessorDefinitions>_DEBUG;_CONSOLE;%(PreprocessorDefinitions)</PreprocessorDefinitions>
      <ConformanceMode>true</ConformanceMode>
      <LanguageStandard>stdcpp20</LanguageStandard>
    </ClCompile>
    <Link>
      <SubSystem>Console</SubSystem>
      <GenerateDebugInformation>true</GenerateDebugInformation>
    </Link>
  </ItemDefinitionGroup>
  <ItemDefinitionGroup Condition="'$(Configuration)|$(Platform)'=='Release|x64'">
    <ClCompile>
      <WarningLevel>Level3</WarningLevel>
      <FunctionLevelLinking>true</FunctionLevelLinking>
      <IntrinsicFunctions>true</IntrinsicFunctions>
      <SDLCheck>true</SDLCheck>
      <PreprocessorDefinitions>NDEBUG;_CONSOLE;%(PreprocessorDefinitions)</PreprocessorDefinitions>
      <ConformanceMode>true</ConformanceMode>
    </ClCompile>
    <Link>
      <SubSystem>Console</SubSystem>
      <EnableCOMDATFolding>true</EnableCOMDATFolding>
      <OptimizeReferences>true</OptimizeReferences>
      <GenerateDebugInformation>true</GenerateDebugInformation>
    </Link>
  </ItemDefinitionGroup>
  <ItemGroup>
{{range .Sources}}{{if .IsModule}}    <ClCompile Include="{{.Path}}">
      <CompileAs>CompileAsCppModule</CompileAs>
    </ClCompile>
{{else}}    <ClCompile Include="{{.Path}}" />
{{end}}{{end}}  </ItemGroup>
  <ItemGroup>
{{range .References}}    <ProjectReference Include="{{.Path}}">
      <Project>{{"{"}}{{.Guid}}{{"}"}}</Project>
      <Name>{{.Name}}</Name>
    </ProjectReference>
{{end}}  </ItemGroup>
  <Import Project="$(VCTargetsPath)\Microsoft.Cpp.targets" />
  <ImportGroup Label="ExtensionTargets">
  </ImportGroup>
</Project>
`))

var slnTmpl = template.Must(template.New("sln").Parse(`Microsoft Visual Studio Solution File, Format Version 12.00
# Visual Studio Version 17
{{range .Projects}}Project("{8BC9CEB8-8B4A-11D0-8D11-00A0C91BC942}") = "{{.DisplayName}}", "{{.Path}}", "{{"{"}}{{.Guid}}{{"}"}}"
	ProjectSection(ProjectDependencies) = postProject
{{range .RefGuids}}		{{"{"}}{{.}}{{"}"}} = {{"{"}}{{.}}{{"}"}}
{{end}}	EndProjectSection
EndProject
{{end}}Global
	GlobalSection(SolutionConfigurationPlatforms) = preSolution
		Debug|x64 = Debug|x64
		Release|x64 = Release|x64
	EndGlobalSection
	GlobalSection(ProjectConfigurationPlatforms) = postSolution
{{range .Projects}}		{{"{"}}{{.Guid}}{{"}"}}.Debug|x64.ActiveCfg = Debug|x64
		{{"{"}}{{.Guid}}{{"}"}}.Debug|x64.Build.0 = Debug|x64
		{{"{"}}{{.Guid}}{{"}"}}.Release|x64.ActiveCfg = Release|x64
		{{"{"}}{{.Guid}}{{"}"}}.Release|x64.Build.0 = Release|x64
{{end}}	EndGlobalSection
	GlobalSection(NestedProjects) = preSolution
	EndGlobalSection
	GlobalSection(ExtensibilityGlobals) = postSolution
	EndGlobalSection
	GlobalSection(ExtensibilityAddIns) = postSolution
	EndGlobalSection
EndGlobal
`))
