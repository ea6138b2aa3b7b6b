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

// Package cxxtoken is a preprocessing-token level tokenizer for C++20
// source, built on top of internal/combinator. It recognizes comments,
// deleted line-splices, literals (including raw strings and UDL suffixes),
// preprocessing numbers, preprocessor control lines, and the module/import
// grammar, and groups the result into per-line token records.
package cxxtoken

// Kind is the closed set of preprocessing-token kinds a scan can emit.
type Kind int

const (
	Whitespace Kind = iota
	Newline
	DeletedNewline
	LineComment
	BlockComment
	Identifier
	Keyword
	Number
	Character
	String
	RawString
	EscapeSequence
	UniversalCharacterName
	Punctuator
	PreprocessorControl
	PreprocessorIdentifier
	MacroName
	MacroArg
	MacroVAArgs
	MacroArgList
	MacroReplacement
	CharEncoding
	CharDelim
	CharUDL
	StringEncoding
	StringDelim
	StringUDL
	LocalHeaderName
	SystemHeaderName
	ModuleDecl
	ModuleExport
	ModuleImport
	ModuleName
)

func (k Kind) String() string {
	switch k {
	case Whitespace:
		return "whitespace"
	case Newline:
		return "newline"
	case DeletedNewline:
		return "deleted_newline"
	case LineComment:
		return "line_comment"
	case BlockComment:
		return "block_comment"
	case Identifier:
		return "identifier"
	case Keyword:
		return "keyword"
	case Number:
		return "number"
	case Character:
		return "character"
	case String:
		return "string"
	case RawString:
		return "raw_string"
	case EscapeSequence:
		return "escape_sequence"
	case UniversalCharacterName:
		return "universal_character_name"
	case Punctuator:
		return "punctuator"
	case PreprocessorControl:
		return "preprocessor_control"
	case PreprocessorIdentifier:
		return "preprocessor_identifier"
	case MacroName:
		return "macro_name"
	case MacroArg:
		return "macro_arg"
	case MacroVAArgs:
		return "macro_va_args"
	case MacroArgList:
		return "macro_arg_list"
	case MacroReplacement:
		return "macro_replacement"
	case CharEncoding:
		return "char_encoding"
	case CharDelim:
		return "char_delim"
	case CharUDL:
		return "char_udl"
	case StringEncoding:
		return "string_encoding"
	case StringDelim:
		return "string_delim"
	case StringUDL:
		return "string_udl"
	case LocalHeaderName:
		return "local_header_name"
	case SystemHeaderName:
		return "system_header_name"
	case ModuleDecl:
		return "module_decl"
	case ModuleExport:
		return "module_export"
	case ModuleImport:
		return "module_import"
	case ModuleName:
		return "module_name"
	default:
		return "unknown"
	}
}

// Token is a single preprocessing token: a byte range plus its kind. Start
// and End are, before line post-processing, absolute offsets into the
// scanned source; after a Line callback fires, they are relative to that
// Line's Offset.
type Token struct {
	Start int
	End   int
	Kind  Kind
}

// Line is the per-line record handed to a scan's callback: the absolute
// source offset and byte length (terminator excluded) of the line, and its
// tokens with offsets relative to Offset.
type Line struct {
	Offset int
	Size   int
	Tokens []Token
}

// Slice returns the bytes of t within the line's source text, given the
// same src passed to Tokenize and line.Offset as the base.
func (l Line) Slice(src []byte, t Token) []byte {
	return src[l.Offset+t.Start : l.Offset+t.End]
}
