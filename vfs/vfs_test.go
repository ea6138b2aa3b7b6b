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

package vfs

import (
	"io"
	"testing"
)

func TestMockOpenReadsBackContent(t *testing.T) {
	m := NewMock()
	m.AddFile("/src/sources.json", []byte(`{"type":"executable"}`))

	rc, err := m.Open("/src/sources.json")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != `{"type":"executable"}` {
		t.Fatalf("content = %q", got)
	}
}

func TestMockOpenMissingFileFails(t *testing.T) {
	m := NewMock()
	if _, err := m.Open("/missing"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestMockExistsDistinguishesFilesAndDirs(t *testing.T) {
	m := NewMock()
	m.AddDir("/src")
	m.AddFile("/src/a.cc", []byte("int main(){}"))

	if exists, isDir, err := m.Exists("/src"); err != nil || !exists || !isDir {
		t.Fatalf("dir: exists=%v isDir=%v err=%v", exists, isDir, err)
	}
	if exists, isDir, err := m.Exists("/src/a.cc"); err != nil || !exists || isDir {
		t.Fatalf("file: exists=%v isDir=%v err=%v", exists, isDir, err)
	}
	if exists, _, err := m.Exists("/src/missing.cc"); err != nil || exists {
		t.Fatalf("missing: exists=%v err=%v", exists, err)
	}
}
