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

// Package vfs is the filesystem seam the driver reads project descriptors
// through, so tests can substitute an in-memory tree without touching disk.
// Source files are not read through it: they go to the compiler by path.
package vfs

import (
	"bytes"
	"context"
	"io"
	"os"
	"path"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

// FS is the capability the rest of the tool needs from a filesystem: open
// a file for reading, and check whether a path exists and is a directory.
type FS interface {
	Open(name string) (io.ReadCloser, error)
	Exists(name string) (exists, isDir bool, err error)
}

// Real is an FS backed by github.com/viant/afs, giving the driver a single
// storage abstraction regardless of whether a future profile points it at
// a local path, an archive, or a remote object store.
type Real struct {
	service afs.Service
}

func NewReal() *Real {
	return &Real{service: afs.New()}
}

// Open downloads the whole resource and serves it back as a reader. The
// descriptor files this tool reads are small enough that
// streaming isn't worth the extra afs surface.
func (r *Real) Open(name string) (io.ReadCloser, error) {
	data, err := r.service.DownloadWithURL(context.Background(), name)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Exists walks name's parent directory and looks for a matching entry,
// since afs.Service exposes directory listing through Walk rather than a
// direct stat call.
func (r *Real) Exists(name string) (bool, bool, error) {
	dir := path.Dir(name)
	base := path.Base(name)
	var found, isDir bool
	visitor := func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.Name() == base {
			found = true
			isDir = info.IsDir()
			return false, nil
		}
		return true, nil
	}
	if err := r.service.Walk(context.Background(), dir, storage.OnVisit(visitor)); err != nil {
		return false, false, err
	}
	return found, isDir, nil
}

// Mock is an in-memory FS for tests: a flat map from path to contents,
// plus an explicit directory set (afs's storage.Object interface requires
// IsDir, which a bare byte map can't answer on its own).
type Mock struct {
	Files map[string][]byte
	Dirs  map[string]bool
}

func NewMock() *Mock {
	return &Mock{Files: map[string][]byte{}, Dirs: map[string]bool{}}
}

func (m *Mock) AddFile(path string, content []byte) {
	m.Files[path] = content
}

func (m *Mock) AddDir(path string) {
	m.Dirs[path] = true
}

func (m *Mock) Open(name string) (io.ReadCloser, error) {
	if f, ok := m.Files[name]; ok {
		return io.NopCloser(bytes.NewReader(f)), nil
	}
	return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
}

func (m *Mock) Exists(name string) (bool, bool, error) {
	if m.Dirs[name] {
		return true, true, nil
	}
	if _, ok := m.Files[name]; ok {
		return true, false, nil
	}
	return false, false, nil
}
