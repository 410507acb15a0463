// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package outfs reads and writes artifacts under an output root.
//
// Writes are staged: each file is written to a temporary sibling of its
// destination and only renamed into place when the whole batch commits.
// A reader therefore sees either the old or the new content of a file,
// never a partial one.
package outfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// ErrPathInvalid is returned for paths that are absolute or leave the
// output root.
var ErrPathInvalid = errors.New("invalid artifact path")

const (
	permFile = 0o644
	permDir  = 0o755
)

// FS is an output root.
type FS struct {
	root string
}

// New returns the output root at dir.
func New(dir string) (*FS, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: empty output directory", ErrPathInvalid)
	}
	return &FS{root: dir}, nil
}

// Root returns the output directory.
func (w *FS) Root() string { return w.root }

// Read returns the content of the artifact at the slash-separated path
// rel. exists is false when there is no such file.
func (w *FS) Read(rel string) (data []byte, exists bool, err error) {
	dest, err := w.mapPath(rel)
	if err != nil {
		return nil, false, err
	}
	data, err = os.ReadFile(dest)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// mapPath: Clean + Join + escape checks.
func (w *FS) mapPath(rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || clean == "" {
		return "", ErrPathInvalid
	}
	if filepath.IsAbs(clean) {
		return "", ErrPathInvalid
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", ErrPathInvalid
	}
	if vol := filepath.VolumeName(clean); vol != "" {
		return "", ErrPathInvalid
	}
	return filepath.Join(w.root, clean), nil
}

// Batch is a set of staged writes. It is safe for concurrent use.
type Batch struct {
	fs *FS

	mu     sync.Mutex
	staged map[string]string // destination -> temporary file
	done   bool
}

// Begin starts a batch.
func (w *FS) Begin() *Batch {
	return &Batch{fs: w, staged: make(map[string]string)}
}

// Stage writes data to a temporary file next to the destination of rel.
// Staging the same path twice keeps the last data.
func (b *Batch) Stage(ctx context.Context, rel string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dest, err := b.fs.mapPath(rel)
	if err != nil {
		return err
	}
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, permDir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, permFile)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done {
		_ = os.Remove(tmpPath)
		return errors.New("stage after commit or abort")
	}
	if prev, ok := b.staged[dest]; ok {
		_ = os.Remove(prev)
	}
	b.staged[dest] = tmpPath
	return nil
}

// Len returns the number of staged files.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.staged)
}

// Commit renames every staged file into place, in path order. On the
// first failure the remaining temporary files are removed and the error
// names the destination that failed.
func (b *Batch) Commit() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done {
		return nil
	}
	b.done = true

	dests := make([]string, 0, len(b.staged))
	for dest := range b.staged {
		dests = append(dests, dest)
	}
	slices.Sort(dests)

	for i, dest := range dests {
		if err := os.Rename(b.staged[dest], dest); err != nil {
			for _, rest := range dests[i:] {
				_ = os.Remove(b.staged[rest])
			}
			return &fs.PathError{Op: "commit", Path: dest, Err: err}
		}
		syncDir(filepath.Dir(dest))
	}
	return nil
}

// Abort removes every staged file. Destinations are left untouched.
func (b *Batch) Abort() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done {
		return
	}
	b.done = true
	for _, tmp := range b.staged {
		_ = os.Remove(tmp)
	}
}

// syncDir best-effort fsyncs a directory to persist renames.
func syncDir(dir string) {
	f, err := os.Open(dir)
	if err != nil {
		return
	}
	defer f.Close()
	_ = f.Sync()
}
