// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package run

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/albertocavalcante/cqrsgen/internal/merge"
	"github.com/albertocavalcante/cqrsgen/plan"
)

var (
	// ErrIO is matched by every *FileError.
	ErrIO = errors.New("artifact i/o failed")

	// ErrRunFailed is returned by Run in fail-fast mode when any file
	// failed. Nothing was written.
	ErrRunFailed = errors.New("generation run failed")
)

// FileError is a read, stage or commit failure of one file.
type FileError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Is matches ErrIO.
func (e *FileError) Is(target error) bool { return target == ErrIO }

// Status is the outcome of one file.
type Status int

const (
	Unchanged Status = iota
	Updated
	OrphanedMembers
	Created
	Failed
)

var statusNames = [...]string{
	Unchanged:       "unchanged",
	Updated:         "updated",
	OrphanedMembers: "orphaned-members",
	Created:         "created",
	Failed:          "failed",
}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Statuses lists every status in report order.
var Statuses = []Status{Created, Updated, OrphanedMembers, Unchanged, Failed}

// FileReport is the outcome of one artifact.
type FileReport struct {
	Path   string
	Entity string
	Kind   plan.Kind
	Status Status

	// Deltas lists the member changes of an Updated or OrphanedMembers
	// file.
	Deltas []merge.Delta

	// Err is set when Status is Failed.
	Err error
}

// Orphans returns the identities flagged as orphaned.
func (f FileReport) Orphans() []string {
	var out []string
	for _, d := range f.Deltas {
		if d.Kind == merge.Orphaned {
			out = append(out, d.Identity)
		}
	}
	return out
}

// Report is the outcome of a run.
type Report struct {
	ID       uuid.UUID
	Started  time.Time
	Duration time.Duration

	// Files lists every artifact in entity order, then plan order, with
	// the registry last.
	Files []FileReport

	// Committed is set once the staged files were renamed into place.
	Committed bool

	DryRun bool
}

// Counts returns the number of files per status.
func (r *Report) Counts() map[Status]int {
	counts := make(map[Status]int)
	for _, f := range r.Files {
		counts[f.Status]++
	}
	return counts
}

// Failures returns the failed files.
func (r *Report) Failures() []FileReport {
	var out []FileReport
	for _, f := range r.Files {
		if f.Status == Failed {
			out = append(out, f)
		}
	}
	return out
}

// File returns the report of the artifact at path.
func (r *Report) File(path string) (FileReport, bool) {
	for _, f := range r.Files {
		if f.Path == path {
			return f, true
		}
	}
	return FileReport{}, false
}

// statusOf derives the status of a merged file. Files whose bytes did
// not change are unchanged whatever the merge reported.
func statusOf(res *merge.Result, changed bool) Status {
	switch {
	case res.Created:
		return Created
	case !changed:
		return Unchanged
	case res.Count(merge.Orphaned) > 0:
		return OrphanedMembers
	default:
		return Updated
	}
}
