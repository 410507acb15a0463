// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecord(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordFile("created")
	m.RecordFile("created")
	m.RecordFile("unchanged")
	m.RecordDelta("added", 3)
	m.RecordDelta("orphaned", 0)
	m.RecordMerge("DTO", 2*time.Millisecond)

	if got := testutil.ToFloat64(m.FilesTotal.WithLabelValues("created")); got != 2 {
		t.Errorf("files_total{created} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.FilesTotal.WithLabelValues("unchanged")); got != 1 {
		t.Errorf("files_total{unchanged} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.MemberDeltasTotal.WithLabelValues("added")); got != 3 {
		t.Errorf("member_deltas_total{added} = %v, want 3", got)
	}
	if got := testutil.CollectAndCount(m.MemberDeltasTotal); got != 1 {
		t.Errorf("member_deltas_total series = %d, want 1 (zero counts are not recorded)", got)
	}
	if got := testutil.CollectAndCount(m.MergeDuration); got != 1 {
		t.Errorf("merge_duration_seconds series = %d, want 1", got)
	}
}

func TestNewNilRegistry(t *testing.T) {
	m := New(nil)
	if m.Registry() == nil {
		t.Fatal("Registry() = nil")
	}
	m.RecordRun(time.Second)
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Error("no metric families gathered")
	}
}

func TestWriteFile(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.RecordFile("updated")
	m.RecordRun(1500 * time.Millisecond)

	path := filepath.Join(t.TempDir(), "cqrsgen.prom")
	if err := m.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`cqrsgen_files_total{status="updated"} 1`,
		"cqrsgen_run_duration_seconds 1.5",
		"# HELP cqrsgen_files_total",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile lacks %q:\n%s", want, data)
		}
	}
}

func TestWriteFileBadPath(t *testing.T) {
	m := New(nil)
	if err := m.WriteFile(filepath.Join(t.TempDir(), "missing", "x.prom")); err == nil {
		t.Error("WriteFile into a missing directory succeeded")
	}
}
