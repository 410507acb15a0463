// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/albertocavalcante/cqrsgen/internal/run"
	"github.com/albertocavalcante/cqrsgen/model"
)

var (
	okLabel      = color.New(color.FgHiGreen)
	problemLabel = color.New(color.FgRed)
)

// statusColor returns the label color of a file status.
func statusColor(s run.Status) *color.Color {
	switch s {
	case run.Created:
		return color.New(color.FgHiGreen)
	case run.Updated:
		return color.New(color.FgHiBlue)
	case run.OrphanedMembers:
		return color.New(color.FgYellow)
	case run.Failed:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgHiBlack)
	}
}

// printReport writes one line per file that is not unchanged, then the
// totals.
func printReport(out io.Writer, r *run.Report) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, f := range r.Files {
		if f.Status == run.Unchanged {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", statusColor(f.Status).Sprint(strings.ToUpper(f.Status.String())), f.Path, detail(f))
	}
	_ = w.Flush()

	counts := r.Counts()
	var parts []string
	for _, s := range run.Statuses {
		if n := counts[s]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, s))
		}
	}
	state := "committed"
	switch {
	case r.DryRun:
		state = "dry run, nothing written"
	case !r.Committed:
		state = "nothing written"
	}
	fmt.Fprintf(out, "%d files: %s (%s, run %s)\n", len(r.Files), strings.Join(parts, ", "), state, r.ID)
}

func detail(f run.FileReport) string {
	switch f.Status {
	case run.Failed:
		return f.Err.Error()
	case run.OrphanedMembers:
		return "orphaned: " + strings.Join(f.Orphans(), ", ")
	case run.Updated:
		return fmt.Sprintf("%d member changes", len(f.Deltas))
	}
	return ""
}

// printProblems lists the problems of a spec.
func printProblems(out io.Writer, err *model.SpecError) {
	for _, p := range err.Problems {
		fmt.Fprintf(out, "%s %s\n", problemLabel.Sprint("problem"), p)
	}
}
