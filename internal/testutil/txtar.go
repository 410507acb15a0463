// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package testutil loads generation scenarios from txtar archives.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// Case is a generation scenario parsed from a txtar archive.
type Case struct {
	// Name is the archive name without its extension.
	Name string

	// Description is the archive comment.
	Description string

	// Flags holds the values of a "Flags: a, b" description line. Values
	// are separated by commas or spaces.
	Flags []string

	// Status maps paths to the status names listed on "Status: path name"
	// description lines.
	Status map[string]string

	// Spec is the content of "spec.yaml".
	Spec []byte

	// Existing maps output paths to the content of "existing/<path>"
	// files, seeded before the run.
	Existing map[string][]byte

	// Want maps output paths to the content of "want/<path>" files. Every
	// non-blank line of a want file must appear in the output file, in
	// order.
	Want map[string][]byte

	// Same lists paths whose output must equal the seeded content.
	Same []string
}

// ParseCase parses a txtar archive into a Case.
func ParseCase(name string, ar *txtar.Archive) (*Case, error) {
	c := &Case{
		Name:        name,
		Description: string(ar.Comment),
		Status:      make(map[string]string),
		Existing:    make(map[string][]byte),
		Want:        make(map[string][]byte),
	}
	c.parseDescription()

	for _, f := range ar.Files {
		switch {
		case f.Name == "spec.yaml":
			c.Spec = f.Data
		case strings.HasPrefix(f.Name, "existing/"):
			c.Existing[strings.TrimPrefix(f.Name, "existing/")] = f.Data
		case strings.HasPrefix(f.Name, "want/"):
			c.Want[strings.TrimPrefix(f.Name, "want/")] = f.Data
		default:
			return nil, fmt.Errorf("unexpected file in archive: %q (expected spec.yaml, existing/* or want/*)", f.Name)
		}
	}
	if c.Spec == nil {
		return nil, fmt.Errorf("missing spec.yaml in archive")
	}
	return c, nil
}

func (c *Case) parseDescription() {
	for _, line := range strings.Split(c.Description, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Flags:"):
			c.Flags = append(c.Flags, strings.FieldsFunc(strings.TrimPrefix(line, "Flags:"), func(r rune) bool {
				return r == ',' || r == ' ' || r == '\t'
			})...)
		case strings.HasPrefix(line, "Status:"):
			if fields := strings.Fields(strings.TrimPrefix(line, "Status:")); len(fields) == 2 {
				c.Status[fields[0]] = fields[1]
			}
		case strings.HasPrefix(line, "Same:"):
			c.Same = append(c.Same, strings.Fields(strings.TrimPrefix(line, "Same:"))...)
		}
	}
}

// HasFlag reports whether the description lists flag.
func (c *Case) HasFlag(flag string) bool {
	for _, f := range c.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Seed writes the existing files under dir.
func (c *Case) Seed(t *testing.T, dir string) {
	t.Helper()
	for rel, data := range c.Existing {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// Check compares the files under dir with the expectations of the case.
func (c *Case) Check(t *testing.T, dir string) {
	t.Helper()
	for rel, want := range c.Want {
		got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			t.Errorf("read %s: %v", rel, err)
			continue
		}
		if line, ok := ContainsLines(got, want); !ok {
			t.Errorf("%s lacks line %q (or it is out of order):\n%s", rel, line, got)
		}
	}
	for _, rel := range c.Same {
		got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			t.Errorf("read %s: %v", rel, err)
			continue
		}
		if normalizeContent(got) != normalizeContent(c.Existing[rel]) {
			t.Errorf("%s changed:\n%s", rel, got)
		}
	}
}

// ContainsLines reports whether every non-blank line of want appears in
// got, in order, ignoring leading and trailing whitespace. On failure it
// returns the first line not found.
func ContainsLines(got, want []byte) (string, bool) {
	lines := strings.Split(string(got), "\n")
	i := 0
	for _, w := range strings.Split(string(want), "\n") {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		for i < len(lines) && strings.TrimSpace(lines[i]) != w {
			i++
		}
		if i == len(lines) {
			return w, false
		}
		i++
	}
	return "", true
}

// normalizeContent trims trailing whitespace from each line and trailing
// newlines from the content.
func normalizeContent(content []byte) string {
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// LoadCases loads every txtar case in dir, sorted by name.
func LoadCases(t *testing.T, dir string) []*Case {
	t.Helper()

	pattern := filepath.Join(dir, "*.txtar")
	files, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatalf("glob %q: %v", pattern, err)
	}
	if len(files) == 0 {
		t.Fatalf("no txtar files found in %q", dir)
	}

	var cases []*Case
	for _, file := range files {
		ar, err := txtar.ParseFile(file)
		if err != nil {
			t.Fatalf("parse %q: %v", file, err)
		}
		name := strings.TrimSuffix(filepath.Base(file), ".txtar")
		c, err := ParseCase(name, ar)
		if err != nil {
			t.Fatalf("parse case %q: %v", name, err)
		}
		cases = append(cases, c)
	}

	sort.Slice(cases, func(i, j int) bool {
		return cases[i].Name < cases[j].Name
	})
	return cases
}
