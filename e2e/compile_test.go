// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

//go:build e2e

// Compile verification of generated code. It needs the go tool and access
// to the module cache or proxy for github.com/google/uuid.
//
// Run with: go test -tags e2e ./e2e/... -v
package e2e

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

const compileSpec = `namespace: Acme.Todo
entities:
  - name: Item
    fields:
      - {name: Title, type: text, required: true, maxLength: 255}
      - {name: Priority, type: integer}
      - {name: Price, type: decimal}
      - {name: IsCompleted, type: boolean, required: true}
      - {name: Status, type: enumeration, values: [Open, Closed]}
      - {name: CreatedAt, type: timestamp}
      - {name: DueAt, type: optional-timestamp}
    operations:
      - Create
      - Update
      - Delete
      - MarkComplete
      - {query: GetById, input: [Id]}
      - {query: Search, input: [Title]}
  - name: Tag
    fields:
      - {name: Label, type: text, required: true}
    operations: [Create, Delete]
`

// TestGoOutputCompiles verifies that generated Go code builds, vets and
// passes its own generated tests.
func TestGoOutputCompiles(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Fatalf("go not found in PATH. Install from https://go.dev/dl/")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	dir := t.TempDir()
	goMod := "module acme/todo\n\ngo 1.22\n\nrequire github.com/google/uuid v1.6.0\n"
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte(goMod), 0o644); err != nil {
		t.Fatalf("write go.mod: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "spec.yaml"), []byte(compileSpec), 0o644); err != nil {
		t.Fatalf("write spec.yaml: %v", err)
	}
	cqrsgen(t, dir, "generate", "spec.yaml", "-o", ".")

	for _, step := range [][]string{
		{"mod", "tidy"},
		{"build", "./..."},
		{"vet", "./..."},
		{"test", "./..."},
	} {
		t.Run("go_"+step[0], func(t *testing.T) {
			start := time.Now()
			cmd := exec.CommandContext(ctx, "go", step...)
			cmd.Dir = dir
			var stderr bytes.Buffer
			cmd.Stderr = &stderr
			if err := cmd.Run(); err != nil {
				t.Fatalf("go %v failed: %v\n%s", step, err, stderr.String())
			}
			t.Logf("go %v: %v", step, time.Since(start))
		})
	}
}
