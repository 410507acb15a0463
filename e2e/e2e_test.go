// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package e2e provides end-to-end tests for the cqrsgen CLI.
package e2e

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"

	"github.com/albertocavalcante/cqrsgen/internal/testutil"
)

var binary string // path to built cqrsgen binary

func TestMain(m *testing.M) {
	// Build the cqrsgen binary to a temp location.
	tmpDir, err := os.MkdirTemp("", "cqrsgen-e2e-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}

	binary = filepath.Join(tmpDir, "cqrsgen")
	if err := buildBinary(binary); err != nil {
		fmt.Fprintf(os.Stderr, "failed to build binary: %v\n", err)
		os.RemoveAll(tmpDir)
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

// buildBinary builds the cqrsgen binary to the specified path.
func buildBinary(outputPath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "go", "build", "-o", outputPath, "./cmd/cqrsgen")

	moduleRoot, err := findModuleRoot()
	if err != nil {
		return fmt.Errorf("find module root: %w", err)
	}
	cmd.Dir = moduleRoot

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go build: %w: %s", err, stderr.String())
	}
	return nil
}

// findModuleRoot finds the root of the Go module by looking for go.mod.
func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found")
		}
		dir = parent
	}
}

// cqrsgen runs the binary in dir and returns its stdout.
func cqrsgen(t *testing.T, dir string, args ...string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "CQRSGEN_LOG_LEVEL=warn")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		t.Logf("command: %s %s", binary, strings.Join(args, " "))
		t.Logf("stdout: %s", stdout.String())
		t.Logf("stderr: %s", stderr.String())
		t.Fatalf("command failed: %v", err)
	}
	return stdout.String()
}

// snapshot reads every file under dir, keyed by slash-separated path.
func snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", dir, err)
	}
	return files
}

func TestE2E(t *testing.T) {
	pattern := filepath.Join("testdata", "*.txtar")
	files, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatalf("glob %q: %v", pattern, err)
	}
	if len(files) == 0 {
		t.Fatalf("no txtar files found in %q", "testdata")
	}

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".txtar")
		t.Run(name, func(t *testing.T) {
			runTestCase(t, file, name)
		})
	}
}

// runTestCase generates a case twice: the first run must produce the
// wanted files, the second must leave every byte as it was.
func runTestCase(t *testing.T, file, name string) {
	t.Helper()

	ar, err := txtar.ParseFile(file)
	if err != nil {
		t.Fatalf("parse txtar: %v", err)
	}
	tc, err := testutil.ParseCase(name, ar)
	if err != nil {
		t.Fatalf("parse case: %v", err)
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "spec.yaml"), tc.Spec, 0o644); err != nil {
		t.Fatalf("write spec.yaml: %v", err)
	}
	out := filepath.Join(dir, "gen")
	tc.Seed(t, out)

	args := append([]string{"generate", "spec.yaml", "-o", "gen"}, tc.Flags...)
	first := cqrsgen(t, dir, args...)
	if !strings.Contains(first, "committed") {
		t.Errorf("first run did not commit:\n%s", first)
	}
	tc.Check(t, out)

	before := snapshot(t, out)
	second := cqrsgen(t, dir, args...)
	if diff := cmp.Diff(before, snapshot(t, out)); diff != "" {
		t.Errorf("second run changed the tree (-before +after):\n%s", diff)
	}
	for _, label := range []string{"CREATED", "UPDATED", "ORPHANED-MEMBERS", "FAILED"} {
		if strings.Contains(second, label) {
			t.Errorf("second run reported %s:\n%s", label, second)
		}
	}
}

func TestPlanMatchesGenerate(t *testing.T) {
	dir := t.TempDir()
	spec := "namespace: Acme.Todo\nentities:\n  - name: Item\n    fields:\n      - {name: Title, type: text, required: true}\n    operations: [Create, Update, Delete]\n"
	if err := os.WriteFile(filepath.Join(dir, "spec.yaml"), []byte(spec), 0o644); err != nil {
		t.Fatal(err)
	}

	planned := cqrsgen(t, dir, "plan", "spec.yaml")
	cqrsgen(t, dir, "generate", "spec.yaml", "-o", "gen")
	written := snapshot(t, filepath.Join(dir, "gen"))

	lines := strings.Split(strings.TrimSpace(planned), "\n")[1:]
	if len(lines) != len(written) {
		t.Errorf("plan lists %d artifacts, generate wrote %d files", len(lines), len(written))
	}
	for _, line := range lines {
		fields := strings.Fields(line)
		path, fp := fields[0], fields[len(fields)-1]
		text, ok := written[path]
		if !ok {
			t.Errorf("planned %s was not written", path)
			continue
		}
		if !strings.Contains(text, "// cqrsgen:fingerprint "+fp+"\n") {
			t.Errorf("%s does not record fingerprint %s", path, fp)
		}
	}
}
