// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package generator

import (
	"context"
	"strings"
	"testing"

	"github.com/albertocavalcante/cqrsgen/manifest"
)

// mockTarget is a test implementation of Target.
type mockTarget struct {
	name string
}

func (m *mockTarget) Metadata() Metadata {
	return Metadata{
		Name:           m.name,
		Version:        "1.0.0",
		Description:    "Mock target for testing",
		FileExtensions: []string{".mock"},
	}
}

func (m *mockTarget) Render(_ context.Context, req Request) (*GeneratedArtifact, error) {
	return &GeneratedArtifact{Artifact: req.Artifact, Text: []byte("mock content")}, nil
}

func (m *mockTarget) Parse(src []byte) (*manifest.File, error) {
	f := &manifest.File{Src: src}
	f.Index()
	return f, nil
}

func (m *mockTarget) Format(src []byte) ([]byte, error) { return src, nil }

func (m *mockTarget) OrphanMarker(_ *manifest.File, mem *manifest.Member) string {
	return mem.Indent + "# orphan\n"
}

func (m *mockTarget) UnusedAmbient([]byte) ([]string, error) { return nil, nil }

func (m *mockTarget) FingerprintLine(fp string) string { return "# " + fp + "\n" }

func TestRegistry(t *testing.T) {
	// Reset registry before and after test
	Reset()
	defer Reset()

	t.Run("Register and Get", func(t *testing.T) {
		Register(&mockTarget{name: "test"})

		got, ok := Get("test")
		if !ok {
			t.Fatal("expected to find registered target")
		}
		if got.Metadata().Name != "test" {
			t.Errorf("got name %q, want %q", got.Metadata().Name, "test")
		}
	})

	t.Run("Get nonexistent", func(t *testing.T) {
		_, ok := Get("nonexistent")
		if ok {
			t.Error("expected not to find nonexistent target")
		}
	})

	t.Run("Lookup names the alternatives", func(t *testing.T) {
		_, err := Lookup("nonexistent")
		if err == nil {
			t.Fatal("expected error for unknown target")
		}
		if !strings.Contains(err.Error(), "test") {
			t.Errorf("error %q does not list registered targets", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		Reset()
		Register(&mockTarget{name: "zebra"})
		Register(&mockTarget{name: "alpha"})

		names := List()
		if len(names) != 2 {
			t.Fatalf("got %d targets, want 2", len(names))
		}
		// Should be sorted
		if names[0] != "alpha" || names[1] != "zebra" {
			t.Errorf("got %v, want [alpha zebra]", names)
		}
	})

	t.Run("All", func(t *testing.T) {
		Reset()
		Register(&mockTarget{name: "two"})
		Register(&mockTarget{name: "one"})

		all := All()
		if len(all) != 2 {
			t.Fatalf("got %d targets, want 2", len(all))
		}
		if all[0].Metadata().Name != "one" {
			t.Errorf("All()[0] = %q, want %q", all[0].Metadata().Name, "one")
		}
	})

	t.Run("Duplicate panics", func(t *testing.T) {
		Reset()
		Register(&mockTarget{name: "dup"})

		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic on duplicate registration")
			}
		}()
		Register(&mockTarget{name: "dup"})
	})
}
