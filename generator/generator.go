// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package generator defines the interface for language targets.
package generator

import (
	"context"

	"github.com/albertocavalcante/cqrsgen/manifest"
	"github.com/albertocavalcante/cqrsgen/model"
	"github.com/albertocavalcante/cqrsgen/plan"
)

// Target renders planned artifacts in one language and parses files of
// that language back into manifests.
type Target interface {
	// Metadata returns information about this target.
	Metadata() Metadata

	// Render produces the text of one planned artifact.
	Render(ctx context.Context, req Request) (*GeneratedArtifact, error)

	// Parse builds the manifest of a source file.
	Parse(src []byte) (*manifest.File, error)

	// Format returns the canonical formatting of src.
	Format(src []byte) ([]byte, error)

	// OrphanMarker returns the text, ending in a newline, inserted at
	// m.DeclLine of f to flag m as orphaned.
	OrphanMarker(f *manifest.File, m *manifest.Member) string

	// UnusedAmbient returns the identities of ambient members of src
	// (imports) that nothing in src refers to.
	UnusedAmbient(src []byte) ([]string, error)

	// FingerprintLine returns the header line, including its newline,
	// that records fp.
	FingerprintLine(fp string) string
}

// Metadata describes a target.
type Metadata struct {
	// Name is the short identifier (e.g., "go").
	Name string

	// Version is the target version (semver). It is part of every
	// fingerprint, so bumping it regenerates every artifact.
	Version string

	// Description is a human-readable description.
	Description string

	// FileExtensions lists typical output extensions (e.g., [".go"]).
	FileExtensions []string
}

// Request is the input of one Render call.
type Request struct {
	Service  *model.Service
	Artifact plan.Artifact

	// Entity is the entity the artifact belongs to. It is nil for the
	// registry.
	Entity *model.Entity

	// Entities lists, in spec order, the entities the registry covers.
	Entities []*model.Entity

	Config Config
}

// GeneratedArtifact is the rendered text of one artifact.
type GeneratedArtifact struct {
	Artifact plan.Artifact
	Text     []byte

	// Manifest is the parsed form of Text.
	Manifest *manifest.File
}

// Path returns the output path of the artifact.
func (g *GeneratedArtifact) Path() string { return g.Artifact.Path }

// Fingerprint returns the fingerprint recorded in the text.
func (g *GeneratedArtifact) Fingerprint() string { return g.Artifact.Fingerprint }
