// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package golang renders CQRS scaffolding as Go source and parses Go
// source into merge manifests.
package golang

import (
	"bytes"
	"context"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	pathpkg "path"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/albertocavalcante/cqrsgen/generator"
	"github.com/albertocavalcante/cqrsgen/internal/naming"
	"github.com/albertocavalcante/cqrsgen/manifest"
	"github.com/albertocavalcante/cqrsgen/plan"
)

// Version of the rendered text. Every fingerprint includes it, so a bump
// regenerates every artifact.
const Version = "1.0.0"

// Target implements [generator.Target] for Go.
type Target struct{}

var _ generator.Target = (*Target)(nil)

// New creates a new Go target.
func New() *Target {
	return &Target{}
}

// Metadata returns information about this target.
func (t *Target) Metadata() generator.Metadata {
	return generator.Metadata{
		Name:           "go",
		Version:        Version,
		Description:    "Generate Go CQRS scaffolding",
		FileExtensions: []string{".go"},
	}
}

// Render produces the text of one planned artifact.
func (t *Target) Render(ctx context.Context, req generator.Request) (*generator.GeneratedArtifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a := req.Artifact

	var f *file
	if a.Kind == plan.Registry {
		f = newFile(naming.RootPackage(req.Service.Namespace), "")
		renderRegistry(f, req.Config.Module, req.Entities)
	} else {
		if req.Entity == nil {
			return nil, fmt.Errorf("render %s: no entity", a.Path)
		}
		n := newNames(req.Entity)
		f = newFile(n.pkg, req.Entity.Name)
		if err := renderEntityArtifact(f, n, req); err != nil {
			return nil, err
		}
	}

	text, err := f.bytes(req.Service.Namespace, a.Fingerprint)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", a.Path, err)
	}
	m, err := Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse rendered %s: %w", a.Path, err)
	}
	text = withRecord(text, m)
	if m, err = Parse(text); err != nil {
		return nil, fmt.Errorf("parse rendered %s: %w", a.Path, err)
	}
	return &generator.GeneratedArtifact{Artifact: a, Text: text, Manifest: m}, nil
}

func renderEntityArtifact(f *file, n *names, req generator.Request) error {
	a := req.Artifact
	op := a.Operation
	switch a.Kind {
	case plan.AggregateType:
		renderAggregate(f, n)
	case plan.DomainEvent:
		renderEvent(f, n, req.Service.Namespace, op)
	case plan.CommandOrQuery:
		renderMessage(f, n, op)
	case plan.Handler:
		renderHandler(f, n, op)
	case plan.Validator:
		renderValidator(f, n, op)
	case plan.DTO:
		renderDTO(f, n)
	case plan.RequestModel:
		renderRequest(f, n, op)
	case plan.ResponseModel:
		renderResponse(f, n)
	case plan.PersistenceMapping:
		renderMapping(f, n)
	case plan.Builder:
		renderBuilder(f, n)
	case plan.EventTest:
		renderEventTest(f, n)
	default:
		return fmt.Errorf("render %s: unsupported artifact kind %q", a.Path, a.Kind)
	}
	return nil
}

// Parse builds the manifest of a Go file.
func (t *Target) Parse(src []byte) (*manifest.File, error) {
	return Parse(src)
}

// Format returns the gofmt formatting of src.
func (t *Target) Format(src []byte) ([]byte, error) {
	return format.Source(src)
}

// OrphanMarker returns the directive line flagging m as orphaned. When m
// already has a doc comment ending in prose, a "//" separator line keeps
// the result in gofmt's doc comment layout.
func (t *Target) OrphanMarker(f *manifest.File, m *manifest.Member) string {
	marker := m.Indent + orphanDirective + "\n"
	if m.DeclLine <= m.Span.Start || m.DeclLine == 0 {
		return marker
	}
	prevStart := bytes.LastIndexByte(f.Src[:m.DeclLine-1], '\n') + 1
	prev := strings.TrimSpace(string(f.Src[prevStart:m.DeclLine]))
	text, ok := strings.CutPrefix(prev, "//")
	if !ok || text == "" || isDirective(text) {
		return marker
	}
	return m.Indent + "//\n" + marker
}

// FingerprintLine returns the header line recording fp.
func (t *Target) FingerprintLine(fp string) string {
	return fingerprintLine(fp)
}

// UnusedAmbient returns the identities of imports of src whose package is
// never referenced. Blank, dot and imports whose name cannot be guessed
// from the path are always treated as used.
func (t *Target) UnusedAmbient(src []byte) ([]string, error) {
	fset := token.NewFileSet()
	// UsesImport relies on object resolution.
	af, err := parser.ParseFile(fset, "", src, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	var unused []string
	for _, spec := range af.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		if spec.Name == nil && !token.IsIdentifier(pathpkg.Base(path)) {
			continue
		}
		if !astutil.UsesImport(af, path) {
			unused = append(unused, "import "+spec.Path.Value)
		}
	}
	return unused, nil
}
