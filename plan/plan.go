// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package plan decides which artifacts an entity expands into, where
// each one lives and which part of the spec it depends on.
package plan

import (
	"strings"

	"github.com/albertocavalcante/cqrsgen/internal/naming"
	"github.com/albertocavalcante/cqrsgen/model"
)

// Kind identifies what an artifact contains.
type Kind string

const (
	AggregateType      Kind = "AggregateType"
	DomainEvent        Kind = "DomainEvent"
	CommandOrQuery     Kind = "CommandOrQuery"
	Handler            Kind = "Handler"
	Validator          Kind = "Validator"
	DTO                Kind = "DTO"
	RequestModel       Kind = "RequestModel"
	ResponseModel      Kind = "ResponseModel"
	PersistenceMapping Kind = "PersistenceMapping"
	Builder            Kind = "Builder"
	EventTest          Kind = "EventTest"
	Registry           Kind = "Registry"
)

// PerVerb reports whether artifacts of kind k exist once per operation.
func (k Kind) PerVerb() bool {
	switch k {
	case DomainEvent, CommandOrQuery, Handler, Validator, RequestModel:
		return true
	}
	return false
}

// Artifact is one planned output file.
type Artifact struct {
	Kind Kind

	// Operation is the operation a per-verb artifact renders. It is the
	// zero value for the other kinds.
	Operation model.Operation

	// Entity is the entity name, empty for the registry.
	Entity string

	// Path is the slash-separated path relative to the output root.
	Path string

	// Fingerprint hashes exactly the spec inputs the artifact depends on.
	Fingerprint string
}

// Verb is shorthand for a.Operation.Verb.
func (a Artifact) Verb() model.Verb { return a.Operation.Verb }

// ID is the path without its extension ("Item/DomainEvent_Create").
func (a Artifact) ID() string {
	id := strings.TrimSuffix(a.Path, ".go")
	return strings.TrimSuffix(id, "_test")
}

// Options carries the run-wide inputs that end up in every fingerprint.
type Options struct {
	// Module is the import path of the output root.
	Module string

	// Version is the version of the target producing the text.
	Version string
}

// Plan returns the artifacts of entity e. Per-operation artifacts come
// first, in operation order; the artifacts every entity has come last.
func Plan(svc *model.Service, e *model.Entity, opts Options) []Artifact {
	p := &planner{svc: svc, e: e, opts: opts}

	for _, op := range e.Operations {
		switch {
		case op.Verb.Kind == model.Create:
			p.add(RequestModel, op)
		default:
			p.add(CommandOrQuery, op)
			p.add(Handler, op)
			if needsValidator(e, op) {
				p.add(Validator, op)
			}
			if !op.Verb.IsQuery() {
				p.add(DomainEvent, op)
				if len(e.InputFields(op)) > 0 {
					p.add(RequestModel, op)
				}
			}
		}
	}

	var none model.Operation
	p.add(AggregateType, none)
	p.add(DomainEvent, createOperation(e))
	p.add(DTO, none)
	if len(e.Queries()) > 0 {
		p.add(ResponseModel, none)
	}
	p.add(PersistenceMapping, none)
	p.add(Builder, none)
	p.add(EventTest, none)
	return p.out
}

// PlanRegistry returns the artifact that lists every entity of svc.
func PlanRegistry(svc *model.Service, opts Options) Artifact {
	var names []string
	for _, e := range svc.Entities {
		names = append(names, e.Name)
	}
	s := subset{
		Version:   opts.Version,
		Namespace: svc.Namespace,
		Module:    opts.Module,
		Kind:      Registry,
		Entities:  names,
	}
	return Artifact{
		Kind:        Registry,
		Path:        naming.ArtifactPath("", "Registry", ".go"),
		Fingerprint: s.hash(),
	}
}

func needsValidator(e *model.Entity, op model.Operation) bool {
	switch op.Verb.Kind {
	case model.Delete:
		return false
	case model.Query:
		return len(e.InputFields(op)) > 0
	}
	return true
}

// createOperation returns the declared Create operation, or a bare one
// when the spec omits it: every aggregate has a constructor.
func createOperation(e *model.Entity) model.Operation {
	if op, ok := e.Operation(model.Create); ok {
		return op
	}
	return model.Operation{Verb: model.Verb{Kind: model.Create, Name: "Create"}}
}

type planner struct {
	svc  *model.Service
	e    *model.Entity
	opts Options
	out  []Artifact
}

func (p *planner) add(kind Kind, op model.Operation) {
	a := Artifact{
		Kind:      kind,
		Operation: op,
		Entity:    p.e.Name,
		Path:      naming.ArtifactPath(p.e.Name, Stem(kind, op.Verb), Ext(kind)),
	}
	a.Fingerprint = p.subset(kind, op).hash()
	p.out = append(p.out, a)
}

// Stem returns the file name of an artifact without its extension.
func Stem(kind Kind, verb model.Verb) string {
	switch kind {
	case CommandOrQuery:
		if verb.IsQuery() {
			return "Query_" + verb.Name
		}
		return "Command_" + verb.Name
	case DomainEvent, Handler, Validator, RequestModel:
		return string(kind) + "_" + verb.Name
	}
	return string(kind)
}

// Ext returns the file extension of an artifact.
func Ext(kind Kind) string {
	if kind == EventTest {
		return "_test.go"
	}
	return ".go"
}
