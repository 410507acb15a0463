// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/albertocavalcante/cqrsgen/internal/naming"
)

// identityName is the name of the identity field added to entities that
// do not declare one.
const identityName = "Id"

type rawService struct {
	Namespace string      `yaml:"namespace"`
	Entities  []rawEntity `yaml:"entities"`
}

type rawEntity struct {
	Name       string         `yaml:"name"`
	Fields     []Field        `yaml:"fields"`
	Operations []rawOperation `yaml:"operations"`
}

// rawOperation accepts either a bare verb ("Update") or a mapping
// ({verb: Update, input: [Title]} or {query: GetById, input: [Id]}).
type rawOperation struct {
	Verb     string
	Query    string
	Input    []string
	HasInput bool
}

func (o *rawOperation) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		o.Verb = node.Value
		return nil
	}
	var m struct {
		Verb  string    `yaml:"verb"`
		Query string    `yaml:"query"`
		Input *[]string `yaml:"input"`
	}
	if err := node.Decode(&m); err != nil {
		return err
	}
	o.Verb, o.Query = m.Verb, m.Query
	if m.Input != nil {
		o.Input, o.HasInput = *m.Input, true
	}
	return nil
}

// Load reads and parses the spec file at path.
func Load(path string) (*Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML spec, normalizes it and validates it. On failure
// it returns a *SpecError listing every problem and no service.
func Parse(data []byte) (*Service, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var raw rawService
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, &SpecError{Problems: []Problem{{Kind: Malformed, Message: err.Error()}}}
	}

	svc, problems := normalize(raw)
	problems = append(problems, validate(svc)...)
	if len(problems) > 0 {
		return nil, &SpecError{Problems: problems}
	}
	return svc, nil
}

// normalize converts the decoded document into a Service: verbs are
// classified, default inputs are filled in and a missing identity field
// is synthesized.
func normalize(raw rawService) (*Service, []Problem) {
	var problems []Problem
	svc := &Service{Namespace: raw.Namespace}

	for _, re := range raw.Entities {
		e := &Entity{Name: re.Name}
		e.Fields = append(e.Fields, re.Fields...)

		hasIdentity := false
		for i := range e.Fields {
			if e.Fields[i].Identity {
				hasIdentity = true
				e.Fields[i].Required = true
			}
		}
		if !hasIdentity {
			id := Field{Name: identityName, Type: Identifier, Required: true, Identity: true}
			e.Fields = append([]Field{id}, e.Fields...)
		}

		for _, ro := range re.Operations {
			op, p := normalizeOperation(e, ro)
			if p != nil {
				problems = append(problems, *p)
				continue
			}
			e.Operations = append(e.Operations, op)
		}
		svc.Entities = append(svc.Entities, e)
	}
	return svc, problems
}

func normalizeOperation(e *Entity, ro rawOperation) (Operation, *Problem) {
	name := ro.Verb
	if ro.Query != "" {
		name = ro.Query
	}
	switch {
	case ro.Verb != "" && ro.Query != "":
		return Operation{}, &Problem{Kind: InvalidName, Entity: e.Name,
			Message: fmt.Sprintf("operation sets both verb %q and query %q", ro.Verb, ro.Query)}
	case !naming.IsIdentifier(name):
		return Operation{}, &Problem{Kind: InvalidName, Entity: e.Name,
			Message: fmt.Sprintf("operation name %q is not an identifier", name)}
	}

	verb := Verb{Kind: Custom, Name: naming.PascalCase(name)}
	if ro.Query != "" {
		verb.Kind = Query
	} else {
		switch verb.Name {
		case "Create":
			verb.Kind = Create
		case "Update":
			verb.Kind = Update
		case "Delete":
			verb.Kind = Delete
		}
	}

	op := Operation{Verb: verb, Input: ro.Input}
	if !ro.HasInput && (verb.Kind == Create || verb.Kind == Update) {
		op.Input = nil
		for _, f := range e.NonIdentityFields() {
			op.Input = append(op.Input, f.Name)
		}
	}
	return op, nil
}
