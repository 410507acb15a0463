// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package model defines the service spec that drives code generation:
// a namespace, its entities, their fields and their operations.
//
// A *Service returned by [Parse] or [Load] is validated and normalized.
// Callers must treat it as immutable.
package model

import (
	"github.com/albertocavalcante/cqrsgen/internal/naming"
)

// FieldType is an abstract field type tag.
type FieldType string

// Field type tags, spelled as they appear in a spec file.
const (
	Identifier        FieldType = "identifier"
	Text              FieldType = "text"
	Integer           FieldType = "integer"
	Decimal           FieldType = "decimal"
	Boolean           FieldType = "boolean"
	Timestamp         FieldType = "timestamp"
	OptionalTimestamp FieldType = "optional-timestamp"
	Enumeration       FieldType = "enumeration"
)

// FieldTypes lists every known tag in declaration order.
var FieldTypes = []FieldType{
	Identifier, Text, Integer, Decimal, Boolean, Timestamp, OptionalTimestamp, Enumeration,
}

// Valid reports whether t is a known tag.
func (t FieldType) Valid() bool {
	for _, known := range FieldTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Field describes one attribute of an entity.
type Field struct {
	Name      string    `yaml:"name"`
	Type      FieldType `yaml:"type"`
	Required  bool      `yaml:"required"`
	MaxLength int       `yaml:"maxLength"`
	Identity  bool      `yaml:"isIdentity"`
	Values    []string  `yaml:"values"`
}

// VerbKind classifies an operation.
type VerbKind int

const (
	Create VerbKind = iota
	Update
	Delete
	Custom
	Query
)

func (k VerbKind) String() string {
	switch k {
	case Create:
		return "create"
	case Update:
		return "update"
	case Delete:
		return "delete"
	case Custom:
		return "custom"
	case Query:
		return "query"
	}
	return "unknown"
}

// Verb names an operation. Name is the PascalCase verb as written in
// the spec ("Create", "MarkComplete", "GetById").
type Verb struct {
	Kind VerbKind
	Name string
}

func (v Verb) String() string { return v.Name }

// IsQuery reports whether v is a read-side operation.
func (v Verb) IsQuery() bool { return v.Kind == Query }

// Operation is one verb of an entity and the fields it takes as input.
type Operation struct {
	Verb  Verb
	Input []string
}

// Entity is one aggregate of the service.
type Entity struct {
	Name       string
	Fields     []Field
	Operations []Operation
}

// Identity returns the identity field. Every normalized entity has one.
func (e *Entity) Identity() Field {
	for _, f := range e.Fields {
		if f.Identity {
			return f
		}
	}
	return Field{}
}

// NonIdentityFields returns the fields other than the identity, in
// declaration order.
func (e *Entity) NonIdentityFields() []Field {
	var out []Field
	for _, f := range e.Fields {
		if !f.Identity {
			out = append(out, f)
		}
	}
	return out
}

// Field looks up a field by name. Lookup ignores case differences that
// vanish once the name becomes a Go identifier.
func (e *Entity) Field(name string) (Field, bool) {
	key := fieldKey(name)
	for _, f := range e.Fields {
		if fieldKey(f.Name) == key {
			return f, true
		}
	}
	return Field{}, false
}

// InputFields resolves the input of op to fields, in the order the
// operation lists them. The identity is never part of a command's input
// because every command other than Create already carries it.
func (e *Entity) InputFields(op Operation) []Field {
	var out []Field
	for _, name := range op.Input {
		f, ok := e.Field(name)
		if !ok {
			continue
		}
		if f.Identity && !op.Verb.IsQuery() {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Operation returns the operation with the given kind, if declared.
// Custom and Query kinds may occur more than once; the first is returned.
func (e *Entity) Operation(kind VerbKind) (Operation, bool) {
	for _, op := range e.Operations {
		if op.Verb.Kind == kind {
			return op, true
		}
	}
	return Operation{}, false
}

// Commands returns the non-query operations other than Create.
func (e *Entity) Commands() []Operation {
	var out []Operation
	for _, op := range e.Operations {
		if op.Verb.Kind != Create && op.Verb.Kind != Query {
			out = append(out, op)
		}
	}
	return out
}

// Queries returns the query operations.
func (e *Entity) Queries() []Operation {
	var out []Operation
	for _, op := range e.Operations {
		if op.Verb.Kind == Query {
			out = append(out, op)
		}
	}
	return out
}

// Service is the root of a spec.
type Service struct {
	Namespace string
	Entities  []*Entity
}

// Entity looks up an entity by name.
func (s *Service) Entity(name string) (*Entity, bool) {
	for _, e := range s.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

func fieldKey(name string) string {
	return naming.SnakeCase(name)
}
