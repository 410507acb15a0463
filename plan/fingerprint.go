// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/albertocavalcante/cqrsgen/model"
)

// fingerprintLen is the number of hex digits kept from the digest.
const fingerprintLen = 16

// fieldShape is the part of a field that decides the Go declarations
// derived from it.
type fieldShape struct {
	Name     string
	Type     model.FieldType
	Identity bool     `json:",omitempty"`
	Values   []string `json:",omitempty"`
}

// fieldRule adds the constraints carried by mapping rules and validators.
type fieldRule struct {
	fieldShape
	Required  *bool `json:",omitempty"`
	MaxLength int   `json:",omitempty"`
}

type opShape struct {
	Kind  string
	Name  string
	Input []string `json:",omitempty"`
}

// subset is the canonical encoding hashed into a fingerprint. Field order
// is fixed by the struct, so equal inputs always hash equally.
type subset struct {
	Version    string
	Namespace  string
	Module     string
	Entity     string      `json:",omitempty"`
	Kind       Kind
	Verb       *opShape    `json:",omitempty"`
	Fields     []fieldRule `json:",omitempty"`
	Operations []opShape   `json:",omitempty"`
	Entities   []string    `json:",omitempty"`
}

func (s subset) hash() string {
	data, err := json.Marshal(s)
	if err != nil {
		// Only plain values are encoded.
		panic(err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}

// subset selects the spec inputs an artifact of kind renders from.
func (p *planner) subset(kind Kind, op model.Operation) subset {
	e := p.e
	s := subset{
		Version:   p.opts.Version,
		Namespace: p.svc.Namespace,
		Module:    p.opts.Module,
		Entity:    e.Name,
		Kind:      kind,
	}
	identity := []model.Field{e.Identity()}

	switch kind {
	case AggregateType:
		s.Fields = shapes(e.Fields)
		for _, c := range e.Commands() {
			s.Operations = append(s.Operations, p.op(c))
		}
	case DomainEvent:
		s.Verb = ptr(p.op(op))
		s.Fields = shapes(identity)
		if op.Verb.Kind != model.Create {
			s.Fields = append(s.Fields, shapes(e.InputFields(op))...)
		}
	case CommandOrQuery:
		s.Verb = ptr(p.op(op))
		s.Fields = shapes(append(identity, e.InputFields(op)...))
	case Handler:
		s.Verb = ptr(p.op(op))
		s.Fields = shapes(identity)
	case Validator:
		s.Verb = ptr(p.op(op))
		s.Fields = limits(append(identity, e.InputFields(op)...))
	case RequestModel:
		s.Verb = ptr(p.op(op))
		s.Fields = shapes(e.Fields)
	case DTO, ResponseModel:
		s.Fields = shapes(e.Fields)
	case Builder:
		s.Fields = limits(e.Fields)
	case PersistenceMapping:
		s.Fields = rules(e.Fields)
	case EventTest:
		s.Fields = shapes(identity)
		for _, c := range e.Commands() {
			s.Operations = append(s.Operations, p.op(c))
		}
	}
	return s
}

func (p *planner) op(op model.Operation) opShape {
	shape := opShape{Kind: op.Verb.Kind.String(), Name: op.Verb.Name}
	for _, f := range p.e.InputFields(op) {
		shape.Input = append(shape.Input, f.Name)
	}
	return shape
}

func shapeOf(f model.Field) fieldShape {
	return fieldShape{Name: f.Name, Type: f.Type, Identity: f.Identity, Values: f.Values}
}

func shapes(fields []model.Field) []fieldRule {
	out := make([]fieldRule, 0, len(fields))
	for _, f := range fields {
		out = append(out, fieldRule{fieldShape: shapeOf(f)})
	}
	return out
}

// limits keeps max lengths but not required-ness. Validators and builder
// defaults honor lengths; only the mapping records whether a column is
// required.
func limits(fields []model.Field) []fieldRule {
	out := make([]fieldRule, 0, len(fields))
	for _, f := range fields {
		out = append(out, fieldRule{fieldShape: shapeOf(f), MaxLength: f.MaxLength})
	}
	return out
}

func rules(fields []model.Field) []fieldRule {
	out := make([]fieldRule, 0, len(fields))
	for _, f := range fields {
		out = append(out, fieldRule{fieldShape: shapeOf(f), Required: ptr(f.Required), MaxLength: f.MaxLength})
	}
	return out
}

func ptr[T any](v T) *T { return &v }
