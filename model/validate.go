// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package model

import (
	"fmt"
	"strings"

	"github.com/albertocavalcante/cqrsgen/internal/naming"
)

// Validate checks a normalized service. It returns a *SpecError listing
// every problem, or nil.
func Validate(svc *Service) error {
	if problems := validate(svc); len(problems) > 0 {
		return &SpecError{Problems: problems}
	}
	return nil
}

func validate(svc *Service) []Problem {
	v := &validator{}
	v.namespace(svc.Namespace)

	entities := make(map[string]string)
	for _, e := range svc.Entities {
		key := naming.SnakeCase(e.Name)
		if prev, ok := entities[key]; ok {
			v.add(DuplicateEntityName, e.Name, "", "entity %q collides with %q", e.Name, prev)
		} else {
			entities[key] = e.Name
		}
		v.entity(e)
	}
	return v.problems
}

type validator struct {
	problems []Problem
}

func (v *validator) add(kind ProblemKind, entity, field, format string, args ...any) {
	v.problems = append(v.problems, Problem{
		Kind:    kind,
		Entity:  entity,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

func (v *validator) namespace(ns string) {
	if strings.TrimSpace(ns) == "" {
		v.add(EmptyNamespace, "", "", "namespace is required")
		return
	}
	for _, seg := range strings.Split(ns, ".") {
		if !naming.IsIdentifier(seg) {
			v.add(InvalidName, "", "", "namespace segment %q is not an identifier", seg)
		}
	}
}

func (v *validator) name(kind, entity, field, name string) bool {
	if !naming.IsIdentifier(name) {
		v.add(InvalidName, entity, field, "%s name %q is not an identifier", kind, name)
		return false
	}
	if naming.IsReserved(name) {
		v.add(ReservedName, entity, field, "%s name %q is reserved", kind, name)
		return false
	}
	return true
}

func (v *validator) entity(e *Entity) {
	v.name("entity", e.Name, "", e.Name)

	fields := make(map[string]string)
	identities := 0
	for _, f := range e.Fields {
		if !v.name("field", e.Name, f.Name, f.Name) {
			continue
		}
		key := fieldKey(f.Name)
		if prev, ok := fields[key]; ok {
			v.add(DuplicateFieldName, e.Name, f.Name, "field %q collides with %q", f.Name, prev)
		} else {
			fields[key] = f.Name
		}
		if f.Identity {
			identities++
			if f.Type != Identifier {
				v.add(InvalidIdentity, e.Name, f.Name, "identity field must have type %q, got %q", Identifier, f.Type)
			}
		}
		v.field(e.Name, f)
	}
	switch {
	case identities == 0:
		v.add(MissingIdentity, e.Name, "", "entity has no identity field")
	case identities > 1:
		v.add(MultipleIdentityFields, e.Name, "", "entity declares %d identity fields", identities)
	}

	verbs := make(map[string]bool)
	for _, op := range e.Operations {
		v.operation(e, op, fields, verbs)
	}
}

func (v *validator) field(entity string, f Field) {
	if !f.Type.Valid() {
		v.add(UnknownType, entity, f.Name, "unknown type %q", f.Type)
		return
	}
	if f.MaxLength < 0 {
		v.add(InvalidConstraint, entity, f.Name, "maxLength must not be negative")
	}
	if f.MaxLength > 0 && f.Type != Text {
		v.add(InvalidConstraint, entity, f.Name, "maxLength applies to text fields only")
	}

	if f.Type != Enumeration {
		if len(f.Values) > 0 {
			v.add(InvalidEnumeration, entity, f.Name, "values apply to enumeration fields only")
		}
		return
	}
	if len(f.Values) == 0 {
		v.add(InvalidEnumeration, entity, f.Name, "enumeration declares no values")
	}
	seen := make(map[string]bool)
	for _, val := range f.Values {
		key := naming.GoName(val)
		switch {
		case !naming.IsIdentifier(val):
			v.add(InvalidEnumeration, entity, f.Name, "value %q is not an identifier", val)
		case seen[key]:
			v.add(InvalidEnumeration, entity, f.Name, "value %q is declared twice", val)
		}
		seen[key] = true
	}
}

func (v *validator) operation(e *Entity, op Operation, fields map[string]string, verbs map[string]bool) {
	name := op.Verb.Name
	if !v.name("operation", e.Name, "", name) {
		return
	}
	if verbs[name] {
		v.add(DuplicateOperation, e.Name, "", "operation %q is declared twice", name)
	}
	verbs[name] = true

	if op.Verb.Kind != Query {
		if _, ok := fields[fieldKey(name)]; ok {
			v.add(ReservedName, e.Name, name, "operation %q collides with the accessor of field %q", name, name)
		}
	}

	inputs := make(map[string]bool)
	for _, in := range op.Input {
		key := fieldKey(in)
		if _, ok := fields[key]; !ok {
			v.add(UnknownField, e.Name, in, "operation %q references unknown field %q", name, in)
			continue
		}
		if inputs[key] {
			v.add(DuplicateFieldName, e.Name, in, "operation %q lists field %q twice", name, in)
		}
		inputs[key] = true
	}
}
