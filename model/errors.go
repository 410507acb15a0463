// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSpec matches every *SpecError via errors.Is.
var ErrInvalidSpec = errors.New("invalid spec")

// ProblemKind classifies a validation problem.
type ProblemKind string

const (
	Malformed              ProblemKind = "Malformed"
	EmptyNamespace         ProblemKind = "EmptyNamespace"
	InvalidName            ProblemKind = "InvalidName"
	ReservedName           ProblemKind = "ReservedName"
	DuplicateEntityName    ProblemKind = "DuplicateEntityName"
	DuplicateFieldName     ProblemKind = "DuplicateFieldName"
	DuplicateOperation     ProblemKind = "DuplicateOperation"
	MultipleIdentityFields ProblemKind = "MultipleIdentityFields"
	MissingIdentity        ProblemKind = "MissingIdentity"
	InvalidIdentity        ProblemKind = "InvalidIdentity"
	UnknownType            ProblemKind = "UnknownType"
	UnknownField           ProblemKind = "UnknownField"
	InvalidEnumeration     ProblemKind = "InvalidEnumeration"
	InvalidConstraint      ProblemKind = "InvalidConstraint"
)

// Problem is one violated rule.
type Problem struct {
	Kind    ProblemKind
	Entity  string
	Field   string
	Message string
}

func (p Problem) String() string {
	var b strings.Builder
	b.WriteString(string(p.Kind))
	if p.Entity != "" {
		fmt.Fprintf(&b, " entity %q", p.Entity)
	}
	if p.Field != "" {
		fmt.Fprintf(&b, " field %q", p.Field)
	}
	b.WriteString(": ")
	b.WriteString(p.Message)
	return b.String()
}

// SpecError lists every problem found while validating a spec.
type SpecError struct {
	Problems []Problem
}

func (e *SpecError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid spec: " + e.Problems[0].String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "invalid spec: %d problems", len(e.Problems))
	for _, p := range e.Problems {
		b.WriteString("\n  - ")
		b.WriteString(p.String())
	}
	return b.String()
}

// Is reports whether target is ErrInvalidSpec.
func (e *SpecError) Is(target error) bool {
	return target == ErrInvalidSpec
}

// Has reports whether any problem is of the given kind.
func (e *SpecError) Has(kind ProblemKind) bool {
	for _, p := range e.Problems {
		if p.Kind == kind {
			return true
		}
	}
	return false
}

// Kinds returns the kind of every problem, in discovery order.
func (e *SpecError) Kinds() []ProblemKind {
	kinds := make([]ProblemKind, len(e.Problems))
	for i, p := range e.Problems {
		kinds[i] = p.Kind
	}
	return kinds
}
