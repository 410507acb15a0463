// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package typemap maps abstract field types to Go type expressions,
// zero values and builder default literals.
package typemap

import (
	"slices"
	"strconv"

	"github.com/albertocavalcante/cqrsgen/internal/naming"
	"github.com/albertocavalcante/cqrsgen/model"
)

// Import paths referenced by mapped types.
const (
	ImportUUID = "github.com/google/uuid"
	ImportTime = "time"
)

// GoType is the Go rendering of one field.
type GoType struct {
	// Expr is the type expression ("uuid.UUID", "*time.Time").
	Expr string

	// Zero is a literal of the zero value.
	Zero string

	// Default is the literal a test builder starts from.
	Default string

	// Import is the package Expr refers to, or "".
	Import string
}

// For returns the Go rendering of field f of entity. Unknown tags map to
// "any"; a validated spec never contains one.
func For(entity string, f model.Field) GoType {
	switch f.Type {
	case model.Identifier:
		return GoType{Expr: "uuid.UUID", Zero: "uuid.Nil", Default: "uuid.New()", Import: ImportUUID}
	case model.Text:
		return GoType{Expr: "string", Zero: `""`, Default: strconv.Quote(sampleText(f))}
	case model.Integer:
		return GoType{Expr: "int64", Zero: "0", Default: "1"}
	case model.Decimal:
		return GoType{Expr: "float64", Zero: "0", Default: "9.99"}
	case model.Boolean:
		return GoType{Expr: "bool", Zero: "false", Default: "true"}
	case model.Timestamp:
		return GoType{Expr: "time.Time", Zero: "time.Time{}", Default: "time.Now()", Import: ImportTime}
	case model.OptionalTimestamp:
		return GoType{Expr: "*time.Time", Zero: "nil", Default: "nil", Import: ImportTime}
	case model.Enumeration:
		gt := GoType{Expr: EnumType(entity, f.Name), Zero: `""`, Default: `""`}
		if len(f.Values) > 0 {
			gt.Default = EnumConst(entity, f.Name, f.Values[0])
		}
		return gt
	}
	return GoType{Expr: "any", Zero: "nil", Default: "nil"}
}

// sampleText is a fixed placeholder that respects the field's max length.
func sampleText(f model.Field) string {
	s := "sample " + naming.SnakeCase(f.Name)
	if f.MaxLength > 0 && len(s) > f.MaxLength {
		s = s[:f.MaxLength]
	}
	return s
}

// EnumType names the Go type generated for an enumeration field.
func EnumType(entity, field string) string {
	return naming.GoName(entity) + naming.GoName(field)
}

// EnumConst names the constant of one enumeration value.
func EnumConst(entity, field, value string) string {
	return EnumType(entity, field) + naming.GoName(value)
}

// Imports returns the sorted, de-duplicated imports needed by fields.
func Imports(entity string, fields []model.Field) []string {
	var out []string
	for _, f := range fields {
		if imp := For(entity, f).Import; imp != "" && !slices.Contains(out, imp) {
			out = append(out, imp)
		}
	}
	slices.Sort(out)
	return out
}
