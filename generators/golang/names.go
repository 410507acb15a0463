// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package golang

import (
	"strconv"
	"strings"

	"github.com/albertocavalcante/cqrsgen/internal/naming"
	"github.com/albertocavalcante/cqrsgen/internal/typemap"
	"github.com/albertocavalcante/cqrsgen/model"
)

// names derives the identifiers shared by the files of one entity.
type names struct {
	e   *model.Entity
	typ string
	pkg string

	// locals are the parameter names derived from fields; receivers and
	// local variables avoid them.
	locals map[string]bool

	recv string
	agg  string
}

func newNames(e *model.Entity) *names {
	n := &names{
		e:      e,
		typ:    naming.GoName(e.Name),
		pkg:    naming.PackageName(e.Name),
		locals: make(map[string]bool),
	}
	for _, f := range e.Fields {
		n.locals[naming.LocalName(f.Name)] = true
	}
	n.recv = n.pick(strings.ToLower(n.typ[:1]), "self")
	n.agg = n.pick("agg", "aggregate")
	return n
}

// pick returns the first candidate no field parameter uses.
func (n *names) pick(candidates ...string) string {
	for _, c := range candidates {
		if !n.locals[c] {
			return c
		}
	}
	last := candidates[len(candidates)-1]
	for i := 2; ; i++ {
		if c := last + strconv.Itoa(i); !n.locals[c] {
			return c
		}
	}
}

func (n *names) empty() string     { return "empty" + n.typ }
func (n *names) newFunc() string   { return "New" + n.typ }
func (n *names) newWithID() string { return "New" + n.typ + "WithID" }
func (n *names) dto() string       { return n.typ + "DTO" }
func (n *names) response() string  { return n.typ + "Response" }
func (n *names) repo() string      { return n.typ + "Repository" }
func (n *names) builder() string   { return n.typ + "Builder" }
func (n *names) hydrate() string   { return "hydrate" + n.typ }
func (n *names) table() string     { return n.typ + "Table" }
func (n *names) columns() string   { return n.typ + "Columns" }

func (n *names) column(f model.Field) string {
	return n.typ + naming.GoName(f.Name) + "Column"
}

func (n *names) event(v model.Verb) string {
	return n.typ + naming.PastTense(naming.GoName(v.Name))
}

func (n *names) message(v model.Verb) string {
	if v.IsQuery() {
		return naming.GoName(v.Name) + n.typ + "Query"
	}
	return naming.GoName(v.Name) + n.typ + "Command"
}

func (n *names) handler(v model.Verb) string   { return naming.GoName(v.Name) + n.typ + "Handler" }
func (n *names) validator(v model.Verb) string { return naming.GoName(v.Name) + n.typ + "Validator" }
func (n *names) request(v model.Verb) string   { return naming.GoName(v.Name) + n.typ + "Request" }

// method names the aggregate behavior of a command.
func (n *names) method(v model.Verb) string { return naming.GoName(v.Name) }

func exported(f model.Field) string { return naming.GoName(f.Name) }

func local(f model.Field) string { return naming.LocalName(f.Name) }

func jsonTag(f model.Field) string {
	return "`json:\"" + naming.CamelCase(f.Name) + "\"`"
}

// params renders "name type" pairs for fields.
func (f *file) params(fields []model.Field) string {
	parts := make([]string, 0, len(fields))
	for _, fd := range fields {
		parts = append(parts, local(fd)+" "+f.typ(fd))
	}
	return strings.Join(parts, ", ")
}

func args(fields []model.Field) string {
	parts := make([]string, 0, len(fields))
	for _, fd := range fields {
		parts = append(parts, local(fd))
	}
	return strings.Join(parts, ", ")
}

// selectors renders "x.Field" for every field.
func selectors(x string, fields []model.Field) string {
	parts := make([]string, 0, len(fields))
	for _, fd := range fields {
		parts = append(parts, x+"."+exported(fd))
	}
	return strings.Join(parts, ", ")
}

// withIdentity returns the identity followed by the other fields.
func withIdentity(e *model.Entity) []model.Field {
	return append([]model.Field{e.Identity()}, e.NonIdentityFields()...)
}

func containsField(fields []model.Field, name string) bool {
	for _, f := range fields {
		if naming.SnakeCase(f.Name) == naming.SnakeCase(name) {
			return true
		}
	}
	return false
}

func itoa(n int) string { return strconv.Itoa(n) }

// enumConsts lists the constants of an enumeration field, comma separated.
func enumConsts(e *model.Entity, fd model.Field) string {
	parts := make([]string, 0, len(fd.Values))
	for _, v := range fd.Values {
		parts = append(parts, typemap.EnumConst(e.Name, fd.Name, v))
	}
	return strings.Join(parts, ", ")
}
