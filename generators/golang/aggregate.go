// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package golang

import (
	"github.com/albertocavalcante/cqrsgen/internal/typemap"
	"github.com/albertocavalcante/cqrsgen/model"
)

// renderAggregate writes the aggregate root: state, constructors,
// accessors, one behavior method per command and the event buffer.
func renderAggregate(f *file, n *names) {
	e := n.e
	id := e.Identity()
	rest := e.NonIdentityFields()

	for _, fd := range e.Fields {
		if fd.Type == model.Enumeration {
			renderEnum(f, e, fd)
		}
	}

	f.printf("// %s is the %s aggregate root.\n", n.typ, e.Name)
	f.printf("type %s struct {\n", n.typ)
	for _, fd := range e.Fields {
		f.printf("\t%s %s\n", local(fd), f.typ(fd))
	}
	f.printf("\tevents []any\n")
	f.printf("}\n\n")

	f.printf("// %s returns a zero %s for persistence to fill in.\n", n.empty(), n.typ)
	f.printf("func %s() *%s {\n\treturn &%s{}\n}\n\n", n.empty(), n.typ, n.typ)

	newArgs := f.sample(id)
	if len(rest) > 0 {
		newArgs += ", " + args(rest)
	}
	f.printf("// %s creates a %s with a fresh identity.\n", n.newFunc(), n.typ)
	f.printf("func %s(%s) *%s {\n", n.newFunc(), f.params(rest), n.typ)
	f.printf("\treturn %s(%s)\n}\n\n", n.newWithID(), newArgs)

	created := n.event(model.Verb{Kind: model.Create, Name: "Create"})
	f.printf("// %s creates a %s with the given identity and records %s.\n", n.newWithID(), n.typ, created)
	f.printf("func %s(%s) *%s {\n", n.newWithID(), f.params(withIdentity(e)), n.typ)
	f.printf("\t%s := &%s{\n", n.agg, n.typ)
	for _, fd := range withIdentity(e) {
		f.printf("\t\t%s: %s,\n", local(fd), local(fd))
	}
	f.printf("\t}\n")
	f.printf("\t%s.record(%s{%s: %s})\n", n.agg, created, exported(id), local(id))
	f.printf("\treturn %s\n}\n\n", n.agg)

	for _, fd := range e.Fields {
		f.printf("// %s returns the %s of the %s.\n", exported(fd), fd.Name, n.typ)
		f.printf("func (%s *%s) %s() %s {\n", n.recv, n.typ, exported(fd), f.typ(fd))
		f.printf("\treturn %s.%s\n}\n\n", n.recv, local(fd))
	}

	for _, op := range e.Commands() {
		renderBehavior(f, n, op)
	}

	f.printf("// record appends event to the pending events.\n")
	f.printf("func (%s *%s) record(event any) {\n", n.recv, n.typ)
	f.printf("\t%s.events = append(%s.events, event)\n}\n\n", n.recv, n.recv)

	f.printf("// Events returns the events recorded since the last ClearEvents.\n")
	f.printf("func (%s *%s) Events() []any {\n\treturn %s.events\n}\n\n", n.recv, n.typ, n.recv)

	f.printf("// ClearEvents drops the pending events.\n")
	f.printf("func (%s *%s) ClearEvents() {\n\t%s.events = nil\n}\n", n.recv, n.typ, n.recv)
}

// renderBehavior writes the editable method that applies one command.
func renderBehavior(f *file, n *names, op model.Operation) {
	inputs := n.e.InputFields(op)
	id := n.e.Identity()
	event := n.event(op.Verb)

	f.editableDoc("%s applies the %s operation and records %s.", n.method(op.Verb), op.Verb.Name, event)
	f.printf("func (%s *%s) %s(%s) error {\n", n.recv, n.typ, n.method(op.Verb), f.params(inputs))
	for _, fd := range inputs {
		f.printf("\t%s.%s = %s\n", n.recv, local(fd), local(fd))
	}
	f.printf("\t%s.record(%s{\n", n.recv, event)
	f.printf("\t\t%s: %s.%s,\n", exported(id), n.recv, local(id))
	for _, fd := range inputs {
		f.printf("\t\t%s: %s,\n", exported(fd), local(fd))
	}
	f.printf("\t})\n")
	f.printf("\treturn nil\n}\n\n")
}

func renderEnum(f *file, e *model.Entity, fd model.Field) {
	typ := typemap.EnumType(e.Name, fd.Name)
	f.printf("// %s enumerates the values of %s.%s.\n", typ, e.Name, fd.Name)
	f.printf("type %s string\n\n", typ)
	f.printf("// Values of %s.\n", typ)
	f.printf("const (\n")
	for _, v := range fd.Values {
		f.printf("\t%s %s = %q\n", typemap.EnumConst(e.Name, fd.Name, v), typ, v)
	}
	f.printf(")\n\n")
}
