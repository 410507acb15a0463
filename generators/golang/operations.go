// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package golang

import (
	"github.com/albertocavalcante/cqrsgen/internal/naming"
	"github.com/albertocavalcante/cqrsgen/model"
)

// eventFields returns the payload of the event an operation records.
// Creation events carry only the identity.
func eventFields(e *model.Entity, op model.Operation) []model.Field {
	fields := []model.Field{e.Identity()}
	if op.Verb.Kind == model.Create {
		return fields
	}
	return append(fields, e.InputFields(op)...)
}

func renderEvent(f *file, n *names, namespace string, op model.Operation) {
	name := n.event(op.Verb)
	f.printf("// %s is recorded by the %s operation.\n", name, op.Verb.Name)
	f.printf("type %s struct {\n", name)
	for _, fd := range eventFields(n.e, op) {
		f.printf("\t%s %s %s\n", exported(fd), f.typ(fd), jsonTag(fd))
	}
	f.printf("}\n\n")

	f.printf("// EventName returns the qualified name of the event.\n")
	f.printf("func (%s) EventName() string {\n", name)
	f.printf("\treturn %q\n}\n", namespace+"."+name)
}

// messageFields returns the fields a command or query carries.
func messageFields(e *model.Entity, op model.Operation) []model.Field {
	if op.Verb.IsQuery() {
		return e.InputFields(op)
	}
	return append([]model.Field{e.Identity()}, e.InputFields(op)...)
}

func renderMessage(f *file, n *names, op model.Operation) {
	name := n.message(op.Verb)
	if op.Verb.IsQuery() {
		f.printf("// %s asks for %s data through the %s operation.\n", name, n.typ, op.Verb.Name)
	} else {
		f.printf("// %s carries the input of the %s operation.\n", name, op.Verb.Name)
	}
	f.printf("type %s struct {\n", name)
	for _, fd := range messageFields(n.e, op) {
		f.printf("\t%s %s\n", exported(fd), f.typ(fd))
	}
	f.printf("}\n")
}

func renderHandler(f *file, n *names, op model.Operation) {
	name := n.handler(op.Verb)
	msg := n.message(op.Verb)

	f.printf("// %s handles %s.\n", name, msg)
	f.printf("type %s struct {\n\trepo %s\n}\n\n", name, n.repo())

	f.printf("// New%s returns a %s backed by repo.\n", name, name)
	f.printf("func New%s(repo %s) *%s {\n", name, n.repo(), name)
	f.printf("\treturn &%s{repo: repo}\n}\n\n", name)

	f.use("context")
	id := n.e.Identity()
	if op.Verb.IsQuery() {
		f.editableDoc("Handle answers %s.", msg)
		f.printf("func (h *%s) Handle(ctx context.Context, q %s) (%s, error) {\n", name, msg, n.response())
		inputs := n.e.InputFields(op)
		if len(inputs) == 1 && inputs[0].Identity {
			f.printf("\tagg, err := h.repo.Get(ctx, q.%s)\n", exported(id))
			f.printf("\tif err != nil {\n\t\treturn %s{}, err\n\t}\n", n.response())
			f.printf("\treturn New%s(agg), nil\n}\n", n.response())
			return
		}
		f.use("errors")
		f.printf("\treturn %s{}, errors.New(%q)\n}\n", n.response(), name+": not implemented")
		return
	}

	f.editableDoc("Handle executes %s.", msg)
	f.printf("func (h *%s) Handle(ctx context.Context, cmd %s) error {\n", name, msg)
	f.printf("\tagg, err := h.repo.Get(ctx, cmd.%s)\n", exported(id))
	f.printf("\tif err != nil {\n\t\treturn err\n\t}\n")
	f.printf("\tif err := agg.%s(%s); err != nil {\n\t\treturn err\n\t}\n",
		n.method(op.Verb), selectors("cmd", n.e.InputFields(op)))
	if op.Verb.Kind == model.Delete {
		f.printf("\treturn h.repo.Delete(ctx, cmd.%s)\n}\n", exported(id))
		return
	}
	f.printf("\treturn h.repo.Save(ctx, agg)\n}\n")
}

func renderValidator(f *file, n *names, op model.Operation) {
	name := n.validator(op.Verb)
	msg := n.message(op.Verb)
	x := "cmd"
	if op.Verb.IsQuery() {
		x = "q"
	}

	f.use("errors")
	f.printf("// %s checks %s before it is handled.\n", name, msg)
	f.printf("type %s struct{}\n\n", name)
	f.printf("// Validate reports every rule %s violates.\n", x)
	f.printf("func (%s) Validate(%s %s) error {\n", name, x, msg)
	f.printf("\tvar errs []error\n")
	for _, fd := range messageFields(n.e, op) {
		sel := x + "." + exported(fd)
		key := naming.SnakeCase(fd.Name)
		switch {
		case fd.Identity:
			f.printf("\tif %s == %s {\n", sel, f.zero(fd))
			f.printf("\t\terrs = append(errs, errors.New(%q))\n\t}\n", key+" is required")
		case fd.Type == model.Text && fd.MaxLength > 0:
			f.printf("\tif len(%s) > %d {\n", sel, fd.MaxLength)
			f.printf("\t\terrs = append(errs, errors.New(%q))\n\t}\n",
				key+" must be at most "+itoa(fd.MaxLength)+" characters")
		case fd.Type == model.Enumeration:
			f.printf("\tswitch %s {\n\tcase %s:\n\tdefault:\n", sel, enumConsts(n.e, fd))
			f.printf("\t\terrs = append(errs, errors.New(%q))\n\t}\n", key+" has an unknown value")
		}
	}
	f.printf("\treturn errors.Join(errs...)\n}\n")
}
