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
	"github.com/albertocavalcante/cqrsgen/model"
)

// renderMapping writes the column rules, the repository contract and the
// hydration helper of an entity.
func renderMapping(f *file, n *names) {
	e := n.e
	id := e.Identity()

	f.printf("// Column is the mapping rule of one persisted field.\n")
	f.printf("type Column struct {\n")
	f.printf("\tName          string\n")
	f.printf("\tRequired      bool\n")
	f.printf("\tMaxLength     int\n")
	f.printf("\tKey           bool\n")
	f.printf("\tAutoGenerated bool\n")
	f.printf("}\n\n")

	f.printf("// %s is the table that stores %s aggregates.\n", n.table(), n.typ)
	f.printf("const %s = %q\n\n", n.table(), naming.Pluralize(naming.SnakeCase(e.Name)))

	f.printf("// Mapping rules of the %s fields.\n", n.typ)
	f.printf("var (\n")
	for _, fd := range e.Fields {
		f.printf("\t%s = Column{Name: %q, Required: %t", n.column(fd), naming.SnakeCase(fd.Name), fd.Required)
		if fd.MaxLength > 0 {
			f.printf(", MaxLength: %d", fd.MaxLength)
		}
		if fd.Identity {
			f.printf(", Key: true, AutoGenerated: false")
		}
		f.printf("}\n")
	}
	f.printf(")\n\n")

	f.printf("// %s returns the mapping rules in field order.\n", n.columns())
	f.printf("func %s() []Column {\n\treturn []Column{\n", n.columns())
	for _, fd := range e.Fields {
		f.printf("\t\t%s,\n", n.column(fd))
	}
	f.printf("\t}\n}\n\n")

	f.use("context")
	f.printf("// %s loads and stores %s aggregates.\n", n.repo(), n.typ)
	f.printf("type %s interface {\n", n.repo())
	f.printf("\tGet(ctx context.Context, %s %s) (*%s, error)\n", local(id), f.typ(id), n.typ)
	f.printf("\tSave(ctx context.Context, agg *%s) error\n", n.typ)
	f.printf("\tDelete(ctx context.Context, %s %s) error\n", local(id), f.typ(id))
	f.printf("}\n\n")

	f.printf("// %s rebuilds a %s from stored values without recording events.\n", n.hydrate(), n.typ)
	f.printf("func %s(%s) *%s {\n", n.hydrate(), f.params(withIdentity(e)), n.typ)
	f.printf("\t%s := %s()\n", n.agg, n.empty())
	for _, fd := range withIdentity(e) {
		f.printf("\t%s.%s = %s\n", n.agg, local(fd), local(fd))
	}
	f.printf("\treturn %s\n}\n", n.agg)
}

// renderBuilder writes the test data builder of an entity.
func renderBuilder(f *file, n *names) {
	e := n.e
	b := n.pick("b", "bld")
	name := n.builder()

	f.printf("// %s assembles %s values with valid defaults.\n", name, n.typ)
	f.printf("type %s struct {\n", name)
	for _, fd := range withIdentity(e) {
		f.printf("\t%s %s\n", local(fd), f.typ(fd))
	}
	f.printf("}\n\n")

	f.printf("// New%s returns a builder holding a default for every field.\n", name)
	f.printf("func New%s() *%s {\n\treturn &%s{\n", name, name, name)
	for _, fd := range withIdentity(e) {
		f.printf("\t\t%s: %s,\n", local(fd), f.sample(fd))
	}
	f.printf("\t}\n}\n\n")

	for _, fd := range withIdentity(e) {
		f.printf("// With%s sets the %s.\n", exported(fd), fd.Name)
		f.printf("func (%s *%s) With%s(%s %s) *%s {\n", b, name, exported(fd), local(fd), f.typ(fd), name)
		f.printf("\t%s.%s = %s\n\treturn %s\n}\n\n", b, local(fd), local(fd), b)
	}

	var vals []string
	for _, fd := range withIdentity(e) {
		vals = append(vals, b+"."+local(fd))
	}
	f.printf("// Build creates the %s.\n", n.typ)
	f.printf("func (%s *%s) Build() *%s {\n", b, name, n.typ)
	f.printf("\treturn %s(%s)\n}\n", n.newWithID(), strings.Join(vals, ", "))
}

// renderEventTest writes the event tests of an entity. The creation test
// is generated in full; the others are placeholders to fill in.
func renderEventTest(f *file, n *names) {
	id := exported(n.e.Identity())
	created := n.event(model.Verb{Kind: model.Create, Name: "Create"})

	f.use("testing")
	f.printf("func Test%s(t *testing.T) {\n", created)
	f.printf("\tagg := New%s().Build()\n", n.builder())
	f.printf("\tevents := agg.Events()\n")
	f.printf("\tif len(events) != 1 {\n\t\tt.Fatalf(\"got %%d events, want 1\", len(events))\n\t}\n")
	f.printf("\tgot, ok := events[0].(%s)\n", created)
	f.printf("\tif !ok {\n\t\tt.Fatalf(\"got %%T, want %s\", events[0])\n\t}\n", created)
	f.printf("\tif got.%s != agg.%s() {\n", id, id)
	f.printf("\t\tt.Errorf(\"event %s = %%v, want %%v\", got.%s, agg.%s())\n\t}\n", id, id, id)
	f.printf("}\n")

	for _, op := range n.e.Commands() {
		event := n.event(op.Verb)
		f.printf("\n")
		f.editableDoc("Test%s checks the %s operation.", event, op.Verb.Name)
		f.printf("func Test%s(t *testing.T) {\n", event)
		f.printf("\tt.Skip(%q)\n}\n", "write a test for "+n.typ+"."+n.method(op.Verb))
	}
}

// renderRegistry writes the root file listing the repository of every
// entity.
func renderRegistry(f *file, module string, entities []*model.Entity) {
	aliases := make(map[string]bool)
	type entry struct{ field, alias, typ string }
	var entries []entry
	for _, e := range entities {
		alias := naming.PackageName(e.Name)
		for i := 2; aliases[alias]; i++ {
			alias = naming.PackageName(e.Name) + strconv.Itoa(i)
		}
		aliases[alias] = true
		f.useAs(naming.ImportPath(module, e.Name), alias)
		entries = append(entries, entry{
			field: naming.Pluralize(naming.GoName(e.Name)),
			alias: alias,
			typ:   naming.GoName(e.Name) + "Repository",
		})
	}

	f.printf("// Repositories groups the repository of every entity.\n")
	f.printf("type Repositories struct {\n")
	for _, en := range entries {
		f.printf("\t%s %s.%s\n", en.field, en.alias, en.typ)
	}
	f.printf("}\n")
}
