// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package golang

import (
	"strings"

	"github.com/albertocavalcante/cqrsgen/model"
)

// renderSnapshot writes a JSON struct holding every field of the
// aggregate and a constructor copying them from an aggregate.
func renderSnapshot(f *file, n *names, name, ctor, doc string) {
	f.printf("// %s %s\n", name, doc)
	f.printf("type %s struct {\n", name)
	for _, fd := range n.e.Fields {
		f.printf("\t%s %s %s\n", exported(fd), f.typ(fd), jsonTag(fd))
	}
	f.printf("}\n\n")

	f.printf("// %s copies the state of agg.\n", ctor)
	f.printf("func %s(agg *%s) %s {\n", ctor, n.typ, name)
	f.printf("\treturn %s{\n", name)
	for _, fd := range n.e.Fields {
		f.printf("\t\t%s: agg.%s(),\n", exported(fd), exported(fd))
	}
	f.printf("\t}\n}\n")
}

func renderDTO(f *file, n *names) {
	renderSnapshot(f, n, n.dto(), "New"+n.dto(), "is the transport form of "+n.typ+".")
}

func renderResponse(f *file, n *names) {
	renderSnapshot(f, n, n.response(), "New"+n.response(), "is the result of "+n.typ+" queries.")
}

func renderRequest(f *file, n *names, op model.Operation) {
	name := n.request(op.Verb)
	inputs := n.e.InputFields(op)

	f.printf("// %s is the request body of the %s operation.\n", name, op.Verb.Name)
	if len(inputs) == 0 {
		f.printf("type %s struct {\n}\n\n", name)
	} else {
		f.printf("type %s struct {\n", name)
		for _, fd := range inputs {
			f.printf("\t%s %s %s\n", exported(fd), f.typ(fd), jsonTag(fd))
		}
		f.printf("}\n\n")
	}

	if op.Verb.Kind == model.Create {
		// Fields the request leaves out start from their zero value.
		var parts []string
		for _, fd := range n.e.NonIdentityFields() {
			if containsField(inputs, fd.Name) {
				parts = append(parts, "r."+exported(fd))
			} else {
				parts = append(parts, f.zero(fd))
			}
		}
		f.printf("// New builds the %s the request describes.\n", n.typ)
		f.printf("func (r %s) New() *%s {\n", name, n.typ)
		f.printf("\treturn %s(%s)\n}\n", n.newFunc(), strings.Join(parts, ", "))
		return
	}

	id := n.e.Identity()
	msg := n.message(op.Verb)
	f.printf("// Command converts the request into a %s for %s.\n", msg, local(id))
	f.printf("func (r %s) Command(%s %s) %s {\n", name, local(id), f.typ(id), msg)
	f.printf("\treturn %s{\n", msg)
	f.printf("\t\t%s: %s,\n", exported(id), local(id))
	for _, fd := range inputs {
		f.printf("\t\t%s: r.%s,\n", exported(fd), exported(fd))
	}
	f.printf("\t}\n}\n")
}
