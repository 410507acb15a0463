// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package golang

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/albertocavalcante/cqrsgen/internal/typemap"
	"github.com/albertocavalcante/cqrsgen/manifest"
	"github.com/albertocavalcante/cqrsgen/model"
)

// file accumulates the body of one generated file together with the
// imports the body refers to.
type file struct {
	pkg     string
	entity  string
	imports map[string]string // path -> alias
	body    bytes.Buffer
}

func newFile(pkg, entity string) *file {
	return &file{pkg: pkg, entity: entity, imports: make(map[string]string)}
}

func (f *file) printf(format string, args ...any) {
	fmt.Fprintf(&f.body, format, args...)
}

// use records an import of path. An empty path is ignored.
func (f *file) use(path string) {
	f.useAs(path, "")
}

func (f *file) useAs(path, alias string) {
	if path == "" {
		return
	}
	if _, ok := f.imports[path]; !ok {
		f.imports[path] = alias
	}
}

// typ returns the Go type of fd and records its import.
func (f *file) typ(fd model.Field) string {
	gt := typemap.For(f.entity, fd)
	f.use(gt.Import)
	return gt.Expr
}

// zero returns the zero literal of fd, recording an import when the
// literal refers to a package.
func (f *file) zero(fd model.Field) string {
	gt := typemap.For(f.entity, fd)
	if strings.Contains(gt.Zero, ".") {
		f.use(gt.Import)
	}
	return gt.Zero
}

// sample returns the builder default of fd.
func (f *file) sample(fd model.Field) string {
	gt := typemap.For(f.entity, fd)
	if strings.Contains(gt.Default, ".") && !strings.HasPrefix(gt.Default, `"`) {
		f.use(gt.Import)
	}
	return gt.Default
}

// bytes assembles the header, package clause, imports and body, and
// returns the gofmt-formatted result.
func (f *file) bytes(namespace, fingerprint string) ([]byte, error) {
	var buf bytes.Buffer

	// Header
	fmt.Fprintf(&buf, "// Code generated by cqrsgen for %s.\n", namespace)
	buf.WriteString(fingerprintLine(fingerprint))
	buf.WriteString("\n")
	buf.WriteString("package " + f.pkg + "\n\n")

	// Imports, standard library first.
	var std, ext []string
	for path := range f.imports {
		if isStdlib(path) {
			std = append(std, path)
		} else {
			ext = append(ext, path)
		}
	}
	slices.Sort(std)
	slices.Sort(ext)
	if len(std)+len(ext) > 0 {
		buf.WriteString("import (\n")
		for _, path := range std {
			f.writeImport(&buf, path)
		}
		if len(std) > 0 && len(ext) > 0 {
			buf.WriteString("\n")
		}
		for _, path := range ext {
			f.writeImport(&buf, path)
		}
		buf.WriteString(")\n\n")
	}

	buf.Write(f.body.Bytes())

	return imports.Process("", buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
}

func (f *file) writeImport(buf *bytes.Buffer, path string) {
	buf.WriteString("\t")
	if alias := f.imports[path]; alias != "" {
		buf.WriteString(alias + " ")
	}
	fmt.Fprintf(buf, "%q\n", path)
}

// isStdlib reports whether path names a standard library package: its
// first element has no dot.
func isStdlib(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}

func fingerprintLine(fp string) string {
	return fingerprintPrefix + fp + "\n"
}

// withRecord adds the line recording the members of m, the manifest of
// text, right after its fingerprint line.
func withRecord(text []byte, m *manifest.File) []byte {
	line := membersPrefix
	if digests := m.Digests(); len(digests) > 0 {
		line += " " + strings.Join(digests, " ")
	}
	at := m.FingerprintLine.End
	out := make([]byte, 0, len(text)+len(line)+1)
	out = append(out, text[:at]...)
	out = append(out, line+"\n"...)
	return append(out, text[at:]...)
}

// editableDoc writes a doc comment closed by the editable directive in
// the layout gofmt produces.
func (f *file) editableDoc(format string, args ...any) {
	f.printf("// "+format+"\n", args...)
	f.printf("//\n%s\n", editableDirective)
}
