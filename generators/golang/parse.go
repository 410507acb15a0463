// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package golang

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"strings"

	"github.com/albertocavalcante/cqrsgen/manifest"
)

// Comment directives understood by the parser.
const (
	editableDirective = "//cqrsgen:editable"
	orphanDirective   = "//cqrsgen:orphan"
	fingerprintPrefix = "// cqrsgen:fingerprint "
	membersPrefix     = "// cqrsgen:members"
)

// packageScope is the scope of top-level declarations.
const packageScope = "package"

// Parse builds the manifest of the Go source src.
//
// Member identities:
//
//	type Item            type declaration
//	field Item.title     struct field or interface method of Item
//	func NewItem         function
//	method Item.Title    method, keyed by receiver base type
//	const ItemTable      constant (names joined with "," for multi-name specs)
//	var ItemIDColumn     variable
//	import "time"        import, keyed by path
//
// Every member also lists the names it declares and their scope, so two
// members that declare one name clash even when their identities differ.
//
// Blank identifiers and init functions have no identity and are never
// touched by a merge.
func Parse(src []byte) (*manifest.File, error) {
	fset := token.NewFileSet()
	af, err := parser.ParseFile(fset, "", src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}
	p := &fileParser{
		fset: fset,
		tf:   fset.File(af.Pos()),
		src:  src,
		out:  &manifest.File{Src: src},
	}
	p.header(af)
	for _, d := range af.Decls {
		p.decl(d)
	}
	p.out.Index()
	return p.out, nil
}

type fileParser struct {
	fset *token.FileSet
	tf   *token.File
	src  []byte
	out  *manifest.File
}

func (p *fileParser) off(pos token.Pos) int { return p.tf.Offset(pos) }

func (p *fileParser) line(pos token.Pos) int { return p.tf.Line(pos) }

func (p *fileParser) lineStart(off int) int {
	return bytes.LastIndexByte(p.src[:off], '\n') + 1
}

func (p *fileParser) lineEnd(off int) int {
	if i := bytes.IndexByte(p.src[off:], '\n'); i >= 0 {
		return off + i + 1
	}
	return len(p.src)
}

func (p *fileParser) indent(lineStart int) string {
	i := lineStart
	for i < len(p.src) && (p.src[i] == ' ' || p.src[i] == '\t') {
		i++
	}
	return string(p.src[lineStart:i])
}

// span covers whole lines from the doc comment (or pos) through the line
// holding end.
func (p *fileParser) span(doc *ast.CommentGroup, pos, end token.Pos) manifest.Span {
	if doc != nil {
		pos = doc.Pos()
	}
	return manifest.Span{Start: p.lineStart(p.off(pos)), End: p.lineEnd(p.off(end))}
}

func (p *fileParser) header(af *ast.File) {
	for _, cg := range af.Comments {
		if cg.Pos() > af.Package {
			break
		}
		for _, c := range cg.List {
			o := p.off(c.Pos())
			line := manifest.Span{Start: p.lineStart(o), End: p.lineEnd(o)}
			if v, ok := strings.CutPrefix(c.Text, fingerprintPrefix); ok && p.out.Fingerprint == "" {
				p.out.Fingerprint = strings.TrimSpace(v)
				p.out.FingerprintLine = line
				continue
			}
			v, ok := strings.CutPrefix(c.Text, membersPrefix)
			if !ok || p.out.GeneratedLine.Len() > 0 || (v != "" && v[0] != ' ') {
				continue
			}
			p.out.Generated = strings.Fields(v)
			p.out.GeneratedLine = line
		}
	}
	p.out.Preamble = p.lineEnd(p.off(af.Name.End()))
}

func (p *fileParser) decl(d ast.Decl) {
	u := len(p.out.Units)
	switch d := d.(type) {
	case *ast.FuncDecl:
		span := p.span(d.Doc, d.Pos(), d.End())
		p.out.Units = append(p.out.Units, manifest.Unit{Span: span, Keyword: "func"})
		p.funcDecl(u, d, span)
	case *ast.GenDecl:
		span := p.span(d.Doc, d.Pos(), d.End())
		p.out.Units = append(p.out.Units, manifest.Unit{
			Span:    span,
			Keyword: d.Tok.String(),
			Grouped: d.Lparen.IsValid(),
		})
		for _, s := range d.Specs {
			p.spec(u, d, s, span)
		}
	}
}

func (p *fileParser) add(u int, m manifest.Member) {
	m.Unit = u
	p.out.Units[u].Members = append(p.out.Units[u].Members, len(p.out.Members))
	p.out.Members = append(p.out.Members, m)
}

func (p *fileParser) member(doc *ast.CommentGroup, pos token.Pos, span manifest.Span) manifest.Member {
	declLine := p.lineStart(p.off(pos))
	return manifest.Member{
		Span:     span,
		DeclLine: declLine,
		Indent:   p.indent(declLine),
		Body:     -1,
		Close:    -1,
		Orphan:   hasDirective(doc, orphanDirective),
	}
}

func (p *fileParser) funcDecl(u int, d *ast.FuncDecl, span manifest.Span) {
	name := d.Name.Name
	if name == "_" || (d.Recv == nil && name == "init") {
		return
	}
	m := p.member(d.Doc, d.Pos(), span)
	m.Names = []string{name}
	if d.Recv != nil && len(d.Recv.List) > 0 {
		recv := recvName(d.Recv.List[0].Type)
		m.Kind = "method"
		m.Identity = "method " + recv + "." + name
		if recv != "" {
			m.Scope = "type " + recv
		}
	} else {
		m.Kind = "func"
		m.Identity = "func " + name
		m.Scope = packageScope
	}

	sig := *d
	sig.Doc = nil
	if d.Body != nil {
		m.Body = p.off(d.Body.Lbrace)
		if hasDirective(d.Doc, editableDirective) {
			m.Role = manifest.Editable
			sig.Body = nil
		}
	}
	m.Signature = p.print(&sig)
	p.add(u, m)
}

func (p *fileParser) spec(u int, d *ast.GenDecl, s ast.Spec, unitSpan manifest.Span) {
	doc, pos, span := d.Doc, d.Pos(), unitSpan
	grouped := d.Lparen.IsValid()
	if grouped {
		doc, pos = specDoc(s), s.Pos()
		span = p.span(doc, s.Pos(), s.End())
	}
	m := p.member(doc, pos, span)
	m.Grouped = grouped

	switch s := s.(type) {
	case *ast.ImportSpec:
		m.Kind = "import"
		m.Identity = "import " + s.Path.Value
		m.Role = manifest.Ambient
		m.Signature = p.print(&ast.ImportSpec{Name: s.Name, Path: s.Path})
		p.add(u, m)

	case *ast.ValueSpec:
		var names []string
		for _, n := range s.Names {
			if n.Name != "_" {
				names = append(names, n.Name)
			}
		}
		if len(names) == 0 {
			return
		}
		m.Kind = d.Tok.String()
		m.Identity = m.Kind + " " + strings.Join(names, ",")
		m.Scope = packageScope
		m.Names = names
		cp := *s
		cp.Doc, cp.Comment = nil, nil
		m.Signature = p.print(&cp)
		p.add(u, m)

	case *ast.TypeSpec:
		m.Kind = "type"
		m.Identity = "type " + s.Name.Name
		m.Scope = packageScope
		m.Names = []string{s.Name.Name}
		cp := *s
		cp.Doc, cp.Comment = nil, nil
		if fields, shell := fieldsOf(s.Type); fields != nil && p.lineAddressable(fields) {
			// The container signature excludes the members, which are
			// tracked one by one.
			cp.Type = shell
			m.Signature = "type " + p.print(&cp)
			m.Close = p.lineStart(p.off(fields.Closing))
			p.add(u, m)
			_, isStruct := s.Type.(*ast.StructType)
			p.fields(u, m.Identity, s.Name.Name, fields, isStruct)
			return
		}
		m.Signature = "type " + p.print(&cp)
		p.add(u, m)
	}
}

// fields records the members of a struct or interface.
func (p *fileParser) fields(u int, parent, owner string, fl *ast.FieldList, isStruct bool) {
	for _, f := range fl.List {
		name, names := p.fieldName(f, isStruct)
		if name == "" {
			continue
		}
		span := p.span(f.Doc, f.Pos(), f.End())
		m := p.member(f.Doc, f.Pos(), span)
		m.Kind = "field"
		m.Identity = "field " + owner + "." + name
		m.Parent = parent
		m.Grouped = true
		m.Scope = "type " + owner
		m.Names = names
		m.Signature = name + " " + p.print(f.Type)
		if f.Tag != nil {
			m.Signature += " " + f.Tag.Value
		}
		p.add(u, m)
	}
}

// fieldName returns the identity name of f and the names it declares. An
// embedded struct field declares its type name; an embedded interface
// element declares nothing.
func (p *fileParser) fieldName(f *ast.Field, isStruct bool) (string, []string) {
	if len(f.Names) == 0 {
		if name := embeddedName(f.Type); isStruct && name != "" {
			return p.print(f.Type), []string{name}
		}
		return p.print(f.Type), nil
	}
	var names []string
	for _, n := range f.Names {
		if n.Name != "_" {
			names = append(names, n.Name)
		}
	}
	return strings.Join(names, ","), names
}

// lineAddressable reports whether every member of fl sits on lines of its
// own, strictly between the braces.
func (p *fileParser) lineAddressable(fl *ast.FieldList) bool {
	if !fl.Opening.IsValid() || !fl.Closing.IsValid() {
		return false
	}
	last, closing := p.line(fl.Opening), p.line(fl.Closing)
	if last == closing {
		return false
	}
	for _, f := range fl.List {
		start := f.Pos()
		if f.Doc != nil {
			start = f.Doc.Pos()
		}
		if p.line(start) <= last {
			return false
		}
		last = p.line(f.End())
	}
	return last < closing
}

// print renders node on one line with runs of whitespace collapsed.
func (p *fileParser) print(node any) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, p.fset, node); err != nil {
		return ""
	}
	return strings.Join(strings.Fields(buf.String()), " ")
}

func fieldsOf(x ast.Expr) (*ast.FieldList, ast.Expr) {
	switch t := x.(type) {
	case *ast.StructType:
		return t.Fields, &ast.StructType{Fields: &ast.FieldList{}}
	case *ast.InterfaceType:
		return t.Methods, &ast.InterfaceType{Methods: &ast.FieldList{}}
	}
	return nil, nil
}

func specDoc(s ast.Spec) *ast.CommentGroup {
	switch s := s.(type) {
	case *ast.ImportSpec:
		return s.Doc
	case *ast.ValueSpec:
		return s.Doc
	case *ast.TypeSpec:
		return s.Doc
	}
	return nil
}

func recvName(x ast.Expr) string {
	for {
		switch t := x.(type) {
		case *ast.StarExpr:
			x = t.X
		case *ast.ParenExpr:
			x = t.X
		case *ast.IndexExpr:
			x = t.X
		case *ast.IndexListExpr:
			x = t.X
		case *ast.Ident:
			return t.Name
		default:
			return ""
		}
	}
}

func embeddedName(x ast.Expr) string {
	for {
		switch t := x.(type) {
		case *ast.StarExpr:
			x = t.X
		case *ast.IndexExpr:
			x = t.X
		case *ast.IndexListExpr:
			x = t.X
		case *ast.SelectorExpr:
			return t.Sel.Name
		case *ast.Ident:
			return t.Name
		default:
			return ""
		}
	}
}

func hasDirective(cg *ast.CommentGroup, directive string) bool {
	if cg == nil {
		return false
	}
	for _, c := range cg.List {
		if strings.TrimSpace(c.Text) == directive {
			return true
		}
	}
	return false
}

// isDirective reports whether the comment text c, without its leading
// "//", is a directive such as "go:generate" or "cqrsgen:orphan".
func isDirective(c string) bool {
	colon := strings.IndexByte(c, ':')
	if colon <= 0 || colon+1 >= len(c) {
		return false
	}
	for i := 0; i <= colon+1; i++ {
		if i == colon {
			continue
		}
		b := c[i]
		if !('a' <= b && b <= 'z' || '0' <= b && b <= '9') {
			return false
		}
	}
	return true
}
