// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package naming derives identifiers, package names and artifact paths
// from the names written in a service spec.
//
// Every function is pure and total: the same input always produces the
// same output and no input panics.
package naming

import (
	"go/token"
	"path"
	"regexp"
	"strings"
	"unicode"
)

// initialisms are words rendered fully uppercase in exported Go names.
var initialisms = map[string]bool{
	"API":  true,
	"DNS":  true,
	"HTML": true,
	"HTTP": true,
	"ID":   true,
	"IP":   true,
	"JSON": true,
	"SKU":  true,
	"SQL":  true,
	"URI":  true,
	"URL":  true,
	"UUID": true,
}

// shadowed are local names that would hide a package or builtin the
// generated code relies on.
var shadowed = map[string]bool{
	"any":     true,
	"append":  true,
	"bool":    true,
	"context": true,
	"ctx":     true,
	"errors":  true,
	"error":   true,
	"fmt":     true,
	"len":     true,
	"nil":     true,
	"string":  true,
	"time":    true,
	"uuid":    true,
}

// reservedMembers collide with methods the generated aggregates, builders,
// events and request models declare.
var reservedMembers = map[string]bool{
	"Build":       true,
	"ClearEvents": true,
	"Command":     true,
	"EventName":   true,
	"Events":      true,
	"New":         true,
	"Record":      true,
}

var identRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Words splits name into words on separators ("_", "-", ".", space) and
// on case transitions. "HTTPServer" yields ["HTTP", "Server"].
func Words(name string) []string {
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		if r == '_' || r == '-' || r == '.' || unicode.IsSpace(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

func capitalize(word string) string {
	if word == "" {
		return ""
	}
	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// PascalCase joins the words of name, each capitalized.
// Initialisms are not preserved: "ID" becomes "Id".
func PascalCase(name string) string {
	var b strings.Builder
	for _, w := range Words(name) {
		b.WriteString(capitalize(w))
	}
	return b.String()
}

// CamelCase is PascalCase with the first word lowercased.
func CamelCase(name string) string {
	words := Words(name)
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(strings.ToLower(w))
			continue
		}
		b.WriteString(capitalize(w))
	}
	return b.String()
}

// SnakeCase joins the lowercased words of name with underscores.
func SnakeCase(name string) string {
	words := Words(name)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}

// GoName returns the exported Go identifier for name, spelling known
// initialisms in uppercase ("GetById" becomes "GetByID").
func GoName(name string) string {
	var b strings.Builder
	for _, w := range Words(name) {
		if up := strings.ToUpper(w); initialisms[up] {
			b.WriteString(up)
			continue
		}
		b.WriteString(capitalize(w))
	}
	return b.String()
}

// LocalName returns an unexported Go identifier for name. Names that are
// keywords or would shadow an identifier used by generated code get a
// "Val" suffix.
func LocalName(name string) string {
	words := Words(name)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		if up := strings.ToUpper(w); initialisms[up] {
			b.WriteString(up)
			continue
		}
		b.WriteString(capitalize(w))
	}
	s := b.String()
	if token.IsKeyword(s) || shadowed[s] {
		s += "Val"
	}
	return s
}

// Pluralize applies English suffix rules to the last word of name:
// "-s", "-es" after s/x/ch/sh, and "-ies" for a consonant followed by y.
// Irregular nouns get the plain "-s" form.
func Pluralize(name string) string {
	if name == "" {
		return ""
	}
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"),
		strings.HasSuffix(lower, "ch"), strings.HasSuffix(lower, "sh"):
		return name + "es"
	case strings.HasSuffix(lower, "y") && len(lower) > 1 && !isVowel(lower[len(lower)-2]):
		return name[:len(name)-1] + "ies"
	default:
		return name + "s"
	}
}

// PastTense returns the regular past form of a verb: "Create" becomes
// "Created", "Copy" becomes "Copied", "Publish" becomes "Published".
func PastTense(verb string) string {
	lower := strings.ToLower(verb)
	switch {
	case verb == "":
		return ""
	case strings.HasSuffix(lower, "e"):
		return verb + "d"
	case strings.HasSuffix(lower, "y") && len(lower) > 1 && !isVowel(lower[len(lower)-2]):
		return verb[:len(verb)-1] + "ied"
	default:
		return verb + "ed"
	}
}

func isVowel(c byte) bool {
	return strings.IndexByte("aeiou", c) >= 0
}

// PackageName returns the Go package name for an entity: its words
// lowercased and concatenated ("OrderLine" becomes "orderline").
func PackageName(entity string) string {
	name := strings.ToLower(strings.Join(Words(entity), ""))
	if token.IsKeyword(name) {
		name += "pkg"
	}
	return name
}

// ModulePath returns the default module path for a dotted namespace:
// "Acme.Catalog" becomes "acme/catalog".
func ModulePath(namespace string) string {
	var parts []string
	for _, seg := range strings.Split(namespace, ".") {
		if seg = strings.TrimSpace(seg); seg != "" {
			parts = append(parts, strings.ToLower(seg))
		}
	}
	return strings.Join(parts, "/")
}

// RootPackage returns the package name of the output root, taken from the
// last namespace segment.
func RootPackage(namespace string) string {
	segs := strings.Split(namespace, ".")
	return PackageName(segs[len(segs)-1])
}

// EntityDir returns the directory holding the artifacts of entity.
func EntityDir(entity string) string {
	return GoName(entity)
}

// ArtifactPath returns the slash-separated path of one artifact,
// relative to the output root.
func ArtifactPath(entity, stem, ext string) string {
	if entity == "" {
		return stem + ext
	}
	return path.Join(EntityDir(entity), stem+ext)
}

// ImportPath returns the import path of the entity package under module.
func ImportPath(module, entity string) string {
	return path.Join(module, EntityDir(entity))
}

// IsIdentifier reports whether name can be used as an entity, field or
// operation name.
func IsIdentifier(name string) bool {
	return identRe.MatchString(name)
}

// IsReserved reports whether name is a Go keyword or collides with a
// member every generated aggregate or builder declares.
func IsReserved(name string) bool {
	return token.IsKeyword(strings.ToLower(name)) || reservedMembers[GoName(name)]
}
