// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package manifest describes the members of one source file: their
// identities, signatures and byte spans.
//
// A manifest is produced by a target's parser, both for freshly rendered
// text and for files already on disk, and is what the merge engine
// reconciles.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
)

// Role says who owns a member's text.
type Role int

const (
	// Owned members are rewritten whenever their signature changes.
	Owned Role = iota

	// Editable members have a generator-owned header and a user-owned
	// body. Only the header is ever rewritten.
	Editable

	// Ambient members (imports) are added when missing and otherwise
	// left alone.
	Ambient
)

func (r Role) String() string {
	switch r {
	case Owned:
		return "owned"
	case Editable:
		return "editable"
	case Ambient:
		return "ambient"
	}
	return "unknown"
}

// Span is a half-open byte range [Start, End) of a file.
type Span struct {
	Start, End int
}

// Len returns the number of bytes in s.
func (s Span) Len() int { return s.End - s.Start }

// Member is one declaration that has a stable identity across runs.
type Member struct {
	// Identity is unique within a well-formed file ("method Item.Title").
	Identity string

	// Kind is the declaration kind ("type", "field", "func", "method",
	// "const", "var", "import").
	Kind string

	Role Role

	// Parent is the identity of the enclosing member, "" at top level.
	Parent string

	// Signature is the normalized text compared across runs. Two members
	// with equal signatures are interchangeable.
	Signature string

	// Span covers whole lines: leading doc comments through the end of
	// the line holding the member's last token.
	Span Span

	// DeclLine is the offset of the line on which the member itself
	// starts, after its doc comment.
	DeclLine int

	// Indent is the leading whitespace of DeclLine.
	Indent string

	// Body is the offset of the opening brace of a function body, or -1.
	Body int

	// Close is the offset of the line holding the closing brace of a
	// struct or interface, or -1 when there is no such line.
	Close int

	// Unit is the index of the top-level declaration holding the member.
	Unit int

	// Grouped is set for specs inside a parenthesized declaration and for
	// struct or interface fields.
	Grouped bool

	// Orphan is set when the member carries the orphan marker.
	Orphan bool

	// Scope is the namespace Names are declared in: "package" for
	// top-level declarations and "type T" for the fields and methods of
	// T. It is "" for members whose names never clash, such as imports.
	Scope string

	// Names lists the identifiers the member declares in Scope. A
	// multi-name declaration ("a, b int") declares several.
	Names []string
}

// Unit is one top-level declaration.
type Unit struct {
	Span Span

	// Keyword is "import", "const", "var", "type" or "func".
	Keyword string

	// Grouped is set for parenthesized declarations.
	Grouped bool

	// Members lists the indexes of the members declared in the unit.
	Members []int
}

// File is the manifest of one source file.
type File struct {
	Src []byte

	// Fingerprint is the value of the fingerprint header, "" if absent.
	Fingerprint string

	// FingerprintLine spans the whole fingerprint header line. It is
	// empty when the header is absent.
	FingerprintLine Span

	// Generated lists the digests of the members the generator emitted
	// when it last wrote the file, as recorded in its header. It is nil
	// when the header holds no record.
	Generated []string

	// GeneratedLine spans the whole record line. It is empty when the
	// header holds no record.
	GeneratedLine Span

	// Preamble is the offset just past the package clause line.
	Preamble int

	Members []Member
	Units   []Unit

	index     map[string]int
	generated map[string]bool
}

// Index builds the identity lookup. It must be called once the members
// are final; parsers call it before returning.
func (f *File) Index() {
	f.index = make(map[string]int, len(f.Members))
	for i, m := range f.Members {
		if _, ok := f.index[m.Identity]; !ok {
			f.index[m.Identity] = i
		}
	}
	f.generated = make(map[string]bool, len(f.Generated))
	for _, d := range f.Generated {
		f.generated[d] = true
	}
}

// Digest returns the short digest of identity kept in generated-member
// records.
func Digest(identity string) string {
	sum := sha256.Sum256([]byte(identity))
	return hex.EncodeToString(sum[:4])
}

// Digests returns the sorted digests of every member except ambient ones.
// It is the record a generator writes into the header of a file it emits.
func (f *File) Digests() []string {
	out := make([]string, 0, len(f.Members))
	for _, m := range f.Members {
		if m.Role != Ambient {
			out = append(out, Digest(m.Identity))
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// WasGenerated reports whether the header record lists identity. Members
// it does not list were written by hand and are never flagged as orphans.
func (f *File) WasGenerated(identity string) bool {
	return f.generated[Digest(identity)]
}

// Lookup returns the first member with the given identity.
func (f *File) Lookup(identity string) (*Member, bool) {
	i, ok := f.index[identity]
	if !ok {
		return nil, false
	}
	return &f.Members[i], true
}

// Has reports whether a member with the given identity exists.
func (f *File) Has(identity string) bool {
	_, ok := f.index[identity]
	return ok
}

// Duplicates returns the identities of clashing members, sorted: those
// declared more than once and those declaring a name that another member
// already declares in the same scope.
func (f *File) Duplicates() []string {
	seen := make(map[string]int, len(f.Members))
	owner := make(map[string]string)
	clash := make(map[string]bool)
	for _, m := range f.Members {
		seen[m.Identity]++
		if seen[m.Identity] == 2 {
			clash[m.Identity] = true
		}
		if m.Scope == "" {
			continue
		}
		for _, name := range m.Names {
			key := m.Scope + " " + name
			first, ok := owner[key]
			switch {
			case !ok:
				owner[key] = m.Identity
			case first != m.Identity:
				clash[first] = true
				clash[m.Identity] = true
			}
		}
	}
	if len(clash) == 0 {
		return nil
	}
	dups := make([]string, 0, len(clash))
	for id := range clash {
		dups = append(dups, id)
	}
	slices.Sort(dups)
	return dups
}

// Children returns the members whose parent is identity, in file order.
func (f *File) Children(identity string) []*Member {
	var out []*Member
	for i := range f.Members {
		if f.Members[i].Parent == identity {
			out = append(out, &f.Members[i])
		}
	}
	return out
}

// Identities returns every member identity in file order.
func (f *File) Identities() []string {
	out := make([]string, len(f.Members))
	for i, m := range f.Members {
		out[i] = m.Identity
	}
	return out
}

// Text returns the bytes of s.
func (f *File) Text(s Span) []byte {
	return f.Src[s.Start:s.End]
}
