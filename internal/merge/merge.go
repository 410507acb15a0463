// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package merge reconciles freshly rendered artifact text with the file
// already on disk.
//
// The merge works member by member on manifests produced by a Dialect.
// Members the generator still emits are kept in place and rewritten only
// when their signature changes; editable members keep their bodies;
// members the generator no longer emits are flagged, never deleted.
// Members written by hand are never flagged: a file records the members
// its generator emitted in its header. Two members that declare the same
// name fail the merge. Merging the same inputs twice yields the same
// bytes.
package merge

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/albertocavalcante/cqrsgen/manifest"
)

// Dialect is the language knowledge a merge needs.
type Dialect interface {
	// Parse builds the manifest of src.
	Parse(src []byte) (*manifest.File, error)

	// Format returns the canonical formatting of src.
	Format(src []byte) ([]byte, error)

	// OrphanMarker returns the text inserted at m.DeclLine of f to flag m.
	OrphanMarker(f *manifest.File, m *manifest.Member) string

	// UnusedAmbient returns the ambient members of src nothing refers to.
	UnusedAmbient(src []byte) ([]string, error)

	// FingerprintLine returns the header line recording fp.
	FingerprintLine(fp string) string
}

var (
	// ErrUnparseable is returned when the existing file cannot be parsed.
	ErrUnparseable = errors.New("existing file cannot be parsed")

	// ErrDuplicateIdentity is matched by every *DuplicateIdentityError.
	ErrDuplicateIdentity = errors.New("duplicate member identity")

	// ErrConflict is returned when the existing layout cannot take the
	// generated change without rewriting user text.
	ErrConflict = errors.New("merge conflict")
)

// DuplicateIdentityError reports identities declared more than once.
type DuplicateIdentityError struct {
	// Source is "existing", "generated" or "merged".
	Source     string
	Identities []string
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("%s text declares %s more than once", e.Source, strings.Join(e.Identities, ", "))
}

// Is reports whether target is ErrDuplicateIdentity.
func (e *DuplicateIdentityError) Is(target error) bool {
	return target == ErrDuplicateIdentity
}

// DeltaKind classifies one member-level change.
type DeltaKind int

const (
	Added DeltaKind = iota
	Updated
	Orphaned
	Revived
)

func (k DeltaKind) String() string {
	switch k {
	case Added:
		return "added"
	case Updated:
		return "updated"
	case Orphaned:
		return "orphaned"
	case Revived:
		return "revived"
	}
	return "unknown"
}

// Delta is one member-level change.
type Delta struct {
	Kind     DeltaKind
	Identity string

	// Old and New are the signatures before and after an update.
	Old, New string
}

func (d Delta) String() string {
	return d.Kind.String() + " " + d.Identity
}

// Result is the outcome of a merge.
type Result struct {
	Text []byte

	// Created is set when there was no existing file.
	Created bool

	Deltas []Delta
}

// Count returns the number of deltas of kind k.
func (r *Result) Count(k DeltaKind) int {
	n := 0
	for _, d := range r.Deltas {
		if d.Kind == k {
			n++
		}
	}
	return n
}

// Merge reconciles fresh, the rendered text of an artifact, with existing,
// the file on disk. A nil existing means the file does not exist.
func Merge(existing, fresh []byte, d Dialect) (*Result, error) {
	nf, err := d.Parse(fresh)
	if err != nil {
		return nil, fmt.Errorf("parse generated text: %w", err)
	}
	if dups := nf.Duplicates(); dups != nil {
		return nil, &DuplicateIdentityError{Source: "generated", Identities: dups}
	}
	if existing == nil {
		return &Result{Text: fresh, Created: true}, nil
	}

	old, err := d.Parse(existing)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	if dups := old.Duplicates(); dups != nil {
		return nil, &DuplicateIdentityError{Source: "existing", Identities: dups}
	}
	if old.Fingerprint != "" && old.Fingerprint == nf.Fingerprint {
		return &Result{Text: existing}, nil
	}

	m := &merger{
		old:      old,
		nf:       nf,
		d:        d,
		replaced: make(map[string]bool),
	}
	if err := m.run(); err != nil {
		return nil, err
	}
	text, err := apply(existing, m.edits)
	if err != nil {
		return nil, err
	}
	if text, err = m.prune(text); err != nil {
		return nil, err
	}
	if canonical(existing, d) {
		if text, err = d.Format(text); err != nil {
			return nil, fmt.Errorf("format merged text: %w", err)
		}
	}

	merged, err := d.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: merged text does not parse: %v", ErrConflict, err)
	}
	if dups := merged.Duplicates(); dups != nil {
		return nil, &DuplicateIdentityError{Source: "merged", Identities: dups}
	}
	return &Result{Text: text, Deltas: m.deltas}, nil
}

// canonical reports whether src is already in its dialect's canonical
// formatting. Only canonical files are reformatted after a merge.
func canonical(src []byte, d Dialect) bool {
	formatted, err := d.Format(src)
	return err == nil && bytes.Equal(formatted, src)
}

// edit replaces src[at:end] with text. An insertion has at == end.
type edit struct {
	at, end int
	text    string
	seq     int
}

func apply(src []byte, edits []edit) ([]byte, error) {
	sort.SliceStable(edits, func(i, j int) bool {
		a, b := edits[i], edits[j]
		if a.at != b.at {
			return a.at < b.at
		}
		ai, bi := a.at == a.end, b.at == b.end
		if ai != bi {
			return ai
		}
		return a.seq < b.seq
	})
	var out bytes.Buffer
	cur := 0
	for _, e := range edits {
		if e.at < cur {
			return nil, fmt.Errorf("%w: overlapping edits at offset %d", ErrConflict, e.at)
		}
		out.Write(src[cur:e.at])
		out.WriteString(e.text)
		cur = e.end
	}
	out.Write(src[cur:])
	return out.Bytes(), nil
}

type merger struct {
	old, nf *manifest.File
	d       Dialect

	// replaced holds containers rewritten with their members.
	replaced map[string]bool

	edits  []edit
	deltas []Delta
}

func (m *merger) replace(at, end int, text string) {
	m.edits = append(m.edits, edit{at: at, end: end, text: text, seq: len(m.edits)})
}

func (m *merger) insert(at int, text string) {
	m.replace(at, at, text)
}

func (m *merger) delta(k DeltaKind, identity, oldSig, newSig string) {
	m.deltas = append(m.deltas, Delta{Kind: k, Identity: identity, Old: oldSig, New: newSig})
}

func (m *merger) freshText(start, end int) string {
	return string(m.nf.Src[start:end])
}

func (m *merger) run() error {
	m.header()
	for ui, u := range m.nf.Units {
		if len(u.Members) == 0 {
			continue
		}
		if !m.present(u) {
			m.insertUnit(ui)
			continue
		}
		for _, mi := range u.Members {
			fm := &m.nf.Members[mi]
			om, ok := m.old.Lookup(fm.Identity)
			if !ok {
				if err := m.insertMember(fm); err != nil {
					return err
				}
				continue
			}
			if err := m.update(om, fm); err != nil {
				return err
			}
		}
	}
	m.orphans()
	return nil
}

// present reports whether any member of the fresh unit u exists on disk.
func (m *merger) present(u manifest.Unit) bool {
	for _, mi := range u.Members {
		if m.old.Has(m.nf.Members[mi].Identity) {
			return true
		}
	}
	return false
}

// header refreshes the fingerprint line and replaces the record of
// generated members with the one of the fresh text.
func (m *merger) header() {
	line := m.d.FingerprintLine(m.nf.Fingerprint)
	record := string(m.nf.Text(m.nf.GeneratedLine))
	fp, gen := m.old.FingerprintLine, m.old.GeneratedLine
	switch {
	case fp.Len() > 0 && gen.Len() > 0:
		m.replace(fp.Start, fp.End, line)
		m.replace(gen.Start, gen.End, record)
	case fp.Len() > 0:
		m.replace(fp.Start, fp.End, line+record)
	case gen.Len() > 0:
		m.replace(gen.Start, gen.End, line+record)
	default:
		text := line + record
		if !bytes.HasPrefix(m.old.Src, []byte("//")) {
			text += "\n"
		}
		m.insert(0, text)
	}
}

func (m *merger) update(om, fm *manifest.Member) error {
	if fm.Role == manifest.Ambient {
		return nil
	}
	if om.Signature == fm.Signature {
		if om.Orphan {
			// Back in the generated set: drop the marker by restoring the
			// generated doc comment.
			m.replace(om.Span.Start, om.DeclLine, m.freshText(fm.Span.Start, fm.DeclLine))
			m.delta(Revived, fm.Identity, om.Signature, fm.Signature)
		}
		return nil
	}

	switch {
	case fm.Role == manifest.Editable && om.Body >= 0 && fm.Body >= 0:
		m.replace(om.Span.Start, om.Body, m.freshText(fm.Span.Start, fm.Body))

	case len(m.old.Children(om.Identity)) > 0:
		if fm.Close < 0 {
			return fmt.Errorf("%w: %s would lose its members", ErrConflict, fm.Identity)
		}
		m.replace(om.Span.Start, m.headerEnd(m.old, om), m.freshText(fm.Span.Start, m.headerEnd(m.nf, fm)))

	default:
		if len(m.nf.Children(fm.Identity)) > 0 {
			m.replaced[fm.Identity] = true
		}
		m.replace(om.Span.Start, om.Span.End, m.freshText(fm.Span.Start, fm.Span.End))
	}
	m.delta(Updated, fm.Identity, om.Signature, fm.Signature)
	return nil
}

// headerEnd returns where the members of container c start in f, or its
// closing line when it has none.
func (m *merger) headerEnd(f *manifest.File, c *manifest.Member) int {
	if kids := f.Children(c.Identity); len(kids) > 0 {
		return kids[0].Span.Start
	}
	return c.Close
}

// insertUnit adds a top-level declaration the existing file lacks, after
// the nearest preceding declaration that exists on disk.
func (m *merger) insertUnit(ui int) {
	u := m.nf.Units[ui]
	text := m.freshText(u.Span.Start, u.Span.End)
	for _, mi := range u.Members {
		m.delta(Added, m.nf.Members[mi].Identity, "", m.nf.Members[mi].Signature)
	}

	if u.Keyword == "import" {
		m.insertImports(u, text)
		return
	}
	for i := ui - 1; i >= 0; i-- {
		if ou, ok := m.oldUnit(m.nf.Units[i]); ok {
			m.insert(m.old.Units[ou].Span.End, "\n"+text)
			return
		}
	}
	for i := ui + 1; i < len(m.nf.Units); i++ {
		if ou, ok := m.oldUnit(m.nf.Units[i]); ok {
			m.insert(m.old.Units[ou].Span.Start, text+"\n")
			return
		}
	}
	prefix := "\n"
	if !bytes.HasSuffix(m.old.Src, []byte("\n")) {
		prefix = "\n\n"
	}
	m.insert(len(m.old.Src), prefix+text)
}

// oldUnit returns the existing unit holding the last member of the fresh
// unit u that exists on disk.
func (m *merger) oldUnit(u manifest.Unit) (int, bool) {
	found := -1
	for _, mi := range u.Members {
		if om, ok := m.old.Lookup(m.nf.Members[mi].Identity); ok {
			found = om.Unit
		}
	}
	return found, found >= 0
}

func (m *merger) insertImports(u manifest.Unit, text string) {
	last := -1
	for i, ou := range m.old.Units {
		if ou.Keyword == "import" {
			last = i
		}
	}
	if last < 0 {
		m.insert(m.old.Preamble, "\n"+text)
		return
	}
	ou := m.old.Units[last]
	if !ou.Grouped {
		m.insert(ou.Span.End, text)
		return
	}
	// Into the existing group, before its closing line.
	closing := bytes.LastIndexByte(m.old.Src[:ou.Span.End-1], '\n') + 1
	var specs strings.Builder
	for _, mi := range u.Members {
		fm := m.nf.Members[mi]
		specs.WriteString(m.freshText(fm.Span.Start, fm.Span.End))
	}
	m.insert(closing, specs.String())
}

// insertMember adds one member of a declaration that exists on disk next
// to its nearest existing sibling.
func (m *merger) insertMember(fm *manifest.Member) error {
	if fm.Parent != "" && m.replaced[fm.Parent] {
		return nil
	}
	m.delta(Added, fm.Identity, "", fm.Signature)
	text := m.freshText(fm.Span.Start, fm.Span.End)
	kw := m.nf.Units[fm.Unit].Keyword

	siblings := m.siblings(fm)
	at := slices.Index(siblings, fm)
	for i := at - 1; i >= 0; i-- {
		if om, ok := m.old.Lookup(siblings[i].Identity); ok {
			if om.Grouped {
				m.insert(om.Span.End, text)
			} else {
				m.insert(m.old.Units[om.Unit].Span.End, "\n"+m.standalone(fm, kw))
			}
			return nil
		}
	}
	for i := at + 1; i < len(siblings); i++ {
		if om, ok := m.old.Lookup(siblings[i].Identity); ok {
			if om.Grouped {
				m.insert(om.Span.Start, text)
			} else {
				m.insert(m.old.Units[om.Unit].Span.Start, m.standalone(fm, kw)+"\n")
			}
			return nil
		}
	}

	parent, ok := m.old.Lookup(fm.Parent)
	if !ok || parent.Close < 0 {
		return fmt.Errorf("%w: no place for %s", ErrConflict, fm.Identity)
	}
	m.insert(parent.Close, text)
	return nil
}

// siblings returns the fresh members sharing fm's unit and parent.
func (m *merger) siblings(fm *manifest.Member) []*manifest.Member {
	var out []*manifest.Member
	for _, mi := range m.nf.Units[fm.Unit].Members {
		if s := &m.nf.Members[mi]; s.Parent == fm.Parent {
			out = append(out, s)
		}
	}
	return out
}

// standalone rewrites a grouped spec as a declaration of its own.
func (m *merger) standalone(fm *manifest.Member, kw string) string {
	src := m.nf.Src
	var b strings.Builder
	for off := fm.Span.Start; off < fm.Span.End; {
		end := fm.Span.End
		if i := bytes.IndexByte(src[off:fm.Span.End], '\n'); i >= 0 {
			end = off + i + 1
		}
		line := strings.TrimPrefix(string(src[off:end]), fm.Indent)
		if off == fm.DeclLine {
			line = kw + " " + line
		}
		b.WriteString(line)
		off = end
	}
	return b.String()
}

// orphans flags the members on disk that the generator emitted last
// time and no longer emits. Members the header record does not list were
// written by hand and are left alone.
func (m *merger) orphans() {
	for i := range m.old.Members {
		om := &m.old.Members[i]
		if om.Role == manifest.Ambient || om.Orphan || m.nf.Has(om.Identity) {
			continue
		}
		if !m.old.WasGenerated(om.Identity) {
			continue
		}
		if om.Parent != "" && !m.nf.Has(om.Parent) {
			// The parent carries the marker.
			continue
		}
		m.insert(om.DeclLine, m.d.OrphanMarker(m.old, om))
		m.delta(Orphaned, om.Identity, om.Signature, "")
	}
}

// prune removes ambient members that neither the generated text nor the
// merged text uses any more.
func (m *merger) prune(text []byte) ([]byte, error) {
	unused, err := m.d.UnusedAmbient(text)
	if err != nil || len(unused) == 0 {
		return text, nil
	}
	f, err := m.d.Parse(text)
	if err != nil {
		return text, nil
	}
	var edits []edit
	for _, id := range unused {
		if m.nf.Has(id) {
			continue
		}
		am, ok := f.Lookup(id)
		if !ok {
			continue
		}
		span := am.Span
		if !am.Grouped {
			span = f.Units[am.Unit].Span
		}
		edits = append(edits, edit{at: span.Start, end: span.End, seq: len(edits)})
	}
	if len(edits) == 0 {
		return text, nil
	}
	return apply(text, edits)
}
