// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package manifest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFileLookup(t *testing.T) {
	f := &File{
		Src: []byte("abcdef"),
		Members: []Member{
			{Identity: "type Item", Span: Span{0, 2}},
			{Identity: "field Item.title", Parent: "type Item", Span: Span{2, 4}},
			{Identity: "method Item.Title", Span: Span{4, 6}},
		},
	}
	f.Index()

	m, ok := f.Lookup("field Item.title")
	if !ok {
		t.Fatal("Lookup(field Item.title) failed")
	}
	if got := string(f.Text(m.Span)); got != "cd" {
		t.Errorf("Text = %q, want %q", got, "cd")
	}
	if f.Has("func NewItem") {
		t.Error("Has(func NewItem) = true, want false")
	}
	if got := len(f.Children("type Item")); got != 1 {
		t.Errorf("len(Children) = %d, want 1", got)
	}
	if dups := f.Duplicates(); dups != nil {
		t.Errorf("Duplicates = %v, want none", dups)
	}
}

func TestFileDuplicates(t *testing.T) {
	f := &File{Members: []Member{
		{Identity: "method Item.Title"},
		{Identity: "type Item"},
		{Identity: "method Item.Title"},
		{Identity: "func NewItem"},
		{Identity: "type Item"},
		{Identity: "type Item"},
	}}
	want := []string{"method Item.Title", "type Item"}
	if diff := cmp.Diff(want, f.Duplicates()); diff != "" {
		t.Errorf("Duplicates mismatch (-want +got):\n%s", diff)
	}
}

func TestFileDuplicateNames(t *testing.T) {
	tests := []struct {
		name    string
		members []Member
		want    []string
	}{
		{
			name: "multi-name field",
			members: []Member{
				{Identity: "field Item.title,subtitle", Scope: "type Item", Names: []string{"title", "subtitle"}},
				{Identity: "field Item.title", Scope: "type Item", Names: []string{"title"}},
			},
			want: []string{"field Item.title", "field Item.title,subtitle"},
		},
		{
			name: "field and method",
			members: []Member{
				{Identity: "field Item.Title", Scope: "type Item", Names: []string{"Title"}},
				{Identity: "method Item.Title", Scope: "type Item", Names: []string{"Title"}},
			},
			want: []string{"field Item.Title", "method Item.Title"},
		},
		{
			name: "package scope across kinds",
			members: []Member{
				{Identity: "type Title", Scope: "package", Names: []string{"Title"}},
				{Identity: "func NewItem", Scope: "package", Names: []string{"NewItem"}},
				{Identity: "var A,Title", Scope: "package", Names: []string{"A", "Title"}},
			},
			want: []string{"type Title", "var A,Title"},
		},
		{
			name: "same name in different scopes",
			members: []Member{
				{Identity: "type Title", Scope: "package", Names: []string{"Title"}},
				{Identity: "method Item.Title", Scope: "type Item", Names: []string{"Title"}},
				{Identity: "field Tag.Title", Scope: "type Tag", Names: []string{"Title"}},
				{Identity: `import "title"`},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &File{Members: tt.members}
			if diff := cmp.Diff(tt.want, f.Duplicates()); diff != "" {
				t.Errorf("Duplicates mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFileGenerated(t *testing.T) {
	f := &File{
		Members: []Member{
			{Identity: `import "time"`, Role: Ambient},
			{Identity: "type Item"},
			{Identity: "method Item.Title"},
		},
		Generated: []string{Digest("type Item")},
	}
	f.Index()

	if !f.WasGenerated("type Item") {
		t.Error("WasGenerated(type Item) = false, want true")
	}
	if f.WasGenerated("method Item.Title") {
		t.Error("WasGenerated(method Item.Title) = true, want false")
	}

	want := []string{Digest("type Item"), Digest("method Item.Title")}
	if want[0] > want[1] {
		want[0], want[1] = want[1], want[0]
	}
	if diff := cmp.Diff(want, f.Digests()); diff != "" {
		t.Errorf("Digests mismatch (-want +got):\n%s", diff)
	}
	if got := Digest("type Item"); len(got) != 8 || got != Digest("type Item") {
		t.Errorf("Digest(type Item) = %q, want 8 stable hex digits", got)
	}
}

func TestRoleString(t *testing.T) {
	tests := map[Role]string{Owned: "owned", Editable: "editable", Ambient: "ambient", Role(9): "unknown"}
	for role, want := range tests {
		if got := role.String(); got != want {
			t.Errorf("Role(%d).String() = %q, want %q", int(role), got, want)
		}
	}
}
