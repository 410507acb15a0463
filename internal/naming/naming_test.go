// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package naming

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWords(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"Title", []string{"Title"}},
		{"isCompleted", []string{"is", "Completed"}},
		{"IsCompleted", []string{"Is", "Completed"}},
		{"HTTPServer", []string{"HTTP", "Server"}},
		{"created_at", []string{"created", "at"}},
		{"mark-complete", []string{"mark", "complete"}},
		{"Acme.Catalog", []string{"Acme", "Catalog"}},
		{"GetById", []string{"Get", "By", "Id"}},
		{"Line2Total", []string{"Line2", "Total"}},
		{"", nil},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, Words(tc.input)); diff != "" {
				t.Errorf("Words(%q) mismatch (-want +got):\n%s", tc.input, diff)
			}
		})
	}
}

func TestCasing(t *testing.T) {
	tests := []struct {
		input  string
		pascal string
		camel  string
		snake  string
		goName string
		local  string
	}{
		{"Title", "Title", "title", "title", "Title", "title"},
		{"IsCompleted", "IsCompleted", "isCompleted", "is_completed", "IsCompleted", "isCompleted"},
		{"Id", "Id", "id", "id", "ID", "id"},
		{"ID", "Id", "id", "id", "ID", "id"},
		{"GetById", "GetById", "getById", "get_by_id", "GetByID", "getByID"},
		{"homepage_url", "HomepageUrl", "homepageUrl", "homepage_url", "HomepageURL", "homepageURL"},
		{"Type", "Type", "type", "type", "Type", "typeVal"},
		{"Time", "Time", "time", "time", "Time", "timeVal"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := PascalCase(tc.input); got != tc.pascal {
				t.Errorf("PascalCase(%q) = %q, want %q", tc.input, got, tc.pascal)
			}
			if got := CamelCase(tc.input); got != tc.camel {
				t.Errorf("CamelCase(%q) = %q, want %q", tc.input, got, tc.camel)
			}
			if got := SnakeCase(tc.input); got != tc.snake {
				t.Errorf("SnakeCase(%q) = %q, want %q", tc.input, got, tc.snake)
			}
			if got := GoName(tc.input); got != tc.goName {
				t.Errorf("GoName(%q) = %q, want %q", tc.input, got, tc.goName)
			}
			if got := LocalName(tc.input); got != tc.local {
				t.Errorf("LocalName(%q) = %q, want %q", tc.input, got, tc.local)
			}
		})
	}
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Item", "Items"},
		{"Category", "Categories"},
		{"Day", "Days"},
		{"Box", "Boxes"},
		{"Status", "Statuses"},
		{"Batch", "Batches"},
		{"Wish", "Wishes"},
		{"Person", "Persons"},
		{"Child", "Childs"},
		{"Equipment", "Equipments"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := Pluralize(tc.input); got != tc.want {
			t.Errorf("Pluralize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestPastTense(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Create", "Created"},
		{"Update", "Updated"},
		{"Delete", "Deleted"},
		{"MarkComplete", "MarkCompleted"},
		{"Publish", "Published"},
		{"Copy", "Copied"},
		{"Destroy", "Destroyed"},
	}

	for _, tc := range tests {
		if got := PastTense(tc.input); got != tc.want {
			t.Errorf("PastTense(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestPaths(t *testing.T) {
	if got, want := ModulePath("Acme.Catalog"), "acme/catalog"; got != want {
		t.Errorf("ModulePath = %q, want %q", got, want)
	}
	if got, want := RootPackage("Acme.Catalog"), "catalog"; got != want {
		t.Errorf("RootPackage = %q, want %q", got, want)
	}
	if got, want := PackageName("OrderLine"), "orderline"; got != want {
		t.Errorf("PackageName = %q, want %q", got, want)
	}
	if got, want := PackageName("Func"), "funcpkg"; got != want {
		t.Errorf("PackageName(keyword) = %q, want %q", got, want)
	}
	if got, want := ArtifactPath("Item", "AggregateType", ".go"), "Item/AggregateType.go"; got != want {
		t.Errorf("ArtifactPath = %q, want %q", got, want)
	}
	if got, want := ArtifactPath("", "Registry", ".go"), "Registry.go"; got != want {
		t.Errorf("ArtifactPath(root) = %q, want %q", got, want)
	}
	if got, want := ImportPath("acme/catalog", "Item"), "acme/catalog/Item"; got != want {
		t.Errorf("ImportPath = %q, want %q", got, want)
	}
}

func TestIdentifierRules(t *testing.T) {
	valid := []string{"Item", "is_completed", "Line2"}
	for _, name := range valid {
		if !IsIdentifier(name) {
			t.Errorf("IsIdentifier(%q) = false, want true", name)
		}
	}
	invalid := []string{"", "2fast", "has space", "dash-ed", "_hidden"}
	for _, name := range invalid {
		if IsIdentifier(name) {
			t.Errorf("IsIdentifier(%q) = true, want false", name)
		}
	}

	reserved := []string{"func", "Type", "Events", "ClearEvents", "record", "Build"}
	for _, name := range reserved {
		if !IsReserved(name) {
			t.Errorf("IsReserved(%q) = false, want true", name)
		}
	}
	if IsReserved("Title") {
		t.Error("IsReserved(\"Title\") = true, want false")
	}
}
