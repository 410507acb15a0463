// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package golang

import (
	"bytes"
	"context"
	"go/format"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/albertocavalcante/cqrsgen/generator"
	"github.com/albertocavalcante/cqrsgen/manifest"
	"github.com/albertocavalcante/cqrsgen/model"
	"github.com/albertocavalcante/cqrsgen/plan"
)

const catalogSpec = `
namespace: Acme.Catalog
entities:
  - name: Item
    fields:
      - {name: Title, type: text, required: true, maxLength: 255}
      - {name: IsCompleted, type: boolean, required: true}
      - {name: Status, type: enumeration, values: [Open, Closed]}
      - {name: DueAt, type: optional-timestamp}
    operations:
      - Create
      - Update
      - Delete
      - MarkComplete
      - {query: GetById, input: [Id]}
      - {query: Search, input: [Title]}
`

const module = "acme/catalog"

// renderAll renders every artifact of the catalog spec, keyed by path.
func renderAll(t *testing.T) map[string]*generator.GeneratedArtifact {
	t.Helper()
	svc, err := model.Parse([]byte(catalogSpec))
	if err != nil {
		t.Fatalf("model.Parse: %v", err)
	}
	target := New()
	opts := plan.Options{Module: module, Version: Version}
	cfg := generator.Config{Module: module}

	out := make(map[string]*generator.GeneratedArtifact)
	for _, e := range svc.Entities {
		for _, a := range plan.Plan(svc, e, opts) {
			g, err := target.Render(context.Background(), generator.Request{
				Service: svc, Artifact: a, Entity: e, Config: cfg,
			})
			if err != nil {
				t.Fatalf("Render(%s): %v", a.Path, err)
			}
			out[a.Path] = g
		}
	}
	reg := plan.PlanRegistry(svc, opts)
	g, err := target.Render(context.Background(), generator.Request{
		Service: svc, Artifact: reg, Entities: svc.Entities, Config: cfg,
	})
	if err != nil {
		t.Fatalf("Render(%s): %v", reg.Path, err)
	}
	out[reg.Path] = g
	return out
}

// collapse joins the whitespace-separated fields of s with single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestRenderWellFormed(t *testing.T) {
	for path, g := range renderAll(t) {
		t.Run(path, func(t *testing.T) {
			formatted, err := format.Source(g.Text)
			if err != nil {
				t.Fatalf("rendered text does not parse: %v\n%s", err, g.Text)
			}
			if !bytes.Equal(formatted, g.Text) {
				t.Errorf("rendered text is not gofmt formatted:\n%s", g.Text)
			}
			if g.Manifest == nil || g.Manifest.Fingerprint != g.Fingerprint() {
				t.Errorf("manifest fingerprint does not match %q", g.Fingerprint())
			}
			if dups := g.Manifest.Duplicates(); dups != nil {
				t.Errorf("duplicate identities %v", dups)
			}
			if diff := cmp.Diff(g.Manifest.Digests(), g.Manifest.Generated); diff != "" {
				t.Errorf("member record mismatch (-members +record):\n%s", diff)
			}
			if !strings.HasPrefix(string(g.Text), "// Code generated by cqrsgen for Acme.Catalog.\n") {
				t.Errorf("missing header:\n%s", g.Text)
			}
		})
	}
}

func TestRenderDeterministic(t *testing.T) {
	first, second := renderAll(t), renderAll(t)
	for path, g := range first {
		if !bytes.Equal(g.Text, second[path].Text) {
			t.Errorf("%s differs between renders", path)
		}
	}
}

func TestRenderContent(t *testing.T) {
	out := renderAll(t)

	tests := []struct {
		path string
		want []string
	}{
		{"Item/AggregateType.go", []string{
			"package item",
			"func NewItem(title string, isCompleted bool, status ItemStatus, dueAt *time.Time) *Item {",
			"return NewItemWithID(uuid.New(), title, isCompleted, status, dueAt)",
			"agg.record(ItemCreated{ID: id})",
			"func (i *Item) ID() uuid.UUID {",
			"//cqrsgen:editable func (i *Item) Update(title string, isCompleted bool, status ItemStatus, dueAt *time.Time) error {",
			"func (i *Item) MarkComplete() error {",
			`ItemStatusOpen ItemStatus = "Open"`,
			"func (i *Item) ClearEvents() {",
		}},
		{"Item/DomainEvent_Create.go", []string{
			"type ItemCreated struct { ID uuid.UUID `json:\"id\"` }",
			`return "Acme.Catalog.ItemCreated"`,
		}},
		{"Item/DomainEvent_MarkComplete.go", []string{"type ItemMarkCompleted struct"}},
		{"Item/Command_Update.go", []string{"type UpdateItemCommand struct { ID uuid.UUID Title string"}},
		{"Item/Query_GetById.go", []string{"type GetByIDItemQuery struct { ID uuid.UUID }"}},
		{"Item/Handler_Update.go", []string{
			"func NewUpdateItemHandler(repo ItemRepository) *UpdateItemHandler {",
			"if err := agg.Update(cmd.Title, cmd.IsCompleted, cmd.Status, cmd.DueAt); err != nil {",
			"return h.repo.Save(ctx, agg)",
		}},
		{"Item/Handler_Delete.go", []string{"return h.repo.Delete(ctx, cmd.ID)"}},
		{"Item/Handler_GetById.go", []string{"return NewItemResponse(agg), nil"}},
		{"Item/Handler_Search.go", []string{`errors.New("SearchItemHandler: not implemented")`}},
		{"Item/Validator_Update.go", []string{
			"if cmd.ID == uuid.Nil {",
			"if len(cmd.Title) > 255 {",
			"case ItemStatusOpen, ItemStatusClosed:",
			"return errors.Join(errs...)",
		}},
		{"Item/RequestModel_Create.go", []string{
			"return NewItem(r.Title, r.IsCompleted, r.Status, r.DueAt)",
		}},
		{"Item/RequestModel_Update.go", []string{"func (r UpdateItemRequest) Command(id uuid.UUID) UpdateItemCommand {"}},
		{"Item/DTO.go", []string{"func NewItemDTO(agg *Item) ItemDTO {", "IsCompleted: agg.IsCompleted(),"}},
		{"Item/ResponseModel.go", []string{"type ItemResponse struct"}},
		{"Item/PersistenceMapping.go", []string{
			`const ItemTable = "items"`,
			`ItemIDColumn = Column{Name: "id", Required: true, Key: true, AutoGenerated: false}`,
			`ItemTitleColumn = Column{Name: "title", Required: true, MaxLength: 255}`,
			`ItemDueAtColumn = Column{Name: "due_at", Required: false}`,
			"Get(ctx context.Context, id uuid.UUID) (*Item, error)",
			"agg := emptyItem()",
		}},
		{"Item/Builder.go", []string{
			`title: "sample title",`,
			"status: ItemStatusOpen,",
			"func (b *ItemBuilder) WithTitle(title string) *ItemBuilder {",
			"return NewItemWithID(b.id, b.title, b.isCompleted, b.status, b.dueAt)",
		}},
		{"Item/EventTest_test.go", []string{
			"func TestItemCreated(t *testing.T) {",
			"//cqrsgen:editable func TestItemDeleted(t *testing.T) {",
		}},
		{"Registry.go", []string{
			"package catalog",
			`item "acme/catalog/Item"`,
			"Items item.ItemRepository",
		}},
	}
	for _, tt := range tests {
		g, ok := out[tt.path]
		if !ok {
			t.Errorf("%s was not rendered", tt.path)
			continue
		}
		text := collapse(string(g.Text))
		for _, want := range tt.want {
			if !strings.Contains(text, collapse(want)) {
				t.Errorf("%s lacks %q:\n%s", tt.path, want, g.Text)
			}
		}
	}
}

func TestRenderAccessorCount(t *testing.T) {
	tests := []struct {
		name   string
		fields string
		want   int
	}{
		{"one field", "      - {name: Title, type: text, required: true}\n", 2},
		{"two fields", "      - {name: Title, type: text, required: true}\n      - {name: Rank, type: integer}\n", 3},
		{"four fields", "      - {name: Title, type: text, required: true}\n      - {name: Notes, type: text}\n" +
			"      - {name: Rank, type: integer}\n      - {name: DueAt, type: optional-timestamp}\n", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := "namespace: Acme.Todo\nentities:\n  - name: Item\n    fields:\n" + tt.fields + "    operations: [Create]\n"
			svc, err := model.Parse([]byte(spec))
			if err != nil {
				t.Fatalf("model.Parse: %v", err)
			}
			e := svc.Entities[0]
			if len(e.Fields) != tt.want {
				t.Fatalf("len(Fields) = %d, want %d", len(e.Fields), tt.want)
			}

			var agg plan.Artifact
			for _, a := range plan.Plan(svc, e, plan.Options{Module: module, Version: Version}) {
				if a.Kind == plan.AggregateType {
					agg = a
				}
			}
			g, err := New().Render(context.Background(), generator.Request{
				Service: svc, Artifact: agg, Entity: e, Config: generator.Config{Module: module},
			})
			if err != nil {
				t.Fatalf("Render: %v", err)
			}

			accessors := 0
			for _, fd := range e.Fields {
				m, ok := g.Manifest.Lookup("method Item." + exported(fd))
				if ok && m.Kind == "method" && strings.Contains(m.Signature, "return i."+local(fd)+" }") {
					accessors++
				}
			}
			if accessors != len(e.Fields) {
				t.Errorf("accessors = %d, want %d:\n%s", accessors, len(e.Fields), g.Text)
			}
			// One struct field per entity field plus the event buffer.
			if got := len(g.Manifest.Children("type Item")); got != len(e.Fields)+1 {
				t.Errorf("struct fields = %d, want %d", got, len(e.Fields)+1)
			}
		})
	}
}

func TestRenderEditableMembers(t *testing.T) {
	out := renderAll(t)
	m, ok := out["Item/AggregateType.go"].Manifest.Lookup("method Item.Update")
	if !ok {
		t.Fatal("method Item.Update missing")
	}
	if m.Role != manifest.Editable {
		t.Errorf("Item.Update role = %v, want editable", m.Role)
	}
	m, ok = out["Item/AggregateType.go"].Manifest.Lookup("method Item.Title")
	if !ok {
		t.Fatal("method Item.Title missing")
	}
	if m.Role != manifest.Owned {
		t.Errorf("Item.Title role = %v, want owned", m.Role)
	}
}

func TestRenderRejectsMissingEntity(t *testing.T) {
	svc := &model.Service{Namespace: "Acme"}
	_, err := New().Render(context.Background(), generator.Request{
		Service:  svc,
		Artifact: plan.Artifact{Kind: plan.DTO, Path: "Item/DTO.go"},
	})
	if err == nil {
		t.Error("Render without entity succeeded")
	}
}

func TestRenderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Render(ctx, generator.Request{})
	if err == nil {
		t.Error("Render with canceled context succeeded")
	}
}

func TestOrphanMarker(t *testing.T) {
	src := `package p

// F is documented.
func F() {}

func G() {}

// H is editable.
//
//cqrsgen:editable
func H() {}

type T struct {
	// a is documented.
	a int
}
`
	f := mustParse(t, src)
	target := New()

	tests := []struct {
		identity string
		want     string
	}{
		{"func F", "//\n//cqrsgen:orphan\n"},
		{"func G", "//cqrsgen:orphan\n"},
		{"func H", "//cqrsgen:orphan\n"},
		{"field T.a", "\t//\n\t//cqrsgen:orphan\n"},
	}
	for _, tt := range tests {
		m := mustLookup(t, f, tt.identity)
		if got := target.OrphanMarker(f, m); got != tt.want {
			t.Errorf("OrphanMarker(%s) = %q, want %q", tt.identity, got, tt.want)
		}
	}
}

func TestFingerprintLineRoundTrip(t *testing.T) {
	src := "// Code generated by cqrsgen for X.\n" + New().FingerprintLine("feedface00000000") + "\npackage p\n"
	f := mustParse(t, src)
	if f.Fingerprint != "feedface00000000" {
		t.Errorf("Fingerprint = %q, want %q", f.Fingerprint, "feedface00000000")
	}
}
