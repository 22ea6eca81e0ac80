package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"docdesk/internal/access"
	"docdesk/internal/model"
)

func withEnv(t *testing.T, k, v string, fn func()) {
	t.Helper()
	old, had := os.LookupEnv(k)
	if err := os.Setenv(k, v); err != nil {
		t.Fatalf("setenv %s: %v", k, err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(k, old)
		} else {
			_ = os.Unsetenv(k)
		}
	})
	fn()
}

func seededStore(t *testing.T) Store {
	t.Helper()
	s := Store{Dir: t.TempDir()}
	if err := s.Save(Seed(time.Now())); err != nil {
		t.Fatalf("save seed: %v", err)
	}
	return s
}

func TestSQLiteState_SaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	want := Seed(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	if err := s.Save(want); err != nil {
		t.Fatalf("save sqlite: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("load sqlite: %v", err)
	}
	if got.CurrentAccountID != "acct-ana" {
		t.Fatalf("unexpected current account %q", got.CurrentAccountID)
	}
	if len(got.Documents) != len(want.Documents) {
		t.Fatalf("documents: got %d want %d", len(got.Documents), len(want.Documents))
	}
	for i := range want.Documents {
		if got.Documents[i].ID != want.Documents[i].ID {
			t.Fatalf("document order changed at %d: got %q want %q", i, got.Documents[i].ID, want.Documents[i].ID)
		}
	}
	p, ok := got.FindProject("proj-budget")
	if !ok || len(p.DocumentIDs) != 1 || p.DocumentIDs[0] != "doc-budget" {
		t.Fatalf("unexpected project membership: %+v", p)
	}
	d, _ := got.FindDocument("doc-budget")
	if d.Access != access.Public || !d.Published() || d.AnnotationCount != 3 {
		t.Fatalf("document fields lost: %+v", d)
	}
	if len(got.NotesFor("doc-budget")) != 3 {
		t.Fatalf("expected 3 notes on doc-budget, got %d", len(got.NotesFor("doc-budget")))
	}
}

func TestSQLiteState_LoadEmpty(t *testing.T) {
	t.Parallel()

	s := Store{Dir: filepath.Join(t.TempDir(), "nested", ".docdesk")}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Version != 1 || got.Documents == nil || got.Projects == nil {
		t.Fatalf("expected empty, non-nil snapshot; got %#v", got)
	}
	if _, err := os.Stat(filepath.Join(s.Dir, sqliteFileName)); err != nil {
		t.Fatalf("expected sqlite file: %v", err)
	}
}

func TestAddDocuments_SkipsExisting(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := seededStore(t)

	n, err := s.AddDocuments(ctx, "proj-budget", []string{"doc-budget", "doc-contract", "doc-minutes", "doc-contract"})
	if err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 added, got %d", n)
	}

	db, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p, _ := db.FindProject("proj-budget")
	want := []string{"doc-budget", "doc-contract", "doc-minutes"}
	if len(p.DocumentIDs) != len(want) {
		t.Fatalf("membership: got %v want %v", p.DocumentIDs, want)
	}
	for i := range want {
		if p.DocumentIDs[i] != want[i] {
			t.Fatalf("membership order: got %v want %v", p.DocumentIDs, want)
		}
	}
}

func TestAddDocuments_UnknownProject(t *testing.T) {
	t.Parallel()

	s := seededStore(t)
	_, err := s.AddDocuments(context.Background(), "proj-nope", []string{"doc-budget"})
	var nf NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "project" || nf.ID != "proj-nope" {
		t.Fatalf("expected project NotFoundError, got %v", err)
	}
}

func TestAddDocuments_UnknownDocumentRollsBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := seededStore(t)
	_, err := s.AddDocuments(ctx, "proj-trash", []string{"doc-contract", "doc-missing"})
	var nf NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "document" {
		t.Fatalf("expected document NotFoundError, got %v", err)
	}
	db, _ := s.Load()
	p, _ := db.FindProject("proj-trash")
	if len(p.DocumentIDs) != 0 {
		t.Fatalf("expected rollback, got %v", p.DocumentIDs)
	}
}

func TestFetchNotesAndPages(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := seededStore(t)

	notes, err := s.FetchNotes(ctx, "doc-budget")
	if err != nil {
		t.Fatalf("FetchNotes: %v", err)
	}
	if len(notes) != 3 || notes[0].Page != 4 || notes[2].Page != 120 {
		t.Fatalf("unexpected notes: %+v", notes)
	}

	notes, err = s.FetchNotes(ctx, "doc-contract")
	if err != nil || notes == nil || len(notes) != 0 {
		t.Fatalf("expected empty notes, got %v (%v)", notes, err)
	}

	if _, err := s.FetchNotes(ctx, "doc-missing"); err == nil {
		t.Fatalf("expected error for unknown document")
	}

	ents, err := s.FetchPages(ctx, "doc-deposition")
	if err != nil {
		t.Fatalf("FetchPages: %v", err)
	}
	if len(ents) != 1 || len(ents[0].Occurrences) != 3 {
		t.Fatalf("unexpected entities: %+v", ents)
	}
}

func TestSetAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := seededStore(t)

	d, err := s.SetAccess(ctx, "doc-contract", access.Organization)
	if err != nil {
		t.Fatalf("SetAccess: %v", err)
	}
	if d.Access != access.Organization || d.Title != "Waste hauling contract" {
		t.Fatalf("unexpected document: %+v", d)
	}
	db, _ := s.Load()
	got, _ := db.FindDocument("doc-contract")
	if got.Access != access.Organization {
		t.Fatalf("access not persisted: %v", got.Access)
	}

	if _, err := s.SetAccess(ctx, "doc-missing", access.Public); err == nil {
		t.Fatalf("expected error for unknown document")
	}
}

func TestUpdateFields(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := seededStore(t)

	src := "  Records desk "
	docs, err := s.UpdateFields(ctx, []string{"doc-contract", "doc-minutes"}, DocumentFields{Source: &src})
	if err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "doc-contract" || docs[1].Source != "Records desk" {
		t.Fatalf("unexpected result: %+v", docs)
	}
	db, _ := s.Load()
	got, _ := db.FindDocument("doc-minutes")
	if got.Source != "Records desk" || got.Title != "Council minutes, March" {
		t.Fatalf("fields not persisted: %+v", got)
	}

	blank := " "
	if _, err := s.UpdateFields(ctx, []string{"doc-contract"}, DocumentFields{Title: &blank}); err == nil {
		t.Fatalf("expected error for empty title")
	}

	desc := "changed"
	_, err = s.UpdateFields(ctx, []string{"doc-contract", "doc-missing"}, DocumentFields{Description: &desc})
	var nf NotFoundError
	if !errors.As(err, &nf) || nf.ID != "doc-missing" {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	db, _ = s.Load()
	got, _ = db.FindDocument("doc-contract")
	if got.Description == "changed" {
		t.Fatalf("failed update was not rolled back")
	}
}

func TestDeleteDocuments(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := seededStore(t)

	n, err := s.DeleteDocuments(ctx, []string{"doc-budget", "doc-missing"})
	if err != nil {
		t.Fatalf("DeleteDocuments: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 deleted, got %d", n)
	}
	db, _ := s.Load()
	if _, ok := db.FindDocument("doc-budget"); ok {
		t.Fatalf("document still present")
	}
	if len(db.NotesFor("doc-budget")) != 0 {
		t.Fatalf("notes not removed")
	}
	p, _ := db.FindProject("proj-budget")
	if len(p.DocumentIDs) != 0 {
		t.Fatalf("membership not removed: %v", p.DocumentIDs)
	}
}

func TestCreateProject(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := seededStore(t)

	p, err := s.CreateProject(ctx, "  Schools  ", "acct-ben")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if p.Title != "Schools" || p.AccountID != "acct-ben" {
		t.Fatalf("unexpected project: %+v", p)
	}
	db, _ := s.Load()
	last := db.Projects[len(db.Projects)-1]
	if last.ID != p.ID {
		t.Fatalf("new project should be listed last, got %q", last.ID)
	}

	if _, err := s.CreateProject(ctx, " ", "acct-ben"); err == nil {
		t.Fatalf("expected error for empty title")
	}
}

func TestDiscoverDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	ws := filepath.Join(root, ".docdesk")
	deep := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(ws, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok := DiscoverDir(deep)
	if !ok || got != ws {
		t.Fatalf("DiscoverDir: got %q %v want %q", got, ok, ws)
	}
}

func TestCurrentAccount(t *testing.T) {
	t.Parallel()

	db := Seed(time.Now())
	a, ok := db.CurrentAccount("")
	if !ok || a.ID != "acct-ana" {
		t.Fatalf("default account: %+v", a)
	}
	a, ok = db.CurrentAccount("acct-cy")
	if !ok || a.Role != model.RoleContributor {
		t.Fatalf("override account: %+v", a)
	}
	if _, ok := db.CurrentAccount("acct-nobody"); ok {
		t.Fatalf("unknown account should not resolve")
	}
	if got := db.OrganizationName("org-courier"); got != "Evening Courier" {
		t.Fatalf("organization name: %q", got)
	}
}
