package menu

import (
	"testing"

	"docdesk/internal/model"
	"docdesk/internal/workspace"
)

func titles(items []Item) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func TestBuild(t *testing.T) {
	t.Parallel()

	readOnly := &workspace.Document{Document: model.Document{ID: "d"}}
	if got := Build(readOnly, 0); got != nil {
		t.Fatalf("expected no menu for zero chosen, got %v", titles(got))
	}

	got := titles(Build(readOnly, 1))
	want := []string{"Open", "View Entities"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("read-only menu: got %v want %v", got, want)
	}

	editable := &workspace.Document{Document: model.Document{ID: "d", PublishedURL: "https://example.org"}, Editable: true}
	items := Build(editable, 1)
	got = titles(items)
	want = []string{"Open", "Open Published Version", "View Entities", "Edit All Fields", "Embed Document Viewer", "Delete Document"}
	if len(got) != len(want) {
		t.Fatalf("editable menu: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("editable menu[%d]: got %q want %q", i, got[i], want[i])
		}
	}
	if items[4].Disabled {
		t.Fatalf("embed should be enabled for a single document")
	}
	if !items[5].Warn {
		t.Fatalf("delete should be marked as a warning")
	}

	items = Build(editable, 3)
	if !items[4].Disabled {
		t.Fatalf("embed should be disabled for multiple documents")
	}
	if items[5].Title != "Delete Documents" {
		t.Fatalf("expected plural delete title, got %q", items[5].Title)
	}
}

func TestFirstEnabled(t *testing.T) {
	t.Parallel()

	items := []Item{{Title: "a"}, {Title: "b", Disabled: true}, {Title: "c"}}
	if got := FirstEnabled(items, 1, 1); got != 2 {
		t.Fatalf("forward skip: got %d", got)
	}
	if got := FirstEnabled(items, 1, -1); got != 0 {
		t.Fatalf("backward skip: got %d", got)
	}
	if got := FirstEnabled(items, 3, 1); got != 0 {
		t.Fatalf("wrap: got %d", got)
	}
	if got := FirstEnabled([]Item{{Disabled: true}}, 0, 1); got != -1 {
		t.Fatalf("all disabled: got %d", got)
	}
	if got := FirstEnabled(nil, 0, 1); got != -1 {
		t.Fatalf("empty: got %d", got)
	}
}
