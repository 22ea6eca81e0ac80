package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	ID              string   `json:"id"`
	AnnotationCount int      `json:"annotationCount"`
	Tags            []string `json:"tags"`
	Published       bool     `json:"published"`
}

type sampleList []sample

func (l sampleList) Columns() []string { return []string{"id", "notes"} }

func (l sampleList) Rows() [][]string {
	var out [][]string
	for _, s := range l {
		out = append(out, []string{s.ID, strings.Repeat("*", s.AnnotationCount)})
	}
	return out
}

func TestWrite_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, sample{ID: "doc-1", AnnotationCount: 2}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got, want := buf.String(), `{"id":"doc-1","annotationCount":2,"tags":null,"published":false}`+"\n"; got != want {
		t.Fatalf("json: got %q want %q", got, want)
	}
}

func TestWrite_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, sample{ID: "doc-1", AnnotationCount: 2}, "yaml", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"id: doc-1", "annotationCount: 2", "published: false"} {
		if !strings.Contains(out, want) {
			t.Fatalf("yaml missing %q:\n%s", want, out)
		}
	}
}

func TestWrite_Table(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := sampleList{{ID: "doc-1", AnnotationCount: 2}, {ID: "doc-22", AnnotationCount: 0}}
	if err := Write(&buf, l, "table", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[0], "NOTES") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "doc-1 ") {
		t.Fatalf("unexpected row %q", lines[1])
	}

	buf.Reset()
	if err := Write(&buf, sample{ID: "x"}, "table", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("non-tabular values should fall back to json, got %q", buf.String())
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	for _, f := range []string{"xml", "edn"} {
		if err := Write(&bytes.Buffer{}, 1, f, false); err == nil {
			t.Fatalf("%s: expected error", f)
		}
	}
}
