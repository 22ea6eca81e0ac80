package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// demoWorkspace isolates config and returns a seeded workspace dir.
func demoWorkspace(t *testing.T) string {
	t.Helper()
	t.Setenv("DOCDESK_CONFIG_DIR", t.TempDir())
	t.Setenv("DOCDESK_ACCOUNT", "")
	t.Setenv("DOCDESK_FORMAT", "")
	dir := t.TempDir()
	if _, stderr, err := runCLI(t, []string{"--dir", dir, "init", "--demo"}); err != nil {
		t.Fatalf("init --demo: %v\n%s", err, stderr)
	}
	return dir
}

func mustData(t *testing.T, args ...string) any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("docdesk %v: %v\nstderr:\n%s", args, err, stderr)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal: %v\nstdout:\n%s", err, stdout)
	}
	data, ok := env["data"]
	if !ok {
		t.Fatalf("expected data envelope, got %s", stdout)
	}
	return data
}

func ids(t *testing.T, v any) []string {
	t.Helper()
	xs, ok := v.([]any)
	if !ok {
		t.Fatalf("expected list, got %#v", v)
	}
	var out []string
	for _, x := range xs {
		switch x := x.(type) {
		case string:
			out = append(out, x)
		case map[string]any:
			out = append(out, x["id"].(string))
		}
	}
	return out
}

func TestInitDemo_RefusesNonEmptyWorkspace(t *testing.T) {
	dir := demoWorkspace(t)
	_, stderr, err := runCLI(t, []string{"--dir", dir, "init", "--demo"})
	if err == nil {
		t.Fatalf("expected error re-seeding a workspace")
	}
	if !strings.Contains(string(stderr), "error: workspace already has documents") {
		t.Fatalf("unexpected stderr %q", stderr)
	}
}

func TestDocsList(t *testing.T) {
	dir := demoWorkspace(t)

	all := ids(t, mustData(t, "--dir", dir, "docs", "list"))
	if len(all) == 0 || all[0] != "doc-budget" {
		t.Fatalf("unexpected listing %v", all)
	}

	got := ids(t, mustData(t, "--dir", dir, "docs", "list", "--group", "courier"))
	if len(got) != 1 || got[0] != "doc-permits" {
		t.Fatalf("group filter: %v", got)
	}

	got = ids(t, mustData(t, "--dir", dir, "docs", "list", "-q", "budget account: ana"))
	if len(got) != 1 || got[0] != "doc-budget" {
		t.Fatalf("query filter: %v", got)
	}
}

func TestDocsList_Table(t *testing.T) {
	dir := demoWorkspace(t)
	stdout, _, err := runCLI(t, []string{"--dir", dir, "--format", "table", "docs", "list"})
	if err != nil {
		t.Fatalf("docs list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(stdout)), "\n")
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[0], "ACCESS") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "doc-budget") {
		t.Fatalf("unexpected first row %q", lines[1])
	}
}

func TestDocsShow(t *testing.T) {
	dir := demoWorkspace(t)
	data := mustData(t, "--dir", dir, "docs", "show", "doc-budget").(map[string]any)

	mode := data["mode"].(map[string]any)
	if mode["Selected"] != "not" || mode["Editable"] != "is" || mode["Notes"] != "owns" || mode["Access"] != "public" {
		t.Fatalf("unexpected mode %#v", mode)
	}
	urls := data["urls"].(map[string]any)
	if urls["viewer"] != "http://localhost:3000/documents/doc-budget" {
		t.Fatalf("unexpected viewer url %v", urls["viewer"])
	}
	if data["description"] != "Adopted operating and capital budget." {
		t.Fatalf("description not stripped: %v", data["description"])
	}
	if got := ids(t, data["projects"]); len(got) != 1 || got[0] != "proj-budget" {
		t.Fatalf("projects: %v", got)
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "docs", "show", "doc-nope"}); err == nil {
		t.Fatalf("expected not found")
	}
}

func TestDocsSelect_Scenario(t *testing.T) {
	dir := demoWorkspace(t)

	// Listing order: budget, contract, minutes, deposition, permits(unselectable), ...
	data := mustData(t, "--dir", dir, "docs", "select", "doc-minutes").(map[string]any)
	if got := ids(t, data["selected"]); len(got) != 1 || got[0] != "doc-minutes" {
		t.Fatalf("plain click: %v", got)
	}

	data = mustData(t, "--dir", dir, "docs", "select", "doc-contract", "..doc-deposition").(map[string]any)
	got := ids(t, data["selected"])
	want := []string{"doc-contract", "doc-minutes", "doc-deposition"}
	if strings.Join(got, ",") != strings.Join(want, ",") || data["anchor"] != "doc-contract" {
		t.Fatalf("range: got %v anchor %v", got, data["anchor"])
	}

	data = mustData(t, "--dir", dir, "docs", "select", "doc-contract", "..doc-deposition", "+doc-budget").(map[string]any)
	got = ids(t, data["selected"])
	want = []string{"doc-budget", "doc-contract", "doc-minutes", "doc-deposition"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("toggle: got %v", got)
	}

	data = mustData(t, "--dir", dir, "docs", "select", "doc-permits").(map[string]any)
	if got := ids(t, data["selected"]); len(got) != 0 {
		t.Fatalf("unselectable click changed selection: %v", got)
	}
	if got := ids(t, data["ignored"]); len(got) != 1 || got[0] != "doc-permits" {
		t.Fatalf("ignored: %v", got)
	}
}

func TestDocsSelect_SavedRoundTrip(t *testing.T) {
	dir := demoWorkspace(t)

	mustData(t, "--dir", dir, "docs", "select", "--saved", "doc-budget")
	data := mustData(t, "--dir", dir, "docs", "select", "--saved", "--toggle", "doc-minutes").(map[string]any)
	got := ids(t, data["selected"])
	if strings.Join(got, ",") != "doc-budget,doc-minutes" {
		t.Fatalf("saved selection not restored: %v", got)
	}
}

func TestDocsAccess(t *testing.T) {
	dir := demoWorkspace(t)

	data := mustData(t, "--dir", dir, "docs", "access", "doc-contract", "organization").(map[string]any)
	if data["access"] != float64(2) {
		t.Fatalf("unexpected access %v", data["access"])
	}
	data = mustData(t, "--dir", dir, "docs", "access", "doc-contract", "next").(map[string]any)
	if data["access"] != float64(4) {
		t.Fatalf("next after organization should be public, got %v", data["access"])
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "docs", "access", "doc-contract", "pending"}); err == nil {
		t.Fatalf("pending should not be settable")
	}

	// Reviewers never edit.
	_, stderr, err := runCLI(t, []string{"--dir", dir, "--account", "acct-dee", "docs", "access", "doc-minutes", "public"})
	if err == nil || !strings.Contains(string(stderr), "permission denied") {
		t.Fatalf("expected permission error, got %v %q", err, stderr)
	}
}

func TestDocsURL(t *testing.T) {
	dir := demoWorkspace(t)

	data := mustData(t, "--dir", dir, "docs", "url", "doc-budget", "--kind", "pdf").(map[string]any)
	if data["url"] != "http://localhost:3000/documents/doc-budget.pdf" {
		t.Fatalf("pdf url: %v", data["url"])
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "docs", "url", "doc-contract", "--kind", "published"}); err == nil {
		t.Fatalf("unpublished documents have no published url")
	}

	var opened string
	old := openURL
	openURL = func(u string) error { opened = u; return nil }
	t.Cleanup(func() { openURL = old })
	mustData(t, "--dir", dir, "docs", "url", "doc-budget", "--open")
	if opened != "http://localhost:3000/documents/doc-budget" {
		t.Fatalf("opened %q", opened)
	}
}

func TestDocsDelete(t *testing.T) {
	dir := demoWorkspace(t)

	data := mustData(t, "--dir", dir, "docs", "delete", "doc-contract").(map[string]any)
	if data["deleted"] != float64(1) {
		t.Fatalf("deleted: %v", data["deleted"])
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "docs", "show", "doc-contract"}); err == nil {
		t.Fatalf("deleted document still shown")
	}
}

func TestProjects(t *testing.T) {
	dir := demoWorkspace(t)

	p := mustData(t, "--dir", dir, "projects", "create", "Schools").(map[string]any)
	pid := p["id"].(string)
	if !strings.HasPrefix(pid, "proj-") {
		t.Fatalf("unexpected project id %q", pid)
	}

	data := mustData(t, "--dir", dir, "projects", "add", pid, "doc-budget", "doc-minutes", "doc-budget").(map[string]any)
	if data["added"] != float64(2) || data["message"] != "Added 2 documents to Schools" {
		t.Fatalf("unexpected add result %#v", data)
	}
	data = mustData(t, "--dir", dir, "projects", "add", pid, "doc-budget").(map[string]any)
	if data["added"] != float64(0) {
		t.Fatalf("re-adding should add nothing, got %v", data["added"])
	}

	if _, stderr, err := runCLI(t, []string{"--dir", dir, "projects", "add", "proj-nope", "doc-budget"}); err == nil || !strings.Contains(string(stderr), "project not found: proj-nope") {
		t.Fatalf("expected not found, got %v %q", err, stderr)
	}

	got := ids(t, mustData(t, "--dir", dir, "projects", "list"))
	if got[len(got)-1] != pid {
		t.Fatalf("new project should be listed last: %v", got)
	}
}

func TestNotes(t *testing.T) {
	dir := demoWorkspace(t)

	notes := mustData(t, "--dir", dir, "notes", "list", "doc-budget").([]any)
	if len(notes) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(notes))
	}
	ents := mustData(t, "--dir", dir, "notes", "entities", "doc-deposition").([]any)
	if len(ents) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(ents))
	}
}

func TestDrop(t *testing.T) {
	dir := demoWorkspace(t)
	zones := `[{"projectId":"proj-budget","top":0,"left":0,"width":100,"height":100},
	           {"projectId":"proj-trash","top":100,"left":100,"width":100,"height":100}]`

	data := mustData(t, "--dir", dir, "drop", "--x", "150", "--y", "150", "--zones", zones, "--dragged", "doc-contract").(map[string]any)
	if data["projectId"] != "proj-trash" || data["applied"] != false {
		t.Fatalf("resolve: %#v", data)
	}

	data = mustData(t, "--dir", dir, "drop", "--x", "100", "--y", "50", "--zones", zones, "--dragged", "doc-contract").(map[string]any)
	if data["projectId"] != nil {
		t.Fatalf("edge point should land nowhere: %#v", data)
	}

	data = mustData(t, "--dir", dir, "drop", "--x", "150", "--y", "150", "--zones", zones,
		"--dragged", "doc-contract", "--selected", "doc-contract,doc-minutes", "--apply").(map[string]any)
	if data["applied"] != true || data["added"] != float64(2) {
		t.Fatalf("apply: %#v", data)
	}
	if got := ids(t, data["documents"]); strings.Join(got, ",") != "doc-contract,doc-minutes" {
		t.Fatalf("payload: %v", got)
	}
}

func TestGuide_ListAndShow(t *testing.T) {
	t.Setenv("DOCDESK_CONFIG_DIR", t.TempDir())
	t.Setenv("DOCDESK_FORMAT", "")

	list, ok := mustData(t, "guide").([]any)
	if !ok || len(list) == 0 {
		t.Fatalf("expected topic list, got %#v", list)
	}
	first := list[0].(map[string]any)
	if first["topic"] != "access" || first["title"] != "Access levels" {
		t.Fatalf("unexpected first topic %#v", first)
	}

	stdout, _, err := runCLI(t, []string{"guide", "selection", "--raw"})
	if err != nil {
		t.Fatalf("guide selection: %v", err)
	}
	if !strings.HasPrefix(string(stdout), "# Selecting documents") {
		t.Fatalf("unexpected raw output %q", stdout)
	}

	_, stderr, err := runCLI(t, []string{"guide", "nope"})
	if err == nil || !strings.Contains(string(stderr), `unknown guide topic: "nope"`) {
		t.Fatalf("expected unknown topic error, got %v %q", err, stderr)
	}
}

func TestDirFromEnv_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("DOCDESK_CONFIG_DIR", t.TempDir())
	t.Setenv("DOCDESK_ACCOUNT", "")
	t.Setenv("DOCDESK_FORMAT", "")
	t.Setenv("DOCDESK_DIR", "~/desk")
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	data := mustData(t, "init", "--demo").(map[string]any)
	want := filepath.Join(home, "desk")
	if data["dir"] != want {
		t.Fatalf("dir: got %v want %s", data["dir"], want)
	}
	if _, err := os.Stat(filepath.Join(want, "index.sqlite")); err != nil {
		t.Fatalf("expected workspace under home: %v", err)
	}
}
