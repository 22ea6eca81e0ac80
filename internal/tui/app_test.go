package tui

import (
	"strings"
	"testing"
	"time"

	"docdesk/internal/access"
	"docdesk/internal/model"
	"docdesk/internal/search"
	"docdesk/internal/store"
	"docdesk/internal/tile"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// The seeded workspace as Ana (ledger admin) sees it, in listing order.
var anaListing = []string{
	"doc-budget",
	"doc-contract",
	"doc-minutes",
	"doc-deposition",
	"doc-permits",
	"doc-audit",
	"doc-memo",
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s := store.Store{Dir: t.TempDir()}
	if err := s.Save(store.Seed(time.Now())); err != nil {
		t.Fatalf("save seed: %v", err)
	}
	return s
}

func newTestModel(t *testing.T, s store.Store) appModel {
	t.Helper()
	db, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	acct, ok := db.FindAccount("acct-ana")
	if !ok {
		t.Fatalf("expected seeded account acct-ana")
	}
	m := newAppModel(Options{
		Store:   s,
		DB:      db,
		Account: acct,
		Config:  &store.GlobalConfig{ViewerBase: "https://docs.example.org"},
		Logger:  zerolog.Nop(),
	})
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return mm.(appModel)
}

func update(t *testing.T, m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()
	mm, cmd := m.Update(msg)
	return mm.(appModel), cmd
}

// runCmd executes cmd and flattens batches into the messages they produce.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if b, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range b {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// feed runs cmd and delivers every message of the given kind back to the
// model. Timer-driven messages are skipped.
func feed[T tea.Msg](t *testing.T, m appModel, cmd tea.Cmd) (appModel, T) {
	t.Helper()
	var got T
	found := false
	for _, msg := range runCmd(cmd) {
		if v, ok := msg.(T); ok {
			got = v
			found = true
			m, _ = update(t, m, msg)
		}
	}
	if !found {
		t.Fatalf("expected a %T from command", got)
	}
	return m, got
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonNone, Action: tea.MouseActionRelease}
}

func click(t *testing.T, m appModel, x, y int, mods ...func(*tea.MouseMsg)) appModel {
	t.Helper()
	p := press(x, y)
	for _, f := range mods {
		f(&p)
	}
	m, _ = update(t, m, p)
	m, _ = update(t, m, release(x, y))
	return m
}

func withCtrl(msg *tea.MouseMsg)  { msg.Ctrl = true }
func withShift(msg *tea.MouseMsg) { msg.Shift = true }

// tileY is the screen row of the title line of the i-th tile.
func tileY(i int) int { return headerRows + i*tileHeight }

func selectedIDs(m appModel) []string {
	var out []string
	for _, d := range m.coll.Selected() {
		out = append(out, d.ID)
	}
	return out
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func listing(m appModel) []string {
	var out []string
	for i := 0; i < m.coll.Len(); i++ {
		out = append(out, m.coll.At(i).ID)
	}
	return out
}

func TestNewAppModel_ListsVisibleDocuments(t *testing.T) {
	m := newTestModel(t, newTestStore(t))
	if got := listing(m); !sameIDs(got, anaListing) {
		t.Fatalf("listing: got %v want %v", got, anaListing)
	}
	if len(m.views) != len(anaListing) {
		t.Fatalf("expected one view per tile, got %d", len(m.views))
	}
	d, _ := m.coll.Get("doc-permits")
	if d.Editable {
		t.Fatalf("expected another organization's document to be read-only")
	}
	if v := m.views["doc-budget"]; v.Mode().Notes != tile.NotesOwns {
		t.Fatalf("expected annotated document to start in owns, got %q", v.Mode().Notes)
	}
}

func TestMouse_ClickToggleAndRangeSelect(t *testing.T) {
	m := newTestModel(t, newTestStore(t))

	m = click(t, m, 10, tileY(0))
	if got := selectedIDs(m); !sameIDs(got, []string{"doc-budget"}) {
		t.Fatalf("click: got %v", got)
	}

	m = click(t, m, 10, tileY(1), withCtrl)
	if got := selectedIDs(m); !sameIDs(got, []string{"doc-budget", "doc-contract"}) {
		t.Fatalf("ctrl-click: got %v", got)
	}

	m = click(t, m, 10, tileY(0), withCtrl)
	if got := selectedIDs(m); !sameIDs(got, []string{"doc-contract"}) {
		t.Fatalf("ctrl-click again should deselect: got %v", got)
	}

	m = click(t, m, 10, tileY(0))
	m = click(t, m, 10, tileY(2)+1, withShift)
	if got := selectedIDs(m); !sameIDs(got, []string{"doc-budget", "doc-contract", "doc-minutes"}) {
		t.Fatalf("shift-click: got %v", got)
	}
	if m.cursor != 2 {
		t.Fatalf("expected cursor to follow the click, got %d", m.cursor)
	}
}

func TestMouse_ClickOnUnselectableOrGapIsIgnored(t *testing.T) {
	m := newTestModel(t, newTestStore(t))

	m = click(t, m, 10, tileY(4)) // doc-permits
	if got := selectedIDs(m); len(got) != 0 {
		t.Fatalf("expected unselectable document to stay unselected, got %v", got)
	}

	m = click(t, m, 10, tileY(0)+2) // gap row under the first tile
	if got := selectedIDs(m); len(got) != 0 {
		t.Fatalf("expected gap click to do nothing, got %v", got)
	}
}

func TestDragDrop_AssignsSelectionToProject(t *testing.T) {
	s := newTestStore(t)
	m := newTestModel(t, s)

	m = click(t, m, 10, tileY(0))
	m = click(t, m, 10, tileY(1), withCtrl)

	m, _ = update(t, m, press(10, tileY(0)))
	m, _ = update(t, m, motion(40, tileY(0)))
	m, _ = update(t, m, motion(90, 7))
	if !m.tracker.Active() {
		t.Fatalf("expected drag in progress")
	}
	if got := m.hoverProject(); got != "proj-trash" {
		t.Fatalf("hover: got %q", got)
	}
	if !strings.Contains(m.View(), "Drop 2 documents into Trash contract") {
		t.Fatalf("expected drag status in header")
	}

	m, cmd := update(t, m, release(90, 7))
	if cmd == nil {
		t.Fatalf("expected assignment command")
	}
	m, msg := feed[assignedMsg](t, m, cmd)
	if msg.err != nil {
		t.Fatalf("assign: %v", msg.err)
	}
	if msg.projectID != "proj-trash" || !sameIDs(msg.ids, []string{"doc-budget", "doc-contract"}) {
		t.Fatalf("assignment: got %q %v", msg.projectID, msg.ids)
	}
	if !strings.Contains(m.minibufferText, "Added 2 documents to Trash contract") {
		t.Fatalf("minibuffer: got %q", m.minibufferText)
	}
	if p := m.project("proj-trash"); len(p.DocumentIDs) != 2 {
		t.Fatalf("expected in-memory project to list both documents, got %v", p.DocumentIDs)
	}
	if got := selectedIDs(m); len(got) != 2 {
		t.Fatalf("expected drop to leave selection alone, got %v", got)
	}

	db, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p, _ := db.FindProject("proj-trash")
	if len(p.DocumentIDs) != 2 {
		t.Fatalf("expected stored project to list both documents, got %v", p.DocumentIDs)
	}
}

func TestDragDrop_UnselectedTileCarriesOnlyItself(t *testing.T) {
	m := newTestModel(t, newTestStore(t))
	m = click(t, m, 10, tileY(0))

	m, _ = update(t, m, press(10, tileY(2)))
	m, _ = update(t, m, motion(90, 4))
	m, cmd := update(t, m, release(90, 4))
	_, msg := feed[assignedMsg](t, m, cmd)
	if msg.projectID != "proj-budget" || !sameIDs(msg.ids, []string{"doc-minutes"}) {
		t.Fatalf("assignment: got %q %v", msg.projectID, msg.ids)
	}
}

func TestDragDrop_ReleaseOutsideZoneDoesNothing(t *testing.T) {
	m := newTestModel(t, newTestStore(t))

	for _, y := range []int{2, 3, 5} { // heading, top border, bottom border
		m, _ = update(t, m, press(10, tileY(0)))
		m, _ = update(t, m, motion(90, y))
		var cmd tea.Cmd
		m, cmd = update(t, m, release(90, y))
		if cmd != nil {
			t.Fatalf("y=%d: expected no assignment", y)
		}
		if m.tracker.Pressed() {
			t.Fatalf("y=%d: expected gesture to end", y)
		}
	}
	if got := selectedIDs(m); len(got) != 0 {
		t.Fatalf("expected failed drops not to select, got %v", got)
	}
}

func TestKeyboard_FileIntoProject(t *testing.T) {
	m := newTestModel(t, newTestStore(t))
	m, cmd := update(t, m, keyRunes("2"))
	_, msg := feed[assignedMsg](t, m, cmd)
	if msg.projectID != "proj-trash" || !sameIDs(msg.ids, []string{"doc-budget"}) {
		t.Fatalf("assignment: got %q %v", msg.projectID, msg.ids)
	}

	m, cmd = update(t, m, keyRunes("9"))
	if cmd != nil || !strings.Contains(m.minibufferText, "No project 9") {
		t.Fatalf("expected missing project message, got %q", m.minibufferText)
	}
}

func TestAssigned_AlreadyMember(t *testing.T) {
	m := newTestModel(t, newTestStore(t))
	m, cmd := update(t, m, keyRunes("1")) // doc-budget is already in proj-budget
	m, _ = feed[assignedMsg](t, m, cmd)
	if m.minibufferText != "Already in Budget season" {
		t.Fatalf("minibuffer: got %q", m.minibufferText)
	}
}

func TestKeyboard_ExtendSelection(t *testing.T) {
	m := newTestModel(t, newTestStore(t))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, keyRunes("J"))
	m, _ = update(t, m, keyRunes("J"))
	if got := selectedIDs(m); !sameIDs(got, []string{"doc-budget", "doc-contract", "doc-minutes"}) {
		t.Fatalf("extend: got %v", got)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if got := selectedIDs(m); len(got) != 0 {
		t.Fatalf("esc should clear selection, got %v", got)
	}
}

func TestSearch_FacetFiltersAndEscClears(t *testing.T) {
	m := newTestModel(t, newTestStore(t))
	m = click(t, m, 10, tileY(1))

	m, _ = update(t, m, keyRunes("A"))
	if m.query != search.Account("ana") {
		t.Fatalf("query: got %q", m.query)
	}
	want := []string{"doc-budget", "doc-contract", "doc-audit"}
	if got := listing(m); !sameIDs(got, want) {
		t.Fatalf("filtered listing: got %v want %v", got, want)
	}
	if got := selectedIDs(m); !sameIDs(got, []string{"doc-contract"}) {
		t.Fatalf("expected selection to carry over, got %v", got)
	}
	if d := m.current(); d == nil || d.ID != "doc-contract" {
		t.Fatalf("expected cursor to stay on doc-contract")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc}) // clears selection
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc}) // clears query
	if m.query != "" {
		t.Fatalf("expected query cleared, got %q", m.query)
	}
	if got := listing(m); !sameIDs(got, anaListing) {
		t.Fatalf("listing after clear: got %v", got)
	}
}

func TestSearch_TypedQuery(t *testing.T) {
	m := newTestModel(t, newTestStore(t))
	m, _ = update(t, m, keyRunes("/"))
	if !m.searching {
		t.Fatalf("expected search box focused")
	}
	m.search.SetValue("budget")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.searching {
		t.Fatalf("expected search box closed")
	}
	if got := listing(m); !sameIDs(got, []string{"doc-budget"}) {
		t.Fatalf("listing: got %v", got)
	}
}

func TestSync_FoldsReloadedWorkspace(t *testing.T) {
	s := newTestStore(t)
	m := newTestModel(t, s)

	db, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	kept := db.Documents[:0]
	for _, d := range db.Documents {
		switch d.ID {
		case "doc-memo":
			continue
		case "doc-contract":
			d.Title = "Waste hauling contract (signed)"
		}
		kept = append(kept, d)
	}
	extra := db.Documents[0]
	extra.ID = "doc-new"
	extra.Title = "New upload"
	extra.PublishedURL = ""
	db.Documents = append(kept, extra)

	m, _ = update(t, m, reloadedMsg{db: db, mod: time.Now()})

	want := []string{"doc-budget", "doc-contract", "doc-minutes", "doc-deposition", "doc-permits", "doc-audit", "doc-new"}
	if got := listing(m); !sameIDs(got, want) {
		t.Fatalf("listing: got %v want %v", got, want)
	}
	if d, _ := m.coll.Get("doc-contract"); d.Title != "Waste hauling contract (signed)" {
		t.Fatalf("expected title update, got %q", d.Title)
	}
	if m.views["doc-memo"] != nil {
		t.Fatalf("expected removed document's view to close")
	}
	if m.views["doc-new"] == nil {
		t.Fatalf("expected new document to get a view")
	}
}

func TestSync_NewDocumentTakesItsStorePosition(t *testing.T) {
	s := newTestStore(t)
	m := newTestModel(t, s)

	db, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	first := db.Documents[0]
	first.ID = "doc-early"
	first.Title = "Early upload"
	first.PublishedURL = ""
	db.Documents = append([]model.Document{first}, db.Documents...)

	m, _ = update(t, m, reloadedMsg{db: db, mod: time.Now()})
	synced := listing(m)
	if len(synced) == 0 || synced[0] != "doc-early" {
		t.Fatalf("expected new document first, got %v", synced)
	}

	// A later rebuild keeps the same order, so ranges don't shift.
	m.rebuild(nil, "")
	if got := listing(m); !sameIDs(got, synced) {
		t.Fatalf("rebuild reordered the listing:\nsync:    %v\nrebuild: %v", synced, got)
	}
}

func TestTileCache_SelectionDoesNotRebuildBodies(t *testing.T) {
	m := newTestModel(t, newTestStore(t))
	_ = m.View()
	built := m.tiles.Builds
	if built != len(anaListing) {
		t.Fatalf("expected one body per tile, got %d", built)
	}

	m = click(t, m, 10, tileY(0))
	m = click(t, m, 10, tileY(1), withCtrl)
	_ = m.View()
	if m.tiles.Builds != built {
		t.Fatalf("selection rebuilt bodies: %d -> %d", built, m.tiles.Builds)
	}
	if m.tiles.Seen[tile.InvalidateSelected] == 0 {
		t.Fatalf("expected selection invalidations")
	}

	m, cmd := update(t, m, keyRunes("a")) // cursor is on doc-contract
	m, _ = feed[accessSetMsg](t, m, cmd)
	_ = m.View()
	if m.tiles.Builds != built+1 {
		t.Fatalf("expected exactly one rebuild after access change, got %d", m.tiles.Builds-built)
	}
}

func TestMinibuffer_AutoClears(t *testing.T) {
	m := newTestModel(t, newTestStore(t))
	m.showMinibuffer("hello")
	m, _ = update(t, m, reloadTickMsg{})
	if m.minibufferText != "hello" {
		t.Fatalf("expected fresh message to stay")
	}
	m.minibufferSetAt = time.Now().Add(-minibufferAutoClearAfter - time.Second)
	m, _ = update(t, m, reloadTickMsg{})
	if m.minibufferText != "" {
		t.Fatalf("expected stale message to clear, got %q", m.minibufferText)
	}
}

func TestState_SaveAndRestore(t *testing.T) {
	s := newTestStore(t)
	m := newTestModel(t, s)
	m = click(t, m, 10, tileY(0))
	m = click(t, m, 10, tileY(2), withCtrl)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.showOrganizer {
		t.Fatalf("expected tab to hide the organizer")
	}
	if err := m.saveState(); err != nil {
		t.Fatalf("save state: %v", err)
	}

	m2 := newTestModel(t, s)
	if got := selectedIDs(m2); !sameIDs(got, []string{"doc-budget", "doc-minutes"}) {
		t.Fatalf("restored selection: got %v", got)
	}
	if d := m2.current(); d == nil || d.ID != "doc-minutes" {
		t.Fatalf("expected cursor restored to doc-minutes")
	}
	if m2.showOrganizer {
		t.Fatalf("expected organizer to stay hidden")
	}
	if m2.organizerWidth() != 0 || m2.zones() != nil {
		t.Fatalf("expected no drop zones with the organizer hidden")
	}
}

func TestAccessCycle(t *testing.T) {
	s := newTestStore(t)
	m := newTestModel(t, s)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown}) // doc-contract, private
	m, cmd := update(t, m, keyRunes("a"))
	m, _ = feed[accessSetMsg](t, m, cmd)
	d, _ := m.coll.Get("doc-contract")
	if d.Access != access.Organization {
		t.Fatalf("access: got %v", d.Access)
	}
	db, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sd, _ := db.FindDocument("doc-contract"); sd.Access != access.Organization {
		t.Fatalf("stored access: got %v", sd.Access)
	}

	m.cursor = 4 // doc-permits, read-only
	m, cmd = update(t, m, keyRunes("a"))
	if cmd != nil || !strings.HasPrefix(m.minibufferText, "Permission denied") {
		t.Fatalf("expected permission message, got %q", m.minibufferText)
	}

	m.cursor = 5 // doc-audit, pending
	m, cmd = update(t, m, keyRunes("a"))
	if cmd != nil || !strings.Contains(m.minibufferText, "processing") {
		t.Fatalf("expected pending message, got %q", m.minibufferText)
	}
}
