package tui

import (
	"fmt"
	"strconv"
	"strings"

	"docdesk/internal/model"
	"docdesk/internal/tile"
	"docdesk/internal/workspace"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// refreshPane re-renders the pane contents into the viewport for the cursor
// document. It is cheap to call after anything that may affect the pane.
func (m *appModel) refreshPane() {
	m.viewport.Width = m.listWidth()
	m.viewport.Height = max(m.paneHeight()-1, 0)
	if m.pane == paneNone {
		m.viewport.SetContent("")
		return
	}
	d := m.current()
	switch m.pane {
	case paneNotes:
		m.viewport.SetContent(m.notesContent(d))
	case panePages:
		m.viewport.SetContent(m.pagesContent(d))
	}
	id := ""
	if d != nil {
		id = d.ID
	}
	if id != m.paneDocID {
		m.paneDocID = id
		m.viewport.GotoTop()
	}
}

func (m appModel) notesContent(d *workspace.Document) string {
	if d == nil {
		return ""
	}
	v := m.views[d.ID]
	if v == nil {
		return ""
	}
	switch v.Mode().Notes {
	case tile.NotesHas:
		notes := m.notes[d.ID]
		if len(notes) == 0 {
			return "  " + styleMuted().Render("No notes.")
		}
		return renderMarkdown(notesMarkdown(notes), max(m.listWidth()-4, 10))
	case tile.NotesFailed:
		return "  " + styleWarn().Render("Couldn't load notes. Press n to retry.")
	case tile.NotesOwns:
		return "  " + styleMuted().Render("Press n to show notes.")
	case tile.NotesLoading:
		return ""
	default:
		return "  " + styleMuted().Render("No notes on this document.")
	}
}

func (m appModel) pagesContent(d *workspace.Document) string {
	if d == nil {
		return ""
	}
	ents, ok := m.pages[d.ID]
	if !ok {
		return ""
	}
	if len(ents) == 0 {
		return "  " + styleMuted().Render("No entities found.")
	}
	w := m.listWidth()
	lines := make([]string, 0, len(ents))
	for _, e := range ents {
		lines = append(lines, entityLine(e, w))
	}
	return strings.Join(lines, "\n")
}

// entityLine keeps each entity on exactly one row so clicks map to entities.
func entityLine(e model.PageEntity, width int) string {
	kind := styleMuted().Render(fitWidth(e.Kind, 13))
	value := lipgloss.NewStyle().Bold(true).Render(e.Value)
	count := styleMuted().Render(fmt.Sprintf("x%d", len(e.Occurrences)))

	var pages []string
	last := -1
	for _, o := range e.Occurrences {
		if o.Page != last {
			pages = append(pages, strconv.Itoa(o.Page))
			last = o.Page
		}
	}
	where := ""
	if len(pages) > 0 {
		where = styleMuted().Render("p. " + strings.Join(pages, ", "))
	}
	return fitWidth("  "+kind+" "+value+"  "+count+"  "+where, width)
}

func (m appModel) paneLoading() bool {
	d := m.current()
	if d == nil {
		return false
	}
	switch m.pane {
	case paneNotes:
		v := m.views[d.ID]
		return v != nil && v.Mode().Notes == tile.NotesLoading
	case panePages:
		return m.pagesLoading[d.ID]
	}
	return false
}

func (m appModel) renderPane() string {
	w, h := m.listWidth(), m.paneHeight()
	title := "Notes"
	if m.pane == panePages {
		title = "Entities"
	}
	if d := m.current(); d != nil {
		title += " " + glyphDot() + " " + d.Title
	}
	head := truncate(glyphHRule()+glyphHRule()+" "+title+" ", w)
	rule := styleChrome().Render(head + strings.Repeat(glyphHRule(), max(w-xansi.StringWidth(head), 0)))

	body := m.viewport.View()
	if m.paneLoading() {
		body = "  " + m.spinner.View() + " Loading" + pick("…", "...")
	}
	return normalizePane(rule+"\n"+body, w, h)
}
