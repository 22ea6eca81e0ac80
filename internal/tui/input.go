package tui

import (
	"strconv"
	"strings"

	"docdesk/internal/access"
	"docdesk/internal/dragdrop"
	"docdesk/internal/menu"
	"docdesk/internal/search"
	"docdesk/internal/selection"
	"docdesk/internal/tile"
	"docdesk/internal/workspace"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *appModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.modal {
	case modalMenu:
		return m.updateMenuModal(msg)
	case modalConfirmDelete:
		return m.updateConfirmModal(msg)
	case modalEdit:
		return m.updateEditModal(msg)
	case modalEmbed:
		return m.updateEmbedModal(msg)
	}
	if m.searching {
		return m.updateSearch(msg)
	}
	if m.help.ShowAll {
		m.help.ShowAll = false
		return nil
	}

	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return tea.Quit
	case key.Matches(msg, k.Help):
		m.help.ShowAll = true
		return nil
	case key.Matches(msg, k.Clear):
		m.escape()
		return nil
	case key.Matches(msg, k.Search):
		m.searching = true
		m.search.SetValue(m.query)
		m.search.CursorEnd()
		return m.search.Focus()
	case key.Matches(msg, k.Organizer):
		m.showOrganizer = !m.showOrganizer
		m.refreshPane()
		return nil
	case key.Matches(msg, k.Reload):
		return m.reloadCmd()
	case key.Matches(msg, k.SelectAll):
		m.sel.SelectAll(m.coll)
		return nil
	}

	cur := m.current()
	if cur == nil {
		return nil
	}
	switch {
	case key.Matches(msg, k.Up):
		return m.moveCursor(-1)
	case key.Matches(msg, k.Down):
		return m.moveCursor(1)
	case key.Matches(msg, k.PageUp):
		return m.moveCursor(-max(m.visibleTiles(), 1))
	case key.Matches(msg, k.PageDown):
		return m.moveCursor(max(m.visibleTiles(), 1))
	case key.Matches(msg, k.ExtendUp):
		return m.extend(-1)
	case key.Matches(msg, k.ExtendDown):
		return m.extend(1)
	case key.Matches(msg, k.Select):
		m.sel.Select(cur, selection.Modifiers{}, m.coll)
	case key.Matches(msg, k.Toggle):
		m.sel.Select(cur, selection.Modifiers{Toggle: true}, m.coll)
	case key.Matches(msg, k.Open):
		return m.openCmd(m.coll.Chosen(cur), false)
	case key.Matches(msg, k.Menu):
		m.openMenu(cur, dragdrop.Point{X: 4, Y: m.tileRow(m.cursor) + 1})
	case key.Matches(msg, k.Notes):
		return m.toggleNotes()
	case key.Matches(msg, k.Pages):
		return m.togglePages()
	case key.Matches(msg, k.Access):
		return m.cycleAccess()
	case key.Matches(msg, k.Edit):
		m.beginEdit(m.coll.Chosen(cur))
	case key.Matches(msg, k.Delete):
		m.confirmDelete(m.coll.Chosen(cur))
	case key.Matches(msg, k.FacetAcct):
		m.addFacet(search.Account(cur.AccountSlug))
	case key.Matches(msg, k.FacetGroup):
		m.addFacet(search.Group(cur.OrganizationSlug))
	case key.Matches(msg, k.FacetSource):
		if cur.Source == "" {
			m.showMinibuffer("No source on this document")
			return nil
		}
		m.addFacet(search.Source(cur.Source))
	case key.Matches(msg, k.File):
		n, _ := strconv.Atoi(msg.String())
		return m.fileInto(n - 1)
	}
	return nil
}

func (m *appModel) moveCursor(delta int) tea.Cmd {
	m.cursor += delta
	m.clampCursor()
	m.refreshPane()
	if m.pane == panePages {
		return m.ensurePages()
	}
	return nil
}

// extend is shift+arrow: move the cursor and range-select from the anchor.
func (m *appModel) extend(delta int) tea.Cmd {
	from := m.current()
	cmd := m.moveCursor(delta)
	m.sel.ExtendTo(m.current(), from, m.coll)
	return cmd
}

// escape unwinds one level: pane, then selection, then the search query.
func (m *appModel) escape() {
	switch {
	case m.pane != paneNone:
		m.pane = paneNone
		m.ensureCursorVisible()
	case len(m.coll.Selected()) > 0:
		m.sel.Clear(m.coll)
	case m.query != "":
		m.query = ""
		m.search.SetValue("")
		m.applyQuery()
	}
}

func (m *appModel) addFacet(facet string) {
	m.query = search.Append(m.query, facet)
	m.search.SetValue(m.query)
	m.applyQuery()
}

func (m *appModel) applyQuery() {
	var selected []string
	for _, d := range m.coll.Selected() {
		selected = append(selected, d.ID)
	}
	cursorID := ""
	if d := m.current(); d != nil {
		cursorID = d.ID
	}
	m.rebuild(selected, cursorID)
	m.refreshPane()
	m.log.Debug().Str("query", m.query).Int("documents", m.coll.Len()).Msg("search")
}

func (m *appModel) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		m.query = strings.TrimSpace(m.search.Value())
		m.applyQuery()
		return nil
	case "esc", "ctrl+g":
		m.searching = false
		m.search.Blur()
		m.search.SetValue(m.query)
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return cmd
}

func (m *appModel) toggleNotes() tea.Cmd {
	d := m.current()
	v := m.views[d.ID]
	if v == nil {
		return nil
	}
	if v.Mode().Notes == tile.NotesNone {
		m.showMinibuffer("No notes on this document")
		return nil
	}
	fetch := v.ToggleNotes()
	if v.Mode().Notes == tile.NotesOwns {
		if m.pane == paneNotes {
			m.pane = paneNone
		}
	} else {
		m.pane = paneNotes
	}
	m.ensureCursorVisible()
	m.refreshPane()
	if fetch {
		return tea.Batch(m.fetchNotesCmd(d.ID), m.spinner.Tick)
	}
	return nil
}

func (m *appModel) togglePages() tea.Cmd {
	if m.pane == panePages {
		m.pane = paneNone
		m.ensureCursorVisible()
		return nil
	}
	m.pane = panePages
	m.ensureCursorVisible()
	m.refreshPane()
	return m.ensurePages()
}

// ensurePages starts an entity fetch for the cursor document unless one is
// cached or already running.
func (m *appModel) ensurePages() tea.Cmd {
	d := m.current()
	if d == nil {
		return nil
	}
	if _, ok := m.pages[d.ID]; ok || m.pagesLoading[d.ID] {
		return nil
	}
	m.pagesLoading[d.ID] = true
	return tea.Batch(m.fetchPagesCmd(d.ID), m.spinner.Tick)
}

func (m *appModel) cycleAccess() tea.Cmd {
	d := m.current()
	if !d.Editable {
		m.showMinibuffer("Permission denied: you can't change access on this document")
		return nil
	}
	switch d.Access {
	case access.Pending:
		m.showMinibuffer("Access can't change while the document is processing")
		return nil
	case access.Error:
		m.showMinibuffer("Access can't change on a document that failed to import")
		return nil
	}
	return m.setAccessCmd(d.ID, access.Next(d.Access))
}

// fileInto is the keyboard form of dropping the cursor tile onto the i-th
// project.
func (m *appModel) fileInto(i int) tea.Cmd {
	if i < 0 || i >= len(m.db.Projects) {
		m.showMinibuffer("No project " + strconv.Itoa(i+1))
		return nil
	}
	docs := dragdrop.Payload(m.current(), m.coll.Selected())
	a := &dragdrop.Assignment{ProjectID: m.db.Projects[i].ID, Documents: docs}
	return m.assignCmd(a.ProjectID, a.IDs())
}

func (m *appModel) drop(p dragdrop.Point, dragged *workspace.Document) tea.Cmd {
	a := dragdrop.Resolve(p, m.zones(), dragged, m.coll.Selected())
	if a == nil {
		return nil
	}
	return m.assignCmd(a.ProjectID, a.IDs())
}

func (m *appModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	p := dragdrop.Point{X: msg.X, Y: msg.Y}
	if m.modal == modalMenu {
		return m.handleMenuMouse(msg, p)
	}
	if m.modal != modalNone || m.searching || m.help.ShowAll {
		return nil
	}

	if msg.Action == tea.MouseActionPress {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return m.scroll(p, -1)
		case tea.MouseButtonWheelDown:
			return m.scroll(p, 1)
		}
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if m.inPane(p) {
			if msg.Button == tea.MouseButtonLeft {
				return m.clickPane(p)
			}
			return nil
		}
		i := m.tileAt(p.X, p.Y)
		if i < 0 {
			return nil
		}
		d := m.coll.At(i)
		m.cursor = i
		m.refreshPane()
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.pressMods = selection.Modifiers{Toggle: msg.Ctrl || msg.Alt, Range: msg.Shift}
			m.tracker.Begin(d, p)
		case tea.MouseButtonRight:
			m.tracker.Cancel()
			m.openMenu(d, p)
		}
		if m.pane == panePages {
			return m.ensurePages()
		}
	case tea.MouseActionMotion:
		if m.tracker.Pressed() {
			m.tracker.Move(p)
		}
	case tea.MouseActionRelease:
		if !m.tracker.Pressed() {
			return nil
		}
		pressed := m.tracker.Doc()
		dragged := m.tracker.End(p)
		if dragged == nil {
			// Press and release on the same cell: a click.
			m.sel.Select(pressed, m.pressMods, m.coll)
			return nil
		}
		return m.drop(p, dragged)
	}
	return nil
}

func (m *appModel) scroll(p dragdrop.Point, delta int) tea.Cmd {
	if m.inPane(p) {
		if delta < 0 {
			m.viewport.LineUp(-delta)
		} else {
			m.viewport.LineDown(delta)
		}
		return nil
	}
	per := max(m.visibleTiles(), 1)
	m.offset = min(max(m.offset+delta, 0), max(m.coll.Len()-per, 0))
	switch {
	case m.cursor < m.offset:
		m.cursor = m.offset
	case m.cursor >= m.offset+per:
		m.cursor = m.offset + per - 1
	}
	m.refreshPane()
	return nil
}

func (m appModel) inPane(p dragdrop.Point) bool {
	if m.pane == paneNone {
		return false
	}
	top := m.paneTop()
	return p.X < m.listWidth() && p.Y >= top && p.Y < top+m.paneHeight()
}

// clickPane opens the viewer at the first occurrence of a clicked entity.
func (m *appModel) clickPane(p dragdrop.Point) tea.Cmd {
	if m.pane != panePages {
		return nil
	}
	d := m.current()
	if d == nil {
		return nil
	}
	ents := m.pages[d.ID]
	row := p.Y - m.paneTop() - 1 + m.viewport.YOffset
	if row < 0 || row >= len(ents) || len(ents[row].Occurrences) == 0 {
		return nil
	}
	e := ents[row]
	occ := e.Occurrences[0]
	return openURLsCmd([]string{m.urls.Entity(&d.Document, e.ID, occ.Page, occ.Offset)})
}

func (m *appModel) handleMenuMouse(msg tea.MouseMsg, p dragdrop.Point) tea.Cmd {
	i := m.menuItemAt(p)
	switch msg.Action {
	case tea.MouseActionMotion:
		if i >= 0 && !m.menuItems[i].Disabled {
			m.menuIndex = i
		}
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft && msg.Button != tea.MouseButtonRight {
			return nil
		}
		if i >= 0 {
			if m.menuItems[i].Disabled {
				return nil
			}
			m.menuIndex = i
			return m.runMenuAction(m.menuItems[i].Action)
		}
		if !m.menuContains(p) {
			m.closeMenu()
		}
	}
	return nil
}

func (m *appModel) updateMenuModal(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q", "m", "ctrl+g":
		m.closeMenu()
	case "up", "k", "shift+tab":
		m.moveMenu(-1)
	case "down", "j", "tab":
		m.moveMenu(1)
	case "enter", " ":
		if m.menuIndex >= 0 && m.menuIndex < len(m.menuItems) && !m.menuItems[m.menuIndex].Disabled {
			return m.runMenuAction(m.menuItems[m.menuIndex].Action)
		}
	}
	return nil
}

func (m *appModel) runMenuAction(a menu.Action) tea.Cmd {
	d, ok := m.coll.Get(m.menuDocID)
	m.closeMenu()
	if !ok {
		return nil
	}
	chosen := m.coll.Chosen(d)
	switch a {
	case menu.ActionOpen:
		return m.openCmd(chosen, false)
	case menu.ActionOpenPublished:
		return m.openCmd(chosen, true)
	case menu.ActionViewEntities:
		m.cursor = m.coll.IndexOf(d)
		if m.pane == panePages {
			m.refreshPane()
			return m.ensurePages()
		}
		return m.togglePages()
	case menu.ActionEditAll:
		m.beginEdit(chosen)
	case menu.ActionEmbed:
		m.embedCode = m.urls.Embed(&d.Document)
		m.modal = modalEmbed
	case menu.ActionDelete:
		m.confirmDelete(chosen)
	}
	return nil
}

func (m *appModel) updateConfirmModal(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "ctrl+g", "n":
		m.modal = modalNone
		m.pendingIDs = nil
	case "tab", "shift+tab", "left", "right", "h", "l":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
	case "y":
		m.confirmFocus = confirmFocusConfirm
		fallthrough
	case "enter":
		ids := m.pendingIDs
		m.modal = modalNone
		m.pendingIDs = nil
		if m.confirmFocus == confirmFocusConfirm && len(ids) > 0 {
			return m.deleteCmd(ids)
		}
	}
	return nil
}

func (m *appModel) updateEmbedModal(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q", "ctrl+g":
		m.modal = modalNone
	case "c", "enter", "y":
		m.modal = modalNone
		return copyCmd("embed code", m.embedCode)
	}
	return nil
}
