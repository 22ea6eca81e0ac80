package tui

import (
	"time"

	"docdesk/internal/model"
	"docdesk/internal/perm"
	"docdesk/internal/search"
	"docdesk/internal/store"
	"docdesk/internal/tile"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize/english"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.search.Width = max(msg.Width-4, 10)
		m.ensureCursorVisible()
		m.refreshPane()
		return m, nil

	case reloadTickMsg:
		if m.minibufferText != "" && time.Since(m.minibufferSetAt) > minibufferAutoClearAfter {
			m.minibufferText = ""
		}
		return m, tea.Batch(reloadTick(), m.pollCmd())

	case reloadedMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("reload workspace")
			m.showMinibuffer("Reload failed: " + msg.err.Error())
			return m, nil
		}
		if msg.mod.After(m.lastMod) {
			m.lastMod = msg.mod
		}
		m.sync(msg.db)
		return m, nil

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case notesLoadedMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Str("document", msg.docID).Msg("fetch notes")
			m.showMinibuffer("Couldn't load notes: " + msg.err.Error())
		} else {
			m.notes[msg.docID] = msg.notes
		}
		if v := m.views[msg.docID]; v != nil {
			v.FinishNotes(msg.err)
		}
		m.refreshPane()
		return m, nil

	case pagesLoadedMsg:
		delete(m.pagesLoading, msg.docID)
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Str("document", msg.docID).Msg("fetch entities")
			m.showMinibuffer("Couldn't load entities: " + msg.err.Error())
		} else {
			m.pages[msg.docID] = msg.pages
		}
		m.refreshPane()
		return m, nil

	case assignedMsg:
		(&m).applyAssigned(msg)
		return m, nil

	case accessSetMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("set access")
			m.showMinibuffer("Couldn't change access: " + msg.err.Error())
			return m, nil
		}
		d := *msg.doc
		m.coll.Update(d.ID, func(x *model.Document) { x.Access = d.Access })
		m.patchDB(d)
		m.log.Info().Str("document", d.ID).Stringer("access", d.Access).Msg("set access")
		m.showMinibuffer("Access: " + d.Access.String())
		return m, nil

	case fieldsUpdatedMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("update fields")
			m.showMinibuffer("Couldn't save: " + msg.err.Error())
			return m, nil
		}
		for _, d := range msg.docs {
			m.coll.Update(d.ID, func(x *model.Document) {
				x.Title = d.Title
				x.Source = d.Source
				x.Description = d.Description
			})
			m.patchDB(d)
		}
		m.showMinibuffer("Updated " + english.Plural(len(msg.docs), "document", ""))
		return m, nil

	case deletedMsg:
		(&m).applyDeleted(msg)
		return m, nil

	case openedMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("open viewer")
			m.showMinibuffer("Open failed: " + msg.err.Error())
		} else if msg.opened > 1 {
			m.showMinibuffer("Opened " + english.Plural(msg.opened, "document", ""))
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.showMinibuffer("Copy failed: " + msg.err.Error())
		} else {
			m.showMinibuffer("Copied " + msg.what)
		}
		return m, nil

	case tea.MouseMsg:
		cmd := (&m).handleMouse(msg)
		return m, cmd

	case tea.KeyMsg:
		cmd := (&m).handleKey(msg)
		return m, cmd
	}
	return m, nil
}

// loading reports whether any fetch that shows a spinner is in flight.
func (m appModel) loading() bool {
	if len(m.pagesLoading) > 0 {
		return true
	}
	for _, v := range m.views {
		if v.Mode().Notes == tile.NotesLoading {
			return true
		}
	}
	return false
}

func (m *appModel) applyAssigned(msg assignedMsg) {
	p := m.project(msg.projectID)
	title := msg.projectID
	if p != nil {
		title = p.Title
	}
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Str("project", msg.projectID).Msg("add documents")
		m.showMinibuffer("Couldn't add to " + title + ": " + msg.err.Error())
		return
	}
	if p != nil {
		for _, id := range msg.ids {
			if !p.HasDocument(id) {
				p.DocumentIDs = append(p.DocumentIDs, id)
			}
		}
	}
	m.log.Info().Str("project", msg.projectID).Strs("documents", msg.ids).Int("added", msg.added).Msg("add documents")
	if msg.added == 0 {
		m.showMinibuffer("Already in " + title)
		return
	}
	m.showMinibuffer("Added " + english.Plural(msg.added, "document", "") + " to " + title)
}

func (m *appModel) applyDeleted(msg deletedMsg) {
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Msg("delete documents")
		m.showMinibuffer("Couldn't delete: " + msg.err.Error())
		return
	}
	gone := map[string]bool{}
	for _, id := range msg.ids {
		gone[id] = true
	}
	m.coll.Batch(func() {
		for _, id := range msg.ids {
			m.coll.Remove(id)
		}
	})

	docs := m.db.Documents[:0]
	for _, d := range m.db.Documents {
		if !gone[d.ID] {
			docs = append(docs, d)
		}
	}
	m.db.Documents = docs
	for i := range m.db.Projects {
		p := &m.db.Projects[i]
		kept := p.DocumentIDs[:0]
		for _, id := range p.DocumentIDs {
			if !gone[id] {
				kept = append(kept, id)
			}
		}
		p.DocumentIDs = kept
	}
	for id := range gone {
		delete(m.notes, id)
		delete(m.pages, id)
	}

	m.log.Info().Strs("documents", msg.ids).Int("deleted", msg.deleted).Msg("delete documents")
	m.clampCursor()
	m.refreshPane()
	m.showMinibuffer("Deleted " + english.Plural(msg.deleted, "document", ""))
}

// sync folds a freshly loaded workspace into the live collection: changed
// documents are updated in place (tiles invalidate as usual), new ones are
// appended and vanished ones removed.
func (m *appModel) sync(db *store.DB) {
	if db == nil {
		return
	}
	if m.account != nil {
		if a, ok := db.FindAccount(m.account.ID); ok {
			m.account = a
		}
	}
	m.db = db

	q := search.Parse(m.query)
	var visible []model.Document
	keep := map[string]bool{}
	for i := range db.Documents {
		d := &db.Documents[i]
		if perm.CanView(m.account, d) && q.Match(d) {
			visible = append(visible, *d)
			keep[d.ID] = true
		}
	}

	m.coll.Batch(func() {
		var gone []string
		for i := 0; i < m.coll.Len(); i++ {
			if id := m.coll.At(i).ID; !keep[id] {
				gone = append(gone, id)
			}
		}
		for _, id := range gone {
			m.coll.Remove(id)
		}
		// visible is in store order; new documents go where a rebuild
		// would put them.
		for i, nd := range visible {
			editable := perm.CanEditDocument(m.account, &nd)
			if m.coll.Update(nd.ID, func(x *model.Document) { *x = nd }) {
				d, _ := m.coll.Get(nd.ID)
				m.coll.SetEditable(d, editable)
				continue
			}
			m.coll.Insert(i, nd, editable)
		}
	})

	m.clampCursor()
	m.refreshPane()
}
