package tui

import (
	"time"

	"docdesk/internal/dragdrop"
	"docdesk/internal/menu"
	"docdesk/internal/model"
	"docdesk/internal/perm"
	"docdesk/internal/search"
	"docdesk/internal/selection"
	"docdesk/internal/store"
	"docdesk/internal/tile"
	"docdesk/internal/viewer"
	"docdesk/internal/workspace"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

type paneKind int

const (
	paneNone paneKind = iota
	paneNotes
	panePages
)

type modalKind int

const (
	modalNone modalKind = iota
	modalMenu
	modalConfirmDelete
	modalEdit
	modalEmbed
)

const (
	minibufferAutoClearAfter = 4 * time.Second
	reloadPollInterval       = 2 * time.Second
)

type appModel struct {
	store   store.Store
	db      *store.DB
	account *model.Account
	urls    viewer.URLs
	log     zerolog.Logger

	coll      *workspace.Collection
	collUnsub func()
	sel       *selection.Controller
	views     map[string]*tile.View
	tiles     *tileCache

	tracker   dragdrop.Tracker
	pressMods selection.Modifiers

	width  int
	height int
	cursor int
	offset int

	showOrganizer bool

	pane         paneKind
	notes        map[string][]model.Note
	pages        map[string][]model.PageEntity
	pagesLoading map[string]bool
	paneDocID    string
	viewport     viewport.Model
	spinner      spinner.Model

	searching bool
	search    textinput.Model
	query     string

	modal        modalKind
	menuItems    []menu.Item
	menuIndex    int
	menuDocID    string
	menuAt       dragdrop.Point
	confirmFocus confirmModalFocus
	pendingIDs   []string
	edit         editState
	embedCode    string

	keys keyMap
	help help.Model

	minibufferText  string
	minibufferSetAt time.Time

	lastMod time.Time
}

func newAppModel(opts Options) appModel {
	db := opts.DB
	if db == nil {
		db = &store.DB{}
	}
	urls := viewer.URLs{}
	if opts.Config != nil {
		urls.Base = opts.Config.ViewerBase
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styleMuted()

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search  (account:slug group:slug source:\"name\")"
	ti.CharLimit = 256

	m := appModel{
		store:         opts.Store,
		db:            db,
		account:       opts.Account,
		urls:          urls,
		log:           opts.Logger,
		sel:           &selection.Controller{},
		tiles:         newTileCache(),
		showOrganizer: true,
		notes:         map[string][]model.Note{},
		pages:         map[string][]model.PageEntity{},
		pagesLoading:  map[string]bool{},
		viewport:      viewport.New(0, 0),
		spinner:       sp,
		search:        ti,
		keys:          defaultKeyMap(),
		help:          help.New(),
		lastMod:       opts.Store.Modified(),
	}

	if st, err := opts.Store.LoadSession(m.accountID()); err == nil && st != nil {
		m.query = st.Query
		m.showOrganizer = !st.HideOrganizer
		m.rebuild(st.SelectedIDs, st.CursorDocumentID)
	} else {
		m.rebuild(nil, "")
	}
	m.search.SetValue(m.query)
	return m
}

func (m appModel) Init() tea.Cmd {
	return reloadTick()
}

// rebuild replaces the collection with the documents visible to the account
// that match the current query. selected and cursorID carry over by id.
func (m *appModel) rebuild(selected []string, cursorID string) {
	m.closeViews()

	q := search.Parse(m.query)
	docs := make([]model.Document, 0, len(m.db.Documents))
	for i := range m.db.Documents {
		d := &m.db.Documents[i]
		if !perm.CanView(m.account, d) || !q.Match(d) {
			continue
		}
		docs = append(docs, *d)
	}

	acct := m.account
	m.coll = workspace.New(docs, func(d *model.Document) bool {
		return perm.CanEditDocument(acct, d)
	})
	m.views = map[string]*tile.View{}
	m.tiles.reset()
	m.sel.Reset()

	m.coll.Batch(func() {
		for _, id := range selected {
			if d, ok := m.coll.Get(id); ok && d.Selectable {
				m.coll.SetSelected(d, true)
			}
		}
	})
	m.coll.Each(func(_ int, d *workspace.Document) {
		m.views[d.ID] = tile.NewView(m.coll, d, m.tiles.invalidate)
	})

	// Tiles follow membership: documents added by a reload get a view, removed
	// ones drop theirs.
	coll, views, tiles := m.coll, m.views, m.tiles
	m.collUnsub = coll.Subscribe(func(ch workspace.Change) {
		if !ch.HasChanged(workspace.AttrMembership) {
			return
		}
		id := ch.Doc.ID
		if _, member := coll.Get(id); member {
			if views[id] == nil {
				views[id] = tile.NewView(coll, ch.Doc, tiles.invalidate)
			}
			return
		}
		if v := views[id]; v != nil {
			v.Close()
			delete(views, id)
		}
		tiles.forget(id)
	})

	m.cursor = 0
	if d, ok := m.coll.Get(cursorID); ok {
		m.cursor = m.coll.IndexOf(d)
	}
	m.clampCursor()
}

func (m *appModel) closeViews() {
	if m.collUnsub != nil {
		m.collUnsub()
		m.collUnsub = nil
	}
	for id, v := range m.views {
		v.Close()
		delete(m.views, id)
	}
}

func (m *appModel) current() *workspace.Document {
	if m.coll == nil {
		return nil
	}
	return m.coll.At(m.cursor)
}

func (m *appModel) clampCursor() {
	n := m.coll.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

func (m *appModel) ensureCursorVisible() {
	per := m.visibleTiles()
	if per <= 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+per {
		m.offset = m.cursor - per + 1
	}
	if maxOff := max(m.coll.Len()-per, 0); m.offset > maxOff {
		m.offset = maxOff
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *appModel) showMinibuffer(text string) {
	m.minibufferText = text
	m.minibufferSetAt = time.Now()
}

func (m *appModel) project(id string) *model.Project {
	for i := range m.db.Projects {
		if m.db.Projects[i].ID == id {
			return &m.db.Projects[i]
		}
	}
	return nil
}

// patchDB mirrors a stored document into the in-memory snapshot the listing is
// rebuilt from.
func (m *appModel) patchDB(d model.Document) {
	for i := range m.db.Documents {
		if m.db.Documents[i].ID == d.ID {
			m.db.Documents[i] = d
			return
		}
	}
}

func (m appModel) accountID() string {
	if m.account == nil {
		return ""
	}
	return m.account.ID
}

func (m *appModel) session() *store.Session {
	st := &store.Session{
		Query:         m.query,
		HideOrganizer: !m.showOrganizer,
	}
	if d := m.current(); d != nil {
		st.CursorDocumentID = d.ID
	}
	for _, d := range m.coll.Selected() {
		st.SelectedIDs = append(st.SelectedIDs, d.ID)
	}
	return st
}

func (m appModel) saveState() error {
	return m.store.SaveSession(m.accountID(), m.session())
}
