package tui

import (
	"context"
	"time"

	"docdesk/internal/access"
	"docdesk/internal/model"
	"docdesk/internal/store"
	"docdesk/internal/viewer"
	"docdesk/internal/workspace"

	tea "github.com/charmbracelet/bubbletea"
)

type (
	reloadTickMsg struct{}

	reloadedMsg struct {
		db  *store.DB
		mod time.Time
		err error
	}

	notesLoadedMsg struct {
		docID string
		notes []model.Note
		err   error
	}

	pagesLoadedMsg struct {
		docID string
		pages []model.PageEntity
		err   error
	}

	assignedMsg struct {
		projectID string
		ids       []string
		added     int
		err       error
	}

	accessSetMsg struct {
		doc *model.Document
		err error
	}

	fieldsUpdatedMsg struct {
		docs []model.Document
		err  error
	}

	deletedMsg struct {
		ids     []string
		deleted int
		err     error
	}

	openedMsg struct {
		opened int
		err    error
	}

	copiedMsg struct {
		what string
		err  error
	}
)

// openURL is swapped out in tests.
var openURL = viewer.Open

func reloadTick() tea.Cmd {
	return tea.Tick(reloadPollInterval, func(time.Time) tea.Msg { return reloadTickMsg{} })
}

// pollCmd reloads the workspace when the index changed on disk since the last
// load, e.g. after `docdesk projects add` in another terminal.
func (m appModel) pollCmd() tea.Cmd {
	s, since := m.store, m.lastMod
	return func() tea.Msg {
		mod := s.Modified()
		if mod.IsZero() || !mod.After(since) {
			return nil
		}
		db, err := s.Load()
		return reloadedMsg{db: db, mod: mod, err: err}
	}
}

func (m appModel) reloadCmd() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		db, err := s.Load()
		return reloadedMsg{db: db, mod: s.Modified(), err: err}
	}
}

func (m appModel) fetchNotesCmd(docID string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		notes, err := s.FetchNotes(context.Background(), docID)
		return notesLoadedMsg{docID: docID, notes: notes, err: err}
	}
}

func (m appModel) fetchPagesCmd(docID string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		pages, err := s.FetchPages(context.Background(), docID)
		return pagesLoadedMsg{docID: docID, pages: pages, err: err}
	}
}

func (m appModel) assignCmd(projectID string, ids []string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		n, err := s.AddDocuments(context.Background(), projectID, ids)
		return assignedMsg{projectID: projectID, ids: ids, added: n, err: err}
	}
}

func (m appModel) setAccessCmd(docID string, level access.Level) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		d, err := s.SetAccess(context.Background(), docID, level)
		return accessSetMsg{doc: d, err: err}
	}
}

func (m appModel) updateFieldsCmd(ids []string, f store.DocumentFields) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		docs, err := s.UpdateFields(context.Background(), ids, f)
		return fieldsUpdatedMsg{docs: docs, err: err}
	}
}

func (m appModel) deleteCmd(ids []string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		n, err := s.DeleteDocuments(context.Background(), ids)
		return deletedMsg{ids: ids, deleted: n, err: err}
	}
}

// openCmd opens the viewer for docs; with published set, only documents that
// have a published version are opened, at that URL.
func (m appModel) openCmd(docs []*workspace.Document, published bool) tea.Cmd {
	var urls []string
	for _, d := range docs {
		if published {
			if u := m.urls.Published(&d.Document); u != "" {
				urls = append(urls, u)
			}
			continue
		}
		urls = append(urls, m.urls.Viewer(&d.Document))
	}
	return openURLsCmd(urls)
}

func openURLsCmd(urls []string) tea.Cmd {
	if len(urls) == 0 {
		return nil
	}
	return func() tea.Msg {
		for i, u := range urls {
			if err := openURL(u); err != nil {
				return openedMsg{opened: i, err: err}
			}
		}
		return openedMsg{opened: len(urls)}
	}
}

func copyCmd(what, text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{what: what, err: copyToClipboard(text)}
	}
}
