package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const sessionsFileName = "sessions.json"

// Session is what the desk restores for one account on relaunch: where the
// cursor was, what was selected and how the screen was arranged.
type Session struct {
	CursorDocumentID string   `json:"cursorDocumentId,omitempty"`
	SelectedIDs      []string `json:"selectedIds,omitempty"`
	Query            string   `json:"query,omitempty"`
	HideOrganizer    bool     `json:"hideOrganizer,omitempty"`
}

// Prune drops ids that keep reports as gone. Sessions outlive documents.
func (s *Session) Prune(keep func(id string) bool) {
	if s == nil {
		return
	}
	s.SelectedIDs = slices.DeleteFunc(s.SelectedIDs, func(id string) bool { return !keep(id) })
	if s.CursorDocumentID != "" && !keep(s.CursorDocumentID) {
		s.CursorDocumentID = ""
	}
}

type sessionFile struct {
	Version  int                 `json:"version"`
	Sessions map[string]*Session `json:"sessions"`
}

func (s Store) sessionsPath() string {
	return filepath.Join(s.Dir, sessionsFileName)
}

// sessionKey maps the read-only viewer (no account) to its own slot.
func sessionKey(accountID string) string {
	if id := strings.TrimSpace(accountID); id != "" {
		return id
	}
	return "-"
}

func (s Store) readSessions() (*sessionFile, error) {
	f := &sessionFile{Version: 2, Sessions: map[string]*Session{}}
	if strings.TrimSpace(s.Dir) == "" {
		return f, nil
	}
	b, err := os.ReadFile(s.sessionsPath())
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, err
	}
	var got sessionFile
	if json.Unmarshal(b, &got) != nil || got.Sessions == nil {
		// Unreadable sessions start over.
		return f, nil
	}
	got.Version = 2
	return &got, nil
}

// LoadSession returns the saved session for accountID, or an empty one.
func (s Store) LoadSession(accountID string) (*Session, error) {
	f, err := s.readSessions()
	if err != nil {
		return nil, err
	}
	if st := f.Sessions[sessionKey(accountID)]; st != nil {
		return st, nil
	}
	return &Session{}, nil
}

// SaveSession replaces accountID's session, leaving other accounts alone.
func (s Store) SaveSession(accountID string, st *Session) error {
	if st == nil || strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	f, err := s.readSessions()
	if err != nil {
		return err
	}
	f.Sessions[sessionKey(accountID)] = st
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, "sessions.json.*.tmp", s.sessionsPath(), b, 0o644)
}
