package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docdesk/internal/model"
)

const sqliteFileName = "index.sqlite"

// DB is an in-memory snapshot of a workspace. Documents keep listing order.
type DB struct {
	Version          int                  `json:"version"`
	CurrentAccountID string               `json:"currentAccountId,omitempty"`
	Organizations    []model.Organization `json:"organizations"`
	Accounts         []model.Account      `json:"accounts"`
	Documents        []model.Document     `json:"documents"`
	Projects         []model.Project      `json:"projects"`
	Notes            []model.Note         `json:"notes"`
	Entities         []model.PageEntity   `json:"entities"`
}

type Store struct {
	Dir string
}

// DiscoverDir walks up from start looking for a .docdesk directory.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, ".docdesk")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultDir prefers a project-local .docdesk directory and otherwise falls
// back to the per-user default workspace.
func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, "default"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

// Modified returns the latest write time of the SQLite index, including its
// WAL file. It is zero when no index exists yet.
func (s Store) Modified() time.Time {
	var latest time.Time
	if strings.TrimSpace(s.Dir) == "" {
		return latest
	}
	for _, p := range []string{s.sqlitePath(), s.sqlitePath() + "-wal"} {
		if fi, err := os.Stat(p); err == nil && fi.ModTime().After(latest) {
			latest = fi.ModTime()
		}
	}
	return latest
}

func (s Store) Load() (*DB, error) {
	return s.LoadSQLite(context.Background())
}

func (s Store) Save(db *DB) error {
	return s.SaveSQLite(context.Background(), db)
}

func (db *DB) FindDocument(id string) (*model.Document, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Documents {
		if db.Documents[i].ID == id {
			return &db.Documents[i], true
		}
	}
	return nil, false
}

func (db *DB) FindProject(id string) (*model.Project, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Projects {
		if db.Projects[i].ID == id {
			return &db.Projects[i], true
		}
	}
	return nil, false
}

func (db *DB) FindAccount(id string) (*model.Account, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Accounts {
		if db.Accounts[i].ID == id {
			return &db.Accounts[i], true
		}
	}
	return nil, false
}

func (db *DB) FindOrganization(id string) (*model.Organization, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Organizations {
		if db.Organizations[i].ID == id {
			return &db.Organizations[i], true
		}
	}
	return nil, false
}

// CurrentAccount resolves override (if set) or the stored current account.
func (db *DB) CurrentAccount(override string) (*model.Account, bool) {
	id := strings.TrimSpace(override)
	if id == "" {
		id = db.CurrentAccountID
	}
	if id == "" {
		return nil, false
	}
	return db.FindAccount(id)
}

// OrganizationName returns the display name for an organization id, or "".
func (db *DB) OrganizationName(id string) string {
	if o, ok := db.FindOrganization(id); ok {
		return o.Name
	}
	return ""
}

// NotesFor returns the notes of one document, by page.
func (db *DB) NotesFor(docID string) []model.Note {
	var out []model.Note
	for _, n := range db.Notes {
		if n.DocumentID == docID {
			out = append(out, n)
		}
	}
	return out
}
