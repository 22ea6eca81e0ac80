package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"docdesk/internal/model"

	_ "modernc.org/sqlite"
)

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL lets the CLI write while a TUI in another terminal reads.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// LoadSQLite loads the workspace snapshot from <dir>/index.sqlite, creating
// an empty schema on first use.
func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return loadStateFromSQLite(ctx, db)
}

// SaveSQLite replaces the stored workspace with st.
func (s Store) SaveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "version", strconv.Itoa(st.Version)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "current_account_id", strings.TrimSpace(st.CurrentAccountID)); err != nil {
		return err
	}

	// Replace-all; workspaces are small and this keeps ordering trivially correct.
	tables := []string{
		"project_documents",
		"notes",
		"entities",
		"projects",
		"documents",
		"accounts",
		"organizations",
	}
	for _, t := range tables {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	nowMs := time.Now().UTC().UnixMilli()

	for _, o := range st.Organizations {
		raw, _ := json.Marshal(o)
		if _, err := tx.ExecContext(ctx, `INSERT INTO organizations(id, json, updated_at_unixms) VALUES(?, ?, ?)`, o.ID, string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, a := range st.Accounts {
		raw, _ := json.Marshal(a)
		if _, err := tx.ExecContext(ctx, `INSERT INTO accounts(id, organization_id, json, updated_at_unixms) VALUES(?, ?, ?, ?)`,
			a.ID, a.OrganizationID, string(raw), nowMs); err != nil {
			return err
		}
	}
	for i, d := range st.Documents {
		if err := insertDocument(ctx, tx, d, i, nowMs); err != nil {
			return err
		}
	}
	for i, p := range st.Projects {
		ids := p.DocumentIDs
		p.DocumentIDs = nil
		raw, _ := json.Marshal(p)
		if _, err := tx.ExecContext(ctx, `INSERT INTO projects(id, position, title, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			p.ID, i, p.Title, string(raw), nowMs); err != nil {
			return err
		}
		for j, docID := range ids {
			if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO project_documents(project_id, document_id, position) VALUES(?, ?, ?)`,
				p.ID, docID, j); err != nil {
				return err
			}
		}
	}
	for _, n := range st.Notes {
		raw, _ := json.Marshal(n)
		if _, err := tx.ExecContext(ctx, `INSERT INTO notes(id, document_id, page, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			n.ID, n.DocumentID, n.Page, string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, e := range st.Entities {
		raw, _ := json.Marshal(e)
		if _, err := tx.ExecContext(ctx, `INSERT INTO entities(id, document_id, json, updated_at_unixms) VALUES(?, ?, ?, ?)`,
			e.ID, e.DocumentID, string(raw), nowMs); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertDocument(ctx context.Context, tx *sql.Tx, d model.Document, position int, nowMs int64) error {
	raw, _ := json.Marshal(d)
	_, err := tx.ExecContext(ctx, `INSERT INTO documents(id, position, account_id, access, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
		d.ID, position, d.AccountID, int(d.Access), string(raw), nowMs)
	return err
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS organizations (
			id TEXT PRIMARY KEY,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			account_id TEXT NOT NULL,
			access INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_position ON documents(position);`,
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS project_documents (
			project_id TEXT NOT NULL,
			document_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (project_id, document_id)
		);`,
		`CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL,
			page INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_notes_document ON notes(document_id, page);`,
		`CREATE TABLE IF NOT EXISTS entities (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_entities_document ON entities(document_id);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

func loadStateFromSQLite(ctx context.Context, db *sql.DB) (*DB, error) {
	out := &DB{Version: 1}

	readMeta := func(k string) string {
		var v string
		_ = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, k).Scan(&v)
		return strings.TrimSpace(v)
	}
	if v := readMeta("version"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			out.Version = n
		}
	}
	out.CurrentAccountID = readMeta("current_account_id")

	var err error
	if out.Organizations, err = readJSONRows[model.Organization](ctx, db, `SELECT json FROM organizations ORDER BY id`); err != nil {
		return nil, err
	}
	if out.Accounts, err = readJSONRows[model.Account](ctx, db, `SELECT json FROM accounts ORDER BY id`); err != nil {
		return nil, err
	}
	if out.Documents, err = readJSONRows[model.Document](ctx, db, `SELECT json FROM documents ORDER BY position, id`); err != nil {
		return nil, err
	}
	if out.Projects, err = readJSONRows[model.Project](ctx, db, `SELECT json FROM projects ORDER BY position, id`); err != nil {
		return nil, err
	}
	for i := range out.Projects {
		ids, err := projectDocumentIDs(ctx, db, out.Projects[i].ID)
		if err != nil {
			return nil, err
		}
		out.Projects[i].DocumentIDs = ids
	}
	if out.Notes, err = readJSONRows[model.Note](ctx, db, `SELECT json FROM notes ORDER BY document_id, page, id`); err != nil {
		return nil, err
	}
	if out.Entities, err = readJSONRows[model.PageEntity](ctx, db, `SELECT json FROM entities ORDER BY document_id, id`); err != nil {
		return nil, err
	}

	// Ensure nil slices are empty for stable callers.
	if out.Organizations == nil {
		out.Organizations = []model.Organization{}
	}
	if out.Accounts == nil {
		out.Accounts = []model.Account{}
	}
	if out.Documents == nil {
		out.Documents = []model.Document{}
	}
	if out.Projects == nil {
		out.Projects = []model.Project{}
	}
	if out.Notes == nil {
		out.Notes = []model.Note{}
	}
	if out.Entities == nil {
		out.Entities = []model.PageEntity{}
	}
	return out, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func projectDocumentIDs(ctx context.Context, db queryer, projectID string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT document_id FROM project_documents WHERE project_id = ? ORDER BY position, document_id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func readJSONRows[T any](ctx context.Context, db queryer, query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
