package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"docdesk/internal/access"
	"docdesk/internal/model"
)

// AddDocuments files docIDs under projectID, skipping ids the project already
// holds. It returns how many were actually added.
func (s Store) AddDocuments(ctx context.Context, projectID string, docIDs []string) (int, error) {
	projectID = strings.TrimSpace(projectID)
	db, err := s.openSQLite(ctx)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if ok, err := rowExists(ctx, tx, `SELECT 1 FROM projects WHERE id = ?`, projectID); err != nil {
		return 0, err
	} else if !ok {
		return 0, NotFoundError{Kind: "project", ID: projectID}
	}

	var next int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM project_documents WHERE project_id = ?`, projectID).Scan(&next); err != nil {
		return 0, err
	}

	added := 0
	for _, id := range docIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if ok, err := rowExists(ctx, tx, `SELECT 1 FROM documents WHERE id = ?`, id); err != nil {
			return 0, err
		} else if !ok {
			return 0, NotFoundError{Kind: "document", ID: id}
		}
		res, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO project_documents(project_id, document_id, position) VALUES(?, ?, ?)`,
			projectID, id, next)
		if err != nil {
			return 0, fmt.Errorf("add %s to %s: %w", id, projectID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
			next++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

// FetchNotes returns the notes on a document ordered by page.
func (s Store) FetchNotes(ctx context.Context, docID string) ([]model.Note, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if ok, err := rowExists(ctx, db, `SELECT 1 FROM documents WHERE id = ?`, docID); err != nil {
		return nil, err
	} else if !ok {
		return nil, NotFoundError{Kind: "document", ID: docID}
	}
	notes, err := readJSONRows[model.Note](ctx, db, `SELECT json FROM notes WHERE document_id = ? ORDER BY page, id`, docID)
	if err != nil {
		return nil, fmt.Errorf("fetch notes: %w", err)
	}
	if notes == nil {
		notes = []model.Note{}
	}
	return notes, nil
}

// FetchPages returns the entities found in a document along with the pages
// they occur on.
func (s Store) FetchPages(ctx context.Context, docID string) ([]model.PageEntity, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if ok, err := rowExists(ctx, db, `SELECT 1 FROM documents WHERE id = ?`, docID); err != nil {
		return nil, err
	} else if !ok {
		return nil, NotFoundError{Kind: "document", ID: docID}
	}
	ents, err := readJSONRows[model.PageEntity](ctx, db, `SELECT json FROM entities WHERE document_id = ? ORDER BY id`, docID)
	if err != nil {
		return nil, fmt.Errorf("fetch pages: %w", err)
	}
	if ents == nil {
		ents = []model.PageEntity{}
	}
	return ents, nil
}

// SetAccess updates the access level of one document and returns the stored
// record.
func (s Store) SetAccess(ctx context.Context, docID string, level access.Level) (*model.Document, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var raw string
	err = tx.QueryRowContext(ctx, `SELECT json FROM documents WHERE id = ?`, docID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NotFoundError{Kind: "document", ID: docID}
	}
	if err != nil {
		return nil, err
	}
	var d model.Document
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, err
	}
	d.Access = level
	b, _ := json.Marshal(d)
	if _, err := tx.ExecContext(ctx, `UPDATE documents SET access = ?, json = ?, updated_at_unixms = ? WHERE id = ?`,
		int(level), string(b), time.Now().UTC().UnixMilli(), docID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &d, nil
}

// DocumentFields is a partial update; nil fields are left unchanged.
type DocumentFields struct {
	Title       *string `json:"title,omitempty"`
	Source      *string `json:"source,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (f DocumentFields) Empty() bool {
	return f.Title == nil && f.Source == nil && f.Description == nil
}

func (f DocumentFields) apply(d *model.Document) {
	if f.Title != nil {
		d.Title = strings.TrimSpace(*f.Title)
	}
	if f.Source != nil {
		d.Source = strings.TrimSpace(*f.Source)
	}
	if f.Description != nil {
		d.Description = strings.TrimSpace(*f.Description)
	}
}

// UpdateFields applies f to every document in docIDs in one transaction and
// returns the updated records in docIDs order. An unknown id fails the whole
// update.
func (s Store) UpdateFields(ctx context.Context, docIDs []string, f DocumentFields) ([]model.Document, error) {
	if f.Title != nil && strings.TrimSpace(*f.Title) == "" {
		return nil, errors.New("title is required")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	nowMs := time.Now().UTC().UnixMilli()
	out := make([]model.Document, 0, len(docIDs))
	for _, id := range docIDs {
		var raw string
		err := tx.QueryRowContext(ctx, `SELECT json FROM documents WHERE id = ?`, id).Scan(&raw)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NotFoundError{Kind: "document", ID: id}
		}
		if err != nil {
			return nil, err
		}
		var d model.Document
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return nil, err
		}
		f.apply(&d)
		b, _ := json.Marshal(d)
		if _, err := tx.ExecContext(ctx, `UPDATE documents SET json = ?, updated_at_unixms = ? WHERE id = ?`, string(b), nowMs, id); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteDocuments removes documents together with their notes, entities and
// project memberships. Unknown ids are ignored; the count deleted is returned.
func (s Store) DeleteDocuments(ctx context.Context, docIDs []string) (int, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	deleted := 0
	for _, id := range docIDs {
		for _, q := range []string{
			`DELETE FROM project_documents WHERE document_id = ?`,
			`DELETE FROM notes WHERE document_id = ?`,
			`DELETE FROM entities WHERE document_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return 0, err
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
		if err != nil {
			return 0, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			deleted++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return deleted, nil
}

// CreateProject appends a new, empty project owned by accountID.
func (s Store) CreateProject(ctx context.Context, title, accountID string) (*model.Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("project title is empty")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var id string
	for {
		id, err = newRandomID("proj")
		if err != nil {
			return nil, err
		}
		taken, err := rowExists(ctx, tx, `SELECT 1 FROM projects WHERE id = ?`, id)
		if err != nil {
			return nil, err
		}
		if !taken {
			break
		}
	}
	var pos int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM projects`).Scan(&pos); err != nil {
		return nil, err
	}
	p := model.Project{
		ID:        id,
		Title:     title,
		AccountID: strings.TrimSpace(accountID),
		CreatedAt: time.Now().UTC(),
	}
	b, _ := json.Marshal(p)
	if _, err := tx.ExecContext(ctx, `INSERT INTO projects(id, position, title, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
		p.ID, pos, p.Title, string(b), time.Now().UTC().UnixMilli()); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	p.DocumentIDs = []string{}
	return &p, nil
}

type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func rowExists(ctx context.Context, db rowQueryer, query string, args ...any) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
