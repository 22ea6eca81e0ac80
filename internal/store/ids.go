package store

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32 (lowercase, no padding).
func newRandomID(prefix string) (string, error) {
	var b [5]byte // 40 bits -> 8 base32 chars
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix, nil
}

// NewID returns a fresh id for kind ("doc", "proj", "note", ...) that does not
// collide with anything already in db.
func NewID(db *DB, prefix string) (string, error) {
	for i := 0; i < 8; i++ {
		id, err := newRandomID(prefix)
		if err != nil {
			return "", err
		}
		if !idExists(db, id) {
			return id, nil
		}
	}
	return newRandomID(prefix)
}

func idExists(db *DB, id string) bool {
	if db == nil {
		return false
	}
	for _, o := range db.Organizations {
		if o.ID == id {
			return true
		}
	}
	for _, a := range db.Accounts {
		if a.ID == id {
			return true
		}
	}
	for _, d := range db.Documents {
		if d.ID == id {
			return true
		}
	}
	for _, p := range db.Projects {
		if p.ID == id {
			return true
		}
	}
	for _, n := range db.Notes {
		if n.ID == id {
			return true
		}
	}
	return false
}
