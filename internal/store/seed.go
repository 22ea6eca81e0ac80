package store

import (
	"time"

	"docdesk/internal/access"
	"docdesk/internal/model"
)

// Seed returns a small demo workspace: two organizations, a handful of
// accounts, documents across every access level and a couple of projects.
func Seed(now time.Time) *DB {
	now = now.UTC()
	day := 24 * time.Hour

	orgs := []model.Organization{
		{ID: "org-ledger", Slug: "ledger", Name: "The Ledger"},
		{ID: "org-courier", Slug: "courier", Name: "Evening Courier"},
	}
	accts := []model.Account{
		{ID: "acct-ana", Slug: "ana", Name: "Ana Ortiz", OrganizationID: "org-ledger", Role: model.RoleAdmin},
		{ID: "acct-ben", Slug: "ben", Name: "Ben Hale", OrganizationID: "org-ledger", Role: model.RoleContributor},
		{ID: "acct-cy", Slug: "cy", Name: "Cy Moreau", OrganizationID: "org-courier", Role: model.RoleContributor},
		{ID: "acct-dee", Slug: "dee", Name: "Dee Park", OrganizationID: "org-ledger", Role: model.RoleReviewer},
	}
	doc := func(id, title, acct string, lvl access.Level, notes, pages int, age time.Duration) model.Document {
		var a model.Account
		for _, x := range accts {
			if x.ID == acct {
				a = x
			}
		}
		var o model.Organization
		for _, x := range orgs {
			if x.ID == a.OrganizationID {
				o = x
			}
		}
		return model.Document{
			ID:               id,
			Title:            title,
			AccountID:        a.ID,
			AccountSlug:      a.Slug,
			OrganizationID:   o.ID,
			OrganizationSlug: o.Slug,
			Access:           lvl,
			AnnotationCount:  notes,
			PageCount:        pages,
			Selectable:       true,
			CreatedAt:        now.Add(-age),
		}
	}

	docs := []model.Document{
		doc("doc-budget", "City budget 2026", "acct-ana", access.Public, 3, 214, 2*day),
		doc("doc-contract", "Waste hauling contract", "acct-ana", access.Private, 0, 48, 3*day),
		doc("doc-minutes", "Council minutes, March", "acct-ben", access.Organization, 1, 12, 5*day),
		doc("doc-deposition", "Deposition of J. Carver", "acct-ben", access.Private, 0, 96, 7*day),
		doc("doc-permits", "Building permits export", "acct-cy", access.Public, 2, 30, 9*day),
		doc("doc-audit", "Transit authority audit", "acct-ana", access.Pending, 0, 0, 1*time.Hour),
		doc("doc-scan", "Handwritten letter scan", "acct-ben", access.Error, 0, 0, 6*time.Hour),
		doc("doc-memo", "Leaked memo", "acct-dee", access.Exclusive, 0, 3, 11*day),
	}
	docs[0].Description = "Adopted <b>operating</b> and capital budget."
	docs[0].Source = "City Finance Office"
	docs[0].PublishedURL = "https://ledger.example.org/budget-2026"
	docs[1].Description = "Signed copy, obtained via records request."
	docs[2].Source = "Clerk's office"
	docs[4].Source = "Permits & Inspections"
	docs[4].PublishedURL = "https://courier.example.org/permits"
	docs[4].Selectable = false

	notes := []model.Note{
		{ID: "note-1", DocumentID: "doc-budget", Page: 4, Title: "Police overtime", Content: "Up **38%** from last year.", Access: access.Public, CreatedAt: now.Add(-day)},
		{ID: "note-2", DocumentID: "doc-budget", Page: 17, Title: "Parks", Content: "Line item moved to capital.", Access: access.Private, CreatedAt: now.Add(-day)},
		{ID: "note-3", DocumentID: "doc-budget", Page: 120, Title: "Debt service", Content: "Compare with 2024 bond schedule.", Access: access.Organization, CreatedAt: now.Add(-day)},
		{ID: "note-4", DocumentID: "doc-minutes", Page: 3, Title: "Vote", Content: "5-2, see roll call.", Access: access.Organization, CreatedAt: now.Add(-2 * day)},
		{ID: "note-5", DocumentID: "doc-permits", Page: 1, Title: "Duplicates", Content: "Rows 12-40 repeat.", Access: access.Public, CreatedAt: now.Add(-3 * day)},
		{ID: "note-6", DocumentID: "doc-permits", Page: 9, Title: "Missing address", Content: "", Access: access.Public, CreatedAt: now.Add(-3 * day)},
	}
	ents := []model.PageEntity{
		{ID: "ent-1", DocumentID: "doc-budget", Kind: "organization", Value: "Police Department", Occurrences: []model.Occurrence{{Page: 4, Offset: 120}, {Page: 5, Offset: 33}}},
		{ID: "ent-2", DocumentID: "doc-budget", Kind: "place", Value: "Riverside Park", Occurrences: []model.Occurrence{{Page: 17, Offset: 210}}},
		{ID: "ent-3", DocumentID: "doc-deposition", Kind: "person", Value: "J. Carver", Occurrences: []model.Occurrence{{Page: 1, Offset: 12}, {Page: 2, Offset: 8}, {Page: 60, Offset: 401}}},
		{ID: "ent-4", DocumentID: "doc-contract", Kind: "organization", Value: "Greenway Hauling LLC", Occurrences: []model.Occurrence{{Page: 1, Offset: 45}}},
	}
	projects := []model.Project{
		{ID: "proj-budget", Title: "Budget season", AccountID: "acct-ana", DocumentIDs: []string{"doc-budget"}, CreatedAt: now.Add(-10 * day)},
		{ID: "proj-trash", Title: "Trash contract", AccountID: "acct-ana", DocumentIDs: []string{}, CreatedAt: now.Add(-4 * day)},
		{ID: "proj-council", Title: "Council watch", AccountID: "acct-ana", DocumentIDs: []string{"doc-minutes"}, CreatedAt: now.Add(-20 * day)},
	}

	return &DB{
		Version:          1,
		CurrentAccountID: "acct-ana",
		Organizations:    orgs,
		Accounts:         accts,
		Documents:        docs,
		Projects:         projects,
		Notes:            notes,
		Entities:         ents,
	}
}
