package model

import (
	"time"

	"docdesk/internal/access"
)

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleContributor Role = "contributor"
	RoleReviewer    Role = "reviewer"
)

type Organization struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type Account struct {
	ID             string `json:"id"`
	Slug           string `json:"slug"`
	Name           string `json:"name"`
	OrganizationID string `json:"organizationId"`
	Role           Role   `json:"role"`
}

type Document struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`

	AccountID        string `json:"accountId"`
	AccountSlug      string `json:"accountSlug,omitempty"`
	OrganizationID   string `json:"organizationId,omitempty"`
	OrganizationSlug string `json:"organizationSlug,omitempty"`

	Access          access.Level `json:"access"`
	AnnotationCount int          `json:"annotationCount"`
	PageCount       int          `json:"pageCount"`

	// PublishedURL is set once the document has been embedded somewhere public.
	PublishedURL string `json:"publishedUrl,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`

	// Selectable is false for documents that can't take part in bulk actions
	// (e.g. rows rendered from a search over other accounts' documents).
	Selectable bool `json:"selectable"`

	CreatedAt time.Time `json:"createdAt"`
}

func (d Document) Published() bool {
	return d.PublishedURL != ""
}

type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	AccountID   string    `json:"accountId"`
	DocumentIDs []string  `json:"documentIds"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HasDocument reports whether id is already filed under the project.
func (p Project) HasDocument(id string) bool {
	for _, x := range p.DocumentIDs {
		if x == id {
			return true
		}
	}
	return false
}

type Note struct {
	ID         string       `json:"id"`
	DocumentID string       `json:"documentId"`
	Page       int          `json:"page"`
	Title      string       `json:"title"`
	Content    string       `json:"content,omitempty"`
	Access     access.Level `json:"access"`
	CreatedAt  time.Time    `json:"createdAt"`
}

type Occurrence struct {
	Page   int `json:"page"`
	Offset int `json:"offset"`
}

// PageEntity is an extracted entity (person, place, ...) and where it occurs
// in a document.
type PageEntity struct {
	ID          string       `json:"id"`
	DocumentID  string       `json:"documentId"`
	Kind        string       `json:"kind"`
	Value       string       `json:"value"`
	Occurrences []Occurrence `json:"occurrences"`
}
