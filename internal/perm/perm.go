package perm

import (
	"strings"

	"docdesk/internal/access"
	"docdesk/internal/model"
)

// CanEditDocument enforces docdesk ownership rules for mutating a document.
//
// Rules:
// - The uploading account can always edit.
// - Otherwise the account must belong to the document's organization, and:
//   - admins can edit anything in their organization.
//   - contributors can edit documents shared with the organization.
//   - reviewers never edit.
//
// Documents that failed to import or were deleted stay editable by the owner
// only, so they can be cleaned up.
func CanEditDocument(acct *model.Account, doc *model.Document) bool {
	if acct == nil || doc == nil {
		return false
	}
	id := strings.TrimSpace(acct.ID)
	if id == "" {
		return false
	}
	if doc.AccountID == id {
		return true
	}
	if doc.Access == access.Error || doc.Access == access.Deleted {
		return false
	}
	org := strings.TrimSpace(acct.OrganizationID)
	if org == "" || org != strings.TrimSpace(doc.OrganizationID) {
		return false
	}
	switch acct.Role {
	case model.RoleAdmin:
		return true
	case model.RoleContributor:
		return doc.Access == access.Organization
	default:
		return false
	}
}

// CanView reports whether acct may open doc at all. Private and pending
// documents are visible to their owner only; organization documents to the
// organization.
func CanView(acct *model.Account, doc *model.Document) bool {
	if doc == nil {
		return false
	}
	switch doc.Access {
	case access.Deleted:
		return false
	case access.Public, access.Exclusive:
		return true
	}
	if acct == nil {
		return false
	}
	if doc.AccountID == acct.ID {
		return true
	}
	if doc.Access == access.Organization {
		return acct.OrganizationID != "" && acct.OrganizationID == doc.OrganizationID
	}
	return CanEditDocument(acct, doc)
}
