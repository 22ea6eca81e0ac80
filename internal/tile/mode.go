// Package tile derives the visual state of a document tile from the
// document's attributes.
package tile

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"docdesk/internal/access"
	"docdesk/internal/model"
	"docdesk/internal/workspace"
)

const (
	Is  = "is"
	Not = "not"
)

// NotesState is the notes dimension of a tile. Unlike the other dimensions it
// is not a function of the document alone: it records what the tile has
// fetched and shown in this session.
type NotesState string

const (
	NotesNone    NotesState = "no"
	NotesOwns    NotesState = "owns"
	NotesHas     NotesState = "has"
	NotesLoading NotesState = "loading"
	NotesFailed  NotesState = "failed"
)

// InitialNotesState is evaluated once, when a tile is created. A document
// that had annotations at that point keeps "owns" even if its count later
// drops to zero.
func InitialNotesState(annotationCount int) NotesState {
	if annotationCount > 0 {
		return NotesOwns
	}
	return NotesNone
}

type Mode struct {
	Selected string
	Editable string
	Notes    NotesState
	Access   string
}

func isNot(b bool) string {
	if b {
		return Is
	}
	return Not
}

// Project computes a tile's mode. It has no side effects.
func Project(d *workspace.Document, notes NotesState) Mode {
	if d == nil {
		return Mode{Selected: Not, Editable: Not, Notes: notes, Access: access.Name(access.Public)}
	}
	return Mode{
		Selected: isNot(d.Selected),
		Editable: isNot(d.Editable),
		Notes:    notes,
		Access:   access.Name(d.Access),
	}
}

type IconAttrs struct {
	Class string
	Title string
}

const iconBase = "icon main_icon document_tool "

// Icon picks the main tile icon. orgName names the owning organization for
// organization-private documents.
func Icon(d *model.Document, orgName string) IconAttrs {
	switch d.Access {
	case access.Pending:
		return IconAttrs{Class: iconBase + "spinner", Title: "Uploading..."}
	case access.Error:
		return IconAttrs{Class: iconBase + "alert_gray", Title: "Broken document"}
	case access.Organization:
		return IconAttrs{Class: iconBase + "lock", Title: "Private to " + orgName}
	case access.Private:
		return IconAttrs{Class: iconBase + "lock", Title: "Private"}
	}
	if d.Published() {
		return IconAttrs{Class: iconBase + "published", Title: "Open Published Version"}
	}
	return IconAttrs{Class: iconBase + "hidden"}
}

const (
	ThumbnailProcessing = "/images/embed/documents/processing.png"
	ThumbnailFailed     = "/images/embed/documents/failed.png"
)

func ThumbnailURL(d *model.Document) string {
	switch d.Access {
	case access.Pending:
		return ThumbnailProcessing
	case access.Error:
		return ThumbnailFailed
	default:
		return d.ThumbnailURL
	}
}

// ErrorMessage replaces the description of documents that failed to import.
const ErrorMessage = "The document failed to import successfully. We've been notified of the problem, " +
	"and periodically review failed documents. You can try deleting this document, " +
	"re-saving the PDF with Acrobat or Preview, and reducing the file size before uploading again."

var stripPolicy = bluemonday.StrictPolicy()

// StripTags reduces possibly-HTML text to plain text on a single line.
func StripTags(s string) string {
	s = html.UnescapeString(stripPolicy.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

func Description(d *model.Document) string {
	if d.Access == access.Error {
		return ErrorMessage
	}
	return StripTags(d.Description)
}
