package tile

import (
	"docdesk/internal/workspace"
)

// Invalidation says how much of a tile needs redrawing after a change.
type Invalidation int

const (
	InvalidateNone Invalidation = iota
	// InvalidateSelected touches only the selected dimension.
	InvalidateSelected
	// InvalidateCount touches only the displayed note count.
	InvalidateCount
	// InvalidateFull recomputes the whole mode and redraws the tile.
	InvalidateFull
)

func (i Invalidation) String() string {
	switch i {
	case InvalidateSelected:
		return "selected"
	case InvalidateCount:
		return "count"
	case InvalidateFull:
		return "full"
	default:
		return "none"
	}
}

// Classify maps a change to the cheapest invalidation that keeps the tile
// consistent with the document. Only a change to selected alone takes the
// selection path; selected arriving together with any other attribute
// redraws the whole tile, since the other attribute may affect any part of it.
func Classify(ch workspace.Change) Invalidation {
	switch {
	case len(ch.Attrs) == 0, ch.HasChanged(workspace.AttrMembership):
		return InvalidateNone
	case ch.Only(workspace.AttrSelected):
		return InvalidateSelected
	case ch.Only(workspace.AttrAnnotationCount):
		return InvalidateCount
	default:
		return InvalidateFull
	}
}

// View is the tile bound to a single document for its lifetime.
type View struct {
	doc *workspace.Document

	notes       NotesState
	notesLoaded bool

	mode  Mode
	count int

	// Renders counts full recomputes, including the initial one.
	Renders int

	cancel       func()
	onInvalidate func(*View, Invalidation)
}

// NewView binds a tile to doc and subscribes to its changes. onInvalidate is
// called after the tile has updated itself; it may be nil.
func NewView(coll *workspace.Collection, doc *workspace.Document, onInvalidate func(*View, Invalidation)) *View {
	v := &View{
		doc:          doc,
		notes:        InitialNotesState(doc.AnnotationCount),
		onInvalidate: onInvalidate,
	}
	v.render()
	if coll != nil {
		v.cancel = coll.SubscribeDoc(doc.ID, v.handle)
	}
	return v
}

func (v *View) Doc() *workspace.Document { return v.doc }

func (v *View) Mode() Mode { return v.mode }

// Count is the annotation count currently displayed on the tile.
func (v *View) Count() int { return v.count }

func (v *View) NotesLoaded() bool { return v.notesLoaded }

// Close unsubscribes the tile. It is safe to call more than once.
func (v *View) Close() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

func (v *View) render() {
	v.mode = Project(v.doc, v.notes)
	v.count = v.doc.AnnotationCount
	v.Renders++
}

func (v *View) handle(ch workspace.Change) {
	inv := Classify(ch)
	switch inv {
	case InvalidateNone:
		return
	case InvalidateSelected:
		v.mode.Selected = isNot(v.doc.Selected)
	case InvalidateCount:
		v.count = v.doc.AnnotationCount
	default:
		v.render()
	}
	if v.onInvalidate != nil {
		v.onInvalidate(v, inv)
	}
}

func (v *View) setNotes(s NotesState) {
	v.notes = s
	v.mode.Notes = s
}

// ToggleNotes opens or collapses the notes under the tile. It reports whether
// the caller must start a fetch; the outcome is fed back with FinishNotes.
// While a fetch is in flight the toggle is ignored.
func (v *View) ToggleNotes() (fetch bool) {
	switch {
	case v.notes == NotesLoading:
		return false
	case v.notes == NotesHas:
		v.setNotes(NotesOwns)
		return false
	case v.notesLoaded:
		v.setNotes(NotesHas)
		return false
	default:
		v.setNotes(NotesLoading)
		return true
	}
}

// FinishNotes records the outcome of a notes fetch.
func (v *View) FinishNotes(err error) {
	if v.notes != NotesLoading {
		return
	}
	if err != nil {
		v.setNotes(NotesFailed)
		return
	}
	v.notesLoaded = true
	v.setNotes(NotesHas)
}
