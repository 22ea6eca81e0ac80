package dragdrop

import "docdesk/internal/workspace"

// Tracker follows one pointer gesture that may turn into a drag. A press and
// release at the same cell is a click, not a drag.
type Tracker struct {
	doc    *workspace.Document
	origin Point
	at     Point
	moved  bool
}

// Begin starts tracking a press on doc.
func (t *Tracker) Begin(doc *workspace.Document, p Point) {
	*t = Tracker{doc: doc, origin: p, at: p}
}

// Move records pointer motion with the button held.
func (t *Tracker) Move(p Point) {
	if t.doc == nil {
		return
	}
	t.at = p
	if p != t.origin {
		t.moved = true
	}
}

// Active reports whether a drag is in progress (pressed and moved).
func (t *Tracker) Active() bool { return t.doc != nil && t.moved }

func (t *Tracker) Pressed() bool { return t.doc != nil }

func (t *Tracker) Doc() *workspace.Document { return t.doc }

func (t *Tracker) At() Point { return t.at }

// End finishes the gesture at p and returns the dragged document, or nil when
// the gesture never became a drag.
func (t *Tracker) End(p Point) *workspace.Document {
	t.Move(p)
	doc := t.doc
	active := t.Active()
	*t = Tracker{}
	if !active {
		return nil
	}
	return doc
}

func (t *Tracker) Cancel() { *t = Tracker{} }
