// Package workspace holds the live, ordered collection of documents shown in
// a listing and publishes attribute changes to subscribers.
package workspace

import (
	"slices"

	"docdesk/internal/model"
)

type Attr string

const (
	AttrSelected        Attr = "selected"
	AttrEditable        Attr = "editable"
	AttrAnnotationCount Attr = "annotationCount"
	AttrAccess          Attr = "access"
	AttrTitle           Attr = "title"
	AttrDescription     Attr = "description"
	AttrSource          Attr = "source"
	AttrPublished       Attr = "published"
	AttrThumbnail       Attr = "thumbnail"
	AttrPageCount       Attr = "pageCount"
	AttrSelectable      Attr = "selectable"
	AttrOwner           Attr = "owner"

	// AttrMembership is reported (with the affected document) when a document
	// enters or leaves the collection.
	AttrMembership Attr = "membership"
)

// Document is a live document record. Selected is session state and never
// persisted; Editable is derived from permissions when the collection is loaded.
type Document struct {
	model.Document

	Selected bool
	Editable bool
}

type Change struct {
	Doc   *Document
	Attrs []Attr
}

func (c Change) HasChanged(a Attr) bool {
	for _, x := range c.Attrs {
		if x == a {
			return true
		}
	}
	return false
}

// Only reports whether a is the single changed attribute.
func (c Change) Only(a Attr) bool {
	return len(c.Attrs) == 1 && c.Attrs[0] == a
}

type subscriber struct {
	id int
	fn func(Change)
}

// Collection is an ordered list of documents, unique by id. It is not safe for
// concurrent use; the TUI only touches it from its update loop.
type Collection struct {
	docs []*Document
	byID map[string]*Document

	subs    []subscriber
	nextSub int

	batchDepth int
	pending    []Change
}

// New builds a collection in the given order. Later duplicates of an id are
// dropped. editable may be nil, in which case nothing is editable.
func New(docs []model.Document, editable func(*model.Document) bool) *Collection {
	c := &Collection{byID: map[string]*Document{}}
	for i := range docs {
		d := docs[i]
		if _, ok := c.byID[d.ID]; ok {
			continue
		}
		live := &Document{Document: d}
		if editable != nil {
			live.Editable = editable(&live.Document)
		}
		c.docs = append(c.docs, live)
		c.byID[d.ID] = live
	}
	return c
}

func (c *Collection) Len() int { return len(c.docs) }

func (c *Collection) At(i int) *Document {
	if i < 0 || i >= len(c.docs) {
		return nil
	}
	return c.docs[i]
}

func (c *Collection) Each(fn func(i int, d *Document)) {
	for i, d := range c.docs {
		fn(i, d)
	}
}

func (c *Collection) Get(id string) (*Document, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// IndexOf returns the listing position of d, or -1 when d is not a member.
func (c *Collection) IndexOf(d *Document) int {
	if d == nil {
		return -1
	}
	for i, x := range c.docs {
		if x == d {
			return i
		}
	}
	return -1
}

// Selected returns the selected documents in listing order.
func (c *Collection) Selected() []*Document {
	var out []*Document
	for _, d := range c.docs {
		if d.Selected {
			out = append(out, d)
		}
	}
	return out
}

// Chosen returns the documents a bulk action on d should apply to: the whole
// selection when d is part of it (or d is nil), otherwise just d.
func (c *Collection) Chosen(d *Document) []*Document {
	sel := c.Selected()
	if d == nil {
		return sel
	}
	for _, x := range sel {
		if x == d {
			return sel
		}
	}
	return []*Document{d}
}

func (c *Collection) SetSelected(d *Document, selected bool) {
	if d == nil || c.IndexOf(d) < 0 || d.Selected == selected {
		return
	}
	d.Selected = selected
	c.publish(Change{Doc: d, Attrs: []Attr{AttrSelected}})
}

func (c *Collection) DeselectAll() {
	c.Batch(func() {
		for _, d := range c.docs {
			c.SetSelected(d, false)
		}
	})
}

func (c *Collection) SetEditable(d *Document, editable bool) {
	if d == nil || c.IndexOf(d) < 0 || d.Editable == editable {
		return
	}
	d.Editable = editable
	c.publish(Change{Doc: d, Attrs: []Attr{AttrEditable}})
}

// Update applies fn to the stored record of id and publishes one Change naming
// every attribute that differs afterwards. It reports whether id was found.
func (c *Collection) Update(id string, fn func(*model.Document)) bool {
	d, ok := c.byID[id]
	if !ok {
		return false
	}
	before := d.Document
	fn(&d.Document)
	// Identity is owned by the collection.
	d.Document.ID = before.ID
	if attrs := diff(before, d.Document); len(attrs) > 0 {
		c.publish(Change{Doc: d, Attrs: attrs})
	}
	return true
}

// Add appends a document if its id is new and returns the live record.
func (c *Collection) Add(doc model.Document, editable bool) *Document {
	return c.Insert(len(c.docs), doc, editable)
}

// Insert places a new document at index i, clamped to the listing. An id
// that is already a member stays where it is.
func (c *Collection) Insert(i int, doc model.Document, editable bool) *Document {
	if d, ok := c.byID[doc.ID]; ok {
		return d
	}
	i = min(max(i, 0), len(c.docs))
	d := &Document{Document: doc, Editable: editable}
	c.docs = slices.Insert(c.docs, i, d)
	c.byID[doc.ID] = d
	c.publish(Change{Doc: d, Attrs: []Attr{AttrMembership}})
	return d
}

func (c *Collection) Remove(id string) bool {
	d, ok := c.byID[id]
	if !ok {
		return false
	}
	idx := c.IndexOf(d)
	c.docs = append(c.docs[:idx], c.docs[idx+1:]...)
	delete(c.byID, id)
	c.publish(Change{Doc: d, Attrs: []Attr{AttrMembership}})
	return true
}

// Batch runs fn with notifications held back. Once the outermost batch
// returns, each touched document is reported once (attributes merged), in the
// order it was first touched.
func (c *Collection) Batch(fn func()) {
	c.batchDepth++
	func() {
		defer func() { c.batchDepth-- }()
		fn()
	}()
	if c.batchDepth > 0 {
		return
	}
	pending := c.pending
	c.pending = nil
	for _, ch := range pending {
		c.deliver(ch)
	}
}

// Subscribe registers fn for every change. The returned func unregisters it.
func (c *Collection) Subscribe(fn func(Change)) (cancel func()) {
	c.nextSub++
	id := c.nextSub
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// SubscribeDoc is Subscribe filtered to one document id.
func (c *Collection) SubscribeDoc(id string, fn func(Change)) (cancel func()) {
	return c.Subscribe(func(ch Change) {
		if ch.Doc != nil && ch.Doc.ID == id {
			fn(ch)
		}
	})
}

func (c *Collection) publish(ch Change) {
	if c.batchDepth == 0 {
		c.deliver(ch)
		return
	}
	for i := range c.pending {
		if c.pending[i].Doc == ch.Doc {
			for _, a := range ch.Attrs {
				if !c.pending[i].HasChanged(a) {
					c.pending[i].Attrs = append(c.pending[i].Attrs, a)
				}
			}
			return
		}
	}
	c.pending = append(c.pending, ch)
}

func (c *Collection) deliver(ch Change) {
	// Copy so a subscriber may cancel itself while being notified.
	subs := append([]subscriber(nil), c.subs...)
	for _, s := range subs {
		s.fn(ch)
	}
}

func diff(a, b model.Document) []Attr {
	var out []Attr
	add := func(changed bool, attr Attr) {
		if changed {
			out = append(out, attr)
		}
	}
	add(a.Title != b.Title, AttrTitle)
	add(a.Description != b.Description, AttrDescription)
	add(a.Source != b.Source, AttrSource)
	add(a.Access != b.Access, AttrAccess)
	add(a.AnnotationCount != b.AnnotationCount, AttrAnnotationCount)
	add(a.PageCount != b.PageCount, AttrPageCount)
	add(a.PublishedURL != b.PublishedURL, AttrPublished)
	add(a.ThumbnailURL != b.ThumbnailURL, AttrThumbnail)
	add(a.Selectable != b.Selectable, AttrSelectable)
	add(a.AccountID != b.AccountID || a.AccountSlug != b.AccountSlug ||
		a.OrganizationID != b.OrganizationID || a.OrganizationSlug != b.OrganizationSlug, AttrOwner)
	return out
}
