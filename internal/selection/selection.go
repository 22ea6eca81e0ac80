// Package selection implements desktop-style multi-select over a document
// collection: plain click selects one, toggle flips one, range selects a
// contiguous run from the anchor.
package selection

import "docdesk/internal/workspace"

// Modifiers is the modifier-key state at the time of a selecting gesture.
// Toggle corresponds to command/control, Range to shift.
type Modifiers struct {
	Toggle bool
	Range  bool
}

// Controller owns the range anchor for one listing session.
type Controller struct {
	anchorID string
}

// Anchor returns the document range selection extends from: the last plainly
// selected document while it is still listed, otherwise the first selected
// document, otherwise nil.
func (c *Controller) Anchor(coll *workspace.Collection) *workspace.Document {
	if coll == nil {
		return nil
	}
	if c.anchorID != "" {
		if d, ok := coll.Get(c.anchorID); ok {
			return d
		}
	}
	if sel := coll.Selected(); len(sel) > 0 {
		return sel[0]
	}
	return nil
}

func (c *Controller) Reset() { c.anchorID = "" }

// Select applies a selecting gesture on target. Targets that are not
// selectable or not in coll are ignored. Subscribers of coll are notified
// only after every affected document has been updated.
func (c *Controller) Select(target *workspace.Document, mods Modifiers, coll *workspace.Collection) {
	if target == nil || coll == nil || !target.Selectable {
		return
	}
	idx := coll.IndexOf(target)
	if idx < 0 {
		return
	}

	if mods.Toggle {
		coll.SetSelected(target, !target.Selected)
		return
	}

	if mods.Range {
		if anchor := c.Anchor(coll); anchor != nil {
			aidx := coll.IndexOf(anchor)
			start, end := min(idx, aidx), max(idx, aidx)
			coll.Batch(func() {
				coll.Each(func(i int, d *workspace.Document) {
					coll.SetSelected(d, i >= start && i <= end)
				})
			})
			return
		}
	}

	coll.Batch(func() {
		coll.DeselectAll()
		coll.SetSelected(target, true)
	})
	c.anchorID = target.ID
}

// ExtendTo is the keyboard form of a range selection (shift+arrow): when no
// anchor exists yet, from becomes the anchor before extending to target.
func (c *Controller) ExtendTo(target, from *workspace.Document, coll *workspace.Collection) {
	if c.Anchor(coll) == nil && from != nil && coll.IndexOf(from) >= 0 {
		c.anchorID = from.ID
	}
	c.Select(target, Modifiers{Range: true}, coll)
}

// SelectAll selects every selectable document. The anchor is left alone.
func (c *Controller) SelectAll(coll *workspace.Collection) {
	if coll == nil {
		return
	}
	coll.Batch(func() {
		coll.Each(func(_ int, d *workspace.Document) {
			if d.Selectable {
				coll.SetSelected(d, true)
			}
		})
	})
}

// Clear deselects everything and forgets the anchor.
func (c *Controller) Clear(coll *workspace.Collection) {
	if coll != nil {
		coll.DeselectAll()
	}
	c.anchorID = ""
}
