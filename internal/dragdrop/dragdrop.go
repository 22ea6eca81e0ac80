// Package dragdrop resolves where a dragged document lands. It works on a
// snapshot of zone rectangles so it needs no rendering surface.
package dragdrop

import (
	"context"

	"docdesk/internal/workspace"
)

type Point struct {
	X int
	Y int
}

type Rect struct {
	Top    int
	Left   int
	Width  int
	Height int
}

func (r Rect) Right() int  { return r.Left + r.Width }
func (r Rect) Bottom() int { return r.Top + r.Height }

// Contains is boundary-exclusive: a point on an edge is outside.
func (r Rect) Contains(p Point) bool {
	return r.Left < p.X && p.X < r.Right() && r.Top < p.Y && p.Y < r.Bottom()
}

// Zone is a project's drop area.
type Zone struct {
	ProjectID string
	Rect
}

type Assignment struct {
	ProjectID string
	Documents []*workspace.Document
}

// IDs returns the document ids in assignment order.
func (a *Assignment) IDs() []string {
	out := make([]string, 0, len(a.Documents))
	for _, d := range a.Documents {
		out = append(out, d.ID)
	}
	return out
}

// ZoneAt returns the first zone in zones that strictly contains p.
func ZoneAt(p Point, zones []Zone) (Zone, bool) {
	for _, z := range zones {
		if z.Contains(p) {
			return z, true
		}
	}
	return Zone{}, false
}

// Payload is the set of documents a drag of dragged carries: the whole
// selection when dragged is part of it, otherwise dragged alone.
func Payload(dragged *workspace.Document, selection []*workspace.Document) []*workspace.Document {
	for _, d := range selection {
		if d == dragged {
			return append([]*workspace.Document(nil), selection...)
		}
	}
	return []*workspace.Document{dragged}
}

// Resolve returns the assignment for dropping dragged at p, or nil when p is
// outside every zone.
func Resolve(p Point, zones []Zone, dragged *workspace.Document, selection []*workspace.Document) *Assignment {
	if dragged == nil {
		return nil
	}
	z, ok := ZoneAt(p, zones)
	if !ok {
		return nil
	}
	return &Assignment{ProjectID: z.ProjectID, Documents: Payload(dragged, selection)}
}

// Assigner files documents under a project.
type Assigner interface {
	AddDocuments(ctx context.Context, projectID string, documentIDs []string) (int, error)
}

// Drop resolves a drop and hands the result to assigner. A drop outside every
// zone returns (nil, nil). Assignment errors are returned for reporting and
// never change the selection.
func Drop(ctx context.Context, p Point, zones []Zone, dragged *workspace.Document, selection []*workspace.Document, assigner Assigner) (*Assignment, error) {
	a := Resolve(p, zones, dragged, selection)
	if a == nil || assigner == nil {
		return a, nil
	}
	if _, err := assigner.AddDocuments(ctx, a.ProjectID, a.IDs()); err != nil {
		return a, err
	}
	return a, nil
}
