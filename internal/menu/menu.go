// Package menu builds the context menu shown for a document tile.
package menu

import (
	"github.com/dustin/go-humanize/english"

	"docdesk/internal/workspace"
)

type Action string

const (
	ActionOpen          Action = "open"
	ActionOpenPublished Action = "open-published"
	ActionViewEntities  Action = "view-entities"
	ActionEditAll       Action = "edit-all"
	ActionEmbed         Action = "embed"
	ActionDelete        Action = "delete"
)

type Item struct {
	Title    string
	Action   Action
	Disabled bool
	// Warn marks destructive entries.
	Warn bool
}

// Build returns the entries for a menu opened on doc when chosen documents
// would be affected. Nothing is offered when chosen is zero.
func Build(doc *workspace.Document, chosen int) []Item {
	if doc == nil || chosen <= 0 {
		return nil
	}
	items := []Item{{Title: "Open", Action: ActionOpen}}
	if doc.Published() {
		items = append(items, Item{Title: "Open Published Version", Action: ActionOpenPublished})
	}
	items = append(items, Item{Title: "View Entities", Action: ActionViewEntities})
	if doc.Editable {
		items = append(items,
			Item{Title: "Edit All Fields", Action: ActionEditAll},
			Item{Title: "Embed Document Viewer", Action: ActionEmbed, Disabled: chosen > 1},
			Item{Title: english.PluralWord(chosen, "Delete Document", "Delete Documents"), Action: ActionDelete, Warn: true},
		)
	}
	return items
}

// FirstEnabled returns the index of the first enabled entry at or after i,
// wrapping; -1 when every entry is disabled.
func FirstEnabled(items []Item, i int, step int) int {
	n := len(items)
	if n == 0 {
		return -1
	}
	if step == 0 {
		step = 1
	}
	for k := 0; k < n; k++ {
		j := ((i+k*step)%n + n) % n
		if !items[j].Disabled {
			return j
		}
	}
	return -1
}
