package tui

import (
	"strconv"
	"strings"

	"docdesk/internal/access"
	"docdesk/internal/dragdrop"
	"docdesk/internal/tile"
	"docdesk/internal/workspace"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
)

const (
	headerRows = 2 // title bar, search line
	footerRows = 1
	tileHeight = 3 // title line, meta line, gap
)

// Screen geometry. Everything that hit-tests the mouse derives from these so
// rendering and input agree on where things are.

func (m appModel) bodyTop() int { return headerRows }

func (m appModel) bodyHeight() int { return max(m.height-headerRows-footerRows, 0) }

func (m appModel) organizerWidth() int {
	if !m.showOrganizer || m.width < 50 {
		return 0
	}
	return min(max(m.width/3, 20), 36)
}

func (m appModel) listWidth() int { return max(m.width-m.organizerWidth(), 0) }

func (m appModel) paneHeight() int {
	if m.pane == paneNone {
		return 0
	}
	bh := m.bodyHeight()
	return min(max(bh/2, 4), bh)
}

func (m appModel) listHeight() int { return max(m.bodyHeight()-m.paneHeight(), 0) }

func (m appModel) paneTop() int { return m.bodyTop() + m.listHeight() }

func (m appModel) visibleTiles() int { return m.listHeight() / tileHeight }

// tileAt returns the listing index of the tile drawn at (x, y), or -1.
func (m appModel) tileAt(x, y int) int {
	if x < 0 || x >= m.listWidth() {
		return -1
	}
	row := y - m.bodyTop()
	if row < 0 || row >= m.visibleTiles()*tileHeight {
		return -1
	}
	if row%tileHeight == tileHeight-1 {
		return -1
	}
	i := m.offset + row/tileHeight
	if i >= m.coll.Len() {
		return -1
	}
	return i
}

func (m appModel) tileRow(i int) int {
	return m.bodyTop() + (i-m.offset)*tileHeight
}

// tileBody is the part of a tile that only changes on a full invalidation.
type tileBody struct {
	title string
	meta  string
}

// tileCache holds rendered tile bodies. Selection and note-count changes
// redraw around the cached body; anything else drops it.
type tileCache struct {
	width  int
	bodies map[string]tileBody

	// Builds counts body renders; Seen counts invalidations by kind.
	Builds int
	Seen   map[tile.Invalidation]int
}

func newTileCache() *tileCache {
	return &tileCache{bodies: map[string]tileBody{}, Seen: map[tile.Invalidation]int{}}
}

func (c *tileCache) reset() {
	c.bodies = map[string]tileBody{}
}

func (c *tileCache) forget(id string) { delete(c.bodies, id) }

func (c *tileCache) invalidate(v *tile.View, inv tile.Invalidation) {
	c.Seen[inv]++
	if inv == tile.InvalidateFull {
		delete(c.bodies, v.Doc().ID)
	}
}

func (c *tileCache) body(d *workspace.Document, width int, orgName string) tileBody {
	if width != c.width {
		c.width = width
		c.reset()
	}
	if b, ok := c.bodies[d.ID]; ok {
		return b
	}
	b := buildTileBody(d, width, orgName)
	c.bodies[d.ID] = b
	c.Builds++
	return b
}

func buildTileBody(d *workspace.Document, width int, orgName string) tileBody {
	icon := tile.Icon(&d.Document, orgName)

	title := strings.TrimSpace(d.Title)
	if title == "" {
		title = d.ID
	}
	badge := styleAccess(d.Access).Render(access.Name(d.Access))
	title = truncate(title, max(width-26, 8))
	titleLine := glyphIcon(icon.Class) + " " + lipgloss.NewStyle().Bold(true).Render(title) + "  " + badge

	meta := []string{d.AccountSlug}
	if icon.Title != "" && icon.Title != "Open Published Version" {
		meta = append(meta, icon.Title)
	}
	if d.PageCount > 0 {
		meta = append(meta, english.Plural(d.PageCount, "page", ""))
	}
	meta = append(meta, humanize.Time(d.CreatedAt))
	if d.Source != "" {
		meta = append(meta, d.Source)
	}
	if !d.Editable {
		meta = append(meta, "read-only")
	}
	if desc := tile.Description(&d.Document); desc != "" {
		meta = append(meta, desc)
	}
	metaLine := styleMuted().Render(truncate(strings.Join(meta, " "+glyphDot()+" "), max(width-6, 0)))

	return tileBody{title: titleLine, meta: metaLine}
}

func (m appModel) notesBadge(v *tile.View) string {
	switch v.Mode().Notes {
	case tile.NotesOwns:
		return glyphTwistyCollapsed() + " " + english.Plural(v.Count(), "note", "")
	case tile.NotesHas:
		return glyphTwistyExpanded() + " " + english.Plural(v.Count(), "note", "")
	case tile.NotesLoading:
		return m.spinner.View() + " notes"
	case tile.NotesFailed:
		return styleWarn().Render("! notes")
	default:
		return ""
	}
}

func (m appModel) renderTiles() string {
	w, h := m.listWidth(), m.listHeight()
	if m.coll.Len() == 0 {
		msg := "No documents."
		if m.query != "" {
			msg = "No documents match " + strconv.Quote(m.query) + "."
		}
		return normalizePane("  "+styleMuted().Render(msg), w, h)
	}

	var payload map[string]bool
	if m.tracker.Active() {
		payload = map[string]bool{}
		for _, d := range dragdrop.Payload(m.tracker.Doc(), m.coll.Selected()) {
			payload[d.ID] = true
		}
	}

	lines := make([]string, 0, h)
	for i := m.offset; i < m.coll.Len() && len(lines)+tileHeight <= h; i++ {
		d := m.coll.At(i)
		v := m.views[d.ID]
		if v == nil {
			continue
		}
		l1, l2 := m.renderTile(d, v, w, i == m.cursor, payload[d.ID])
		lines = append(lines, l1, l2, "")
	}
	return normalizePane(strings.Join(lines, "\n"), w, h)
}

func (m appModel) renderTile(d *workspace.Document, v *tile.View, width int, cursor, dragged bool) (string, string) {
	mode := v.Mode()
	b := m.tiles.body(d, width, m.db.OrganizationName(d.OrganizationID))

	lead := "  "
	switch {
	case dragged:
		lead = glyphDrag() + " "
	case cursor:
		lead = pick("▌ ", "> ")
	}
	mark := glyphUnchecked()
	if mode.Selected == tile.Is {
		mark = glyphChecked()
	}
	if !d.Selectable {
		mark = glyphUnselectable()
	}

	line1 := spread(lead+mark+" "+b.title, m.notesBadge(v)+" ", width)
	line2 := fitWidth(strings.Repeat(" ", 4+len([]rune(mark)))+b.meta, width)
	if mode.Selected == tile.Is {
		line1 = styleSelectedRow().Render(line1)
		line2 = lipgloss.NewStyle().Background(colorSelectedBg).Render(line2)
	}
	return line1, line2
}
