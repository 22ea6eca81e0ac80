package tui

import (
	"strings"

	"docdesk/internal/dragdrop"
	"docdesk/internal/menu"
	"docdesk/internal/workspace"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"
	xansi "github.com/charmbracelet/x/ansi"
)

const menuInnerWidth = 26

// openMenu shows the context menu for d, anchored at p. Nothing opens when
// the menu would be empty.
func (m *appModel) openMenu(d *workspace.Document, p dragdrop.Point) {
	items := menu.Build(d, len(m.coll.Chosen(d)))
	first := menu.FirstEnabled(items, 0, 1)
	if first < 0 {
		return
	}
	m.menuItems = items
	m.menuIndex = first
	m.menuDocID = d.ID
	m.menuAt = p
	m.modal = modalMenu
}

func (m *appModel) closeMenu() {
	m.modal = modalNone
	m.menuItems = nil
	m.menuDocID = ""
}

func (m appModel) menuTitle() string {
	d, ok := m.coll.Get(m.menuDocID)
	if !ok {
		return ""
	}
	if n := len(m.coll.Chosen(d)); n > 1 {
		return english.Plural(n, "document", "")
	}
	return d.Title
}

func (m appModel) renderMenuBox() string {
	lines := []string{styleMuted().Render(truncate(m.menuTitle(), menuInnerWidth))}
	for i, it := range m.menuItems {
		label := fitWidth(it.Title, menuInnerWidth)
		st := lipgloss.NewStyle()
		switch {
		case it.Disabled:
			st = styleMuted()
		case it.Warn:
			st = styleWarn()
		}
		if i == m.menuIndex {
			st = styleSelectedRow()
			if it.Warn {
				st = st.Foreground(colorWarnFg)
			}
		}
		lines = append(lines, st.Render(label))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSelectedBorder).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// menuOrigin is the top-left cell of the menu box, kept on screen.
func (m appModel) menuOrigin() dragdrop.Point {
	boxW := menuInnerWidth + 4
	boxH := len(m.menuItems) + 3
	x := min(m.menuAt.X, m.width-boxW)
	y := min(m.menuAt.Y, m.height-boxH)
	return dragdrop.Point{X: max(x, 0), Y: max(y, 0)}
}

// menuItemAt maps a screen cell to a menu entry index, or -1.
func (m appModel) menuItemAt(p dragdrop.Point) int {
	o := m.menuOrigin()
	if p.X <= o.X || p.X >= o.X+menuInnerWidth+3 {
		return -1
	}
	// Border row, then the title row.
	i := p.Y - o.Y - 2
	if i < 0 || i >= len(m.menuItems) {
		return -1
	}
	return i
}

func (m appModel) menuContains(p dragdrop.Point) bool {
	o := m.menuOrigin()
	return p.X >= o.X && p.X < o.X+menuInnerWidth+4 && p.Y >= o.Y && p.Y < o.Y+len(m.menuItems)+3
}

// placeAt draws box over base with its top-left corner at (left, top).
func placeAt(base string, box string, left, top int) string {
	baseLines := strings.Split(base, "\n")
	for i, ln := range strings.Split(box, "\n") {
		y := top + i
		if y < 0 || y >= len(baseLines) {
			continue
		}
		row := baseLines[y]
		w := xansi.StringWidth(row)
		lw := xansi.StringWidth(ln)
		prefix := xansi.Truncate(row, left, "")
		if pw := xansi.StringWidth(prefix); pw < left {
			prefix += strings.Repeat(" ", left-pw)
		}
		suffix := ""
		if left+lw < w {
			suffix = xansi.Cut(row, left+lw, w)
		}
		baseLines[y] = prefix + "\x1b[0m" + ln + "\x1b[0m" + suffix
	}
	return strings.Join(baseLines, "\n")
}

func (m *appModel) moveMenu(step int) {
	if len(m.menuItems) == 0 {
		return
	}
	if i := menu.FirstEnabled(m.menuItems, m.menuIndex+step, step); i >= 0 {
		m.menuIndex = i
	}
}
