package tui

import (
	"strconv"
	"strings"

	"docdesk/internal/dragdrop"

	"github.com/charmbracelet/lipgloss"
)

// Project boxes are three rows tall (border, title, border) and stacked under
// a one-row heading.
const projectBoxHeight = 3

func (m appModel) visibleProjects() int {
	if m.organizerWidth() == 0 {
		return 0
	}
	return min(len(m.db.Projects), max((m.bodyHeight()-2)/projectBoxHeight, 0))
}

// zones snapshots the on-screen project boxes. Each rect spans a box's border
// cells, so only its interior counts as inside.
func (m appModel) zones() []dragdrop.Zone {
	n := m.visibleProjects()
	if n == 0 {
		return nil
	}
	left := m.listWidth() + 1
	boxW := m.organizerWidth() - 1
	top := m.bodyTop() + 1
	out := make([]dragdrop.Zone, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, dragdrop.Zone{
			ProjectID: m.db.Projects[i].ID,
			Rect: dragdrop.Rect{
				Top:    top + i*projectBoxHeight,
				Left:   left,
				Width:  boxW - 1,
				Height: projectBoxHeight - 1,
			},
		})
	}
	return out
}

// hoverProject is the project under the pointer while a drag is in progress.
func (m appModel) hoverProject() string {
	if !m.tracker.Active() {
		return ""
	}
	z, ok := dragdrop.ZoneAt(m.tracker.At(), m.zones())
	if !ok {
		return ""
	}
	return z.ProjectID
}

func (m appModel) renderOrganizer() string {
	w, h := m.organizerWidth(), m.bodyHeight()
	if w == 0 {
		return ""
	}
	boxW := w - 1
	hover := m.hoverProject()

	lines := []string{" " + styleChrome().Bold(true).Render("Projects")}
	if len(m.db.Projects) == 0 {
		lines = append(lines, " "+styleMuted().Render("No projects yet."))
	}
	n := m.visibleProjects()
	for i := 0; i < n; i++ {
		p := m.db.Projects[i]
		label := strconv.Itoa(i+1) + " " + p.Title
		if i >= 9 {
			label = "  " + p.Title
		}
		count := styleMuted().Render(strconv.Itoa(len(p.DocumentIDs)))

		border := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorCardBorder)
		if p.ID == hover {
			border = border.BorderForeground(colorDropBorder).Bold(true)
		}
		box := border.Width(boxW - 2).Render(spread(label, count, boxW-2))
		for _, ln := range strings.Split(box, "\n") {
			lines = append(lines, " "+ln)
		}
	}
	if extra := len(m.db.Projects) - n; extra > 0 && n > 0 {
		lines = append(lines, " "+styleMuted().Render("+"+strconv.Itoa(extra)+" more"))
	}
	return normalizePane(strings.Join(lines, "\n"), w, h)
}
