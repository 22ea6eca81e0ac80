package tui

import (
	"strings"

	"docdesk/internal/dragdrop"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"
)

func (m appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	left := m.renderTiles()
	if m.pane != paneNone {
		left = lipgloss.JoinVertical(lipgloss.Left, left, m.renderPane())
	}
	body := left
	if m.organizerWidth() > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, m.renderOrganizer())
	}

	screen := strings.Join([]string{
		m.renderHeader(),
		m.renderSearchLine(),
		body,
		m.renderFooter(),
	}, "\n")

	switch {
	case m.modal == modalMenu:
		o := m.menuOrigin()
		return placeAt(screen, m.renderMenuBox(), o.X, o.Y)
	case m.modal == modalConfirmDelete:
		return m.placeCentered(m.renderDeleteModal())
	case m.modal == modalEdit:
		return m.placeCentered(m.renderEditModal())
	case m.modal == modalEmbed:
		return m.placeCentered(m.renderEmbedModal())
	case m.help.ShowAll:
		return m.placeCentered(renderModalBox(m.width, "Keys", m.help.FullHelpView(m.keys.FullHelp())))
	}
	return screen
}

func (m appModel) renderHeader() string {
	who := "read-only"
	if m.account != nil {
		who = m.account.Name
		if org := m.db.OrganizationName(m.account.OrganizationID); org != "" {
			who += " " + glyphDot() + " " + org
		}
	}
	left := lipgloss.NewStyle().Bold(true).Render("docdesk") + "  " + styleChrome().Render(who)

	var right string
	if m.tracker.Active() {
		n := len(dragdrop.Payload(m.tracker.Doc(), m.coll.Selected()))
		right = "Dragging " + english.Plural(n, "document", "") + " " + glyphDrag() + " drop on a project"
		if id := m.hoverProject(); id != "" {
			if p := m.project(id); p != nil {
				right = "Drop " + english.Plural(n, "document", "") + " into " + p.Title
			}
		}
		right = lipgloss.NewStyle().Foreground(colorDropBorder).Bold(true).Render(right)
	} else {
		right = english.Plural(m.coll.Len(), "document", "")
		if n := len(m.coll.Selected()); n > 0 {
			right += " " + glyphDot() + " " + english.Plural(n, "selected", "selected")
		}
		right = styleChrome().Render(right)
	}
	return spread(left, right, m.width)
}

func (m appModel) renderSearchLine() string {
	switch {
	case m.searching:
		return fitWidth(m.search.View(), m.width)
	case m.query != "":
		return fitWidth(lipgloss.NewStyle().Foreground(colorAccent).Render("/ "+m.query)+"  "+styleMuted().Render("esc: clear"), m.width)
	default:
		return fitWidth(styleMuted().Render("/ search"), m.width)
	}
}

func (m appModel) renderFooter() string {
	if m.minibufferText != "" {
		return fitWidth(" "+m.minibufferText, m.width)
	}
	return fitWidth(" "+m.help.ShortHelpView(m.keys.ShortHelp()), m.width)
}
