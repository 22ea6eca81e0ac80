package tui

import (
	"strings"

	"docdesk/internal/workspace"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

func modalBodyWidth(width int) int {
	return min(max(width-12, 24), 64)
}

func renderModalBox(width int, title string, content string) string {
	bodyW := modalBodyWidth(width)
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorModalHeaderFg).
		Background(colorModalHeaderBg).
		Width(bodyW).
		Render(title)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSelectedBorder).
		Padding(0, 1).
		Render(header + "\n\n" + content)
}

func renderConfirmModal(width int, title string, body string, confirmLabel string, cancelLabel string, focus confirmModalFocus) string {
	// No borders on buttons: nested borders inside a modal leave background
	// artifacts on some terminals.
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Foreground(colorWarnFg).Render(confirmLabel)
	}
	if focus == confirmFocusCancel {
		cancel = btnActive.Render(cancelLabel)
	}

	sep := lipgloss.NewStyle().Background(colorControlBg).Render(" ")
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, sep, cancel)

	bodyW := modalBodyWidth(width)
	help := styleMuted().Width(bodyW).Render("tab: focus   enter: select   esc: cancel")

	content := strings.Join([]string{
		lipgloss.NewStyle().Width(bodyW).Render(body),
		"",
		controls,
		"",
		help,
	}, "\n")
	return renderModalBox(width, title, content)
}

// confirmDelete asks before deleting the editable documents among chosen.
func (m *appModel) confirmDelete(chosen []*workspace.Document) {
	ids := make([]string, 0, len(chosen))
	for _, d := range chosen {
		if d.Editable {
			ids = append(ids, d.ID)
		}
	}
	if len(ids) == 0 {
		m.showMinibuffer("Permission denied: you can't delete " + english.PluralWord(len(chosen), "this document", "these documents"))
		return
	}
	m.pendingIDs = ids
	m.confirmFocus = confirmFocusCancel
	m.modal = modalConfirmDelete
}

func (m appModel) renderDeleteModal() string {
	n := len(m.pendingIDs)
	title := english.PluralWord(n, "Delete Document", "Delete Documents")
	body := "Delete " + english.Plural(n, "document", "") + "? This can't be undone."
	if n == 1 {
		if d, ok := m.coll.Get(m.pendingIDs[0]); ok {
			body = "Delete \"" + d.Title + "\"? This can't be undone."
		}
	}
	return renderConfirmModal(m.width, title, body, "Delete", "Cancel", m.confirmFocus)
}
