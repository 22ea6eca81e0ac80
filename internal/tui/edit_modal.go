package tui

import (
	"strings"

	"docdesk/internal/store"
	"docdesk/internal/workspace"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"
)

type editField string

const (
	editTitle       editField = "Title"
	editSource      editField = "Source"
	editDescription editField = "Description"
)

// editState backs the "Edit All Fields" modal. With several documents the
// title is not offered and blank inputs leave the field alone.
type editState struct {
	ids    []string
	fields []editField
	inputs []textinput.Model
	orig   []string
	focus  int
}

func (e editState) single() bool { return len(e.ids) == 1 }

func (m *appModel) beginEdit(chosen []*workspace.Document) {
	var docs []*workspace.Document
	for _, d := range chosen {
		if d.Editable {
			docs = append(docs, d)
		}
	}
	if len(docs) == 0 {
		m.showMinibuffer("Permission denied: you can't edit " + english.PluralWord(len(chosen), "this document", "these documents"))
		return
	}

	e := editState{}
	for _, d := range docs {
		e.ids = append(e.ids, d.ID)
	}
	e.fields = []editField{editSource, editDescription}
	if e.single() {
		e.fields = []editField{editTitle, editSource, editDescription}
	}
	inputW := max(modalBodyWidth(m.width)-14, 10)
	for _, f := range e.fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 512
		ti.Width = inputW
		cur := ""
		if e.single() {
			cur = fieldValue(docs[0], f)
			ti.SetValue(cur)
		} else {
			ti.Placeholder = "(unchanged)"
		}
		e.inputs = append(e.inputs, ti)
		e.orig = append(e.orig, cur)
	}
	e.inputs[0].Focus()
	m.edit = e
	m.modal = modalEdit
}

func fieldValue(d *workspace.Document, f editField) string {
	switch f {
	case editTitle:
		return d.Title
	case editSource:
		return d.Source
	default:
		return d.Description
	}
}

// changes turns the inputs into a partial update.
func (e editState) changes() store.DocumentFields {
	var out store.DocumentFields
	for i, f := range e.fields {
		v := strings.TrimSpace(e.inputs[i].Value())
		if e.single() && v == strings.TrimSpace(e.orig[i]) {
			continue
		}
		if !e.single() && v == "" {
			continue
		}
		switch f {
		case editTitle:
			out.Title = &v
		case editSource:
			out.Source = &v
		case editDescription:
			out.Description = &v
		}
	}
	return out
}

func (m *appModel) focusEdit(i int) {
	n := len(m.edit.inputs)
	if n == 0 {
		return
	}
	i = ((i % n) + n) % n
	m.edit.inputs[m.edit.focus].Blur()
	m.edit.focus = i
	m.edit.inputs[i].Focus()
}

func (m *appModel) updateEditModal(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.modal = modalNone
		m.edit = editState{}
		return nil
	case "tab", "down":
		m.focusEdit(m.edit.focus + 1)
		return nil
	case "shift+tab", "up":
		m.focusEdit(m.edit.focus - 1)
		return nil
	case "enter":
		if m.edit.focus < len(m.edit.inputs)-1 {
			m.focusEdit(m.edit.focus + 1)
			return nil
		}
		return m.saveEdit()
	case "ctrl+s":
		return m.saveEdit()
	}
	var cmd tea.Cmd
	m.edit.inputs[m.edit.focus], cmd = m.edit.inputs[m.edit.focus].Update(msg)
	return cmd
}

func (m *appModel) saveEdit() tea.Cmd {
	f := m.edit.changes()
	ids := m.edit.ids
	m.modal = modalNone
	m.edit = editState{}
	if f.Empty() {
		m.showMinibuffer("Nothing changed")
		return nil
	}
	return m.updateFieldsCmd(ids, f)
}

func (m appModel) renderEditModal() string {
	e := m.edit
	title := "Edit Document"
	if !e.single() {
		title = "Edit " + english.Plural(len(e.ids), "Document", "")
	}
	label := lipgloss.NewStyle().Width(12)
	var rows []string
	for i, f := range e.fields {
		l := label.Render(string(f))
		if i == e.focus {
			l = label.Bold(true).Foreground(colorAccent).Render(string(f))
		}
		rows = append(rows, l+" "+e.inputs[i].View())
	}
	rows = append(rows, "", styleMuted().Render("tab: next field   enter/ctrl+s: save   esc: cancel"))
	return renderModalBox(m.width, title, strings.Join(rows, "\n"))
}

func (m appModel) renderEmbedModal() string {
	body := lipgloss.NewStyle().Width(modalBodyWidth(m.width)).Render(m.embedCode)
	help := styleMuted().Render("c/enter: copy to clipboard   esc: close")
	return renderModalBox(m.width, "Embed Document Viewer", body+"\n\n"+help)
}
