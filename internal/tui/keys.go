package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	ExtendUp    key.Binding
	ExtendDown  key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Select      key.Binding
	Toggle      key.Binding
	SelectAll   key.Binding
	Clear       key.Binding
	Open        key.Binding
	Menu        key.Binding
	Notes       key.Binding
	Pages       key.Binding
	Access      key.Binding
	Edit        key.Binding
	Delete      key.Binding
	Search      key.Binding
	FacetAcct   key.Binding
	FacetGroup  key.Binding
	FacetSource key.Binding
	Organizer   key.Binding
	File        key.Binding
	Reload      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		ExtendUp:    key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("shift+↑", "extend up")),
		ExtendDown:  key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("shift+↓", "extend down")),
		PageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Select:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		SelectAll:   key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "select all")),
		Clear:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		Open:        key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		Menu:        key.NewBinding(key.WithKeys("m", "."), key.WithHelp("m", "menu")),
		Notes:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "notes")),
		Pages:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "entities")),
		Access:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "access")),
		Edit:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:      key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		FacetAcct:   key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "same account")),
		FacetGroup:  key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "same group")),
		FacetSource: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "same source")),
		Organizer:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "projects")),
		File: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "file into project"),
		),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Open, k.Menu, k.Notes, k.Search, k.Organizer, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.ExtendUp, k.ExtendDown, k.PageUp, k.PageDown},
		{k.Select, k.Toggle, k.SelectAll, k.Clear, k.File},
		{k.Open, k.Menu, k.Notes, k.Pages, k.Access, k.Edit, k.Delete},
		{k.Search, k.FacetAcct, k.FacetGroup, k.FacetSource, k.Organizer, k.Reload, k.Help, k.Quit},
	}
}
