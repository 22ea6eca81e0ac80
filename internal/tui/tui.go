package tui

import (
	"docdesk/internal/model"
	"docdesk/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// Options wires the TUI to a loaded workspace. Account may be nil, in which
// case only public documents are listed and nothing is editable.
type Options struct {
	Store   store.Store
	DB      *store.DB
	Account *model.Account
	Config  *store.GlobalConfig
	Logger  zerolog.Logger
}

func Run(opts Options) error {
	applyThemePreference()
	applyColorProfilePreference(opts.Config)
	applyGlyphPreference(opts.Config)

	m := newAppModel(opts)
	opts.Logger.Info().Str("dir", opts.Store.Dir).Int("documents", m.coll.Len()).Msg("tui start")

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if fm, ok := final.(appModel); ok {
		if serr := fm.saveState(); serr != nil {
			opts.Logger.Warn().Err(serr).Msg("save tui state")
		}
		fm.closeViews()
	}
	return err
}
