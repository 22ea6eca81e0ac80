package cli

import (
	"path/filepath"
	"time"

	"docdesk/internal/store"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	var demo bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a workspace (optionally with demo documents)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if demo {
				if len(db.Documents) > 0 {
					return writeErr(cmd, errWorkspaceNotEmpty(s.Dir))
				}
				db = store.Seed(time.Now())
			}
			if err := s.Save(db); err != nil {
				return writeErr(cmd, err)
			}

			// Remember who we are if nothing else does yet.
			if db.CurrentAccountID != "" {
				if cfg, err := store.LoadConfig(); err == nil && cfg.CurrentAccountID == "" {
					cfg.CurrentAccountID = db.CurrentAccountID
					_ = store.SaveConfig(cfg)
				}
			}
			app.log.Logger.Info().Str("dir", s.Dir).Bool("demo", demo).Int("documents", len(db.Documents)).Msg("workspace initialized")

			return writeOut(cmd, app, map[string]any{
				"dir":        s.Dir,
				"sqlitePath": filepath.Join(s.Dir, "index.sqlite"),
				"documents":  len(db.Documents),
				"projects":   len(db.Projects),
			})
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "Seed the workspace with demo accounts, documents and projects")
	return cmd
}
