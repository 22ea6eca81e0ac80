package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"docdesk/internal/format"
	"docdesk/internal/logging"
	"docdesk/internal/model"
	"docdesk/internal/perm"
	"docdesk/internal/store"
	"docdesk/internal/tui"
	"docdesk/internal/viewer"
	"docdesk/internal/workspace"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	AccountID  string
	PrettyJSON bool
	Format     string
	LogPath    string
	LogLevel   string

	log *logging.Log
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "docdesk",
		Short:        "Document workspace: browse, select and file documents into projects",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  docdesk

  # Create a workspace with demo documents
  docdesk init --demo

  # Scriptable commands
  docdesk docs list --format table
  docdesk projects add proj-budget doc-minutes doc-contract

  # Direct document lookup (shortcut for: docdesk docs show <doc-id>)
  docdesk doc-budget
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Paths from DOCDESK_* variables never went through a shell.
		for _, p := range []*string{&app.Dir, &app.LogPath} {
			v, err := homedir.Expand(strings.TrimSpace(*p))
			if err != nil {
				return writeErr(cmd, err)
			}
			*p = v
		}
		l, err := logging.Open(app.LogPath, app.LogLevel)
		if err != nil {
			return writeErr(cmd, fmt.Errorf("open log: %w", err))
		}
		app.log = l
		app.log.Logger.Debug().Str("command", cmd.CommandPath()).Strs("args", args).Msg("run")
		return nil
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.log.Close()
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("DOCDESK_DIR", ""), "Path to workspace dir (default: nearest .docdesk, else ~/.docdesk/default)")
	cmd.PersistentFlags().StringVar(&app.AccountID, "account", envOr("DOCDESK_ACCOUNT", ""), "Account id to act as (overrides the workspace's current account)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("DOCDESK_FORMAT", "json"), "Output format ("+strings.Join(format.Formats(), "|")+")")
	cmd.PersistentFlags().StringVar(&app.LogPath, "log", envOr("DOCDESK_LOG", ""), "Append JSON logs to this file")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("DOCDESK_LOG_LEVEL", "info"), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newNotesCmd(app))
	cmd.AddCommand(newDropCmd(app))
	cmd.AddCommand(newGuideCmd(app))

	return cmd
}

func runTUI(app *App) error {
	db, s, err := loadDB(app)
	if err != nil {
		return err
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return err
	}
	acct, _ := currentAccount(app, db)
	return tui.Run(tui.Options{
		Store:   s,
		DB:      db,
		Account: acct,
		Config:  cfg,
		Logger:  app.log.Logger,
	})
}

func loadDB(app *App) (*store.DB, store.Store, error) {
	dir := strings.TrimSpace(app.Dir)
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return nil, store.Store{}, err
		}
		dir = d
		app.Dir = dir
	}

	s := store.Store{Dir: dir}
	db, err := s.Load()
	if err != nil {
		return nil, s, fmt.Errorf("load %s: %w", dir, err)
	}
	return db, s, nil
}

// currentAccount resolves --account, then the workspace's current account,
// then the global config.
func currentAccount(app *App, db *store.DB) (*model.Account, error) {
	id := strings.TrimSpace(app.AccountID)
	if id == "" {
		id = db.CurrentAccountID
	}
	if id == "" {
		if cfg, err := store.LoadConfig(); err == nil {
			id = cfg.CurrentAccountID
		}
	}
	if id == "" {
		return nil, errors.New("no current account; pass --account or run `docdesk init --demo`")
	}
	a, ok := db.FindAccount(id)
	if !ok {
		return nil, store.NotFoundError{Kind: "account", ID: id}
	}
	return a, nil
}

// collection builds the in-memory document collection with edit rights
// computed for acct (nil means read-only).
func collection(db *store.DB, acct *model.Account) *workspace.Collection {
	return workspace.New(db.Documents, func(d *model.Document) bool {
		return perm.CanEditDocument(acct, d)
	})
}

func viewerURLs() viewer.URLs {
	cfg, err := store.LoadConfig()
	if err != nil {
		return viewer.URLs{}
	}
	return viewer.URLs{Base: cfg.ViewerBase}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut wraps v in a {"data": ...} envelope, except for table output where
// the payload itself is rendered.
func writeOut(cmd *cobra.Command, app *App, v any) error {
	if app.Format == "table" {
		return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
	}
	return format.Write(cmd.OutOrStdout(), map[string]any{"data": v}, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	w := cmd.ErrOrStderr()
	prefix := color.New(color.FgRed, color.Bold)
	if w != os.Stderr {
		prefix.DisableColor()
	}
	_, _ = prefix.Fprint(w, "error: ")
	fmt.Fprintln(w, err.Error())
	return err
}
