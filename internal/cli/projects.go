package cli

import (
	"strconv"

	"docdesk/internal/model"
	"docdesk/internal/store"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"
)

type projectList []model.Project

func (l projectList) Columns() []string { return []string{"id", "title", "documents"} }

func (l projectList) Rows() [][]string {
	out := make([][]string, 0, len(l))
	for _, p := range l {
		out = append(out, []string{p.ID, p.Title, strconv.Itoa(len(p.DocumentIDs))})
	}
	return out
}

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Project commands",
	}
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsCreateCmd(app))
	cmd.AddCommand(newProjectsAddCmd(app))
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, projectList(db.Projects))
		},
	}
	return cmd
}

func newProjectsCreateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			acct, err := currentAccount(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := s.CreateProject(cmd.Context(), args[0], acct.ID)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.log.Logger.Info().Str("project", p.ID).Str("title", p.Title).Msg("project created")
			return writeOut(cmd, app, p)
		},
	}
	return cmd
}

func newProjectsAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <project-id> <doc-id>...",
		Short: "File documents under a project (ids already there are skipped)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			n, err := s.AddDocuments(cmd.Context(), args[0], args[1:])
			if err != nil {
				return writeErr(cmd, err)
			}
			db, err := s.Load()
			if err != nil {
				return writeErr(cmd, err)
			}
			p, ok := db.FindProject(args[0])
			if !ok {
				return writeErr(cmd, store.NotFoundError{Kind: "project", ID: args[0]})
			}
			app.log.Logger.Info().Str("project", p.ID).Int("added", n).Msg("documents filed")
			return writeOut(cmd, app, map[string]any{
				"added":   n,
				"message": "Added " + english.Plural(n, "document", "") + " to " + p.Title,
				"project": p,
			})
		},
	}
	return cmd
}
