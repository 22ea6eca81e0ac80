package cli

import (
	"strconv"

	"docdesk/internal/access"
	"docdesk/internal/model"
	"docdesk/internal/tile"

	"github.com/spf13/cobra"
)

type noteList []model.Note

func (l noteList) Columns() []string { return []string{"page", "title", "access", "content"} }

func (l noteList) Rows() [][]string {
	out := make([][]string, 0, len(l))
	for _, n := range l {
		out = append(out, []string{strconv.Itoa(n.Page), n.Title, access.Name(n.Access), tile.StripTags(n.Content)})
	}
	return out
}

type entityList []model.PageEntity

func (l entityList) Columns() []string { return []string{"kind", "value", "pages"} }

func (l entityList) Rows() [][]string {
	out := make([][]string, 0, len(l))
	for _, e := range l {
		pages := ""
		for i, o := range e.Occurrences {
			if i > 0 {
				pages += ","
			}
			pages += strconv.Itoa(o.Page)
		}
		out = append(out, []string{e.Kind, e.Value, pages})
	}
	return out
}

func newNotesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Notes and entities on a document",
	}
	cmd.AddCommand(newNotesListCmd(app))
	cmd.AddCommand(newNotesEntitiesCmd(app))
	return cmd
}

func newNotesListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <doc-id>",
		Short: "List a document's notes by page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			notes, err := s.FetchNotes(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, noteList(notes))
		},
	}
	return cmd
}

func newNotesEntitiesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entities <doc-id>",
		Short: "List the entities found in a document and their pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ents, err := s.FetchPages(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, entityList(ents))
		},
	}
	return cmd
}
