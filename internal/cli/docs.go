package cli

import (
	"fmt"
	"strconv"
	"strings"

	"docdesk/internal/access"
	"docdesk/internal/model"
	"docdesk/internal/perm"
	"docdesk/internal/search"
	"docdesk/internal/selection"
	"docdesk/internal/store"
	"docdesk/internal/tile"
	"docdesk/internal/viewer"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

type docRow struct {
	model.Document
	Editable bool `json:"editable"`
}

type docList []docRow

func (l docList) Columns() []string {
	return []string{"id", "title", "access", "notes", "pages", "owner", "created"}
}

func (l docList) Rows() [][]string {
	out := make([][]string, 0, len(l))
	for _, d := range l {
		out = append(out, []string{
			d.ID,
			d.Title,
			access.Name(d.Access),
			strconv.Itoa(d.AnnotationCount),
			strconv.Itoa(d.PageCount),
			d.AccountSlug,
			humanize.Time(d.CreatedAt),
		})
	}
	return out
}

func newDocsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Document commands",
	}
	cmd.AddCommand(newDocsListCmd(app))
	cmd.AddCommand(newDocsShowCmd(app))
	cmd.AddCommand(newDocsSelectCmd(app))
	cmd.AddCommand(newDocsAccessCmd(app))
	cmd.AddCommand(newDocsDeleteCmd(app))
	cmd.AddCommand(newDocsURLCmd(app))
	return cmd
}

func newDocsListCmd(app *App) *cobra.Command {
	var (
		query    string
		accounts []string
		groups   []string
		sources  []string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents (optionally filtered by a search query)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			acct, _ := currentAccount(app, db)

			q := query
			for _, a := range accounts {
				q = search.Append(q, search.Account(a))
			}
			for _, g := range groups {
				q = search.Append(q, search.Group(g))
			}
			for _, s := range sources {
				q = search.Append(q, search.Source(s))
			}
			parsed := search.Parse(q)

			out := docList{}
			for i := range db.Documents {
				d := &db.Documents[i]
				if acct != nil && !perm.CanView(acct, d) {
					continue
				}
				if !parsed.Match(d) {
					continue
				}
				out = append(out, docRow{Document: *d, Editable: perm.CanEditDocument(acct, d)})
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", `Search query, e.g. 'budget group: ledger source: "City Hall"'`)
	cmd.Flags().StringArrayVar(&accounts, "account-facet", nil, "Only documents uploaded by this account slug (repeatable)")
	cmd.Flags().StringArrayVar(&groups, "group", nil, "Only documents from this organization slug (repeatable)")
	cmd.Flags().StringArrayVar(&sources, "source", nil, "Only documents with this source (repeatable)")
	return cmd
}

type docDetail struct {
	Document    docRow         `json:"document"`
	Mode        tile.Mode      `json:"mode"`
	Icon        tile.IconAttrs `json:"icon"`
	Thumbnail   string         `json:"thumbnail"`
	Description string         `json:"description"`
	Created     string         `json:"created"`
	Projects    []string       `json:"projects"`
	URLs        docURLs        `json:"urls"`
}

type docURLs struct {
	Viewer    string `json:"viewer"`
	PDF       string `json:"pdf"`
	Text      string `json:"text"`
	Published string `json:"published,omitempty"`
}

func newDocsShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <doc-id>",
		Short: "Show a document with its tile state and URLs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			acct, _ := currentAccount(app, db)
			coll := collection(db, acct)
			d, ok := coll.Get(strings.TrimSpace(args[0]))
			if !ok {
				return writeErr(cmd, store.NotFoundError{Kind: "document", ID: args[0]})
			}

			projects := []string{}
			for _, p := range db.Projects {
				if p.HasDocument(d.ID) {
					projects = append(projects, p.ID)
				}
			}
			urls := viewerURLs()
			return writeOut(cmd, app, docDetail{
				Document:    docRow{Document: d.Document, Editable: d.Editable},
				Mode:        tile.Project(d, tile.InitialNotesState(d.AnnotationCount)),
				Icon:        tile.Icon(&d.Document, db.OrganizationName(d.OrganizationID)),
				Thumbnail:   tile.ThumbnailURL(&d.Document),
				Description: tile.Description(&d.Document),
				Created:     humanize.Time(d.CreatedAt),
				Projects:    projects,
				URLs: docURLs{
					Viewer:    urls.Viewer(&d.Document),
					PDF:       urls.PDF(&d.Document),
					Text:      urls.Text(&d.Document),
					Published: urls.Published(&d.Document),
				},
			})
		},
	}
	return cmd
}

type selectResult struct {
	Selected []string `json:"selected"`
	Anchor   string   `json:"anchor,omitempty"`
	Ignored  []string `json:"ignored,omitempty"`
}

func newDocsSelectCmd(app *App) *cobra.Command {
	var (
		toggle bool
		rng    bool
		saved  bool
	)

	cmd := &cobra.Command{
		Use:   "select <doc-id>...",
		Short: "Replay clicks on documents and print the resulting selection",
		Long: strings.TrimSpace(`
Each argument is one click, applied in order. --toggle and --range set the
modifier for every click; a single click can override it with a prefix:
"+doc-id" toggles and "..doc-id" extends a range from the anchor.

With --saved the clicks start from the selection the TUI last saved, and the
result is written back.`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			acct, _ := currentAccount(app, db)
			coll := collection(db, acct)

			var st *store.Session
			acctID := ""
			if acct != nil {
				acctID = acct.ID
			}
			if saved {
				st, err = s.LoadSession(acctID)
				if err != nil {
					return writeErr(cmd, err)
				}
				st.Prune(func(id string) bool {
					_, ok := db.FindDocument(id)
					return ok
				})
				coll.Batch(func() {
					for _, id := range st.SelectedIDs {
						if d, ok := coll.Get(id); ok && d.Selectable {
							coll.SetSelected(d, true)
						}
					}
				})
			}

			var ctl selection.Controller
			res := selectResult{}
			for _, arg := range args {
				id, mods := parseClick(arg, selection.Modifiers{Toggle: toggle, Range: rng})
				d, ok := coll.Get(id)
				if !ok || !d.Selectable {
					res.Ignored = append(res.Ignored, id)
					continue
				}
				ctl.Select(d, mods, coll)
			}

			res.Selected = []string{}
			for _, d := range coll.Selected() {
				res.Selected = append(res.Selected, d.ID)
			}
			if a := ctl.Anchor(coll); a != nil {
				res.Anchor = a.ID
			}

			if st != nil {
				st.SelectedIDs = res.Selected
				if err := s.SaveSession(acctID, st); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, res)
		},
	}

	cmd.Flags().BoolVar(&toggle, "toggle", false, "Toggle each clicked document (command/ctrl-click)")
	cmd.Flags().BoolVar(&rng, "range", false, "Extend from the anchor to each clicked document (shift-click)")
	cmd.Flags().BoolVar(&saved, "saved", false, "Start from and update the TUI's saved selection")
	return cmd
}

func parseClick(arg string, def selection.Modifiers) (string, selection.Modifiers) {
	arg = strings.TrimSpace(arg)
	switch {
	case strings.HasPrefix(arg, "+"):
		return strings.TrimPrefix(arg, "+"), selection.Modifiers{Toggle: true}
	case strings.HasPrefix(arg, ".."):
		return strings.TrimPrefix(arg, ".."), selection.Modifiers{Range: true}
	default:
		return arg, def
	}
}

func newDocsAccessCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "access <doc-id> <private|organization|public|next>",
		Short: "Change who can see a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			acct, err := currentAccount(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			d, ok := db.FindDocument(args[0])
			if !ok {
				return writeErr(cmd, store.NotFoundError{Kind: "document", ID: args[0]})
			}
			if !perm.CanEditDocument(acct, d) {
				return writeErr(cmd, errCannotEdit(acct.ID, d.ID))
			}

			var lvl access.Level
			if strings.EqualFold(strings.TrimSpace(args[1]), "next") {
				lvl = access.Next(d.Access)
			} else {
				lvl, err = access.Parse(args[1])
				if err != nil {
					return writeErr(cmd, err)
				}
				if !settable(lvl) {
					return writeErr(cmd, accessNotSettableError{level: lvl})
				}
			}

			updated, err := s.SetAccess(cmd.Context(), d.ID, lvl)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.log.Logger.Info().Str("doc", d.ID).Str("from", d.Access.String()).Str("to", lvl.String()).Msg("access changed")
			return writeOut(cmd, app, docRow{Document: *updated, Editable: true})
		},
	}
	return cmd
}

func settable(l access.Level) bool {
	for _, x := range access.Settable() {
		if x == l {
			return true
		}
	}
	return false
}

func newDocsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <doc-id>...",
		Short: "Delete documents with their notes and project memberships",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			acct, err := currentAccount(app, db)
			if err != nil {
				return writeErr(cmd, err)
			}
			for _, id := range args {
				d, ok := db.FindDocument(id)
				if !ok {
					return writeErr(cmd, store.NotFoundError{Kind: "document", ID: id})
				}
				if !perm.CanEditDocument(acct, d) {
					return writeErr(cmd, errCannotEdit(acct.ID, d.ID))
				}
			}
			n, err := s.DeleteDocuments(cmd.Context(), args)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.log.Logger.Info().Strs("docs", args).Int("deleted", n).Msg("documents deleted")
			return writeOut(cmd, app, map[string]any{"deleted": n})
		},
	}
	return cmd
}

func newDocsURLCmd(app *App) *cobra.Command {
	var (
		kind   string
		entity string
		page   int
		offset int
		launch bool
	)

	cmd := &cobra.Command{
		Use:   "url <doc-id>",
		Short: "Print (or open) a document's viewer URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			d, ok := db.FindDocument(args[0])
			if !ok {
				return writeErr(cmd, store.NotFoundError{Kind: "document", ID: args[0]})
			}
			urls := viewerURLs()
			var u string
			switch {
			case entity != "":
				u = urls.Entity(d, entity, page, offset)
			case kind == "pdf":
				u = urls.PDF(d)
			case kind == "text":
				u = urls.Text(d)
			case kind == "published":
				if !d.Published() {
					return writeErr(cmd, fmt.Errorf("document %s is not published", d.ID))
				}
				u = urls.Published(d)
			case kind == "" || kind == "viewer":
				u = urls.Viewer(d)
			default:
				return writeErr(cmd, fmt.Errorf("unknown url kind: %s", kind))
			}
			if launch {
				if err := openURL(u); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"url": u})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "viewer", "URL kind (viewer|pdf|text|published)")
	cmd.Flags().StringVar(&entity, "entity", "", "Link to an entity occurrence instead")
	cmd.Flags().IntVar(&page, "page", 1, "Entity page")
	cmd.Flags().IntVar(&offset, "offset", 0, "Entity offset")
	cmd.Flags().BoolVar(&launch, "open", false, "Open the URL in the system browser")
	return cmd
}

// openURL is swapped out in tests.
var openURL = viewer.Open
