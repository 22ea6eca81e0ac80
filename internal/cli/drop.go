package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"docdesk/internal/dragdrop"
	"docdesk/internal/store"
	"docdesk/internal/workspace"

	"github.com/spf13/cobra"
)

type zoneSpec struct {
	ProjectID string `json:"projectId"`
	Top       int    `json:"top"`
	Left      int    `json:"left"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

type dropResult struct {
	ProjectID *string  `json:"projectId"`
	Documents []string `json:"documents"`
	Applied   bool     `json:"applied"`
	Added     int      `json:"added"`
}

// parseZones reads zones from inline JSON or, with a leading @, from a file.
func parseZones(raw string) ([]dragdrop.Zone, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "@") {
		b, err := os.ReadFile(strings.TrimPrefix(raw, "@"))
		if err != nil {
			return nil, err
		}
		raw = string(b)
	}
	var specs []zoneSpec
	if err := json.Unmarshal([]byte(raw), &specs); err != nil {
		return nil, fmt.Errorf("parse zones: %w", err)
	}
	zones := make([]dragdrop.Zone, 0, len(specs))
	for _, z := range specs {
		zones = append(zones, dragdrop.Zone{
			ProjectID: z.ProjectID,
			Rect:      dragdrop.Rect{Top: z.Top, Left: z.Left, Width: z.Width, Height: z.Height},
		})
	}
	return zones, nil
}

func newDropCmd(app *App) *cobra.Command {
	var (
		x, y     int
		zonesRaw string
		dragged  string
		selected []string
		apply    bool
	)

	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Resolve where a dragged document lands (and optionally file it)",
		Example: strings.TrimSpace(`
  docdesk drop --x 150 --y 150 --dragged doc-budget \
    --zones '[{"projectId":"p1","top":0,"left":0,"width":100,"height":100},
              {"projectId":"p2","top":100,"left":100,"width":100,"height":100}]'
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			zones, err := parseZones(zonesRaw)
			if err != nil {
				return writeErr(cmd, err)
			}
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			acct, _ := currentAccount(app, db)
			coll := collection(db, acct)

			d, ok := coll.Get(dragged)
			if !ok {
				return writeErr(cmd, store.NotFoundError{Kind: "document", ID: dragged})
			}
			var sel []*workspace.Document
			for _, id := range selected {
				sd, ok := coll.Get(strings.TrimSpace(id))
				if !ok {
					return writeErr(cmd, store.NotFoundError{Kind: "document", ID: id})
				}
				sel = append(sel, sd)
			}

			p := dragdrop.Point{X: x, Y: y}
			res := dropResult{Documents: []string{}}
			var a *dragdrop.Assignment
			if apply {
				counter := &countingAssigner{s: s}
				a, err = dragdrop.Drop(cmd.Context(), p, zones, d, sel, counter)
				if err != nil {
					return writeErr(cmd, err)
				}
				res.Applied = a != nil
				res.Added = counter.added
			} else {
				a = dragdrop.Resolve(p, zones, d, sel)
			}
			if a != nil {
				pid := a.ProjectID
				res.ProjectID = &pid
				res.Documents = a.IDs()
			}
			app.log.Logger.Debug().Int("x", x).Int("y", y).Interface("project", res.ProjectID).Msg("drop resolved")
			return writeOut(cmd, app, res)
		},
	}

	cmd.Flags().IntVar(&x, "x", 0, "Pointer x")
	cmd.Flags().IntVar(&y, "y", 0, "Pointer y")
	cmd.Flags().StringVar(&zonesRaw, "zones", "[]", "Drop zones as JSON (or @file)")
	cmd.Flags().StringVar(&dragged, "dragged", "", "Dragged document id")
	cmd.Flags().StringSliceVar(&selected, "selected", nil, "Current selection (document ids)")
	cmd.Flags().BoolVar(&apply, "apply", false, "Add the documents to the resolved project")
	_ = cmd.MarkFlagRequired("dragged")
	return cmd
}

type countingAssigner struct {
	s     dragdrop.Assigner
	added int
}

func (c *countingAssigner) AddDocuments(ctx context.Context, projectID string, ids []string) (int, error) {
	n, err := c.s.AddDocuments(ctx, projectID, ids)
	c.added += n
	return n, err
}
