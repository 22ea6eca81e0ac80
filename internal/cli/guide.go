package cli

import (
	"fmt"

	"docdesk/internal/guide"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newGuideCmd(app *App) *cobra.Command {
	var raw bool
	var render bool

	cmd := &cobra.Command{
		Use:   "guide [topic]",
		Short: "Show short usage guides (selection, drag-and-drop, search, access)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				var topics []map[string]any
				for _, t := range guide.Topics() {
					topics = append(topics, map[string]any{"topic": t, "title": guide.Title(t)})
				}
				return writeOut(cmd, app, topics)
			}

			topic := args[0]
			body, ok := guide.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown guide topic: %q (run `docdesk guide` to list topics)", topic))
			}

			switch {
			case render:
				out, err := glamour.Render(body, "auto")
				if err != nil {
					return writeErr(cmd, err)
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			case raw:
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			return writeOut(cmd, app, map[string]any{"topic": topic, "markdown": body})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no JSON envelope)")
	cmd.Flags().BoolVar(&render, "render", false, "Render markdown for the terminal")

	return cmd
}
