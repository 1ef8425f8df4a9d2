package cli

import (
	"fmt"
	"strings"
	"time"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"tracker-cli/internal/model"
)

func newHistoryCmd(app *App) *cobra.Command {
	var showItems bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent transcripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			transcripts, err := app.client.ListTranscripts(cmd.Context())
			if err != nil {
				return err
			}

			if !useTable(cmd, app) {
				return writeJSON(cmd, app, transcripts)
			}

			if len(transcripts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No transcripts yet")
				return nil
			}

			now := time.Now()
			rows := make([][]string, 0, len(transcripts))
			for _, t := range transcripts {
				rows = append(rows, []string{
					t.ID,
					t.CreatedAt.Local().Format("2006-01-02 15:04"),
					fmt.Sprintf("%d", len(t.ActionItems)),
					fmt.Sprintf("%d%%", model.CompletionPercent(t.ActionItems)),
					excerpt(t.Content, 60),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "CREATED", "ITEMS", "DONE", "EXCERPT"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))

			if showItems {
				for _, t := range transcripts {
					fmt.Fprintf(cmd.OutOrStdout(), "\n%s · %s\n%s\n",
						t.ID, timeAgoLabel(t.CreatedAt, now), itemsTable(t.ActionItems))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showItems, "items", false, "Also print each transcript's action items")
	return cmd
}

func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	return xansi.Truncate(s, n, "…")
}

func timeAgoLabel(t, now time.Time) string {
	mins := int(now.Sub(t).Minutes())
	switch {
	case mins < 1:
		return "just now"
	case mins < 60:
		return fmt.Sprintf("%dm ago", mins)
	case mins < 24*60:
		return fmt.Sprintf("%dh ago", mins/60)
	default:
		return fmt.Sprintf("%dd ago", mins/(24*60))
	}
}
