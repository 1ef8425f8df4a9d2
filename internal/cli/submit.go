package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"tracker-cli/internal/model"
)

func newSubmitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit [file]",
		Short: "Submit a transcript for action-item extraction",
		Long: strings.TrimSpace(`
Submit meeting notes for extraction. Reads the transcript from the given file,
or from stdin when no file is passed.
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readTranscript(cmd, args)
			if err != nil {
				return err
			}
			trimmed := strings.TrimSpace(text)
			if trimmed == "" {
				return errors.New("transcript is empty")
			}
			if utf8.RuneCountInString(trimmed) < 20 {
				return errors.New("transcript is too short to process")
			}

			res, err := app.client.CreateTranscript(cmd.Context(), text)
			if err != nil {
				return err
			}

			if useTable(cmd, app) {
				fmt.Fprintf(cmd.OutOrStdout(), "Transcript %s: %d action items\n\n",
					res.TranscriptID, len(res.ActionItems))
				fmt.Fprintln(cmd.OutOrStdout(), itemsTable(res.ActionItems))
				return nil
			}
			return writeJSON(cmd, app, res)
		},
	}
	return cmd
}

func readTranscript(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading transcript: %w", err)
		}
		return string(b), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(b), nil
}

func itemsTable(items []model.ActionItem) string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		state := " "
		if it.Done {
			state = "x"
		}
		rows = append(rows, []string{
			it.ID, "[" + state + "]", it.Task, it.Owner, it.DueDate, it.Tags,
		})
	}
	return renderTable(
		[]string{"ID", "", "TASK", "OWNER", "DUE", "TAGS"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	)
}
