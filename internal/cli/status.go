package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tracker-cli/internal/model"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check backend service health",
		Long:  "Check backend service health. Exits non-zero when any subsystem is degraded.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := app.client.Status(cmd.Context())
			if err != nil {
				return err
			}

			if useTable(cmd, app) {
				rows := make([][]string, 0, len(model.StatusSubsystems))
				for _, k := range model.StatusSubsystems {
					rows = append(rows, []string{k, status[k]})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"SERVICE", "STATUS"},
					rows,
					[]columnAlignment{alignLeft, alignLeft},
				))
			} else if err := writeJSON(cmd, app, status); err != nil {
				return err
			}

			if !status.AllOperational() {
				return errors.New("some services are down")
			}
			return nil
		},
	}
}
