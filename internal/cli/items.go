package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"tracker-cli/internal/api"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Create, update and delete action items",
	}
	cmd.AddCommand(newItemsAddCmd(app))
	cmd.AddCommand(newItemsDoneCmd(app))
	cmd.AddCommand(newItemsUndoneCmd(app))
	cmd.AddCommand(newItemsEditCmd(app))
	cmd.AddCommand(newItemsDeleteCmd(app))
	return cmd
}

func newItemsAddCmd(app *App) *cobra.Command {
	var owner, due, tags, transcript string

	cmd := &cobra.Command{
		Use:   "add <task>",
		Short: "Add an action item to a transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if transcript == "" {
				return errors.New("--transcript is required")
			}
			item, err := app.client.CreateItem(cmd.Context(), api.NewItem{
				Task:         args[0],
				Owner:        owner,
				DueDate:      due,
				Tags:         tags,
				TranscriptID: transcript,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd, app, item)
		},
	}
	cmd.Flags().StringVar(&transcript, "transcript", "", "Transcript id the item belongs to")
	cmd.Flags().StringVar(&owner, "owner", "", "Item owner")
	cmd.Flags().StringVar(&due, "due", "", "Due date")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags")
	return cmd
}

func newItemsDoneCmd(app *App) *cobra.Command {
	return newItemsSetDoneCmd(app, "done", "Mark an action item done", true)
}

func newItemsUndoneCmd(app *App) *cobra.Command {
	return newItemsSetDoneCmd(app, "undone", "Mark an action item not done", false)
}

func newItemsSetDoneCmd(app *App, use, short string, done bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <item-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := app.client.UpdateItem(cmd.Context(), args[0], api.ItemPatch{Done: &done})
			if err != nil {
				return err
			}
			return writeJSON(cmd, app, item)
		},
	}
}

func newItemsEditCmd(app *App) *cobra.Command {
	var task, owner, due, tags string

	cmd := &cobra.Command{
		Use:   "edit <item-id>",
		Short: "Update fields of an action item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch api.ItemPatch
			if cmd.Flags().Changed("task") {
				patch.Task = &task
			}
			if cmd.Flags().Changed("owner") {
				patch.Owner = &owner
			}
			if cmd.Flags().Changed("due") {
				patch.DueDate = &due
			}
			if cmd.Flags().Changed("tags") {
				patch.Tags = &tags
			}
			if patch.Empty() {
				return errors.New("nothing to update; pass --task, --owner, --due or --tags")
			}
			item, err := app.client.UpdateItem(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			return writeJSON(cmd, app, item)
		},
	}
	cmd.Flags().StringVar(&task, "task", "", "Task description")
	cmd.Flags().StringVar(&owner, "owner", "", "Item owner")
	cmd.Flags().StringVar(&due, "due", "", "Due date")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags")
	return cmd
}

func newItemsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete an action item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.client.DeleteItem(cmd.Context(), args[0]); err != nil {
				return err
			}
			return writeJSON(cmd, app, map[string]string{"deleted": args[0]})
		},
	}
}
