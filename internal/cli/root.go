package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"tracker-cli/internal/api"
	"tracker-cli/internal/config"
	"tracker-cli/internal/format"
	"tracker-cli/internal/logging"
	"tracker-cli/internal/tui"
)

// App carries the resolved configuration and the shared backend client for
// every subcommand.
type App struct {
	APIURL     string
	JSON       bool
	PrettyJSON bool
	Debug      bool

	cfg    *config.Config
	client *api.Client
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "tracker",
		Short:        "Meeting transcript action-item tracker",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  tracker

  # Scriptable commands
  tracker submit notes.txt
  tracker history
  tracker items done <item-id>
  tracker status
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
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if app.APIURL != "" {
			cfg.APIURL = app.APIURL
		}
		app.cfg = cfg
		app.client = api.New(cfg.APIURL, cfg.HTTPTimeout, logging.NewCLI(app.Debug))
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", "", "Backend origin (default: TRACKER_API_URL or the hosted backend)")
	cmd.PersistentFlags().BoolVar(&app.JSON, "json", false, "Force JSON output even on a terminal")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Debug logging to stderr")

	cmd.AddCommand(newSubmitCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newStatusCmd(app))

	return cmd
}

func runTUI(app *App) error {
	// The TUI owns the terminal; logs go to a file or nowhere.
	log := logging.Nop()
	if app.cfg.DebugLog != "" {
		l, closer, err := logging.NewFile(app.cfg.DebugLog)
		if err != nil {
			return err
		}
		defer closer.Close()
		log = l
	}
	client := api.New(app.cfg.APIURL, app.cfg.HTTPTimeout, log)
	return tui.Run(client, log, app.cfg.Theme)
}

func writeJSON(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}
