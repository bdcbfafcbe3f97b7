// Command wsdetails runs the workspace-details handler outside Lambda: as a
// local HTTP server, against single events, or to seed development stores.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wsdetails/internal/app"
	"wsdetails/internal/config"
	"wsdetails/internal/logging"
)

// session holds the App built by the root command for subcommands.
type session struct {
	app *app.App
}

func newRootCmd() *cobra.Command {
	s := &session{}
	cmd := &cobra.Command{
		Use:   "wsdetails",
		Short: "Workspace details handler tooling",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("store", "", "Store driver (dynamodb|sqlite|postgres|memory) (env WSDETAILS_STORE_DRIVER)")
	cmd.PersistentFlags().String("table", "", "Table name (env DETAILS_TABLE_NAME)")
	cmd.PersistentFlags().String("log-format", "", "Log format (json|text) (env WSDETAILS_LOG_FORMAT)")

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if v, _ := c.Flags().GetString("store"); v != "" {
			cfg.StoreDriver = v
		}
		if v, _ := c.Flags().GetString("table"); v != "" {
			cfg.TableName = v
		}
		if v, _ := c.Flags().GetString("log-format"); v != "" {
			cfg.LogFormat = v
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		a, err := app.New(c.Context(), cfg)
		if err != nil {
			return err
		}
		s.app = a
		c.SetContext(logging.WithLogger(c.Context(), a.Logger))
		return nil
	}
	cmd.PersistentPostRunE = func(*cobra.Command, []string) error {
		if s.app == nil {
			return nil
		}
		return s.app.Close()
	}

	cmd.AddCommand(newCmdServe(s))
	cmd.AddCommand(newCmdInvoke(s))
	cmd.AddCommand(newCmdGet(s))
	cmd.AddCommand(newCmdSeed(s))
	return cmd
}

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "wsdetails: %s\n", err)
		os.Exit(1)
	}
}
