package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newCmdInvoke(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "invoke [FILE|-]",
		Short: "Run the handler on one event read from FILE or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				event []byte
				err   error
			)
			if len(args) == 0 || args[0] == "-" {
				event, err = io.ReadAll(cmd.InOrStdin())
			} else {
				event, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read event: %w", err)
			}
			return invokeAndPrint(cmd, s, event)
		},
	}
}

func newCmdGet(s *session) *cobra.Command {
	var username, email string
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Read a workspace status via a direct get invocation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			event, err := json.Marshal(map[string]string{
				"action":                "get",
				"requesterUsername":     username,
				"requesterEmailAddress": email,
			})
			if err != nil {
				return err
			}
			return invokeAndPrint(cmd, s, event)
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Requester username")
	cmd.Flags().StringVar(&email, "email", "", "Requester email address")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func invokeAndPrint(cmd *cobra.Command, s *session, event []byte) error {
	resp, err := s.app.Handler.Handle(cmd.Context(), event)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
