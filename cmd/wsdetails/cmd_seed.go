package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wsdetails/internal/workspace"
)

func newCmdSeed(s *session) *cobra.Command {
	var rec workspace.Record
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a workspace record for local development",
		RunE: func(cmd *cobra.Command, _ []string) error {
			seeder, ok := s.app.Store.Seeder()
			if !ok {
				return fmt.Errorf("store %s does not support seeding", s.app.Store.Driver)
			}
			if err := seeder.Seed(cmd.Context(), rec); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %s/%s (%s)\n", rec.Username, rec.Email, rec.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&rec.Username, "username", "", "Requester username")
	cmd.Flags().StringVar(&rec.Email, "email", "", "Requester email address")
	cmd.Flags().StringVar(&rec.Status, "status", workspace.StatusRequested, "Initial status")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
