package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"resumerag/internal/config"
	"resumerag/internal/domain"
	"resumerag/internal/storage/sqlite"
)

var registerCmd = &cobra.Command{
	Use:   "register <id> <name> <email>",
	Short: "Add or update a candidate in the directory",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		store, err := sqlite.New(cfg.DataDir)
		if err != nil {
			return err
		}
		defer store.Close()

		c := domain.Candidate{ID: args[0], Name: args[1], Email: args[2]}
		if err := store.UpsertCandidate(cmd.Context(), c); err != nil {
			return err
		}
		fmt.Printf("registered %s <%s> as %s\n", c.Name, c.Email, c.ID)
		return nil
	},
}
