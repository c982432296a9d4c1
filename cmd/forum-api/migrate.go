package main

import (
	"context"

	"github.com/spf13/cobra"
)

var migrateDownSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations, or roll back with --down.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		deps, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = deps.Close(context.Background()) }()

		if migrateDownSteps > 0 {
			return deps.DB.MigrateDown(migrateDownSteps)
		}
		return deps.DB.Migrate()
	},
}
