package main

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	seedLogin    string
	seedPassword string
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the administrator account if it does not exist.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		deps, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = deps.Close(context.Background()) }()

		if seedLogin != "" {
			deps.Config.Admin.Login = seedLogin
		}
		if seedPassword != "" {
			deps.Config.Admin.Password = seedPassword
		}
		return deps.SeedAdmin(cmd.Context())
	},
}
