package main

import (
	"fmt"
	"os"

	"bounty-market/internal/seed"
	"bounty-market/internal/services"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <fixture.yaml>",
		Short: "Create workspaces, members, deposits and bounties from a YAML fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			fixture, err := seed.Parse(f)
			if err != nil {
				return err
			}

			cfg, repo, err := connect()
			if err != nil {
				return err
			}

			created, err := seed.Apply(cmd.Context(), fixture,
				services.NewWorkspaceService(repo),
				services.NewBountyService(repo, services.BountyOptions{ReserveOnPublish: cfg.App.ReserveOnPublish}),
			)
			if err != nil {
				return err
			}

			if viper.GetBool("json") {
				return printJSON(created)
			}
			for _, ws := range created {
				fmt.Printf("%s\t%s\n", ws.ID, ws.Name)
			}
			return nil
		},
	}
}
