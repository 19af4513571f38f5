package main

import (
	"fmt"
	"os"

	"bounty-market/internal/services"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func reconcileCmd() *cobra.Command {
	var failOnDrift bool
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Report workspace budgets whose buckets do not add up",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, repo, err := connect()
			if err != nil {
				return err
			}

			discrepancies, err := services.NewWorkspaceService(repo).Reconcile(cmd.Context())
			if err != nil {
				return err
			}

			if viper.GetBool("json") {
				if err := printJSON(discrepancies); err != nil {
					return err
				}
			} else if len(discrepancies) == 0 {
				fmt.Println("All budgets balanced")
			} else {
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Workspace", "Total", "Available", "Reserved", "Paid", "Drift", "Reason"})
				for _, d := range discrepancies {
					tw.AppendRow(table.Row{d.WorkspaceID, d.Total, d.Available, d.Reserved, d.Paid, d.Drift, d.Reason})
				}
				tw.Render()
			}

			if failOnDrift && len(discrepancies) > 0 {
				return fmt.Errorf("%d budget(s) out of balance", len(discrepancies))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&failOnDrift, "fail", false, "exit non-zero when any budget is out of balance")
	return cmd
}
