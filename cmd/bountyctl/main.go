// Command bountyctl is the operator CLI: schema migrations, fixture seeding
// and budget reconciliation reports.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"bounty-market/internal/config"
	"bounty-market/internal/database"
	"bounty-market/internal/repository"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "bountyctl",
	Short: "Operate the bounty marketplace database",
	Long: `bountyctl runs maintenance tasks against the database configured by the
same environment variables as the API server (DB_DRIVER, DB_HOST, ...).

Examples:
  bountyctl migrate --dir migrations   # AutoMigrate plus raw SQL files
  bountyctl seed fixtures/dev.yaml     # Create workspaces from a fixture
  bountyctl reconcile --json           # Report unbalanced budgets`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(reconcileCmd())
}

// connect loads config and opens the database
func connect() (*config.Config, *repository.Repository, error) {
	cfg, err := config.LoadTooling()
	if err != nil {
		return nil, nil, err
	}
	if err := database.Connect(cfg.Database.Driver, cfg.GetDSN()); err != nil {
		return nil, nil, err
	}
	return cfg, repository.NewRepository(database.GetDB()), nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(1)
	}
}
