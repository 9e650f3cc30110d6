package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tekkenfreya/gowater-hr-management-system-sub000/config"
	"github.com/tekkenfreya/gowater-hr-management-system-sub000/database"
)

var rootCmd = &cobra.Command{
	Use:   "hrms",
	Short: "HR attendance and leave service",
	Long: `hrms serves the attendance and leave API and carries the
maintenance commands that share its configuration.`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)
}

// open loads the config and connects; every subcommand starts here.
func open() (*config.Config, *gorm.DB, error) {
	cfg := config.Load()
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
