package cli

import (
	"github.com/spf13/cobra"

	"github.com/tekkenfreya/gowater-hr-management-system-sub000/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := open()
		if err != nil {
			return err
		}
		return database.Migrate(db)
	},
}
