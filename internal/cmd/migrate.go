package cmd

import (
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		gormDB, err := openDB(true)
		if err != nil {
			return err
		}
		defer closeDB(gormDB)

		log.Infof("schema migrated (db=%s)", cfg.DB.Driver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
