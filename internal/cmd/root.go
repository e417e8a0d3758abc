package cmd

import (
	"os"

	"storefront/internal/config"
	"storefront/internal/infra/db"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	configFile string
	envFile    string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront - catalog, cart and order service",
	Long: `Storefront serves the catalog, visitor carts and order placement over HTTP.

Operator commands create the schema, import a catalog fixture, register
customers and issue development tokens.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		//.envは無くてもよい
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "load %s", envFile)
		}

		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Errorf("%+v", err)
		os.Exit(1)
	}
}

// DB接続（必要ならスキーマも作る）
func openDB(migrate bool) (*gorm.DB, error) {
	gormDB, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := db.Migrate(gormDB); err != nil {
			return nil, err
		}
	}
	return gormDB, nil
}

func closeDB(gormDB *gorm.DB) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warnf("close db: %v", err)
	}
}
