package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/server"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		gormDB, err := openDB(serveMigrate)
		if err != nil {
			return err
		}
		defer closeDB(gormDB)

		e, err := server.New(cfg, gormDB)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Infof("listening on %s (db=%s env=%s)", cfg.Addr(), cfg.DB.Driver, cfg.GoEnv)
		return server.Start(ctx, e, cfg.Addr())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "run schema migration before serving")
	rootCmd.AddCommand(serveCmd)
}
