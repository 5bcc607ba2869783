package cmd

import (
	"fmt"

	"github.com/jmehdipour/custdir/internal/config"
	"github.com/jmehdipour/custdir/internal/db"
	"github.com/jmehdipour/custdir/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the customers table if it does not exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath, "")
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		if _, err := logger.Init(cfg.Log.Level, cfg.Log.Encoding); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() { _ = logger.Log.Sync() }()

		sqlDB, err := db.NewMySQLConnection(db.MySQLDSN(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName), mysqlOpts(cfg))
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer sqlDB.Close()

		applied, err := db.Migrate(cmd.Context(), sqlDB)
		if err != nil {
			return err
		}
		for _, name := range applied {
			logger.Log.Info("migration applied", zap.String("file", name))
		}
		cmd.Println(">> Migration complete")
		return nil
	},
}
