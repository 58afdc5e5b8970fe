package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"finwise/internal/config"
	"finwise/internal/database"
	"finwise/internal/logger"
	"finwise/internal/services"
)

// openDB connects to the configured database. Tests swap it for sqlite.
var openDB = func(cfg *config.Config) (*gorm.DB, func(), error) {
	manager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return nil, nil, err
	}
	return manager.DB(), func() {
		if err := manager.Close(); err != nil {
			logger.Get().Warnf("database close error: %v", err)
		}
	}, nil
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "finwisectl",
		Short: "Operator tooling for the finwise API",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newRemindersCommand())
	rootCmd.AddCommand(newNotifyCommand())

	return rootCmd
}

// withNotificationService loads config, opens the database and hands fn a
// notification engine configured like the API server's.
func withNotificationService(fn func(services.NotificationServicer) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, closeDB, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeDB()

	return fn(services.NewNotificationService(db, cfg.BudgetAlertThresholds, cfg.ReminderLeadDays))
}
