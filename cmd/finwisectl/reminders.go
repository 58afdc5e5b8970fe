package main

import (
	"time"

	"github.com/spf13/cobra"

	"finwise/internal/services"
)

func newRemindersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Reminder maintenance",
	}

	var at string
	process := &cobra.Command{
		Use:   "process",
		Short: "Create BILL_DUE notifications for due reminders",
		Long: `Scan active reminders that are due (allowing for REMINDER_LEAD_DAYS),
notify their owners once per due date and advance recurring reminders.
Run it from cron; repeated runs on the same day are safe.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			if at != "" {
				parsed, err := time.Parse("2006-01-02", at)
				if err != nil {
					return err
				}
				now = parsed
			}
			return withNotificationService(func(svc services.NotificationServicer) error {
				created, err := svc.ProcessDueReminders(now)
				cmd.Printf("Created %d reminder notification(s)\n", created)
				return err
			})
		},
	}
	process.Flags().StringVar(&at, "at", "", "Evaluate as of this date (YYYY-MM-DD) instead of today")
	cmd.AddCommand(process)

	return cmd
}
