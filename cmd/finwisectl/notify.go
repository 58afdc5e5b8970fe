package main

import (
	"github.com/spf13/cobra"

	"finwise/internal/services"
)

func newNotifyCommand() *cobra.Command {
	var userID, title, message string

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send a SYSTEM notification to a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withNotificationService(func(svc services.NotificationServicer) error {
				n, err := svc.CreateSystemNotification(userID, title, message)
				if err != nil {
					return err
				}
				cmd.Printf("Created notification %s\n", n.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Recipient user ID")
	cmd.Flags().StringVar(&title, "title", "", "Notification title (max 100 characters)")
	cmd.Flags().StringVar(&message, "message", "", "Notification body")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}
