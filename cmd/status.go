package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gregriff/rilmas/internal/logx"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the signed in user and unread notifications",
	Args:  cobra.NoArgs,
	RunE:  getStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func getStatus(cmd *cobra.Command, _ []string) error {
	store, s, err := currentSession()
	if err != nil {
		return err
	}

	profile, _ := store.Profile()
	cmd.Printf("%s %s (id %d)\n", profile.Avatar.Glyph(), profile.Nickname, s.User.ID)
	if s.User.Phone != "" {
		cmd.Printf("Phone: %s\n", s.User.Phone)
	}
	if s.User.InviteCode != "" {
		cmd.Printf("Invite code: %s\n", s.User.InviteCode)
	}

	notifications, err := newClient().ListNotifications(cmd.Context(), s.Token)
	if err != nil {
		logx.Warn("could not fetch notifications", "error", err.Error())
		return nil
	}
	unread := 0
	for _, n := range notifications {
		if n.Read {
			continue
		}
		unread++
		cmd.Printf("  • %s: %s\n", n.Title, n.Message)
	}
	if unread == 0 {
		cmd.Println("No new notifications")
	}
	return nil
}
