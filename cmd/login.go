package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gregriff/rilmas/internal/dialogs"
)

var loginCmd = &cobra.Command{
	Use:   "login <phone>",
	Short: "Sign in with an already registered phone number",
	Args:  cobra.ExactArgs(1),
	RunE:  loginUser,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session and profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		cmd.Println("Signed out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func loginUser(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	var login dialogs.Login
	user, err := login.Submit(cmd.Context(), args[0], newClient(), store)
	if err != nil {
		return err
	}
	cmd.Printf("Signed in as %s %s (id %d)\n", user.Avatar.Glyph(), user.DisplayName(), user.ID)
	return nil
}
