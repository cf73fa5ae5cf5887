package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gregriff/rilmas/internal/dialogs"
	"github.com/gregriff/rilmas/internal/schemas"
)

var registerCmd = &cobra.Command{
	Use:   "register <phone>",
	Short: "Register a new user with this client",
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if s, ok := store.Get(); ok {
			return fmt.Errorf(
				"already signed in as %s, run `rilmas logout` first to register a new user (%s)",
				s.User.DisplayName(), store.Path(),
			)
		}
		return nil
	},
	RunE: registerUser,
}

func init() {
	rootCmd.AddCommand(registerCmd)

	registerCmd.Flags().String("code", "", "invite code of the user who invited you")
	registerCmd.Flags().String("nickname", schemas.DefaultNickname, "nickname shown to other players")
	registerCmd.Flags().String("avatar", dialogs.RegistrationAvatars[0], "emoji avatar")
	_ = viper.BindPFlag("register.code", registerCmd.Flags().Lookup("code"))
	_ = viper.BindPFlag("register.nickname", registerCmd.Flags().Lookup("nickname"))
	_ = viper.BindPFlag("register.avatar", registerCmd.Flags().Lookup("avatar"))
}

func registerUser(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	reg := dialogs.NewRegistration(viper.GetString("register.code"), func(u schemas.User) {
		cmd.Printf("Now registered as %s %s (id %d)\n", u.Avatar.Glyph(), u.DisplayName(), u.ID)
		if u.InviteCode != "" {
			cmd.Printf("Your invite code: %s\n", u.InviteCode)
		}
	})
	reg.SetPhone(args[0])
	if err := reg.Continue(); err != nil {
		return err
	}
	reg.SetNickname(viper.GetString("register.nickname"))
	reg.ChooseAvatar(viper.GetString("register.avatar"))

	return reg.Complete(cmd.Context(), newClient(), store)
}
