package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gregriff/rilmas/internal/dialogs"
	"github.com/gregriff/rilmas/internal/schemas"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit your local profile",
	Long: `Without flags the current profile is printed. The profile is kept in the
session file next to the credentials.`,
	Args: cobra.NoArgs,
	RunE: editProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().String("nickname", "", "new nickname")
	profileCmd.Flags().String("emoji", "", "use this emoji as avatar")
	profileCmd.Flags().String("image", "", "use this http(s) image url or data uri as avatar")
	profileCmd.MarkFlagsMutuallyExclusive("emoji", "image")
}

func editProfile(cmd *cobra.Command, _ []string) error {
	store, _, err := currentSession()
	if err != nil {
		return err
	}
	current, _ := store.Profile()

	flags := cmd.Flags()
	if !flags.Changed("nickname") && !flags.Changed("emoji") && !flags.Changed("image") {
		printProfile(cmd, current)
		return nil
	}

	edit := dialogs.NewProfileEdit(current, func(p schemas.Profile) {
		if err = store.SetProfile(p); err == nil {
			printProfile(cmd, p)
		}
	})
	if flags.Changed("nickname") {
		nickname, _ := flags.GetString("nickname")
		edit.SetNickname(nickname)
	}
	if emoji, _ := flags.GetString("emoji"); emoji != "" {
		edit.ChooseEmoji(emoji)
	}
	if image, _ := flags.GetString("image"); image != "" {
		if err := edit.ChooseImage(image); err != nil {
			return err
		}
	}
	if _, saveErr := edit.Save(); saveErr != nil {
		return saveErr
	}
	return err
}

func printProfile(cmd *cobra.Command, p schemas.Profile) {
	cmd.Printf("%s %s\n", p.Avatar.Glyph(), p.Nickname)
	if ref, ok := p.Avatar.Image(); ok {
		cmd.Printf("Avatar image: %s\n", ref)
	}
}
