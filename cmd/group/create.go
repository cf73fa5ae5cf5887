package group

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gregriff/rilmas/configs"
	"github.com/gregriff/rilmas/internal/dialogs"
	"github.com/gregriff/rilmas/internal/services/rilmas"
)

var createGroupCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a group chat",
	Long: `Arguments:
      name    The name of the group (required)
	`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		icon := viper.GetString("group.icon")
		if icon != "" && !slices.Contains(dialogs.GroupIcons, icon) {
			return fmt.Errorf("unknown icon %q, choose one of %v", icon, dialogs.GroupIcons)
		}
		return nil
	},
	RunE: createGroup,
}

func init() {
	createGroupCmd.Flags().StringP("description", "d", "", "what the group is about")
	createGroupCmd.Flags().String("icon", "", "group icon")
	_ = viper.BindPFlag("group.description", createGroupCmd.Flags().Lookup("description"))
	_ = viper.BindPFlag("group.icon", createGroupCmd.Flags().Lookup("icon"))
}

func createGroup(cmd *cobra.Command, args []string) error {
	_, s, err := configs.CurrentSession()
	if err != nil {
		return err
	}
	client := rilmas.NewClient(configs.Endpoints())

	var reqErr error
	dialog := dialogs.NewGroupCreation(func(name, description, icon string) {
		var id int64
		id, reqErr = client.CreateGroup(cmd.Context(), name, icon, description, s.User.ID, s.Token)
		if reqErr == nil {
			cmd.Printf("Created group %s %s (id %d)\n", icon, name, id)
		}
	})
	dialog.Show()
	dialog.SetName(args[0])
	dialog.SetDescription(viper.GetString("group.description"))
	if icon := viper.GetString("group.icon"); icon != "" {
		dialog.ChooseIcon(icon)
	}
	if err := dialog.Create(); err != nil {
		return err
	}
	if reqErr != nil {
		return fmt.Errorf("error creating group: %w", reqErr)
	}
	return nil
}
