package group

import (
	"github.com/spf13/cobra"

	"github.com/gregriff/rilmas/configs"
	"github.com/gregriff/rilmas/internal/schemas"
	"github.com/gregriff/rilmas/internal/services/rilmas"
)

var listGroupsCmd = &cobra.Command{
	Use:   "list",
	Short: "List the groups you are a member of",
	Args:  cobra.NoArgs,
	RunE:  listGroups,
}

func listGroups(cmd *cobra.Command, _ []string) error {
	_, s, err := configs.CurrentSession()
	if err != nil {
		return err
	}
	convs, err := rilmas.NewClient(configs.Endpoints()).ListConversations(cmd.Context(), s.User.ID, s.Token)
	if err != nil {
		return err
	}

	n := 0
	for _, c := range convs {
		if c.Kind != schemas.GroupChat {
			continue
		}
		n++
		cmd.Printf("%d\t%s %s\n", c.ID, c.Avatar.Glyph(), c.Name)
	}
	if n == 0 {
		cmd.Println("No groups yet, create one with `rilmas group create <name>`")
	}
	return nil
}
