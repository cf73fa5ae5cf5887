package cmd

import (
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gregriff/rilmas/internal/chat"
	"github.com/gregriff/rilmas/internal/schemas"
)

var chatsCmd = &cobra.Command{
	Use:   "chats",
	Short: "List your conversations",
	Args:  cobra.NoArgs,
	RunE:  listChats,
}

func init() {
	rootCmd.AddCommand(chatsCmd)

	chatsCmd.Flags().StringP("search", "s", "", "only show conversations whose name contains this text")
	_ = viper.BindPFlag("chats.search", chatsCmd.Flags().Lookup("search"))
}

func listChats(cmd *cobra.Command, _ []string) error {
	_, s, err := currentSession()
	if err != nil {
		return err
	}

	convs, err := newClient().ListConversations(cmd.Context(), s.User.ID, s.Token)
	if err != nil {
		return err
	}
	m := chat.NewModel()
	m.SetConversations(convs)
	found := slices.Collect(m.Search(viper.GetString("chats.search")).Conversations())
	if len(found) == 0 {
		cmd.Println("No conversations")
		return nil
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("ID", "", "NAME", "LAST MESSAGE", "UNREAD")
	for _, c := range found {
		name := c.Name
		if c.Kind == schemas.DirectChat && c.Online {
			name += " •"
		}
		unread := ""
		if c.Unread > 0 {
			unread = strconv.Itoa(c.Unread)
		}
		t.Row(strconv.FormatInt(c.ID, 10), c.Avatar.Glyph(), name, c.LastMessage, unread)
	}
	cmd.Println(t.Render())
	return nil
}
