package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gregriff/rilmas/internal/schemas"
)

var messagesCmd = &cobra.Command{
	Use:   "messages <chat-id>",
	Short: "Print the most recent messages of a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  listMessages,
}

func init() {
	rootCmd.AddCommand(messagesCmd)

	messagesCmd.Flags().IntP("limit", "n", 50, "number of messages to fetch")
	_ = viper.BindPFlag("messages.limit", messagesCmd.Flags().Lookup("limit"))
}

func parseChatID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid chat id %q", arg)
	}
	return id, nil
}

func listMessages(cmd *cobra.Command, args []string) error {
	chatID, err := parseChatID(args[0])
	if err != nil {
		return err
	}
	_, s, err := currentSession()
	if err != nil {
		return err
	}

	msgs, err := newClient().ListMessages(cmd.Context(), chatID, s.Token, viper.GetInt("messages.limit"))
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		cmd.Println("No messages yet")
		return nil
	}
	for _, msg := range msgs {
		cmd.Println(formatMessage(msg, s.User.ID))
	}
	return nil
}

func formatMessage(msg schemas.Message, self int64) string {
	sender := msg.Sender
	if msg.FromSelf(self) {
		sender = "you"
	}
	body := msg.Preview()
	if msg.Type == schemas.MediaMessage {
		body = fmt.Sprintf("%s <%s>", body, msg.MediaURL)
	}
	return fmt.Sprintf("[%s] %s: %s", msg.Time, sender, body)
}
