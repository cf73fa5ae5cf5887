package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gregriff/rilmas/internal/schemas"
)

var sendCmd = &cobra.Command{
	Use:   "send <chat-id> [text...]",
	Short: "Send a text, media or sticker message",
	Long: `Arguments:
      chat-id    The conversation to post to (required)
      text       Message text, or the caption of a media message
	`,
	Args: cobra.MinimumNArgs(1),
	RunE: sendMessage,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().String("media", "", "send a media message with this url")
	sendCmd.Flags().Int64("sticker", 0, "send the sticker with this id")
	sendCmd.MarkFlagsMutuallyExclusive("media", "sticker")
	_ = viper.BindPFlag("send.media", sendCmd.Flags().Lookup("media"))
	_ = viper.BindPFlag("send.sticker", sendCmd.Flags().Lookup("sticker"))
}

func sendMessage(cmd *cobra.Command, args []string) error {
	chatID, err := parseChatID(args[0])
	if err != nil {
		return err
	}
	_, s, err := currentSession()
	if err != nil {
		return err
	}

	msg := schemas.Message{
		ChatID:   chatID,
		SenderID: s.User.ID,
		Type:     schemas.TextMessage,
		Content:  strings.Join(args[1:], " "),
	}
	switch {
	case viper.GetString("send.media") != "":
		msg.Type, msg.MediaURL = schemas.MediaMessage, viper.GetString("send.media")
	case viper.GetInt64("send.sticker") != 0:
		msg.Type, msg.StickerID, msg.Content = schemas.StickerMessage, viper.GetInt64("send.sticker"), ""
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	sent, err := newClient().SendMessage(cmd.Context(), msg, s.Token)
	if err != nil {
		return err
	}
	cmd.Printf("Sent message %d at %s\n", sent.MessageID, sent.CreatedAt)
	return nil
}
