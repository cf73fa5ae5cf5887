// Package group contains the commands acting on group chats.
package group

import (
	"github.com/spf13/cobra"
)

var GroupCmd = &cobra.Command{
	Use:   "group",
	Short: "Invoke actions on group chats",
}

func init() {
	GroupCmd.AddCommand(createGroupCmd)
	GroupCmd.AddCommand(listGroupsCmd)
}
