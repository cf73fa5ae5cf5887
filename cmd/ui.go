package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gregriff/rilmas/configs"
	"github.com/gregriff/rilmas/internal/logx"
	"github.com/gregriff/rilmas/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive messenger",
	Args:  cobra.NoArgs,
	RunE:  runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)

	uiCmd.Flags().String("invite", "", "prefill the invite code on the registration screen")
	_ = viper.BindPFlag("ui.invite", uiCmd.Flags().Lookup("invite"))
}

func runUI(cmd *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	// the terminal belongs to the UI, so logs go to a file
	logPath, err := configs.LogFile()
	if err != nil {
		return fmt.Errorf("resolving log file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	logx.Init(viper.GetBool("debug"), logFile)

	return tui.Run(cmd.Context(), newClient(), store, viper.GetString("ui.invite"))
}
