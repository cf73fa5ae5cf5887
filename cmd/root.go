// Package cmd contains the CLI setup and commands exposed to the user
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gregriff/rilmas/cmd/group"
	"github.com/gregriff/rilmas/configs"
	"github.com/gregriff/rilmas/internal/logx"
	"github.com/gregriff/rilmas/internal/services/rilmas"
	"github.com/gregriff/rilmas/internal/session"
)

var ConfigFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "rilmas",
	Short:         "Terminal client for the rilmas gaming messenger",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// deferring this allows user to override config path with cli option
	cobra.OnInitialize(func() {
		if err := configs.InitConfig(ConfigFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		logx.Init(viper.GetBool("debug"), os.Stderr)
		logx.Debug("using config file", "path", ConfigFile)
	})

	defaultConfigFilePath := filepath.Join(configs.GetConfigDir(), "rilmas.toml")
	rootCmd.PersistentFlags().StringVar(&ConfigFile, "config", defaultConfigFilePath, "config file")

	rootCmd.PersistentFlags().String("auth-url", "", "Authentication endpoint")
	rootCmd.PersistentFlags().String("chats-url", "", "Chat endpoint")
	rootCmd.PersistentFlags().String("session-file", "", "Session file")
	rootCmd.PersistentFlags().Bool("debug", false, "Print debugging information")

	// expose to application via viper
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("session-file", rootCmd.PersistentFlags().Lookup("session-file"))
	_ = viper.BindPFlag("servers.auth-url", rootCmd.PersistentFlags().Lookup("auth-url"))
	_ = viper.BindPFlag("servers.chats-url", rootCmd.PersistentFlags().Lookup("chats-url"))

	rootCmd.AddCommand(group.GroupCmd)
}

func newClient() *rilmas.Client {
	return rilmas.NewClient(configs.Endpoints())
}

func openStore() (*session.Store, error) {
	return configs.OpenSession()
}

func currentSession() (*session.Store, session.Session, error) {
	return configs.CurrentSession()
}
