package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gregriff/rilmas/configs"
	"github.com/gregriff/rilmas/internal/server"
)

var errInvalidRate = errors.New("server.auth-rate and server.auth-burst must be positive")

// serveCmd runs the development backend.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local rilmas server backed by sqlite",
	Args:  cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if viper.GetFloat64("server.auth-rate") <= 0 || viper.GetInt("server.auth-burst") <= 0 {
			return errInvalidRate
		}
		return nil
	},
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "localhost", "address to listen on")
	serveCmd.Flags().Int("port", 8080, "port to listen on")
	serveCmd.Flags().String("database", "", "sqlite database file")
	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.database", serveCmd.Flags().Lookup("database"))
}

func runServer(cmd *cobra.Command, _ []string) error {
	database, err := configs.DatabaseFile()
	if err != nil {
		return err
	}

	return server.CreateAndListen(cmd.Context(), server.Config{
		Host:     viper.GetString("server.host"),
		Port:     viper.GetInt("server.port"),
		Database: database,
		Options: server.Options{
			AllowedOrigins: viper.GetStringSlice("server.allowed-origins"),
			AuthRate:       viper.GetFloat64("server.auth-rate"),
			AuthBurst:      viper.GetInt("server.auth-burst"),
		},
	})
}
