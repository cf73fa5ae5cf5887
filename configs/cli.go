// Package configs contains the logic to obtain app configuration from a file or the environment
package configs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	_ "embed" // used to embed the default application config file.

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/gregriff/rilmas/internal/services/rilmas"
	"github.com/gregriff/rilmas/internal/session"
)

//go:embed rilmas.toml
var defaultConfigFile []byte

// InitConfig initializes the app config with Viper from the environment, a specified file, or a default file.
// A missing file is created from the embedded default.
func InitConfig(file string) error {
	if file == "" {
		panic("dev error, InitConfig should always be passed a valid config filepath")
	}
	viper.SetConfigType("toml")

	// allow env vars to override config file
	viper.SetEnvPrefix("rilmas")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
	viper.SetConfigFile(file)

	if _, err := os.Stat(file); err != nil {
		if err := viper.ReadConfig(bytes.NewBuffer(defaultConfigFile)); err != nil {
			return fmt.Errorf("error reading default embedded config file: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(file), 0o750); err != nil {
			return fmt.Errorf("error creating config dir: %w", err)
		}
		if err := os.WriteFile(file, defaultConfigFile, 0o600); err != nil {
			return fmt.Errorf("error writing default config: %w", err)
		}
		return nil
	}

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// GetConfigDir obtains the configuration directory in a cross-platform manner,
// always respecting the XDG_CONFIG_HOME env var, using standard defaults on all OS's,
// but overriding to ~/.config on macOS
func GetConfigDir() string {
	var xdgConfigHome string
	if runtime.GOOS == "darwin" && os.Getenv("XDG_CONFIG_HOME") == "" {
		home, _ := os.UserHomeDir()
		xdgConfigHome = filepath.Join(home, ".config") // override for mac
	} else {
		xdgConfigHome = xdg.ConfigHome
	}
	return filepath.Join(xdgConfigHome, "rilmas")
}

// Endpoints returns the two remote endpoint addresses from the config.
func Endpoints() rilmas.Endpoints {
	return rilmas.Endpoints{
		Auth:  viper.GetString("servers.auth-url"),
		Chats: viper.GetString("servers.chats-url"),
	}
}

// SessionFile returns the configured session file, or the XDG state default.
func SessionFile() (string, error) {
	if f := viper.GetString("session-file"); f != "" {
		return f, nil
	}
	return xdg.StateFile(filepath.Join("rilmas", "session.toml"))
}

// OpenSession loads the configured session file. A missing file yields an
// empty store.
func OpenSession() (*session.Store, error) {
	path, err := SessionFile()
	if err != nil {
		return nil, fmt.Errorf("resolving session file: %w", err)
	}
	store := session.NewStore(path)
	if err := store.Load(); err != nil {
		return nil, err
	}
	return store, nil
}

// ErrNotSignedIn is returned by CurrentSession when the store is empty.
var ErrNotSignedIn = errors.New("no session found, run `rilmas register` or `rilmas login` first")

// CurrentSession opens the session store and returns its session.
func CurrentSession() (*session.Store, session.Session, error) {
	store, err := OpenSession()
	if err != nil {
		return nil, session.Session{}, err
	}
	s, ok := store.Get()
	if !ok {
		return nil, session.Session{}, ErrNotSignedIn
	}
	return store, s, nil
}

// LogFile returns the file the interactive UI logs to.
func LogFile() (string, error) {
	return xdg.StateFile(filepath.Join("rilmas", "rilmas.log"))
}

// DatabaseFile returns the development server's sqlite path.
func DatabaseFile() (string, error) {
	if f := viper.GetString("server.database"); f != "" {
		return f, nil
	}
	return xdg.DataFile(filepath.Join("rilmas-server", "rilmas.sqlite"))
}
