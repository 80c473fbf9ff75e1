package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"zmctl/internal/client"
)

const (
	KeyHost          = "host"
	KeyUser          = "user"
	KeyPassword      = "password"
	KeyAuthMode      = "auth_mode"
	KeyConnectionKey = "connection_key"
	KeyInsecure      = "insecure"

	defaultName = ".zmctl"
	envPrefix   = "ZM"
)

// Settings is everything a command needs to reach the server.
type Settings struct {
	Host          string
	User          string
	Password      string
	AuthMode      string
	ConnectionKey string
	Insecure      bool
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) error {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		// Search config in home directory with name ".zmctl" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(defaultName)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.BindEnv(KeyConnectionKey, "ZM_CONNKEY"); err != nil {
		return err
	}

	if err := viper.ReadInConfig(); err != nil {
		// A missing file is fine: flags and environment may carry everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config %s: %w", viper.ConfigFileUsed(), err)
	}
	return nil
}

// Load returns the settings merged from file and environment.
func Load() Settings {
	return Settings{
		Host:          viper.GetString(KeyHost),
		User:          viper.GetString(KeyUser),
		Password:      viper.GetString(KeyPassword),
		AuthMode:      viper.GetString(KeyAuthMode),
		ConnectionKey: viper.GetString(KeyConnectionKey),
		Insecure:      viper.GetBool(KeyInsecure),
	}
}

// ClientConfig maps the settings onto the API client configuration.
func (s Settings) ClientConfig(logger *zerolog.Logger) client.ClientConfig {
	return client.ClientConfig{
		Host:          s.Host,
		User:          s.User,
		Password:      s.Password,
		AuthMode:      client.AuthMode(s.AuthMode),
		ConnectionKey: s.ConnectionKey,
		Insecure:      s.Insecure,
		Logger:        logger,
	}
}

// SaveCredentials writes the connection settings to the config file and
// restricts it to the owner, since it holds a password.
func SaveCredentials(s Settings) (string, error) {
	viper.Set(KeyHost, s.Host)
	viper.Set(KeyUser, s.User)
	viper.Set(KeyPassword, s.Password)
	viper.Set(KeyAuthMode, s.AuthMode)
	viper.Set(KeyInsecure, s.Insecure)

	path := viper.ConfigFileUsed()
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, defaultName+".yaml")
	}

	if err := viper.WriteConfigAs(path); err != nil {
		return "", err
	}
	return path, os.Chmod(path, 0600)
}
