// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package watcher

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/quotedesk/internal/logger"
)

// Config holds the watch client configuration
type Config struct {
	ClientID   string       `mapstructure:"client_id"`
	Server     ServerConfig `mapstructure:"server"`
	WatchPaths []string     `mapstructure:"watch_paths"`
	Notify     bool         `mapstructure:"notify"`
}

// ServerConfig holds QuoteDesk server connection settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LoadConfig loads configuration from file and environment. With an empty
// path it manages ~/.quotedesk/config.yaml, creating a default one on first
// run.
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetConfigName("config")

	viper.SetDefault("server.address", "http://localhost:8080")
	viper.SetDefault("watch_paths", []string{"./watch"})
	viper.SetDefault("notify", true)

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir := filepath.Join(home, ".quotedesk")
		configFile := filepath.Join(configDir, "config.yaml")

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			if err := generateDefaultConfig(configFile); err != nil {
				return nil, fmt.Errorf("failed to generate default config: %w", err)
			}
		}

		viper.SetConfigFile(configFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.Printf("No config file found, using defaults")
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	viper.SetEnvPrefix("QUOTEDESK")
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Server.Address == "" {
		config.Server.Address = "http://localhost:8080"
	}

	// A stable client ID identifies this machine on the event stream.
	if config.ClientID == "" {
		config.ClientID = uuid.New().String()
		logger.Printf("Generated new client ID: %s", config.ClientID)

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			viper.Set("client_id", config.ClientID)
			if err := viper.WriteConfig(); err != nil {
				logger.Warnf("Failed to save client_id to config file: %v", err)
			}
		}
	}

	return &config, nil
}

// generateDefaultConfig creates a default configuration file
func generateDefaultConfig(configFile string) error {
	defaultConfig := `# QuoteDesk Watch Client Configuration
# client_id will be auto-generated on first run

server:
  address: "http://localhost:8080"  # QuoteDesk server address

watch_paths:
  - "./watch"  # Directories to watch for report PDFs

notify: true  # Show desktop notifications for upload outcomes
`

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return err
	}
	return os.WriteFile(configFile, []byte(defaultConfig), 0644)
}

// ApplyCLIFlags applies command-line flags to override config values
func ApplyCLIFlags(config *Config, serverAddr string, watchDirs []string) {
	if serverAddr != "" {
		config.Server.Address = serverAddr
	}
	if len(watchDirs) > 0 {
		config.WatchPaths = watchDirs
	}
}
