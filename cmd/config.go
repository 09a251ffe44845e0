package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/josephgoksu/taskdeck/internal/config"
	"github.com/josephgoksu/taskdeck/internal/gateway"
	"github.com/josephgoksu/taskdeck/internal/logger"
)

const (
	configName = ".taskdeck"
	envPrefix  = "TASKDECK"
)

// GlobalAppConfig holds the loaded application configuration.
var GlobalAppConfig config.AppConfig

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// Load .env file first if present. It's okay if it doesn't exist.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix) // e.g., TASKDECK_VERBOSE
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	config.SetDefaults(viper.GetViper())

	cfgFileFlag := viper.GetString("config")
	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		// Project-local config dir takes priority over home.
		if _, err := os.Stat(config.DefaultRootDir); !os.IsNotExist(err) {
			viper.AddConfigPath(config.DefaultRootDir)
		}
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			os.Exit(1)
		}
		// No config file is fine; defaults and env carry the day.
	}

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing configuration: %v\n", err)
		os.Exit(1)
	}
	if err := config.Validate(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if dir, err := config.GetGlobalConfigDir(); err == nil {
		logger.SetBasePath(dir)
	}
	logger.SetVersion(version)
	logger.SetEndpoint(GlobalAppConfig.API.BaseURL)
}

// GetConfig returns the loaded application configuration.
func GetConfig() *config.AppConfig {
	return &GlobalAppConfig
}

// NewTokenStore returns the token store backed by the real filesystem.
func NewTokenStore() (*config.TokenStore, error) {
	dir, err := config.GetGlobalConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	return config.NewTokenStore(afero.NewOsFs(), dir), nil
}

// NewGateway builds a gateway client from config, carrying the stored
// token if one exists.
func NewGateway() (*gateway.Client, error) {
	cfg := GetConfig()

	tokens, err := NewTokenStore()
	if err != nil {
		return nil, err
	}
	token, err := tokens.Load()
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.API.RequestTimeoutSeconds) * time.Second
	return gateway.NewClient(cfg.API.BaseURL, token, timeout), nil
}
