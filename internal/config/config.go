// Package config holds the application configuration types, defaults, and
// the persisted auth token. Loading is driven by viper from cmd.InitConfig.
package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// AppConfig represents the complete application configuration.
type AppConfig struct {
	Verbose bool          `mapstructure:"verbose"`
	JSON    bool          `mapstructure:"json"`
	Config  string        `mapstructure:"config"`
	Project ProjectConfig `mapstructure:"project" validate:"required"`
	API     APIConfig     `mapstructure:"api" validate:"required"`
	UI      UIConfig      `mapstructure:"ui" validate:"required"`
}

// ProjectConfig holds paths owned by taskdeck on the local machine.
type ProjectConfig struct {
	RootDir string `mapstructure:"rootDir" validate:"required"`
}

// APIConfig points the gateway at the remote task service.
type APIConfig struct {
	BaseURL               string `mapstructure:"baseUrl" validate:"required,url"`
	RequestTimeoutSeconds int    `mapstructure:"requestTimeoutSeconds" validate:"min=1,max=600"`
}

// UIConfig holds presentation settings shared by the CLI and the dashboard.
type UIConfig struct {
	PageSize int `mapstructure:"pageSize" validate:"min=1,max=100"`
}

// Defaults, applied before any config file or env override.
const (
	DefaultRootDir        = ".taskdeck"
	DefaultBaseURL        = "http://localhost:8000"
	DefaultRequestTimeout = 30
	DefaultPageSize       = 10
)

// SetDefaults registers every default on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("project.rootDir", DefaultRootDir)
	v.SetDefault("api.baseUrl", DefaultBaseURL)
	v.SetDefault("api.requestTimeoutSeconds", DefaultRequestTimeout)
	v.SetDefault("ui.pageSize", DefaultPageSize)
}

var validate = validator.New()

// Validate checks a loaded AppConfig against its constraints.
func Validate(cfg *AppConfig) error {
	return validate.Struct(cfg)
}
