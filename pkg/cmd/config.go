package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/openwork/search-adapters/pkg/api/chat"
	"github.com/openwork/search-adapters/pkg/api/office"
	"github.com/openwork/search-adapters/pkg/api/page"
	"github.com/spf13/viper"
)

// appConfig holds the adapter-specific HTTP config; only the fields for the
// adapter named on the command line are actually read.
type appConfig struct {
	Office office.Config `mapstructure:"office"`
	Chat   chat.Config   `mapstructure:"chat"`
	Page   page.Config   `mapstructure:"page"`
}

// loadConfig loads the application configuration from the specified file path and environment variables.
func loadConfig(flags *cmdFlags) (*appConfig, error) {
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())

	if flags.ConfigPath != "" {
		v.SetConfigFile(flags.ConfigPath)

		if err := v.ReadInConfig(); err != nil && !viperConfigMissing(flags.ConfigPath, err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetDefault("office.listen", ":8103")
	v.SetDefault("chat.listen", ":8104")
	v.SetDefault("page.listen", ":8105")

	var cfg appConfig

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	slog.Debug("config loaded", slog.Any("config", cfg))

	return &cfg, nil
}

// viperConfigMissing treats a missing, unspecified config file as non-fatal:
// every setting has an environment-variable fallback.
func viperConfigMissing(path string, err error) bool {
	_, notFound := err.(viper.ConfigFileNotFoundError) //nolint:errorlint // viper returns this as a concrete type
	return notFound && path == "runtime/config.yml"
}
