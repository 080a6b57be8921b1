package cmd

import (
	"fmt"

	"survey-stats/internal/store"

	"github.com/spf13/viper"
)

type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Active bool   `mapstructure:"active"`
}

// GetActiveDBConfig returns the currently active database configuration.
// --dsn/--driver flags take precedence over the config file.
func GetActiveDBConfig() (*DBConfig, error) {
	if flagDSN := viper.GetString("database.dsn"); flagDSN != "" {
		driver := viper.GetString("database.driver")
		if driver == "" {
			return nil, fmt.Errorf("--driver is required with --dsn")
		}
		return &DBConfig{Name: "CLI", Driver: driver, DSN: flagDSN, Active: true}, nil
	}

	var configs []DBConfig
	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	var activeConfig *DBConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no active database found in config (set active: true)")
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active databases found (only one can be active)")
	}

	return activeConfig, nil
}

// GetTables returns the family table mapping with config overrides applied.
func GetTables() (store.TableMap, error) {
	return store.DefaultTables().WithOverrides(viper.GetStringMapString("tables"))
}
