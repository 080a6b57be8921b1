package cmd

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"survey-stats/internal/dialect"
	"survey-stats/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	DB      *sql.DB
	Dialect dialect.Dialect
	Tables  store.TableMap
	logger  = zap.NewNop()

	cfgFile string
	verbose bool
)

var RootCmd = &cobra.Command{
	Use:   "survey-stats",
	Short: "Survey aggregation and reporting engine",
	Long: `survey-stats narrows wellness-program survey records by dynamic
field/value filters and date ranges, and reports per-record subscale
averages, cohort rollups over fixed regions and pre/post deltas.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if logger, err = newLogger(verbose); err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}

		config, err := GetActiveDBConfig()
		if err != nil {
			return err
		}
		if Tables, err = GetTables(); err != nil {
			return err
		}

		DB, err = sql.Open(config.Driver, config.DSN)
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		if err := DB.PingContext(cmd.Context()); err != nil {
			return fmt.Errorf("failed to connect to db: %w", err)
		}
		Dialect = dialect.GetDialect(config.Driver)

		logger.Debug("connected",
			zap.String("name", config.Name),
			zap.String("driver", config.Driver),
			zap.String("dialect", Dialect.Name()))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		_ = logger.Sync()
		if DB != nil {
			return DB.Close()
		}
		return nil
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Define flags
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./survey-stats.yaml)")
	RootCmd.PersistentFlags().String("dsn", "", "Database Source Name (overrides the active database)")
	RootCmd.PersistentFlags().String("driver", "", "Database driver for --dsn: mysql, postgres, sqlserver, oracle, sqlite")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	viper.BindPFlag("database.dsn", RootCmd.PersistentFlags().Lookup("dsn"))
	viper.BindPFlag("database.driver", RootCmd.PersistentFlags().Lookup("driver"))

	viper.SetDefault("settings.pretty", true)
	viper.SetDefault("settings.seed_count", 100)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("survey-stats")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SURVEY_STATS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stderr"}
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// printJSON writes a report to stdout.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	if viper.GetBool("settings.pretty") {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
