// Package cmd implements the startup-scout command-line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/north-cloud/startup-scout/cmd/httpd"
	cmdscrape "github.com/jonesrussell/north-cloud/startup-scout/cmd/scrape"
	cmdsources "github.com/jonesrussell/north-cloud/startup-scout/cmd/sources"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/config"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug logging for all commands.
	Debug bool

	rootCmd = &cobra.Command{
		Use:   "startup-scout",
		Short: "Find early-stage startups in news feeds",
		Long: `startup-scout reads startup news feeds, keeps recent and region-matching
articles, and enriches each with a company name, website and contact emails.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Environment from .env is visible to viper.
	_ = godotenv.Load()

	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "startup-scout version %s\n", Version)
		},
	})

	rootCmd.AddCommand(cmdscrape.Command())
	rootCmd.AddCommand(cmdsources.Command())
	rootCmd.AddCommand(httpd.Command())
}

// initConfig reads the config file and environment into the global viper.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	// Environment takes precedence over defaults: SCOUT_SCRAPE_LIMIT -> scrape.limit.
	viper.SetEnvPrefix("SCOUT")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if err := bindCommandLineFlags(); err != nil {
		return err
	}

	return bindEnvVars()
}

// bindCommandLineFlags binds root flags to Viper.
func bindCommandLineFlags() error {
	if err := viper.BindPFlag("app.debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}
	return nil
}

// bindEnvVars maps conventional unprefixed variables onto config keys.
func bindEnvVars() error {
	bindings := map[string][]string{
		"app.environment":   {"SCOUT_APP_ENVIRONMENT", "APP_ENV"},
		"app.debug":         {"SCOUT_APP_DEBUG", "APP_DEBUG"},
		"logger.level":      {"SCOUT_LOGGER_LEVEL", "LOG_LEVEL"},
		"server.port":       {"SCOUT_SERVER_PORT", "PORT"},
		"database.enabled":  {"SCOUT_DATABASE_ENABLED"},
		"database.host":     {"SCOUT_DATABASE_HOST", "POSTGRES_HOST"},
		"database.port":     {"SCOUT_DATABASE_PORT", "POSTGRES_PORT"},
		"database.user":     {"SCOUT_DATABASE_USER", "POSTGRES_USER"},
		"database.password": {"SCOUT_DATABASE_PASSWORD", "POSTGRES_PASSWORD"},
		"database.dbname":   {"SCOUT_DATABASE_DBNAME", "POSTGRES_DB"},
		"database.sslmode":  {"SCOUT_DATABASE_SSLMODE", "POSTGRES_SSLMODE"},
	}

	for key, envs := range bindings {
		args := append([]string{key}, envs...)
		if err := viper.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	return nil
}
