// Package httpd implements the command that serves the scrape API.
package httpd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/north-cloud/startup-scout/cmd/common"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/api"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/logger"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/server"
)

// Command returns the httpd command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "httpd",
		Short: "Serve the scrape API over HTTP",
		Long: `Start the HTTP server exposing POST /api/v1/scrape, the export endpoint,
source management (when the database is enabled), /health and /metrics.
The server shuts down gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Start(cmd)
		},
	}

	cmd.Flags().Int("port", 0, "listen port (overrides server.port)")

	return cmd
}

// Start builds the dependencies and runs the server until shutdown.
func Start(cmd *cobra.Command) error {
	if cmd.Flags().Changed("port") {
		if err := viper.BindPFlag("server.port", cmd.Flags().Lookup("port")); err != nil {
			return err
		}
	}

	deps, err := common.Build(cmd.Context(), viper.GetViper())
	if err != nil {
		return err
	}
	defer deps.Close()

	routes := api.RouterDeps{
		Scraper:  deps.Service,
		Gatherer: deps.Registry,
		Version:  deps.Config.App.Version,
		Logger:   deps.Logger,
	}
	// A nil *SourceRepository must not become a non-nil interface.
	if deps.Store != nil {
		routes.Sources = deps.Store
	}

	srv := server.New(deps.Config.Server, deps.Logger, deps.Config.App.Debug, api.SetupRoutes(routes))

	deps.Logger.Info("Starting startup-scout API",
		logger.String("version", deps.Config.App.Version),
		logger.Int("limit", deps.Limiter.Capacity()),
		logger.Bool("source_store", deps.Store != nil),
	)

	return srv.RunWithGracefulShutdown(cmd.Context())
}
