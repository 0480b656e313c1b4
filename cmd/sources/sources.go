// Package sources implements the commands that manage scrape sources.
package sources

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/north-cloud/startup-scout/cmd/common"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/domain"
	"github.com/jonesrussell/north-cloud/startup-scout/internal/logger"
	internalsources "github.com/jonesrussell/north-cloud/startup-scout/internal/sources"
)

// Command returns the sources command and its subcommands.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage scrape sources",
		Long: `List the sources a scrape would use. With the database enabled, sources
can also be added, toggled and removed.`,
	}

	cmd.AddCommand(listCommand(), addCommand(), toggleCommand(), removeCommand())

	return cmd
}

// withDeps builds the dependencies, runs fn and releases them.
func withDeps(cmd *cobra.Command, fn func(ctx context.Context, deps *common.Deps) error) error {
	deps, err := common.Build(cmd.Context(), viper.GetViper())
	if err != nil {
		return err
	}
	defer deps.Close()

	return fn(cmd.Context(), deps)
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sources with their resolved feed URLs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDeps(cmd, func(ctx context.Context, deps *common.Deps) error {
				list, err := deps.Sources(ctx)
				if err != nil {
					return fmt.Errorf("failed to get sources: %w", err)
				}

				RenderTable(cmd.OutOrStdout(), list)
				return nil
			})
		},
	}
}

func addCommand() *cobra.Command {
	var src domain.SourceConfig
	var kind string
	var disabled bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a source to the store",
		Example: `  startup-scout sources add --name "TechCrunch" --kind rss --feed-url https://techcrunch.com/feed/
  startup-scout sources add --name "Seed rounds" --kind google_news --query "startup seed round"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src.Kind = domain.SourceKind(kind)
			src.Enabled = !disabled
			if err := internalsources.Validate(src); err != nil {
				return err
			}

			return withDeps(cmd, func(ctx context.Context, deps *common.Deps) error {
				store, err := deps.RequireStore()
				if err != nil {
					return err
				}
				if createErr := store.Create(ctx, &src); createErr != nil {
					return createErr
				}

				deps.Logger.Info("Source created",
					logger.String("source_id", src.ID),
					logger.String("source_name", src.Name),
				)
				RenderTable(cmd.OutOrStdout(), []domain.SourceConfig{src})
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&src.ID, "id", "", "source id (generated when empty)")
	cmd.Flags().StringVar(&src.Name, "name", "", "display name stamped on results")
	cmd.Flags().StringVar(&kind, "kind", string(domain.SourceKindRSS), "rss or google_news")
	cmd.Flags().StringVar(&src.FeedURL, "feed-url", "", "feed URL for rss sources")
	cmd.Flags().StringVar(&src.Query, "query", "", "search query for google_news sources")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "create the source disabled")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func toggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Enable or disable a source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(ctx context.Context, deps *common.Deps) error {
				store, err := deps.RequireStore()
				if err != nil {
					return err
				}

				src, err := store.Toggle(ctx, args[0])
				if err != nil {
					return err
				}

				RenderTable(cmd.OutOrStdout(), []domain.SourceConfig{*src})
				return nil
			})
		},
	}
}

func removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a source",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, func(ctx context.Context, deps *common.Deps) error {
				store, err := deps.RequireStore()
				if err != nil {
					return err
				}

				if deleteErr := store.Delete(ctx, args[0]); deleteErr != nil {
					return deleteErr
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Removed source %s\n", args[0])
				return nil
			})
		},
	}
}

// RenderTable prints sources with their resolved feed URLs.
func RenderTable(w io.Writer, list []domain.SourceConfig) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"ID", "Name", "Kind", "Enabled", "Feed URL"})

	for _, src := range list {
		feedURL, ok := internalsources.Resolve(src)
		if !ok {
			feedURL = "(unresolvable)"
		}
		t.AppendRow(table.Row{src.ID, src.Name, src.Kind, src.Enabled, feedURL})
	}

	t.Render()
}
