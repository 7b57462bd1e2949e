// Command skillhub indexes skill bundles and serves search and resource
// lookups over them from the command line.
package main

import (
	"context"
	"os"

	"github.com/promptops/skillhub/pkg/config"
	"github.com/promptops/skillhub/pkg/logger"
	"github.com/promptops/skillhub/pkg/presenter"
	"github.com/promptops/skillhub/pkg/skills"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "skillhub",
	Short: "Skill registry and resource resolver",
	Long: `skillhub indexes skill bundles (directories with a SKILL.md manifest plus
scripts, references, assets, and free-form resources), searches them by
name and description, and resolves bundle resources safely.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.LogLevel = level
		}
		if err := logger.SetLevel(cfg.LogLevel); err != nil {
			return err
		}
		logger.SetFormat(cfg.LogFormat)

		if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
			presenter.SetQuiet(true)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress informational output")
	rootCmd.PersistentFlags().StringP("format", "f", "", "Output format (markdown, json, text)")
}

// newRegistry builds and initializes a registry from the loaded config.
func newRegistry(ctx context.Context) (*skills.Registry, error) {
	indexer, err := skills.NewIndexer(cfg.ExcludePatterns...)
	if err != nil {
		return nil, err
	}
	registry, err := skills.NewRegistry(
		skills.WithBasePaths(cfg.BasePaths...),
		skills.WithIndexer(indexer),
		skills.WithDebug(cfg.Debug),
	)
	if err != nil {
		return nil, err
	}
	if err := registry.Initialize(ctx); err != nil {
		return nil, err
	}
	return registry, nil
}

func outputFormat(cmd *cobra.Command, tool string) string {
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		return format
	}
	return cfg.FormatFor(tool)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		presenter.Error(err, "")
		os.Exit(1)
	}
}
