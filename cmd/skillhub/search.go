package main

import (
	"fmt"

	"github.com/promptops/skillhub/pkg/renderers"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <term>...",
	Short: "Search skills by name and description",
	Long: `Search registered skills. All terms must match case-insensitively
against the skill name, tool name, or description; prefix a term with "-"
to exclude skills matching it.

Examples:
  skillhub search auth
  skillhub search auth -oauth
  skillhub search pdf extraction`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := newRegistry(cmd.Context())
		if err != nil {
			return err
		}

		result, err := registry.SearchTerms(cmd.Context(), args)
		if err != nil {
			return err
		}

		rr := renderers.NewRegistry(outputFormat(cmd, "skill_search"), cfg.ToolFormats)
		out, err := rr.RenderFor("skill_search", result)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
