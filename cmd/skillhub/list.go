package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/promptops/skillhub/pkg/presenter"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered skills",
	Long:  `List all skills discovered in the configured base paths with their tool names and descriptions.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		registry, err := newRegistry(cmd.Context())
		if err != nil {
			return err
		}

		allSkills := registry.Controller().Skills()
		if len(allSkills) == 0 {
			presenter.Info("No skills registered")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tTOOL NAME\tDIRECTORY\tDESCRIPTION")
		for _, skill := range allSkills {
			description := skill.Description
			if len(description) > 60 {
				description = description[:57] + "..."
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", skill.Name, skill.ToolName, skill.FullPath, description)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
