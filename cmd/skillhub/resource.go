package main

import (
	"fmt"

	"github.com/promptops/skillhub/pkg/renderers"
	"github.com/spf13/cobra"
)

var resourceCmd = &cobra.Command{
	Use:   "resource <skill> <path>",
	Short: "Resolve and print a skill resource",
	Long: `Resolve a resource file inside a skill bundle and print its content.

The optional --type flag narrows the lookup to a resource category
(script, reference, asset, workflow, tool). Without it, legacy and unified
lookups are tried in order.

Examples:
  skillhub resource pdf-tools scripts/extract.py
  skillhub resource pdf-tools guide.md --type reference
  skillhub resource onboarding Workflows/Intro.md`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := newRegistry(cmd.Context())
		if err != nil {
			return err
		}

		resType, _ := cmd.Flags().GetString("type")
		resource, err := registry.Resolve(cmd.Context(), args[0], resType, args[1])
		if err != nil {
			return err
		}

		rr := renderers.NewRegistry(outputFormat(cmd, "skill_resource"), cfg.ToolFormats)
		out, err := rr.RenderFor("skill_resource", resource)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	resourceCmd.Flags().StringP("type", "t", "", "Resource type (script, reference, asset, workflow, tool)")
	rootCmd.AddCommand(resourceCmd)
}
