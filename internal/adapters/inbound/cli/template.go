package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configadapter "github.com/formgate/formgate/internal/adapters/outbound/config"
	"github.com/formgate/formgate/internal/domain"
	"github.com/formgate/formgate/internal/domain/condition"
)

func newTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Template inspection commands",
	}
	cmd.AddCommand(newTemplateShowCmd())
	return cmd
}

func newTemplateShowCmd() *cobra.Command {
	var (
		templatePath string
		jsonOutput   bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a template's normalized structure",
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, warnings, err := configadapter.New().Load(templatePath)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd, tmpl)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", tmpl.Title, tmpl.ID)
			for si, s := range tmpl.Sections {
				fmt.Fprintf(out, "  [%d] %s (%d fields)\n", si, s.Title, len(s.Fields))
				for _, f := range s.Fields {
					marker := " "
					if f.Required {
						marker = "*"
					}
					notes := ""
					if condition.Parse(f.Conditional) != nil {
						notes += " (conditional)"
					}
					if box := domain.ParseInfoBox(f.InfoBox); box.Enabled {
						notes += fmt.Sprintf(" [%s]", box.Style)
					}
					fmt.Fprintf(out, "      %s %-16s %s%s\n", marker, f.Kind, f.Code, notes)
				}
			}
			for _, w := range warnings {
				fmt.Fprintf(out, "  warning: %s\n", w)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&templatePath, "template", "", "Path to the template file (required)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the normalized template as JSON")
	_ = cmd.MarkFlagRequired("template")

	return cmd
}
