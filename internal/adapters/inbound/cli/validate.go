package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configadapter "github.com/formgate/formgate/internal/adapters/outbound/config"
	"github.com/formgate/formgate/internal/adapters/outbound/tui"
	"github.com/formgate/formgate/internal/application"
	"github.com/formgate/formgate/internal/domain/session"
)

func newValidateCmd() *cobra.Command {
	var (
		templatePath string
		draftPath    string
		jsonOutput   bool
		strict       bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a draft against a template",
		Long:  "Run the full validation pass a submission would run: conditional visibility, effective requiredness, per-field rules, and repeatable-group structure.",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := application.NewSessionService(configadapter.New(), nil)
			opened, err := svc.Open(templatePath, "", session.WithDebounce(0))
			if err != nil {
				return err
			}
			defer opened.Session.Close()

			if draftPath != "" {
				answers, rows, err := configadapter.LoadDraftFile(draftPath)
				if err != nil {
					return fmt.Errorf("loading draft: %w", err)
				}
				opened.Session.Hydrate(answers, rows)
			}

			errs := opened.Session.ValidateAll()

			if jsonOutput {
				if err := printJSON(cmd, map[string]any{
					"errors":   errs,
					"warnings": opened.Warnings,
					"valid":    len(errs) == 0,
				}); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderValidationReport(errs, opened.Warnings))
			}

			if strict && len(errs) > 0 {
				return fmt.Errorf("%d field(s) failed validation", len(errs))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&templatePath, "template", "", "Path to the template file (required)")
	cmd.Flags().StringVar(&draftPath, "draft", "", "Path to the draft answer file; omit to validate a blank form")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of the rendered report")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any field fails")
	_ = cmd.MarkFlagRequired("template")

	return cmd
}
