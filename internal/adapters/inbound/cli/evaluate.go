package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	configadapter "github.com/formgate/formgate/internal/adapters/outbound/config"
	"github.com/formgate/formgate/internal/adapters/outbound/gitinfo"
	"github.com/formgate/formgate/internal/adapters/outbound/tui"
	"github.com/formgate/formgate/internal/application"
	"github.com/formgate/formgate/internal/domain/scoring"
	"github.com/formgate/formgate/internal/domain/session"
)

func newEvaluateCmd() *cobra.Command {
	var (
		answersPath  string
		templatePath string
		jsonOutput   bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Compute derived scores and a recommendation from an answer file",
		Long:  "Reduce the six criterion scores in an answer file into impact, value, market and overall scores plus the recommendation. With --template, the full submission payload is built instead of the bare score block.",
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, rows, err := configadapter.LoadDraftFile(answersPath)
			if err != nil {
				return fmt.Errorf("loading answers: %w", err)
			}

			derived := scoring.Calculate(scoring.FromAnswers(answers))

			// Bare scoring when no template is given.
			if templatePath == "" {
				if jsonOutput {
					return printJSON(cmd, derived)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderScoreCard(derived))
				return nil
			}

			svc := application.NewSessionService(configadapter.New(), nil)
			opened, err := svc.Open(templatePath, "", session.WithDebounce(0))
			if err != nil {
				return err
			}
			defer opened.Session.Close()
			opened.Session.Hydrate(answers, rows)

			export := application.NewExportService(gitinfo.New())
			sub := export.BuildSubmission(opened.Session)
			export.StampRevision(sub, filepath.Dir(templatePath))

			if jsonOutput {
				return printJSON(cmd, sub)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderScoreCard(opened.Session.Snapshot().Derived))
			if sub.TemplateRevision != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "template revision: %s\n", sub.TemplateRevision)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&answersPath, "answers", "", "Path to the YAML answer file (required)")
	cmd.Flags().StringVar(&templatePath, "template", "", "Optional template file; builds the full submission payload")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of the rendered card")
	_ = cmd.MarkFlagRequired("answers")

	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
