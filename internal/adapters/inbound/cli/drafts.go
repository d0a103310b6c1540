package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	configadapter "github.com/formgate/formgate/internal/adapters/outbound/config"
	storeadapter "github.com/formgate/formgate/internal/adapters/outbound/store"
	"github.com/formgate/formgate/internal/application"
	"github.com/formgate/formgate/internal/domain/session"
)

// defaultStorePath is where the CLI keeps its draft database.
func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".formgate/drafts.db"
	}
	return filepath.Join(home, ".formgate", "drafts.db")
}

func newDraftsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Manage saved drafts",
	}
	cmd.AddCommand(newDraftsListCmd())
	cmd.AddCommand(newDraftsSaveCmd())
	cmd.AddCommand(newDraftsDeleteCmd())
	return cmd
}

func newDraftsListCmd() *cobra.Command {
	var storePath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved drafts",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := storeadapter.Open(storePath)
			if err != nil {
				return err
			}
			defer st.Close()

			drafts, err := st.List()
			if err != nil {
				return err
			}
			if len(drafts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no drafts")
				return nil
			}
			for _, d := range drafts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-24s  %s\n",
					d.ID, d.TemplateID, d.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&storePath, "store", defaultStorePath(), "Path to the draft database")
	return cmd
}

func newDraftsSaveCmd() *cobra.Command {
	var (
		storePath    string
		templatePath string
		answersPath  string
		draftID      string
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save an answer file as a draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := storeadapter.Open(storePath)
			if err != nil {
				return err
			}
			defer st.Close()

			svc := application.NewSessionService(configadapter.New(), st)
			opened, err := svc.Open(templatePath, "", session.WithDebounce(0))
			if err != nil {
				return err
			}
			defer opened.Session.Close()

			answers, rows, err := configadapter.LoadDraftFile(answersPath)
			if err != nil {
				return fmt.Errorf("loading answers: %w", err)
			}
			opened.Session.Hydrate(answers, rows)

			id, err := svc.SaveDraft(opened.Session, draftID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	cmd.Flags().StringVar(&storePath, "store", defaultStorePath(), "Path to the draft database")
	cmd.Flags().StringVar(&templatePath, "template", "", "Path to the template file (required)")
	cmd.Flags().StringVar(&answersPath, "answers", "", "Path to the YAML answer file (required)")
	cmd.Flags().StringVar(&draftID, "id", "", "Existing draft id to overwrite; omit to create a new draft")
	_ = cmd.MarkFlagRequired("template")
	_ = cmd.MarkFlagRequired("answers")

	return cmd
}

func newDraftsDeleteCmd() *cobra.Command {
	var storePath string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := storeadapter.Open(storePath)
			if err != nil {
				return err
			}
			defer st.Close()
			return st.Delete(args[0])
		},
	}

	cmd.Flags().StringVar(&storePath, "store", defaultStorePath(), "Path to the draft database")
	return cmd
}
