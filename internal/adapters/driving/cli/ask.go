package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corvid-labs/askdoc/internal/core/domain"
)

var (
	askDocs []string
	askLang string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question about documents",
	Long: `Indexes the given documents, answers one question, and tears the
session down again.

Examples:
  askdoc ask "What is the refund policy?" --doc terms.pdf
  askdoc ask "Quel est le sujet principal ?" --doc rapport.pdf --lang french`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringSliceVar(&askDocs, "doc", nil, "document to ingest (repeatable)")
	askCmd.Flags().StringVar(&askLang, "lang", "english", "answer language: english, french or spanish")
	_ = askCmd.MarkFlagRequired("doc")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	svcs, err := ensureServices()
	if err != nil {
		return err
	}

	lang, ok := domain.ParseLanguage(askLang)
	if !ok {
		return fmt.Errorf("unknown language %q (english, french, spanish)", askLang)
	}

	docs, err := loadDocuments(askDocs)
	if err != nil {
		return err
	}

	ctx := context.Background()
	sess, err := svcs.Assistant.StartSession(ctx, "", lang)
	if err != nil {
		return err
	}
	defer func() {
		if err := svcs.Assistant.EndSession(context.Background(), sess); err != nil {
			cmd.PrintErrf("warning: could not end session: %v\n", err)
		}
	}()

	report, err := svcs.Assistant.Ingest(ctx, sess, docs)
	if report != nil && len(report.Failures) > 0 {
		printReport(cmd, report)
	}
	if err != nil {
		return err
	}

	answer, err := svcs.Assistant.Ask(ctx, sess, args[0])
	if err != nil {
		return err
	}

	printAnswer(cmd, answer)
	return nil
}
