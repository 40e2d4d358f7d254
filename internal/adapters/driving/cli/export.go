package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corvid-labs/askdoc/internal/core/domain"
)

var exportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Email a session transcript",
	Long: `Formats a past session's {question, answer} history as a text
document and emails it to the address the session was started with.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	svcs, err := ensureServices()
	if err != nil {
		return err
	}
	if svcs.Export == nil {
		return fmt.Errorf("transcript export needs an smtp section in the config")
	}

	if err := svcs.Export.EmailTranscript(context.Background(), &domain.Session{ID: args[0]}); err != nil {
		return err
	}

	cmd.Println("Transcript sent.")
	return nil
}
