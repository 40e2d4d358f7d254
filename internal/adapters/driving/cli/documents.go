package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/corvid-labs/askdoc/internal/core/domain"
	"github.com/corvid-labs/askdoc/internal/normalisers"
)

// loadDocuments reads the given files into raw documents, resolving
// MIME types from the file extensions.
func loadDocuments(paths []string) ([]domain.RawDocument, error) {
	docs := make([]domain.RawDocument, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		name := filepath.Base(path)
		docs = append(docs, domain.RawDocument{
			Name:     name,
			MIMEType: normalisers.TypeByExtension(name),
			Content:  content,
		})
	}
	return docs, nil
}

// printReport summarises an ingestion batch for the terminal.
func printReport(cmd *cobra.Command, report *domain.IngestReport) {
	cmd.Printf("Indexed %d document(s), %d chunk(s).\n", report.DocumentsIndexed, report.ChunksStored)
	for _, f := range report.Failures {
		cmd.Printf("  skipped %s: %v\n", f.Name, f.Err)
	}
}
