package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corvid-labs/askdoc/internal/core/domain"
	"github.com/corvid-labs/askdoc/internal/core/ports/driving"
)

var (
	chatDocs  []string
	chatLang  string
	chatEmail string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ingest documents and ask questions interactively",
	Long: `Starts a session, indexes the given documents and opens an
interactive question loop. Inside the loop:

  /export        email the session transcript
  /speak [file]  save the last answer as MP3 (default: answer.mp3)
  /quit          end the session

Examples:
  askdoc chat --doc report.pdf --doc notes.md
  askdoc chat --doc manual.pdf --lang french --email you@example.com`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringSliceVar(&chatDocs, "doc", nil, "document to ingest (repeatable)")
	chatCmd.Flags().StringVar(&chatLang, "lang", "english", "answer language: english, french or spanish")
	chatCmd.Flags().StringVar(&chatEmail, "email", "", "email address for transcript export")
	_ = chatCmd.MarkFlagRequired("doc")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	svcs, err := ensureServices()
	if err != nil {
		return err
	}

	lang, ok := domain.ParseLanguage(chatLang)
	if !ok {
		return fmt.Errorf("unknown language %q (english, french, spanish)", chatLang)
	}

	docs, err := loadDocuments(chatDocs)
	if err != nil {
		return err
	}

	ctx := context.Background()
	sess, err := svcs.Assistant.StartSession(ctx, chatEmail, lang)
	if err != nil {
		return err
	}
	defer func() {
		if err := svcs.Assistant.EndSession(context.Background(), sess); err != nil {
			cmd.PrintErrf("warning: could not end session: %v\n", err)
		}
	}()

	report, err := svcs.Assistant.Ingest(ctx, sess, docs)
	if report != nil {
		printReport(cmd, report)
	}
	if err != nil {
		return err
	}

	cmd.Println("Ask a question, or /quit to leave.")

	lastAnswer := ""
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit" || line == "/exit":
			return scanner.Err()

		case line == "/export":
			if svcs.Export == nil {
				cmd.PrintErrln("transcript export needs an smtp section in the config")
				continue
			}
			if err := svcs.Export.EmailTranscript(ctx, sess); err != nil {
				cmd.PrintErrf("export failed: %v\n", err)
				continue
			}
			cmd.Println("Transcript sent.")

		case strings.HasPrefix(line, "/speak"):
			if lastAnswer == "" {
				cmd.PrintErrln("nothing to narrate yet")
				continue
			}
			target := strings.TrimSpace(strings.TrimPrefix(line, "/speak"))
			if target == "" {
				target = "answer.mp3"
			}
			if err := narrateToFile(ctx, svcs, sess, lastAnswer, target); err != nil {
				cmd.PrintErrf("narration failed: %v\n", err)
				continue
			}
			cmd.Printf("Saved %s\n", target)

		default:
			answer, err := svcs.Assistant.Ask(ctx, sess, line)
			if err != nil {
				if errors.Is(err, domain.ErrBlockedQuery) {
					cmd.PrintErrln("That question contains blocked terms.")
					continue
				}
				cmd.PrintErrf("error: %v\n", err)
				continue
			}
			lastAnswer = answer.Delivered
			printAnswer(cmd, answer)
		}
	}
	return scanner.Err()
}

func printAnswer(cmd *cobra.Command, answer *driving.Answer) {
	cmd.Println()
	cmd.Println(answer.Delivered)
	if len(answer.Sources) > 0 {
		cmd.Printf("\nSources: %s\n", strings.Join(answer.Sources, ", "))
	}
	cmd.Println()
}

func narrateToFile(ctx context.Context, svcs *Services, sess *domain.Session, text, path string) error {
	audio, err := svcs.Assistant.Narrate(ctx, sess, text)
	if err != nil {
		return err
	}
	return os.WriteFile(path, audio, 0o644)
}
