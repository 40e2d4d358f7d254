// Command askdoc answers questions about uploaded documents.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/corvid-labs/askdoc/internal/adapters/driven/embedding/ollama"
	"github.com/corvid-labs/askdoc/internal/adapters/driven/embedding/openai"
	"github.com/corvid-labs/askdoc/internal/adapters/driven/index/chromem"
	memoryindex "github.com/corvid-labs/askdoc/internal/adapters/driven/index/memory"
	anthropicllm "github.com/corvid-labs/askdoc/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/corvid-labs/askdoc/internal/adapters/driven/llm/ollama"
	openaillm "github.com/corvid-labs/askdoc/internal/adapters/driven/llm/openai"
	"github.com/corvid-labs/askdoc/internal/adapters/driven/mail/smtp"
	"github.com/corvid-labs/askdoc/internal/adapters/driven/speech/gtts"
	"github.com/corvid-labs/askdoc/internal/adapters/driven/storage/sqlite"
	translatellm "github.com/corvid-labs/askdoc/internal/adapters/driven/translate/llm"
	"github.com/corvid-labs/askdoc/internal/adapters/driving/cli"
	"github.com/corvid-labs/askdoc/internal/config"
	"github.com/corvid-labs/askdoc/internal/core/ports/driven"
	"github.com/corvid-labs/askdoc/internal/core/services"
	"github.com/corvid-labs/askdoc/internal/moderation"
	"github.com/corvid-labs/askdoc/internal/normalisers"
	"github.com/corvid-labs/askdoc/internal/normalisers/markdown"
	"github.com/corvid-labs/askdoc/internal/normalisers/pdf"
	"github.com/corvid-labs/askdoc/internal/normalisers/plaintext"
	"github.com/corvid-labs/askdoc/internal/postprocessors"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	// Local development secrets; absence is not an error.
	_ = godotenv.Load()

	if err := cli.Execute(version, buildServices); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildServices wires the driven adapters into the application core.
func buildServices(cfg *config.Config) (*cli.Services, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".askdoc", "data")
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	llm, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	var indexStore driven.IndexStore
	if cfg.Index.Provider == "memory" {
		indexStore = memoryindex.NewStore(embedder)
	} else {
		indexStore, err = chromem.NewStore(embedder, chromem.Config{
			PersistPath: filepath.Join(dataDir, "indexes"),
		})
		if err != nil {
			return nil, fmt.Errorf("open vector index: %w", err)
		}
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	registry := normalisers.NewRegistry(pdf.New(), markdown.New(), plaintext.New())
	pipeline, err := postprocessors.NewRegistry().BuildPipeline(postprocessors.Stage{
		Name: "chunker",
		Settings: map[string]any{
			"chunk_size":     cfg.Chunker.ChunkSize,
			"overlap":        cfg.Chunker.Overlap,
			"min_chunk_size": cfg.Chunker.MinChunkSize,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build processing pipeline: %w", err)
	}

	var moderator driven.QueryModerator
	var blocklist *moderation.Blocklist
	if cfg.BlocklistPath != "" {
		blocklist, err = moderation.LoadBlocklist(cfg.BlocklistPath)
		if err != nil {
			return nil, fmt.Errorf("load blocklist: %w", err)
		}
		moderator = blocklist
	}

	var mailer driven.Mailer
	if cfg.SMTP.Host != "" {
		mailer, err = smtp.NewMailer(smtp.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		if err != nil {
			return nil, fmt.Errorf("configure mailer: %w", err)
		}
	}

	assistant := services.NewAssistantService(
		services.NewIngestService(registry, pipeline, indexStore),
		services.NewRetrievalService(indexStore, cfg.Retrieval.TopK),
		services.NewAnswerService(llm),
		indexStore,
		store.SessionStore(),
		translatellm.NewTranslator(llm),
		gtts.NewSynthesizer(gtts.Config{}),
		moderator,
	)

	auth := services.NewAuthService(store.UserStore(), mailer,
		time.Duration(cfg.Auth.OTPTTLMinutes)*time.Minute)

	var export *services.ExportService
	if mailer != nil {
		export = services.NewExportService(store.SessionStore(), mailer)
	}

	svcs := &cli.Services{
		Assistant: assistant,
		Auth:      auth,
		Cleanup: func() error {
			if blocklist != nil {
				_ = blocklist.Close()
			}
			_ = embedder.Close()
			_ = llm.Close()
			return store.Close()
		},
	}
	if export != nil {
		svcs.Export = export
	}
	return svcs, nil
}

func buildEmbedder(cfg *config.Config) (driven.EmbeddingService, error) {
	switch cfg.Embedding.Provider {
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:           cfg.Embedding.BaseURL,
			Model:             cfg.Embedding.Model,
			RequestsPerMinute: cfg.Embedding.RequestsPerMinute,
		}), nil
	default:
		return openai.NewEmbeddingService(openai.Config{
			APIKey:            cfg.Embedding.APIKey,
			BaseURL:           cfg.Embedding.BaseURL,
			Model:             cfg.Embedding.Model,
			RequestsPerMinute: cfg.Embedding.RequestsPerMinute,
		})
	}
}

func buildLLM(cfg *config.Config) (driven.LLMService, error) {
	switch cfg.LLM.Provider {
	case "ollama":
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		}), nil
	case "anthropic":
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		})
	default:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		})
	}
}
