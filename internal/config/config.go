// Package config loads askdoc configuration.
//
// Values come from three layers, later layers winning: built-in
// defaults, an optional TOML file (~/.askdoc/config.toml by default),
// and environment variables. A .env file, when present, is loaded into
// the environment by the CLI entrypoint before this package runs.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config is the full application configuration.
type Config struct {
	// Verbose enables debug logging to stderr.
	Verbose bool `toml:"verbose" env:"ASKDOC_VERBOSE"`

	// DataDir holds the SQLite database and persisted indexes
	// (default: ~/.askdoc/data).
	DataDir string `toml:"data_dir" env:"ASKDOC_DATA_DIR"`

	// BlocklistPath points at the query blocklist file. Empty disables
	// moderation.
	BlocklistPath string `toml:"blocklist_path" env:"ASKDOC_BLOCKLIST_PATH"`

	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
	Index     IndexConfig     `toml:"index"`
	Chunker   ChunkerConfig   `toml:"chunker"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	SMTP      SMTPConfig      `toml:"smtp"`
	Auth      AuthConfig      `toml:"auth"`
}

// EmbeddingConfig selects and configures the embedding service.
type EmbeddingConfig struct {
	// Provider is "openai" or "ollama".
	Provider string `toml:"provider" env:"ASKDOC_EMBEDDING_PROVIDER"`

	Model   string `toml:"model" env:"ASKDOC_EMBEDDING_MODEL"`
	BaseURL string `toml:"base_url" env:"ASKDOC_EMBEDDING_BASE_URL"`
	APIKey  string `toml:"api_key" env:"OPENAI_API_KEY"`

	// RequestsPerMinute caps the embedding request rate (0 = unlimited).
	RequestsPerMinute int `toml:"requests_per_minute" env:"ASKDOC_EMBEDDING_RPM"`
}

// LLMConfig selects and configures the generation service.
type LLMConfig struct {
	// Provider is "openai", "anthropic" or "ollama".
	Provider string `toml:"provider" env:"ASKDOC_LLM_PROVIDER"`

	Model   string `toml:"model" env:"ASKDOC_LLM_MODEL"`
	BaseURL string `toml:"base_url" env:"ASKDOC_LLM_BASE_URL"`
	APIKey  string `toml:"api_key" env:"ASKDOC_LLM_API_KEY"`
}

// IndexConfig selects the vector index backend.
type IndexConfig struct {
	// Provider is "chromem" (persisted on disk) or "memory"
	// (brute-force, discarded on exit).
	Provider string `toml:"provider" env:"ASKDOC_INDEX_PROVIDER"`
}

// ChunkerConfig tunes document splitting.
type ChunkerConfig struct {
	ChunkSize    int `toml:"chunk_size" env:"ASKDOC_CHUNK_SIZE"`
	Overlap      int `toml:"overlap" env:"ASKDOC_CHUNK_OVERLAP"`
	MinChunkSize int `toml:"min_chunk_size" env:"ASKDOC_MIN_CHUNK_SIZE"`
}

// RetrievalConfig tunes querying.
type RetrievalConfig struct {
	// TopK is the number of chunks fetched per query.
	TopK int `toml:"top_k" env:"ASKDOC_TOP_K"`
}

// SMTPConfig configures outbound mail. An empty host disables email
// delivery (codes are printed to the terminal instead).
type SMTPConfig struct {
	Host     string `toml:"host" env:"ASKDOC_SMTP_HOST"`
	Port     int    `toml:"port" env:"ASKDOC_SMTP_PORT"`
	Username string `toml:"username" env:"ASKDOC_SMTP_USERNAME"`
	Password string `toml:"password" env:"ASKDOC_SMTP_PASSWORD"`
	From     string `toml:"from" env:"ASKDOC_SMTP_FROM"`
}

// AuthConfig tunes authentication.
type AuthConfig struct {
	// OTPTTLMinutes is how long a one-time code stays valid.
	OTPTTLMinutes int `toml:"otp_ttl_minutes" env:"ASKDOC_OTP_TTL_MINUTES"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Provider: "openai",
		},
		LLM: LLMConfig{
			Provider: "openai",
		},
		Index: IndexConfig{
			Provider: "chromem",
		},
		Chunker: ChunkerConfig{
			ChunkSize:    1000,
			Overlap:      200,
			MinChunkSize: 50,
		},
		Retrieval: RetrievalConfig{
			TopK: 4,
		},
		SMTP: SMTPConfig{
			Port: 587,
		},
		Auth: AuthConfig{
			OTPTTLMinutes: 10,
		},
	}
}

// DefaultPath returns ~/.askdoc/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".askdoc", "config.toml"), nil
}

// Load builds a Config from defaults, the TOML file at path (skipped
// when missing) and environment variable overrides. An empty path uses
// DefaultPath.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No config file is fine; defaults plus env apply.
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects configurations no component could run with.
func (c *Config) validate() error {
	switch c.Embedding.Provider {
	case "openai", "ollama":
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
	}

	switch c.LLM.Provider {
	case "openai", "anthropic", "ollama":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}

	switch c.Index.Provider {
	case "chromem", "memory":
	default:
		return fmt.Errorf("unknown index provider %q", c.Index.Provider)
	}

	if c.Chunker.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.Chunker.ChunkSize)
	}
	if c.Chunker.Overlap < 0 || c.Chunker.Overlap >= c.Chunker.ChunkSize {
		return fmt.Errorf("overlap must be in [0, chunk_size), got %d", c.Chunker.Overlap)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.Retrieval.TopK)
	}
	return nil
}
