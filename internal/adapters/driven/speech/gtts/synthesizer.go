// Package gtts provides a speech synthesis adapter using the Google
// Translate TTS endpoint. Output is MP3.
//
// The endpoint caps each request at roughly 200 characters, so longer
// text is split at word boundaries and the MP3 streams concatenated.
// MP3 frames are self-contained, so concatenation plays back cleanly.
package gtts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/corvid-labs/askdoc/internal/core/domain"
	"github.com/corvid-labs/askdoc/internal/core/ports/driven"
)

// Ensure Synthesizer implements the interface.
var _ driven.SpeechSynthesizer = (*Synthesizer)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://translate.google.com/translate_tts"
	DefaultTimeout = 30 * time.Second

	// maxSegmentLen is the per-request character cap of the endpoint.
	maxSegmentLen = 200
)

// Config holds configuration for the gTTS synthesizer.
type Config struct {
	// BaseURL is the TTS endpoint (default: Google Translate TTS).
	BaseURL string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Synthesizer narrates text as MP3 audio.
type Synthesizer struct {
	client  *http.Client
	baseURL string
}

// NewSynthesizer creates a gTTS speech synthesizer.
func NewSynthesizer(cfg Config) *Synthesizer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Synthesizer{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
	}
}

// Synthesize returns an MP3 byte stream for the text in the given language.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, lang domain.Language) ([]byte, error) {
	if !lang.IsValid() {
		return nil, fmt.Errorf("%w: unknown language %q", domain.ErrInvalidInput, lang)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is empty", domain.ErrInvalidInput)
	}

	var audio []byte
	for _, segment := range splitSegments(text, maxSegmentLen) {
		part, err := s.fetchSegment(ctx, segment, languageCode(lang))
		if err != nil {
			return nil, err
		}
		audio = append(audio, part...)
	}
	return audio, nil
}

// fetchSegment requests audio for one text segment.
func (s *Synthesizer) fetchSegment(ctx context.Context, text, langCode string) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("tl", langCode)
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gtts error (status %d)", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return audio, nil
}

// languageCode maps a Language to the endpoint's short code.
func languageCode(lang domain.Language) string {
	tag := lang.Tag()
	if i := strings.Index(tag, "-"); i > 0 {
		return tag[:i]
	}
	return tag
}

// splitSegments breaks text into runs of at most limit runes, splitting
// at whitespace where possible.
func splitSegments(text string, limit int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var segments []string
	var current strings.Builder
	for _, word := range words {
		// A single over-long word is split hard.
		for len([]rune(word)) > limit {
			runes := []rune(word)
			if current.Len() > 0 {
				segments = append(segments, current.String())
				current.Reset()
			}
			segments = append(segments, string(runes[:limit]))
			word = string(runes[limit:])
		}
		if word == "" {
			continue
		}

		needed := len([]rune(word))
		if current.Len() > 0 {
			needed += 1 + len([]rune(current.String()))
		}
		if needed > limit && current.Len() > 0 {
			segments = append(segments, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		segments = append(segments, current.String())
	}
	return segments
}
