package postprocessors

import (
	"github.com/corvid-labs/askdoc/internal/core/ports/driven"
	"github.com/corvid-labs/askdoc/internal/postprocessors/chunker"
)

// buildChunker creates a chunker processor from generic settings.
// Supported keys:
//   - chunk_size (int): maximum characters per chunk
//   - overlap (int): characters shared by consecutive chunks
//   - min_chunk_size (int): minimum characters per chunk
func buildChunker(settings map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if settings != nil {
		if size := intSetting(settings, "chunk_size"); size > 0 {
			opts = append(opts, chunker.WithChunkSize(size))
		}
		if _, ok := settings["overlap"]; ok {
			opts = append(opts, chunker.WithOverlap(intSetting(settings, "overlap")))
		}
		if minSize := intSetting(settings, "min_chunk_size"); minSize > 0 {
			opts = append(opts, chunker.WithMinChunkSize(minSize))
		}
	}

	return chunker.New(opts...), nil
}

// intSetting extracts an int setting, accepting the int, int64 and
// float64 representations TOML and JSON decoders produce.
func intSetting(settings map[string]any, key string) int {
	val, ok := settings[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
