// Package chunker splits cleaned document text into overlapping,
// bounded-size passages for embedding and retrieval.
//
// A single fixed-size splitter under- or over-fragments depending on
// document structure, so the processor layers three passes: paragraph
// breaks packed greedily up to the chunk stride, sentence ends inside
// stretches the paragraph pass could not bound, and a fixed stride for
// whatever remains. The merged starts are materialised into chunks that
// share a configurable number of trailing characters with their
// successor, preserving context across chunk boundaries.
package chunker

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/corvid-labs/askdoc/internal/core/domain"
	"github.com/corvid-labs/askdoc/internal/core/ports/driven"
)

// DefaultChunkSize is the default maximum number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of characters shared by
// consecutive chunks.
const DefaultChunkOverlap = 200

// DefaultMinChunkSize is the default minimum span length; starts closer
// together than this collapse into one chunk.
const DefaultMinChunkSize = 50

// Splitting passes, strongest first. When two passes propose starts
// closer together than the minimum chunk size, the stronger wins.
const (
	passStructural = iota
	passSentence
	passFixed
)

// Processor splits document content into overlapping chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize    int
	overlap      int
	minChunkSize int
}

var _ driven.PostProcessor = (*Processor)(nil)

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithMinChunkSize sets the minimum span length in characters.
func WithMinChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.minChunkSize = size
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:    DefaultChunkSize,
		overlap:      DefaultChunkOverlap,
		minChunkSize: DefaultMinChunkSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}
	if stride := p.chunkSize - p.overlap; p.minChunkSize > stride {
		p.minChunkSize = stride
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks. Input chunks are
// ignored; this processor creates new chunks from document content.
//
// Chunk i covers the characters from its start up to the next chunk's
// start plus the configured overlap, so consecutive chunks share
// exactly that many characters and the non-overlapping spans
// concatenate back to the original content. Identical input and
// configuration always yields an identical chunk sequence, IDs
// included, so re-ingesting a document upserts instead of duplicating.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if strings.TrimSpace(doc.Content) == "" {
		// Empty content produces no chunks
		return nil, nil
	}

	runes := []rune(doc.Content)
	starts := p.boundaries(runes)

	chunks := make([]domain.Chunk, 0, len(starts))
	for i, start := range starts {
		spanEnd := len(runes)
		if i+1 < len(starts) {
			spanEnd = starts[i+1]
		}
		end := spanEnd
		if spanEnd < len(runes) {
			end = spanEnd + p.overlap
			if end > len(runes) {
				end = len(runes)
			}
		}

		content := string(runes[start:end])
		if strings.TrimSpace(content) == "" {
			continue
		}

		position := len(chunks)
		chunks = append(chunks, domain.Chunk{
			ID:         chunkID(doc.ID, position, content),
			DocumentID: doc.ID,
			Position:   position,
			Content:    content,
			Start:      start,
			End:        spanEnd,
			Metadata:   make(map[string]any),
		})
	}

	return chunks, nil
}

// boundaries returns the sorted chunk start offsets for runes.
func (p *Processor) boundaries(runes []rune) []int {
	stride := p.chunkSize - p.overlap

	passes := map[int]int{0: passStructural}
	add := func(pass int) func(int) {
		return func(pos int) {
			if existing, ok := passes[pos]; !ok || pass < existing {
				passes[pos] = pass
			}
		}
	}

	oversized := pack(0, len(runes), stride, paragraphStarts(runes, 0, len(runes)), add(passStructural))

	var leftover [][2]int
	for _, seg := range oversized {
		leftover = append(leftover, pack(seg[0], seg[1], stride, sentenceStarts(runes, seg[0], seg[1]), add(passSentence))...)
	}
	for _, seg := range leftover {
		for pos := seg[0] + stride; pos < seg[1]; pos += stride {
			add(passFixed)(pos)
		}
	}

	starts := make([]int, 0, len(passes))
	for pos := range passes {
		starts = append(starts, pos)
	}
	sort.Ints(starts)

	return p.filter(starts, passes, len(runes))
}

// pack records a start at the furthest candidate reachable within
// stride of the previous start. Stretches with no reachable candidate
// are returned for a finer pass to subdivide.
func pack(start, end, stride int, candidates []int, add func(int)) [][2]int {
	var oversized [][2]int

	prev := start
	i := 0
	for end-prev > stride {
		best := -1
		for i < len(candidates) && candidates[i] <= prev+stride {
			if candidates[i] > prev {
				best = candidates[i]
			}
			i++
		}
		if best >= 0 {
			add(best)
			prev = best
			continue
		}

		next := end
		if i < len(candidates) {
			next = candidates[i]
			i++
		}
		oversized = append(oversized, [2]int{prev, next})
		if next == end {
			break
		}
		add(next)
		prev = next
	}

	return oversized
}

// filter drops starts that would produce a span shorter than the
// minimum chunk size, keeping the start proposed by the stronger pass.
// A trailing sliver folds into the previous chunk.
func (p *Processor) filter(starts []int, passes map[int]int, length int) []int {
	kept := []int{starts[0]}
	for _, pos := range starts[1:] {
		prev := kept[len(kept)-1]
		if pos-prev >= p.minChunkSize {
			kept = append(kept, pos)
			continue
		}
		// A stronger pass may take over the kept start, but only if the
		// later position still fits within one stride of the start
		// before it; otherwise the chunk ending here would exceed the
		// configured chunk size.
		if prev != 0 && passes[pos] < passes[prev] && pos-kept[len(kept)-2] <= p.chunkSize-p.overlap {
			kept[len(kept)-1] = pos
		}
	}

	if last := kept[len(kept)-1]; len(kept) > 1 && length-last < p.minChunkSize {
		kept = kept[:len(kept)-1]
	}

	return kept
}

// paragraphStarts returns offsets immediately after a blank line.
func paragraphStarts(runes []rune, start, end int) []int {
	var out []int
	for i := start + 2; i < end; i++ {
		if runes[i-1] == '\n' && runes[i-2] == '\n' && runes[i] != '\n' {
			out = append(out, i)
		}
	}
	return out
}

// sentenceStarts returns offsets immediately after a sentence
// terminator followed by whitespace.
func sentenceStarts(runes []rune, start, end int) []int {
	var out []int
	for i := start + 2; i < end; i++ {
		if isSentenceEnd(runes[i-2]) && unicode.IsSpace(runes[i-1]) && !unicode.IsSpace(runes[i]) {
			out = append(out, i)
		}
	}
	return out
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// chunkID derives a stable identifier from the document ID, chunk
// position and content, so identical input produces identical IDs.
func chunkID(docID string, position int, content string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%s", docID, position, content)))
	return hex.EncodeToString(sum[:16])
}
