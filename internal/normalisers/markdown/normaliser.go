package markdown

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"

	"github.com/corvid-labs/askdoc/internal/core/domain"
	"github.com/corvid-labs/askdoc/internal/core/ports/driven"
	"github.com/corvid-labs/askdoc/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents. Formatting is stripped by
// walking the parsed AST; headings and paragraphs become paragraph
// breaks so document structure survives into the structural chunking pass.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise converts a markdown document to cleaned plain text.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := stripMarkdown(raw.Content)

	doc := domain.Document{
		ID:      uuid.New().String(),
		Name:    raw.Name,
		Content: normalisers.Clean(content),
		Metadata: map[string]any{
			"mime_type": raw.MIMEType,
			"format":    "markdown",
		},
		CreatedAt: time.Now().UTC(),
	}

	return &driven.NormaliseResult{Document: doc}, nil
}

// stripMarkdown renders the markdown AST as plain text, one paragraph
// per block-level node. Code blocks and images are dropped.
func stripMarkdown(source []byte) string {
	md := goldmark.New()
	root := md.Parser().Parse(gtext.NewReader(source))

	var blocks []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			blocks = append(blocks, s)
		}
		current.Reset()
	}

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.ListItem:
			if entering {
				flush()
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.Image:
			if entering {
				return ast.WalkSkipChildren, nil
			}
		case *ast.Text:
			if entering {
				current.Write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					current.WriteByte(' ')
				}
			}
		case *ast.String:
			if entering {
				current.Write(node.Value)
			}
		}
		return ast.WalkContinue, nil
	})
	flush()

	return strings.Join(blocks, "\n\n")
}
