// Package textsplitter turns raw document text into bounded chunks for
// retrieval.
package textsplitter

import (
	"fmt"
	"strings"

	"github.com/contoso-labs/handbook-assistant/config"
	"github.com/contoso-labs/handbook-assistant/schema"
)

const ProviderWhitespace = "whitespace"

// TextSplitter converts a document into retrieval chunks.
type TextSplitter interface {
	SplitText(text string) []schema.Chunk
}

func NewTextSplitter(cfg *config.SplitterConfig) (TextSplitter, error) {
	provider := ProviderWhitespace
	chunkSize := 0
	if cfg != nil {
		if cfg.Provider != "" {
			provider = cfg.Provider
		}
		chunkSize = cfg.ChunkSize
	}
	switch provider {
	case ProviderWhitespace:
		return NewWhitespaceSplitter(chunkSize), nil
	default:
		return nil, fmt.Errorf("textsplitter: unsupported provider %q", provider)
	}
}

// WhitespaceSplitter packs whitespace-delimited tokens greedily into
// chunks of at most MaxChars characters. Tokens are joined with single
// spaces; a token longer than MaxChars becomes a chunk by itself.
type WhitespaceSplitter struct {
	MaxChars int
}

func NewWhitespaceSplitter(maxChars int) *WhitespaceSplitter {
	if maxChars <= 0 {
		maxChars = 800
	}
	return &WhitespaceSplitter{MaxChars: maxChars}
}

func (s *WhitespaceSplitter) SplitText(text string) []schema.Chunk {
	tokens := strings.Fields(text)
	chunks := make([]schema.Chunk, 0, len(tokens)/64+1)
	var buf strings.Builder
	emit := func() {
		if buf.Len() == 0 {
			return
		}
		chunks = append(chunks, schema.Chunk{Index: len(chunks), Text: buf.String()})
		buf.Reset()
	}
	for _, tok := range tokens {
		switch {
		case buf.Len() == 0:
			buf.WriteString(tok)
		case buf.Len()+1+len(tok) > s.MaxChars:
			emit()
			buf.WriteString(tok)
		default:
			buf.WriteByte(' ')
			buf.WriteString(tok)
		}
	}
	emit()
	return chunks
}
