// Package retriever scores handbook chunks against a user query.
package retriever

import (
	"context"

	"github.com/contoso-labs/handbook-assistant/schema"
)

const TypeLexical = "lexical"

// Retriever returns the chunks most relevant to a query, best first.
type Retriever interface {
	Type() string
	Search(ctx context.Context, query string, topK int) ([]schema.ScoredChunk, error)
}
