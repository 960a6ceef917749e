package retriever

import (
	"context"
	"sort"
	"strings"

	"github.com/contoso-labs/handbook-assistant/common/logger"
	"github.com/contoso-labs/handbook-assistant/document"
	"github.com/contoso-labs/handbook-assistant/schema"
)

// edgePunct is stripped from both ends of each query term.
const edgePunct = `.,?!;:()"'`

// LexicalRetriever ranks chunks by substring term frequency. Terms at or
// below MinTermLength are discarded, which keeps stopwords and particles
// from dominating the score.
type LexicalRetriever struct {
	Store         *document.Store
	TopK          int
	MinTermLength int
}

func NewLexicalRetriever(store *document.Store, topK, minTermLength int) *LexicalRetriever {
	if topK <= 0 {
		topK = 3
	}
	if minTermLength <= 0 {
		minTermLength = 3
	}
	return &LexicalRetriever{Store: store, TopK: topK, MinTermLength: minTermLength}
}

func (r *LexicalRetriever) Type() string { return TypeLexical }

// Search returns up to topK chunks with a positive score, ordered by
// score descending with document order breaking ties. A document that
// could not be loaded degrades to an empty result.
func (r *LexicalRetriever) Search(ctx context.Context, query string, topK int) ([]schema.ScoredChunk, error) {
	if topK <= 0 {
		topK = r.TopK
	}
	terms := QueryTerms(query, r.MinTermLength)
	if len(terms) == 0 {
		return nil, nil
	}
	chunks, err := r.Store.EnsureLoaded(ctx)
	if err != nil {
		logger.Warnf("retriever: document unavailable, returning no results: %v", err)
		return nil, nil
	}
	scored := ScoreChunks(chunks, terms)
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

// QueryTerms extracts the scoring terms from a query: lowercased,
// whitespace-split, edge punctuation trimmed, terms of minLen characters
// or fewer dropped.
func QueryTerms(query string, minLen int) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) <= minLen {
			continue
		}
		f = strings.Trim(f, edgePunct)
		if f == "" {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}

// ScoreChunks sums the non-overlapping occurrences of each term in each
// chunk's lowercased text. Chunks scoring zero are omitted; the sort is
// stable so equal scores keep document order.
func ScoreChunks(chunks []schema.Chunk, terms []string) []schema.ScoredChunk {
	scored := make([]schema.ScoredChunk, 0, len(chunks))
	for _, c := range chunks {
		text := strings.ToLower(c.Text)
		score := 0
		for _, term := range terms {
			score += strings.Count(text, term)
		}
		if score == 0 {
			continue
		}
		scored = append(scored, schema.ScoredChunk{Chunk: c, Score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
