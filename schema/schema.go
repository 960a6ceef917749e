// Package schema defines the data types shared between pipeline stages.
package schema

// Chunk is a bounded contiguous segment of the reference document, the
// unit of retrieval. Chunks are immutable once the document is split.
type Chunk struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// ScoredChunk pairs a chunk with its lexical relevance score for one
// query. It is transient and never persisted.
type ScoredChunk struct {
	Chunk Chunk `json:"chunk"`
	Score int   `json:"score"`
}

// Texts extracts the chunk texts from a scored list, preserving order.
func Texts(scored []ScoredChunk) []string {
	if len(scored) == 0 {
		return nil
	}
	out := make([]string, len(scored))
	for i, s := range scored {
		out[i] = s.Chunk.Text
	}
	return out
}
