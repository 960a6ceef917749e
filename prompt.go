package assistant

import (
	"strings"

	"github.com/contoso-labs/handbook-assistant/schema"
)

const (
	excerptsHeader = "--- EMPLOYEE HANDBOOK EXCERPTS ---"
	excerptsFooter = "--- END OF EXCERPTS ---"
)

// BuildSystemMessage assembles the system instruction for a turn. With
// excerpts present the grounded persona is followed by the marked excerpt
// block; with none the fallback persona stands alone.
func BuildSystemMessage(scored []schema.ScoredChunk, grounded, fallback string) string {
	if len(scored) == 0 {
		return fallback
	}
	var b strings.Builder
	b.WriteString(grounded)
	b.WriteString("\n\n")
	b.WriteString(excerptsHeader)
	b.WriteString("\n")
	for i, sc := range scored {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(sc.Chunk.Text)
	}
	b.WriteString("\n")
	b.WriteString(excerptsFooter)
	return b.String()
}
