package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/contoso-labs/handbook-assistant/schema"
)

func TestBuildSystemMessage_Grounded(t *testing.T) {
	scored := []schema.ScoredChunk{
		{Chunk: schema.Chunk{Index: 2, Text: "Vacation carries over up to five days."}, Score: 3},
		{Chunk: schema.Chunk{Index: 0, Text: "Employees accrue twenty vacation days."}, Score: 1},
	}
	msg := BuildSystemMessage(scored, "grounded persona", "fallback persona")

	assert.True(t, strings.HasPrefix(msg, "grounded persona"))
	assert.Contains(t, msg, "--- EMPLOYEE HANDBOOK EXCERPTS ---")
	assert.Contains(t, msg, "--- END OF EXCERPTS ---")
	assert.Contains(t, msg, "Vacation carries over up to five days.\n\nEmployees accrue twenty vacation days.")

	header := strings.Index(msg, "--- EMPLOYEE HANDBOOK EXCERPTS ---")
	footer := strings.Index(msg, "--- END OF EXCERPTS ---")
	assert.Less(t, header, footer)
	assert.NotContains(t, msg, "fallback persona")
}

func TestBuildSystemMessage_Fallback(t *testing.T) {
	msg := BuildSystemMessage(nil, "grounded persona", "fallback persona")
	assert.Equal(t, "fallback persona", msg)
	assert.NotContains(t, msg, "EXCERPTS")
}
