package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountTokens(t *testing.T) {
	text := strings.Repeat("the employee handbook covers vacation policy ", 10)
	n := CountTokens("gpt-4.1", text)
	assert.Greater(t, n, 0)

	longer := CountTokens("gpt-4.1", text+text)
	assert.Greater(t, longer, n)
}

func TestEstimateUsage(t *testing.T) {
	messages := []Message{
		{Role: "system", Content: "You are a helpful assistant."},
		{Role: "user", Content: "How many vacation days do employees receive each year?"},
	}
	usage := EstimateUsage("gpt-4.1", messages, "Employees receive twenty vacation days per year.")
	require.NotNil(t, usage)
	assert.Greater(t, usage.PromptTokens, 0)
	assert.Greater(t, usage.CompletionTokens, 0)
	assert.Equal(t, usage.PromptTokens+usage.CompletionTokens, usage.TotalTokens)
}
