package llm

import (
	"github.com/pkoukk/tiktoken-go"
)

// CountTokens estimates the token length of text for a model. Unknown
// models fall back to the cl100k_base encoding, and an encoder failure
// falls back to a chars/4 heuristic.
func CountTokens(model, text string) int {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
	}
	if err != nil {
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

// EstimateUsage fills in prompt token usage for backends that do not
// report it.
func EstimateUsage(model string, messages []Message, completion string) *Usage {
	prompt := 0
	for _, m := range messages {
		prompt += CountTokens(model, m.Content)
	}
	out := CountTokens(model, completion)
	return &Usage{
		PromptTokens:     prompt,
		CompletionTokens: out,
		TotalTokens:      prompt + out,
	}
}
