package assistant

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contoso-labs/handbook-assistant/config"
	"github.com/contoso-labs/handbook-assistant/llm"
	"github.com/contoso-labs/handbook-assistant/memory"
)

type mockProvider struct {
	reply    string
	err      error
	requests [][]llm.Message
}

func (m *mockProvider) ChatCompletion(_ context.Context, messages []llm.Message) (*llm.Response, error) {
	m.requests = append(m.requests, messages)
	if m.err != nil {
		return nil, m.err
	}
	return &llm.Response{Content: m.reply}, nil
}

func (m *mockProvider) GetProviderType() string { return "mock" }

const handbookText = "Employees accrue twenty vacation days per year. " +
	"Unused vacation carries over up to five days. " +
	"Expense reports are due by the fifth business day of each month."

func newTestClient(t *testing.T, provider llm.Provider) *Client {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "handbook.txt")
	require.NoError(t, os.WriteFile(path, []byte(handbookText), 0o644))

	cfg := config.Default()
	cfg.Document.Path = path
	cfg.Retrieval.Splitter.ChunkSize = 60

	client, err := New(cfg, WithLLMProvider(provider))
	require.NoError(t, err)
	return client
}

func TestRespond_GroundedExchange(t *testing.T) {
	provider := &mockProvider{reply: "You get twenty days."}
	client := newTestClient(t, provider)

	result, err := client.Respond(context.Background(), "s1", "how many vacation days do I get?", true)
	require.NoError(t, err)
	assert.Equal(t, "You get twenty days.", result.Reply)
	require.NotEmpty(t, result.Sources)
	for _, src := range result.Sources {
		assert.Contains(t, handbookText, src)
	}

	// prompt shape: system with excerpts, then the user turn
	require.Len(t, provider.requests, 1)
	msgs := provider.requests[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, memory.RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "--- EMPLOYEE HANDBOOK EXCERPTS ---")
	assert.Equal(t, memory.RoleUser, msgs[1].Role)
	assert.Equal(t, "how many vacation days do I get?", msgs[1].Content)
}

func TestRespond_HistoryAccumulates(t *testing.T) {
	provider := &mockProvider{reply: "Answer."}
	client := newTestClient(t, provider)

	_, err := client.Respond(context.Background(), "s1", "first question about vacation", true)
	require.NoError(t, err)
	_, err = client.Respond(context.Background(), "s1", "second question about expenses", true)
	require.NoError(t, err)

	// second request carries the first exchange as history
	msgs := provider.requests[1]
	require.Len(t, msgs, 4)
	assert.Equal(t, memory.RoleUser, msgs[1].Role)
	assert.Equal(t, "first question about vacation", msgs[1].Content)
	assert.Equal(t, memory.RoleAssistant, msgs[2].Role)
	assert.Equal(t, "Answer.", msgs[2].Content)
}

func TestRespond_SessionsIsolated(t *testing.T) {
	provider := &mockProvider{reply: "Answer."}
	client := newTestClient(t, provider)

	_, err := client.Respond(context.Background(), "s1", "question about vacation days", true)
	require.NoError(t, err)
	_, err = client.Respond(context.Background(), "s2", "question about expense reports", true)
	require.NoError(t, err)

	// s2's request must not see s1's history
	msgs := provider.requests[1]
	require.Len(t, msgs, 2)
}

func TestRespond_NoRetrieval(t *testing.T) {
	provider := &mockProvider{reply: "Generic answer."}
	client := newTestClient(t, provider)

	result, err := client.Respond(context.Background(), "s1", "tell me a joke about spreadsheets", false)
	require.NoError(t, err)
	assert.Empty(t, result.Sources)

	msgs := provider.requests[0]
	assert.Equal(t, config.Default().Personas.Generic, msgs[0].Content)
	assert.NotContains(t, msgs[0].Content, "EXCERPTS")
}

func TestRespond_FallbackWhenNothingMatches(t *testing.T) {
	provider := &mockProvider{reply: "I could not find that."}
	client := newTestClient(t, provider)

	result, err := client.Respond(context.Background(), "s1", "quantum chromodynamics lagrangian", true)
	require.NoError(t, err)
	assert.Empty(t, result.Sources)

	msgs := provider.requests[0]
	assert.Equal(t, config.Default().Personas.Fallback, msgs[0].Content)
}

func TestRespond_EmptyMessage(t *testing.T) {
	client := newTestClient(t, &mockProvider{reply: "x"})

	_, err := client.Respond(context.Background(), "s1", "   \n ", true)
	require.Error(t, err)
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestRespond_CompletionFailureLeavesHistoryIntact(t *testing.T) {
	cause := errors.New("upstream 503")
	provider := &mockProvider{err: cause}
	client := newTestClient(t, provider)

	_, err := client.Respond(context.Background(), "s1", "question about vacation days", true)
	require.Error(t, err)
	assert.Equal(t, KindCompletionFailure, KindOf(err))
	assert.ErrorIs(t, err, cause)

	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, config.Default().Personas.Apology, ae.Message)

	assert.Empty(t, client.Memory().History("s1"))

	// the session recovers once the backend does
	provider.err = nil
	provider.reply = "Recovered."
	_, err = client.Respond(context.Background(), "s1", "question about vacation days", true)
	require.NoError(t, err)
	assert.Len(t, client.Memory().History("s1"), 2)
}

func TestSearchHandbook(t *testing.T) {
	client := newTestClient(t, &mockProvider{reply: "x"})

	scored, err := client.SearchHandbook(context.Background(), "vacation carries over")
	require.NoError(t, err)
	require.NotEmpty(t, scored)
	assert.True(t, strings.Contains(strings.ToLower(scored[0].Chunk.Text), "vacation"))

	_, err = client.SearchHandbook(context.Background(), "  ")
	require.Error(t, err)
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestRespond_MissingDocumentFallsBack(t *testing.T) {
	cfg := config.Default()
	cfg.Document.Path = filepath.Join(t.TempDir(), "missing.txt")

	provider := &mockProvider{reply: "No handbook here."}
	client, err := New(cfg, WithLLMProvider(provider))
	require.NoError(t, err)

	result, err := client.Respond(context.Background(), "s1", "question about vacation days", true)
	require.NoError(t, err)
	assert.Empty(t, result.Sources)
	assert.Equal(t, cfg.Personas.Fallback, provider.requests[0][0].Content)
	assert.Equal(t, "No handbook here.", result.Reply)
}
