// Package assistant answers questions about the employee handbook. It
// wires document loading, lexical retrieval, session memory and the chat
// completion backend into a single request/response cycle.
package assistant

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/contoso-labs/handbook-assistant/cache"
	"github.com/contoso-labs/handbook-assistant/common/httpx"
	"github.com/contoso-labs/handbook-assistant/common/logger"
	"github.com/contoso-labs/handbook-assistant/config"
	"github.com/contoso-labs/handbook-assistant/document"
	"github.com/contoso-labs/handbook-assistant/llm"
	"github.com/contoso-labs/handbook-assistant/memory"
	"github.com/contoso-labs/handbook-assistant/metrics"
	"github.com/contoso-labs/handbook-assistant/retriever"
	"github.com/contoso-labs/handbook-assistant/schema"
	"github.com/contoso-labs/handbook-assistant/textsplitter"
)

// Result is one assistant reply plus the handbook excerpts it was
// grounded on.
type Result struct {
	Reply   string   `json:"reply"`
	Sources []string `json:"sources"`
}

// Client is the conversation orchestrator.
type Client struct {
	cfg       *config.Config
	store     *document.Store
	retriever retriever.Retriever
	memory    memory.ConversationStore
	provider  llm.Provider
	results   cache.ResultCache
}

// Option overrides a constructed dependency, mainly for tests and
// embedders.
type Option func(*Client)

func WithLLMProvider(p llm.Provider) Option {
	return func(c *Client) { c.provider = p }
}

func WithDocumentSource(src document.Source) Option {
	return func(c *Client) {
		c.store = document.NewStore(c.cfg.Document.Name, src, mustSplitter(c.cfg))
	}
}

func WithMemory(store memory.ConversationStore) Option {
	return func(c *Client) { c.memory = store }
}

func mustSplitter(cfg *config.Config) textsplitter.TextSplitter {
	sp, err := textsplitter.NewTextSplitter(&cfg.Retrieval.Splitter)
	if err != nil {
		// config was validated before construction
		panic(err)
	}
	return sp
}

// New builds a Client from validated config.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		cfg:     cfg,
		memory:  memory.NewInMemoryStore(cfg.Memory.MaxExchanges),
		results: cache.NewFromConfig(cfg.Cache),
	}

	splitter, err := textsplitter.NewTextSplitter(&cfg.Retrieval.Splitter)
	if err != nil {
		return nil, err
	}
	var src document.Source
	switch cfg.Document.Source {
	case config.SourceHTTP:
		src = &document.HTTPSource{URL: cfg.Document.URL, Client: httpx.NewFromConfig(cfg.HTTP)}
	default:
		src = &document.FileSource{Path: cfg.Document.Path}
	}
	c.store = document.NewStore(cfg.Document.Name, src, splitter)

	for _, opt := range opts {
		opt(c)
	}

	c.retriever = retriever.NewLexicalRetriever(c.store, cfg.Retrieval.TopK, cfg.Retrieval.MinTermLength)

	if c.provider == nil {
		p, err := llm.NewProvider(cfg.LLM)
		if err != nil {
			return nil, err
		}
		c.provider = p
	}
	return c, nil
}

// Memory exposes the conversation store for surfaces that manage
// sessions directly.
func (c *Client) Memory() memory.ConversationStore { return c.memory }

// Respond runs one exchange: retrieve (unless opted out), compose the
// prompt with session history, call the model and record the round. A
// failed completion leaves history untouched and returns a
// completion_failure error whose Message is safe to show the user.
func (c *Client) Respond(ctx context.Context, sessionID, message string, useRetrieval bool) (*Result, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, &Error{Kind: KindInvalidInput, Message: "message must not be empty"}
	}
	if sessionID == "" {
		return nil, &Error{Kind: KindInvalidInput, Message: "session_id must not be empty"}
	}

	var scored []schema.ScoredChunk
	var system string
	if useRetrieval {
		var err error
		scored, err = c.search(ctx, message)
		if err != nil {
			return nil, err
		}
		system = BuildSystemMessage(scored, c.cfg.Personas.Grounded, c.cfg.Personas.Fallback)
	} else {
		system = c.cfg.Personas.Generic
	}

	// the gate serializes read-complete-append per session
	release := c.memory.Acquire(sessionID)
	defer release()

	history := c.memory.History(sessionID)
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: memory.RoleSystem, Content: system})
	for _, t := range history {
		messages = append(messages, llm.Message{Role: t.Role, Content: t.Content})
	}
	messages = append(messages, llm.Message{Role: memory.RoleUser, Content: message})

	resp, err := c.provider.ChatCompletion(ctx, messages)
	if err != nil {
		metrics.IncCompletionFailure()
		logger.Errorf("completion failed for session %s: %v", sessionID, err)
		return nil, &Error{
			Kind:    KindCompletionFailure,
			Message: c.cfg.Personas.Apology,
			Err:     err,
		}
	}

	usage := resp.Usage
	if usage == nil {
		usage = llm.EstimateUsage(c.cfg.LLM.Model, messages, resp.Content)
	}
	metrics.ObservePromptTokens(usage.PromptTokens)
	logger.Debugf("session %s: %d prompt tokens, %d excerpts", sessionID, usage.PromptTokens, len(scored))

	c.memory.AppendExchange(sessionID, message, resp.Content)

	return &Result{Reply: resp.Content, Sources: schema.Texts(scored)}, nil
}

// SearchHandbook scores the handbook against a query without running a
// completion.
func (c *Client) SearchHandbook(ctx context.Context, query string) ([]schema.ScoredChunk, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &Error{Kind: KindInvalidInput, Message: "query must not be empty"}
	}
	return c.search(ctx, query)
}

func (c *Client) search(ctx context.Context, query string) ([]schema.ScoredChunk, error) {
	if c.results != nil {
		key := cacheKey(query)
		if hit, ok := c.results.Get(key); ok {
			metrics.IncCacheLookup(true)
			return hit, nil
		}
		metrics.IncCacheLookup(false)
		scored, err := c.searchUncached(ctx, query)
		if err != nil {
			return nil, err
		}
		c.results.Set(key, scored, 0)
		return scored, nil
	}
	return c.searchUncached(ctx, query)
}

func (c *Client) searchUncached(ctx context.Context, query string) ([]schema.ScoredChunk, error) {
	start := time.Now()
	scored, err := c.retriever.Search(ctx, query, c.cfg.Retrieval.TopK)
	if err != nil {
		return nil, fmt.Errorf("search handbook: %w", err)
	}
	metrics.ObserveRetriever(c.retriever.Type(), start, len(scored))
	return scored, nil
}

func cacheKey(query string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return hex.EncodeToString(sum[:])
}
