// Package config holds the assistant configuration: document source,
// retrieval tuning, completion service credentials, session memory
// limits and persona texts. Configuration is read from a YAML file;
// secrets come from the environment.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Document  DocumentConfig  `json:"document" yaml:"document"`
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval"`
	LLM       LLMConfig       `json:"llm" yaml:"llm"`
	Memory    MemoryConfig    `json:"memory" yaml:"memory"`
	Personas  PersonaConfig   `json:"personas" yaml:"personas"`
	Server    ServerConfig    `json:"server" yaml:"server"`
	// Cache holds optional retrieval result cache settings. If nil, caching is disabled.
	Cache *CacheConfig `json:"cache,omitempty" yaml:"cache,omitempty"`
	// HTTP holds outbound HTTP client defaults for remote document sources.
	HTTP *HTTPClientConfig `json:"http,omitempty" yaml:"http,omitempty"`
}

// DocumentConfig describes where the reference document comes from.
type DocumentConfig struct {
	// Name is the logical name of the document, used in log lines.
	Name string `json:"name" yaml:"name"`
	// Source selects the provider. Available options: file, http
	Source string `json:"source" yaml:"source"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
}

// RetrievalConfig contains tuning for the chunker and the lexical scorer.
type RetrievalConfig struct {
	Splitter SplitterConfig `json:"splitter" yaml:"splitter"`
	// TopK is the maximum number of chunks returned per query.
	TopK int `json:"top_k,omitempty" yaml:"top_k,omitempty"`
	// MinTermLength drops query terms of this length or shorter.
	MinTermLength int `json:"min_term_length,omitempty" yaml:"min_term_length,omitempty"`
}

// SplitterConfig defines document splitter configuration
type SplitterConfig struct {
	Provider  string `json:"provider" yaml:"provider"` // Available options: whitespace
	ChunkSize int    `json:"chunk_size,omitempty" yaml:"chunk_size,omitempty"`
}

// LLMConfig defines configuration for the completion service.
type LLMConfig struct {
	Provider string `json:"provider" yaml:"provider"` // Available options: openai
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv   string  `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty"`
	APIKey      string  `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL     string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	TopP        float64 `json:"top_p,omitempty" yaml:"top_p,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
}

// MemoryConfig bounds per-session conversation history.
type MemoryConfig struct {
	// MaxExchanges caps stored history per session; one exchange is a
	// user turn plus an assistant turn.
	MaxExchanges int `json:"max_exchanges,omitempty" yaml:"max_exchanges,omitempty"`
}

// PersonaConfig holds the system instruction texts for each answer mode.
type PersonaConfig struct {
	Grounded string `json:"grounded,omitempty" yaml:"grounded,omitempty"`
	Fallback string `json:"fallback,omitempty" yaml:"fallback,omitempty"`
	Generic  string `json:"generic,omitempty" yaml:"generic,omitempty"`
	// Apology is the user-safe reply returned when the completion call fails.
	Apology string `json:"apology,omitempty" yaml:"apology,omitempty"`
}

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// CacheConfig configures the in-process retrieval result cache.
type CacheConfig struct {
	Enable     bool `json:"enable" yaml:"enable"`
	MaxEntries int  `json:"max_entries,omitempty" yaml:"max_entries,omitempty"`
	TTLSeconds int  `json:"ttl_seconds,omitempty" yaml:"ttl_seconds,omitempty"`
}

// HTTPClientConfig tunes the outbound HTTP client used by remote
// document sources.
type HTTPClientConfig struct {
	TimeoutMs              int      `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
	Retry                  int      `json:"retry,omitempty" yaml:"retry,omitempty"`
	BackoffMinMs           int      `json:"backoff_min_ms,omitempty" yaml:"backoff_min_ms,omitempty"`
	BackoffMaxMs           int      `json:"backoff_max_ms,omitempty" yaml:"backoff_max_ms,omitempty"`
	MaxConsecutiveFailures int      `json:"max_consecutive_failures,omitempty" yaml:"max_consecutive_failures,omitempty"`
	CircuitOpenSeconds     int      `json:"circuit_open_seconds,omitempty" yaml:"circuit_open_seconds,omitempty"`
	HostAllowlist          []string `json:"host_allowlist,omitempty" yaml:"host_allowlist,omitempty"`
}

// Document source providers.
const (
	SourceFile = "file"
	SourceHTTP = "http"
)

const (
	defaultChunkSize     = 800
	defaultTopK          = 3
	defaultMinTermLength = 3
	defaultMaxExchanges  = 10
	defaultModel         = "gpt-4.1"
	defaultMaxTokens     = 4096
	defaultAddr          = ":3001"
	defaultAPIKeyEnv     = "OPENAI_API_KEY"
)

// Persona defaults. The excerpt block is appended by the context
// assembler; these texts only carry the instruction part.
const (
	defaultGroundedPersona = "You are a helpful assistant answering questions about the company based on its employee handbook. " +
		"Use ONLY the following information from the handbook to answer the user's question. " +
		"If you can't find relevant information in the provided context, say so clearly."
	defaultFallbackPersona = "You are a helpful assistant. No relevant information was found in the employee handbook for this question."
	defaultGenericPersona  = "You are a helpful assistant."
	defaultApology         = "Sorry, I encountered an error processing your request. Please try again."
)

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{
		Document: DocumentConfig{
			Name:   "employee handbook",
			Source: SourceFile,
			Path:   "data/contoso-employee-handbook.txt",
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// Load reads a config from path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Document.Name == "" {
		c.Document.Name = "employee handbook"
	}
	if c.Document.Source == "" {
		c.Document.Source = SourceFile
	}
	if c.Retrieval.Splitter.Provider == "" {
		c.Retrieval.Splitter.Provider = "whitespace"
	}
	if c.Retrieval.Splitter.ChunkSize == 0 {
		c.Retrieval.Splitter.ChunkSize = defaultChunkSize
	}
	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = defaultTopK
	}
	if c.Retrieval.MinTermLength == 0 {
		c.Retrieval.MinTermLength = defaultMinTermLength
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.APIKeyEnv == "" {
		c.LLM.APIKeyEnv = defaultAPIKeyEnv
	}
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv(c.LLM.APIKeyEnv)
	}
	if c.LLM.Model == "" {
		c.LLM.Model = defaultModel
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 1
	}
	if c.LLM.TopP == 0 {
		c.LLM.TopP = 1
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = defaultMaxTokens
	}
	if c.Memory.MaxExchanges == 0 {
		c.Memory.MaxExchanges = defaultMaxExchanges
	}
	if c.Personas.Grounded == "" {
		c.Personas.Grounded = defaultGroundedPersona
	}
	if c.Personas.Fallback == "" {
		c.Personas.Fallback = defaultFallbackPersona
	}
	if c.Personas.Generic == "" {
		c.Personas.Generic = defaultGenericPersona
	}
	if c.Personas.Apology == "" {
		c.Personas.Apology = defaultApology
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if c.Cache != nil && c.Cache.Enable {
		if c.Cache.MaxEntries == 0 {
			c.Cache.MaxEntries = 512
		}
		if c.Cache.TTLSeconds == 0 {
			c.Cache.TTLSeconds = 120
		}
	}
}
