package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error [%s]: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("found %d configuration error(s):\n", len(errs)))
	for i, err := range errs {
		b.WriteString(fmt.Sprintf("  %d. [%s] %s\n", i+1, err.Field, err.Message))
	}
	return b.String()
}

// Validate validates the complete configuration
func (c *Config) Validate() error {
	var errs ValidationErrors

	errs = append(errs, c.validateDocument()...)
	errs = append(errs, c.validateRetrieval()...)
	errs = append(errs, c.validateLLM()...)
	errs = append(errs, c.validateMemory()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (c *Config) validateDocument() ValidationErrors {
	var errs ValidationErrors
	switch c.Document.Source {
	case SourceFile:
		if c.Document.Path == "" {
			errs = append(errs, ValidationError{Field: "document.path", Message: "path is required for the file source"})
		}
	case SourceHTTP:
		if c.Document.URL == "" {
			errs = append(errs, ValidationError{Field: "document.url", Message: "url is required for the http source"})
		} else if !strings.HasPrefix(c.Document.URL, "http://") && !strings.HasPrefix(c.Document.URL, "https://") {
			errs = append(errs, ValidationError{Field: "document.url", Message: "url must start with http:// or https://"})
		}
	default:
		errs = append(errs, ValidationError{Field: "document.source", Message: fmt.Sprintf("unknown source %q (available: file, http)", c.Document.Source)})
	}
	return errs
}

func (c *Config) validateRetrieval() ValidationErrors {
	var errs ValidationErrors
	if c.Retrieval.Splitter.Provider != "whitespace" {
		errs = append(errs, ValidationError{Field: "retrieval.splitter.provider", Message: fmt.Sprintf("unknown provider %q (available: whitespace)", c.Retrieval.Splitter.Provider)})
	}
	if c.Retrieval.Splitter.ChunkSize < 1 {
		errs = append(errs, ValidationError{Field: "retrieval.splitter.chunk_size", Message: "chunk_size must be positive"})
	}
	if c.Retrieval.TopK < 1 {
		errs = append(errs, ValidationError{Field: "retrieval.top_k", Message: "top_k must be positive"})
	}
	if c.Retrieval.MinTermLength < 0 {
		errs = append(errs, ValidationError{Field: "retrieval.min_term_length", Message: "min_term_length must not be negative"})
	}
	return errs
}

func (c *Config) validateLLM() ValidationErrors {
	var errs ValidationErrors
	if c.LLM.Provider != "openai" {
		errs = append(errs, ValidationError{Field: "llm.provider", Message: fmt.Sprintf("unknown provider %q (available: openai)", c.LLM.Provider)})
	}
	if c.LLM.Model == "" {
		errs = append(errs, ValidationError{Field: "llm.model", Message: "model is required"})
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, ValidationError{Field: "llm.temperature", Message: "temperature must be between 0 and 2"})
	}
	if c.LLM.MaxTokens < 1 {
		errs = append(errs, ValidationError{Field: "llm.max_tokens", Message: "max_tokens must be positive"})
	}
	return errs
}

func (c *Config) validateMemory() ValidationErrors {
	var errs ValidationErrors
	if c.Memory.MaxExchanges < 1 {
		errs = append(errs, ValidationError{Field: "memory.max_exchanges", Message: "max_exchanges must be positive"})
	}
	return errs
}
