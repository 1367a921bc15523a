package llm

import (
	"context"
	"encoding/json"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

func SystemMessage(content string) Message { return Message{Role: "system", Content: content} }

func UserMessage(content string) Message { return Message{Role: "user", Content: content} }

// Schema is a named JSON Schema the model output has to conform to.
type Schema struct {
	Name       string
	Definition map[string]interface{}
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature *float64
	MaxTokens   int
	Model       string // Override default model
	Schema      *Schema
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = &temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithJSONSchema asks the provider for strict structured output.
func WithJSONSchema(schema Schema) Option {
	return func(o *Options) {
		o.Schema = &schema
	}
}

func ApplyOptions(opts ...Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the decoded provider response. Content holds the first
// choice's message text; Raw keeps the full body for diagnostics.
type Completion struct {
	ID           string
	Model        string
	Content      string
	FinishReason string
	Usage        Usage
	Raw          json.RawMessage
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (*Completion, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (*Completion, error)
}
