package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"learnflow-be/pkg/llm"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "openai/gpt-4o-mini"
)

type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Referer  string
	AppTitle string
	Timeout  time.Duration
}

type OpenRouterProvider struct {
	apiKey   string
	baseURL  string
	model    string
	referer  string
	appTitle string
	client   *http.Client
	now      func() time.Time
}

var _ llm.LLMProvider = &OpenRouterProvider{}

// NewOpenRouterProvider fails when no API key is configured so that a
// misconfigured deployment is caught at boot instead of on the first note.
func NewOpenRouterProvider(cfg Config) (*OpenRouterProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openrouter: api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &OpenRouterProvider{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		model:    cfg.Model,
		referer:  cfg.Referer,
		appTitle: cfg.AppTitle,
		client:   &http.Client{Timeout: cfg.Timeout},
		now:      time.Now,
	}, nil
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *jsonSchema `json:"json_schema,omitempty"`
}

type jsonSchema struct {
	Name   string                 `json:"name"`
	Strict bool                   `json:"strict"`
	Schema map[string]interface{} `json:"schema"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage llm.Usage `json:"usage"`
}

type errorEnvelope struct {
	Error struct {
		Message  string          `json:"message"`
		Code     json.RawMessage `json:"code"`
		Metadata json.RawMessage `json:"metadata"`
	} `json:"error"`
}

func (p *OpenRouterProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.Completion, error) {
	options := llm.ApplyOptions(opts...)

	model := p.model
	if options.Model != "" {
		model = options.Model
	}

	messages := make([]chatMessage, len(history))
	for i, msg := range history {
		messages[i] = chatMessage{Role: msg.Role, Content: msg.Content}
	}

	reqPayload := chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: options.Temperature,
		MaxTokens:   options.MaxTokens,
	}
	if options.Schema != nil {
		reqPayload.ResponseFormat = &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchema{
				Name:   options.Schema.Name,
				Strict: true,
				Schema: options.Schema.Definition,
			},
		}
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	if p.referer != "" {
		req.Header.Set("HTTP-Referer", p.referer)
	}
	if p.appTitle != "" {
		req.Header.Set("X-Title", p.appTitle)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &llm.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &llm.NetworkError{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, p.apiError(resp, bodyBytes)
	}

	var decoded chatResponse
	if err := json.Unmarshal(bodyBytes, &decoded); err != nil {
		return nil, &llm.ParsingError{StatusCode: resp.StatusCode, Raw: string(bodyBytes), Err: err}
	}
	if len(decoded.Choices) == 0 {
		return nil, &llm.ParsingError{StatusCode: resp.StatusCode, Raw: string(bodyBytes), Err: errors.New("response has no choices")}
	}

	return &llm.Completion{
		ID:           decoded.ID,
		Model:        decoded.Model,
		Content:      decoded.Choices[0].Message.Content,
		FinishReason: decoded.Choices[0].FinishReason,
		Usage:        decoded.Usage,
		Raw:          bodyBytes,
	}, nil
}

func (p *OpenRouterProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (*llm.Completion, error) {
	return p.Chat(ctx, []llm.Message{llm.UserMessage(prompt)}, opts...)
}

func (p *OpenRouterProvider) apiError(resp *http.Response, body []byte) *llm.APIError {
	apiErr := &llm.APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
		Details:    string(body),
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Message = envelope.Error.Message
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		apiErr.RetryAfter = llm.RetryAfter(resp.Header, p.now())
	}
	return apiErr
}
