package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var payloadValidator = validator.New()

// StructuredResponse wraps a completion whose content should be a JSON
// document shaped like T.
type StructuredResponse[T any] struct {
	Completion *Completion

	once     sync.Once
	payload  *T
	parseErr error
}

// ChatStructured runs a completion constrained to schema. The payload is not
// decoded until ParsePayload is called.
func ChatStructured[T any](ctx context.Context, p LLMProvider, history []Message, schema Schema, opts ...Option) (*StructuredResponse[T], error) {
	opts = append(opts, WithJSONSchema(schema))
	completion, err := p.Chat(ctx, history, opts...)
	if err != nil {
		return nil, err
	}
	return &StructuredResponse[T]{Completion: completion}, nil
}

// ParsePayload decodes and validates the completion content on first call
// and returns the same result afterwards. It returns nil when the content
// is missing, malformed, or fails validation.
func (r *StructuredResponse[T]) ParsePayload() *T {
	r.once.Do(func() {
		r.payload, r.parseErr = decodePayload[T](r.Completion)
		if r.parseErr != nil {
			zap.L().Warn("structured completion payload rejected",
				zap.String("module", "LLM"),
				zap.Error(r.parseErr),
			)
		}
	})
	return r.payload
}

// ParseError is the reason ParsePayload returned nil.
func (r *StructuredResponse[T]) ParseError() error {
	r.ParsePayload()
	return r.parseErr
}

func decodePayload[T any](c *Completion) (*T, error) {
	if c == nil {
		return nil, errors.New("no completion")
	}
	content := stripCodeFence(c.Content)
	if content == "" {
		return nil, errors.New("empty completion content")
	}

	var out T
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, err
	}
	if err := payloadValidator.Struct(out); err != nil {
		var invalid *validator.InvalidValidationError
		if !errors.As(err, &invalid) {
			return nil, err
		}
	}
	return &out, nil
}

// Some models wrap JSON in a markdown fence even in json_schema mode.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
