package llm

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cannedProvider struct {
	content string
	calls   int
	options *Options
}

func (p *cannedProvider) Chat(ctx context.Context, history []Message, opts ...Option) (*Completion, error) {
	p.calls++
	p.options = ApplyOptions(opts...)
	return &Completion{Content: p.content}, nil
}

func (p *cannedProvider) Generate(ctx context.Context, prompt string, opts ...Option) (*Completion, error) {
	return p.Chat(ctx, []Message{UserMessage(prompt)}, opts...)
}

type quiz struct {
	Questions []struct {
		Question string `json:"question" validate:"required"`
	} `json:"questions" validate:"min=3,max=5,dive"`
}

func TestChatStructuredAttachesSchema(t *testing.T) {
	p := &cannedProvider{content: `{"questions":[{"question":"a"},{"question":"b"},{"question":"c"}]}`}

	res, err := ChatStructured[quiz](context.Background(), p, nil, Schema{Name: "generate_qa"})
	require.NoError(t, err)

	require.NotNil(t, p.options.Schema)
	assert.Equal(t, "generate_qa", p.options.Schema.Name)
	require.NotNil(t, res.ParsePayload())
	assert.Len(t, res.ParsePayload().Questions, 3)
	assert.NoError(t, res.ParseError())
}

func TestParsePayloadRejectsInvalidShapes(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"not json", "Sure! Here are your questions."},
		{"too few questions", `{"questions":[{"question":"a"}]}`},
		{"blank question", `{"questions":[{"question":"a"},{"question":""},{"question":"c"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &StructuredResponse[quiz]{Completion: &Completion{Content: tt.content}}
			assert.Nil(t, res.ParsePayload())
			assert.Error(t, res.ParseError())
		})
	}
}

func TestParsePayloadStripsCodeFence(t *testing.T) {
	res := &StructuredResponse[quiz]{Completion: &Completion{
		Content: "```json\n{\"questions\":[{\"question\":\"a\"},{\"question\":\"b\"},{\"question\":\"c\"}]}\n```",
	}}
	assert.NotNil(t, res.ParsePayload())
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{"absent", "", 0},
		{"seconds", "12", 12 * time.Second},
		{"negative", "-3", 0},
		{"http date", now.Add(90 * time.Second).Format(http.TimeFormat), 90 * time.Second},
		{"past date", now.Add(-time.Minute).Format(http.TimeFormat), 0},
		{"garbage", "later", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set("Retry-After", tt.header)
			}
			assert.Equal(t, tt.want, RetryAfter(h, now))
		})
	}
}
