package factory

import (
	"fmt"
	"time"

	"learnflow-be/pkg/llm"
	"learnflow-be/pkg/llm/ollama"
	"learnflow-be/pkg/llm/openrouter"
)

type ProviderConfig struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	Referer  string
	AppTitle string
	Timeout  time.Duration
}

func NewLLMProvider(cfg ProviderConfig) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "openrouter", "":
		return openrouter.NewOpenRouterProvider(openrouter.Config{
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
			Model:    cfg.Model,
			Referer:  cfg.Referer,
			AppTitle: cfg.AppTitle,
			Timeout:  cfg.Timeout,
		})
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
