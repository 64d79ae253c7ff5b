package llm

import (
	"context"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/voyage-ai/voyage/internal/config"
	"github.com/voyage-ai/voyage/internal/types"
)

// modelNarrator wraps a langchaingo model behind the Narrator interface.
// All configured providers share this implementation; only construction
// differs.
type modelNarrator struct {
	name  string
	model llms.Model
}

func newOpenAINarrator(cfg config.LLMConfig) (Narrator, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, types.NewError(types.LLM_PROVIDER_UNKNOWN, "openai narrator requires an API key")
	}

	opts := []openai.Option{openai.WithToken(apiKey)}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, types.WrapError(types.LLM_GENERATION_FAILED, "openai narrator init failed", err)
	}
	return &modelNarrator{name: "openai", model: client}, nil
}

func newAnthropicNarrator(cfg config.LLMConfig) (Narrator, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, types.NewError(types.LLM_PROVIDER_UNKNOWN, "anthropic narrator requires an API key")
	}

	opts := []anthropic.Option{anthropic.WithToken(apiKey)}
	if cfg.Model != "" {
		opts = append(opts, anthropic.WithModel(cfg.Model))
	}
	client, err := anthropic.New(opts...)
	if err != nil {
		return nil, types.WrapError(types.LLM_GENERATION_FAILED, "anthropic narrator init failed", err)
	}
	return &modelNarrator{name: "anthropic", model: client}, nil
}

func newOllamaNarrator(cfg config.LLMConfig) (Narrator, error) {
	model := cfg.Model
	if model == "" {
		model = "llama3"
	}
	client, err := ollama.New(ollama.WithModel(model))
	if err != nil {
		return nil, types.WrapError(types.LLM_GENERATION_FAILED, "ollama narrator init failed", err)
	}
	return &modelNarrator{name: "ollama", model: client}, nil
}

func (n *modelNarrator) Name() string {
	return n.name
}

func (n *modelNarrator) Narrate(ctx context.Context, req NarrativeRequest) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, n.model, prompt(req),
		llms.WithTemperature(0.4))
	if err != nil {
		return "", types.WrapError(types.LLM_GENERATION_FAILED, n.name+" narration failed", err)
	}
	if strings.TrimSpace(out) == "" {
		return "", types.NewError(types.LLM_GENERATION_FAILED, n.name+" returned an empty narration")
	}
	return out, nil
}

func (n *modelNarrator) Health(ctx context.Context) types.HealthStatus {
	_, err := llms.GenerateFromSinglePrompt(ctx, n.model, "ping", llms.WithMaxTokens(1))
	if err != nil {
		return types.Unhealthy(n.name + ": " + err.Error())
	}
	return types.Healthy(n.name + " reachable")
}
