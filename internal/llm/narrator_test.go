package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyage-ai/voyage/internal/config"
	"github.com/voyage-ai/voyage/internal/types"
)

func TestNewDisabledReturnsStatic(t *testing.T) {
	n, err := New(config.LLMConfig{Enabled: false})
	require.NoError(t, err)
	assert.Equal(t, "static", n.Name())
	assert.True(t, n.Health(context.Background()).IsHealthy())
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(config.LLMConfig{Enabled: true, Provider: "carrier-pigeon"})
	require.Error(t, err)
	assert.Equal(t, types.LLM_PROVIDER_UNKNOWN, types.CodeOf(err))
}

func TestNewOpenAIWithoutKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := New(config.LLMConfig{Enabled: true, Provider: "openai"})
	require.Error(t, err)
}

func TestStaticNarratePreservesOutline(t *testing.T) {
	outline := "Day 1\n  07:00 Travel to Goa by bus\n\nDay 2\n  09:00 Fort Aguada"
	out, err := NewStatic().Narrate(context.Background(), NarrativeRequest{
		Destination: "Goa",
		Days:        2,
		Budget:      "₹30,000",
		Style:       "balanced",
		Outline:     outline,
	})
	require.NoError(t, err)
	assert.Contains(t, out, outline)
	assert.Contains(t, out, "2-day balanced itinerary for Goa")
}

func TestPromptCarriesConstraints(t *testing.T) {
	p := prompt(NarrativeRequest{Destination: "Goa", Days: 5, Budget: "₹30,000", Style: "balanced", Outline: "Day 1"})
	assert.Contains(t, p, "5-day balanced trip to Goa")
	assert.Contains(t, p, "Do not invent places or prices")
	assert.Contains(t, p, "Day 1")
}
