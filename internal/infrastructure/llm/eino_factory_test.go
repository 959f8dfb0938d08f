package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"z-novel-studio/internal/config"
)

func TestEinoFactoryGet(t *testing.T) {
	ctx := context.Background()
	f := NewEinoFactory()

	_, err := f.Get(ctx, " ", config.ProviderSettings{APIKey: "sk-test"})
	assert.Error(t, err)

	_, err = f.Get(ctx, "openai", config.ProviderSettings{Driver: config.DriverOpenAI})
	assert.Error(t, err)

	settings := config.ProviderSettings{
		Driver:  config.DriverOpenAI,
		APIKey:  "sk-test",
		BaseURL: "http://127.0.0.1:1/v1",
		Model:   "gpt-4o-mini",
		Timeout: time.Second,
	}
	first, err := f.Get(ctx, "openai", settings)
	require.NoError(t, err)
	second, err := f.Get(ctx, "openai", settings)
	require.NoError(t, err)
	assert.Same(t, first, second)
}
