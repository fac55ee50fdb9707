package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tstromberg/imagetagger/pkg/tagger"
)

func TestNew(t *testing.T) {
	t.Setenv("GOOGLE_AI_API_KEY", "test-key")

	c, err := New(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestGenerate_CanceledContext(t *testing.T) {
	t.Setenv("GOOGLE_AI_API_KEY", "test-key")

	c, err := New(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Generate(ctx, tagger.GenRequest{Model: "gemini-2.5-flash", Prompt: "hi"})
	assert.Error(t, err)
}
