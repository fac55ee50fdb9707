package ollama

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tstromberg/imagetagger/pkg/tagger"
)

func TestNew_ExplicitHost(t *testing.T) {
	c, err := New("http://127.0.0.1:11434")
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestNew_Default(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestGenerate_CanceledContext(t *testing.T) {
	c, err := New("http://127.0.0.1:1")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Generate(ctx, tagger.GenRequest{Model: "llava", Prompt: "hi"})
	assert.Error(t, err)
}
