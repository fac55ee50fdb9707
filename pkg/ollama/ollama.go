// Package ollama adapts a local Ollama server to the tagger's Generator
// interface.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/tstromberg/imagetagger/pkg/tagger"
)

// keepAlive is how long the server holds a model loaded between requests;
// files in a batch reuse the warm model.
var keepAlive = &api.Duration{Duration: 5 * time.Minute}

// Client talks to an Ollama server.
type Client struct {
	ol *api.Client
}

// New returns a client for host, or for OLLAMA_HOST / the default local
// server when host is empty.
func New(host string) (*Client, error) {
	if host == "" {
		ol, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("client from environment: %w", err)
		}
		return &Client{ol: ol}, nil
	}

	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse host %q: %w", host, err)
	}
	return &Client{ol: api.NewClient(u, http.DefaultClient)}, nil
}

// Healthy reports whether the server answers a heartbeat.
func (c *Client) Healthy(ctx context.Context) error {
	return c.ol.Heartbeat(ctx)
}

// Generate implements tagger.Generator with a single non-streamed
// completion call.
func (c *Client) Generate(ctx context.Context, req tagger.GenRequest) (string, error) {
	stream := false
	gr := &api.GenerateRequest{
		Model:     req.Model,
		Prompt:    req.Prompt,
		Stream:    &stream,
		KeepAlive: keepAlive,
	}
	if req.Image != nil {
		gr.Images = []api.ImageData{req.Image}
	}
	if req.JSON {
		gr.Format = json.RawMessage(`"json"`)
	}

	var sb strings.Builder
	err := c.ol.Generate(ctx, gr, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return sb.String(), nil
}
