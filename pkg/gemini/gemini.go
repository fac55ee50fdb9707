// Package gemini adapts the Gemini API to the tagger's Generator interface,
// for users without a local inference server.
package gemini

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"

	"github.com/tstromberg/imagetagger/pkg/tagger"
)

// Client talks to the Gemini API.
type Client struct {
	gc *genai.Client
}

// New returns a client authenticated from GOOGLE_AI_API_KEY.
func New(ctx context.Context) (*Client, error) {
	cfg := &genai.ClientConfig{
		APIKey: os.Getenv("GOOGLE_AI_API_KEY"),
	}
	gc, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &Client{gc: gc}, nil
}

// Generate implements tagger.Generator.
func (c *Client) Generate(ctx context.Context, req tagger.GenRequest) (string, error) {
	parts := []*genai.Part{}
	if req.Image != nil {
		parts = append(parts, genai.NewPartFromBytes(req.Image, "image/jpeg"))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))

	var cfg *genai.GenerateContentConfig
	if req.JSON {
		cfg = &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	}

	resp, err := c.gc.Models.GenerateContent(ctx, req.Model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}
