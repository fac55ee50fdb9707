package tagger

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// GenRequest is a single completion request to a model backend.
type GenRequest struct {
	Model  string
	Prompt string
	// Image is an optional JPEG payload attached to the prompt.
	Image []byte
	// JSON asks the backend to constrain output to parseable JSON.
	JSON bool
}

// Generator produces a model completion for a prompt, optionally grounded
// on an image.
type Generator interface {
	Generate(ctx context.Context, req GenRequest) (string, error)
}

var describePrompt = "quickly describe notable objects in the following picture:"

// The worked example keeps small models on format.
var extractPrompt = `You are an image tagger expert. You will be given the description of an image in natural language and your task is to return a list of short keywords that best describe the image. A keyword is composed of a single word, this is mandatory.
Return the keywords in a JSON parsable list of strings : ["tag1", "tag2", "tag3"]
If the description doesn't or fails to describe the image, just return an empty list. Be concise.

For example :
Description: A person in front of a beautiful lake with trees around, frogs in the front and water lilies on the water surface.
{"tags": ["person", "lake", "frog", "tree", "water lily"]}

==========

Description: %s`

var translatePrompt = `Translate the following content in "%s". DO NOT alter the content, just translate it. DO NOT change the JSON format of the list.

For example :
Tags: ["person", "lake", "frog", "tree", "water lily"]
{"tags": ["personne", "lac", "grenouille", "arbre", "nénuphar"]}

==========

Tags: %s`

// Describe asks the vision model for a description of the image bytes.
func (t *Tagger) Describe(ctx context.Context, img []byte) (string, error) {
	resp, err := t.gen.Generate(ctx, GenRequest{
		Model:  t.c.VisionModel,
		Prompt: describePrompt,
		Image:  img,
	})
	if err != nil {
		return "", fmt.Errorf("describe: %w", err)
	}

	d := strings.TrimSpace(resp)
	if d == "" {
		return "", fmt.Errorf("%s returned an empty description", t.c.VisionModel)
	}
	return d, nil
}

// ExtractTags condenses a description into single-word keyword tags.
func (t *Tagger) ExtractTags(ctx context.Context, desc string) ([]string, error) {
	resp, err := t.gen.Generate(ctx, GenRequest{
		Model:  t.c.TaggerModel,
		Prompt: fmt.Sprintf(extractPrompt, desc),
		JSON:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("extract tags: %w", err)
	}

	tags, err := parseTagList(resp)
	if err != nil {
		return nil, fmt.Errorf("extract tags: %w", err)
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("%s found no tags in %q", t.c.TaggerModel, desc)
	}
	return tags, nil
}

// Translate rewrites tags into lang via the tagger model.
func (t *Tagger) Translate(ctx context.Context, tags []string, lang string) ([]string, error) {
	payload, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}

	resp, err := t.gen.Generate(ctx, GenRequest{
		Model:  t.c.TaggerModel,
		Prompt: fmt.Sprintf(translatePrompt, strings.ToUpper(lang), payload),
		JSON:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}

	out, err := parseTagList(resp)
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s translated %v to nothing", t.c.TaggerModel, tags)
	}
	return out, nil
}

// parseTagList accepts either a bare JSON list of strings or an object with
// a "tags" key, which is what small models actually emit.
func parseTagList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return dropEmpty(list), nil
	}

	var obj struct {
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, fmt.Errorf("decode tags %q: %w", raw, err)
	}
	return dropEmpty(obj.Tags), nil
}

func dropEmpty(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
