package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"reelcoach/internal/fault"
	"reelcoach/shared/config"

	"google.golang.org/genai"
)

// ScriptWriter rewrites a transcript into a polished short-form script.
type ScriptWriter struct {
	client *genai.Client
	model  string
}

func NewScriptWriter(cfg *config.AIConfig) (*ScriptWriter, error) {
	client, err := newGenAIClient(cfg)
	if err != nil {
		return nil, err
	}

	return &ScriptWriter{
		client: client,
		model:  cfg.Model,
	}, nil
}

// Rewrite produces a new script based on the transcript, optionally steered
// by caller-supplied instructions.
func (w *ScriptWriter) Rewrite(ctx context.Context, transcript, instructions string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", fault.InvalidInput("transcript is required")
	}

	prompt := fmt.Sprintf(`You are a professional short-form video scriptwriter. Rewrite the following transcript into a stronger script that follows the Hook -> Golden Nugget -> Call to Action structure.

Keep the creator's voice and core message. Tighten the pacing, open with a scroll-stopping hook, and end with a clear call to action. Respond with the script text only, no commentary.

TRANSCRIPT:
"""
%s
"""`, truncateString(transcript, 12000))

	if strings.TrimSpace(instructions) != "" {
		prompt += fmt.Sprintf("\n\nADDITIONAL INSTRUCTIONS:\n%s", instructions)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(prompt)}, genai.RoleUser),
	}
	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.7),
		MaxOutputTokens: 2048,
	}

	log.Printf("[ai] Rewriting script (%d transcript chars)", len(transcript))
	result, err := w.client.Models.GenerateContent(ctx, w.model, contents, genConfig)
	if err != nil {
		if isTimeout(err) {
			return "", fault.Wrap(fault.KindUpstreamTimeout, err, "timeout rewriting script")
		}
		return "", fault.Wrap(fault.KindUpstream, err, "failed to rewrite script")
	}

	script := strings.TrimSpace(result.Text())
	if script == "" {
		return "", fault.New(fault.KindUpstream, "script rewrite produced no text")
	}

	return script, nil
}
