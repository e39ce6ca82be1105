// Package ai holds the generative collaborators: speech transcription,
// analysis report generation, and script rewriting, all backed by Gemini.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net"

	"reelcoach/shared/config"

	"google.golang.org/genai"
)

func newGenAIClient(cfg *config.AIConfig) (*genai.Client, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("Gemini API key missing")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
