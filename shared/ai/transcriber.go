package ai

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"reelcoach/internal/fault"
	"reelcoach/internal/models"
	"reelcoach/shared/config"

	"google.golang.org/genai"
)

const transcriptionPrompt = "Generate a transcript of the speech in this audio."

// maxAudioBytes caps the audio download; short-form clips are well under this.
const maxAudioBytes = 32 << 20

// Transcriber turns a video's audio track into text by sending the audio
// inline to Gemini.
type Transcriber struct {
	client     *genai.Client
	model      string
	httpClient *http.Client
}

func NewTranscriber(cfg *config.AIConfig) (*Transcriber, error) {
	client, err := newGenAIClient(cfg)
	if err != nil {
		return nil, err
	}

	return &Transcriber{
		client: client,
		model:  cfg.Model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// Transcribe fetches the resolved audio track and asks the model for a
// transcript. A video without a usable audio track is an upstream failure:
// the pipeline never substitutes a placeholder transcript.
func (t *Transcriber) Transcribe(ctx context.Context, meta *models.VideoMetadata) (*models.Transcript, error) {
	if meta == nil || meta.AudioURL == "" {
		return nil, fault.New(fault.KindUpstream, "no audio track resolved for the video")
	}

	audio, err := t.downloadAudio(ctx, meta.AudioURL)
	if err != nil {
		return nil, err
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(audio, "audio/mp4"),
		genai.NewPartFromText(transcriptionPrompt),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.2),
	}

	log.Printf("[ai] Requesting transcription for %q (%d audio bytes)", meta.Title, len(audio))
	result, err := t.client.Models.GenerateContent(ctx, t.model, contents, genConfig)
	if err != nil {
		if isTimeout(err) {
			return nil, fault.Wrap(fault.KindUpstreamTimeout, err, "timeout transcribing audio")
		}
		return nil, fault.Wrap(fault.KindUpstream, err, "failed to transcribe audio")
	}

	text := result.Text()
	if text == "" {
		return nil, fault.New(fault.KindUpstream, "transcription produced no text")
	}

	return &models.Transcript{
		Text:   text,
		Source: "gemini",
	}, nil
}

func (t *Transcriber) downloadAudio(ctx context.Context, audioURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return nil, fault.Wrap(fault.KindUpstream, err, "failed to create audio request")
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fault.Wrap(fault.KindUpstreamTimeout, err, "timeout fetching audio file")
		}
		return nil, fault.Wrap(fault.KindUpstream, err, "failed to fetch audio file")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fault.New(fault.KindUpstream, "audio fetch returned status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes+1))
	if err != nil {
		return nil, fault.Wrap(fault.KindUpstream, err, "failed to read audio file")
	}
	if len(audio) > maxAudioBytes {
		return nil, fault.New(fault.KindUpstream, "audio file exceeds %d byte limit", maxAudioBytes)
	}
	if len(audio) == 0 {
		return nil, fault.New(fault.KindUpstream, "audio file was empty")
	}

	return audio, nil
}
