// Package pipeline orchestrates one video analysis run: metadata, then
// transcript, then report. The steps are strictly sequential because each
// depends on the previous step's output.
package pipeline

import (
	"context"
	"log"
	"net/url"
	"time"

	"reelcoach/internal/fault"
	"reelcoach/internal/models"
)

// MetadataFetcher resolves platform metadata for a video URL.
type MetadataFetcher interface {
	Fetch(ctx context.Context, videoURL string) (*models.VideoMetadata, error)
}

// TranscriptFetcher retrieves a transcript for resolved metadata.
type TranscriptFetcher interface {
	Transcribe(ctx context.Context, meta *models.VideoMetadata) (*models.Transcript, error)
}

// ReportGenerator produces an analysis report from metadata and transcript.
type ReportGenerator interface {
	Generate(ctx context.Context, meta *models.VideoMetadata, transcript *models.Transcript) (*models.AnalysisReport, error)
}

// Pipeline runs the three analysis steps for a single video reference.
// It performs no persistence; storing the result is the caller's explicit act.
type Pipeline struct {
	metadata   MetadataFetcher
	transcript TranscriptFetcher
	report     ReportGenerator
}

func New(metadata MetadataFetcher, transcript TranscriptFetcher, report ReportGenerator) *Pipeline {
	return &Pipeline{
		metadata:   metadata,
		transcript: transcript,
		report:     report,
	}
}

// Analyze runs metadata -> transcript -> report for the given URL. The URL is
// validated before any network call; the first failing step aborts the run and
// its classified error is returned unchanged. Partial results are never
// returned.
func (p *Pipeline) Analyze(ctx context.Context, videoURL string) (*models.AnalysisRun, error) {
	if err := validateVideoURL(videoURL); err != nil {
		return nil, err
	}

	start := time.Now()
	log.Printf("[pipeline] Starting analysis for %s", videoURL)

	meta, err := p.metadata.Fetch(ctx, videoURL)
	if err != nil {
		return nil, fault.Wrap(fault.KindUpstream, err, "metadata fetch failed")
	}

	transcript, err := p.transcript.Transcribe(ctx, meta)
	if err != nil {
		return nil, fault.Wrap(fault.KindUpstream, err, "transcript fetch failed")
	}

	report, err := p.report.Generate(ctx, meta, transcript)
	if err != nil {
		return nil, fault.Wrap(fault.KindUpstream, err, "report generation failed")
	}

	log.Printf("[pipeline] Analysis complete for %q (score %d, took %v)",
		meta.Title, report.OverallScore, time.Since(start).Round(time.Millisecond))

	return &models.AnalysisRun{
		Metadata:   meta,
		Transcript: transcript,
		Report:     report,
	}, nil
}

// validateVideoURL requires a well-formed absolute http(s) URL so that a
// malformed reference fails fast without wasting upstream calls.
func validateVideoURL(videoURL string) error {
	if videoURL == "" {
		return fault.InvalidInput("video URL is required")
	}
	u, err := url.Parse(videoURL)
	if err != nil {
		return fault.Wrap(fault.KindInvalidInput, err, "invalid video URL %q", videoURL)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fault.InvalidInput("invalid video URL %q: must be an absolute http(s) URL", videoURL)
	}
	return nil
}
