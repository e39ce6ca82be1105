package pipeline

import (
	"context"
	"errors"
	"testing"

	"reelcoach/internal/fault"
	"reelcoach/internal/models"
)

type fakeMetadataFetcher struct {
	calls int
	meta  *models.VideoMetadata
	err   error
}

func (f *fakeMetadataFetcher) Fetch(ctx context.Context, videoURL string) (*models.VideoMetadata, error) {
	f.calls++
	return f.meta, f.err
}

type fakeTranscriptFetcher struct {
	calls      int
	transcript *models.Transcript
	err        error
}

func (f *fakeTranscriptFetcher) Transcribe(ctx context.Context, meta *models.VideoMetadata) (*models.Transcript, error) {
	f.calls++
	return f.transcript, f.err
}

type fakeReportGenerator struct {
	calls  int
	report *models.AnalysisReport
	err    error
}

func (f *fakeReportGenerator) Generate(ctx context.Context, meta *models.VideoMetadata, transcript *models.Transcript) (*models.AnalysisReport, error) {
	f.calls++
	return f.report, f.err
}

func TestAnalyzeRejectsInvalidURLs(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "Empty", url: ""},
		{name: "Not a URL", url: "not-a-url"},
		{name: "Missing host", url: "http://"},
		{name: "Wrong scheme", url: "ftp://example.com/video"},
		{name: "Relative path", url: "/videos/123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metadata := &fakeMetadataFetcher{}
			transcript := &fakeTranscriptFetcher{}
			report := &fakeReportGenerator{}
			p := New(metadata, transcript, report)

			_, err := p.Analyze(context.Background(), tt.url)
			if err == nil {
				t.Fatal("Analyze() should fail for invalid URL")
			}
			if !fault.IsKind(err, fault.KindInvalidInput) {
				t.Errorf("Analyze() error kind = %v, want invalid input", fault.KindOf(err, fault.KindUpstream))
			}
			if metadata.calls+transcript.calls+report.calls != 0 {
				t.Errorf("invalid URL must not trigger collaborator calls, got %d/%d/%d",
					metadata.calls, transcript.calls, report.calls)
			}
		})
	}
}

func TestAnalyzeAggregatesStepOutputsUnmodified(t *testing.T) {
	meta := &models.VideoMetadata{Title: "Morning routine", Author: "creator", Platform: "tiktok"}
	transcript := &models.Transcript{Text: "wake up at 5am", Source: "gemini"}
	report := &models.AnalysisReport{OverallScore: 8, OverallFeedback: "strong hook"}

	p := New(
		&fakeMetadataFetcher{meta: meta},
		&fakeTranscriptFetcher{transcript: transcript},
		&fakeReportGenerator{report: report},
	)

	run, err := p.Analyze(context.Background(), "https://www.tiktok.com/@creator/video/123")
	if err != nil {
		t.Fatalf("Analyze() failed: %v", err)
	}

	if run.Metadata != meta {
		t.Error("run metadata should be exactly the fetcher's output")
	}
	if run.Transcript != transcript {
		t.Error("run transcript should be exactly the transcriber's output")
	}
	if run.Report != report {
		t.Error("run report should be exactly the generator's output")
	}
}

func TestAnalyzeShortCircuitsOnMetadataFailure(t *testing.T) {
	metadata := &fakeMetadataFetcher{err: fault.New(fault.KindUpstream, "service unavailable")}
	transcript := &fakeTranscriptFetcher{}
	report := &fakeReportGenerator{}
	p := New(metadata, transcript, report)

	_, err := p.Analyze(context.Background(), "https://www.instagram.com/reel/abc/")
	if err == nil {
		t.Fatal("Analyze() should fail when metadata fetch fails")
	}
	if !fault.IsKind(err, fault.KindUpstream) {
		t.Errorf("error kind = %v, want upstream", fault.KindOf(err, fault.KindStorage))
	}
	if transcript.calls != 0 || report.calls != 0 {
		t.Errorf("later steps must not run after metadata failure, got %d/%d", transcript.calls, report.calls)
	}
}

func TestAnalyzePreservesTimeoutClassification(t *testing.T) {
	metadata := &fakeMetadataFetcher{meta: &models.VideoMetadata{Title: "clip"}}
	transcript := &fakeTranscriptFetcher{err: fault.New(fault.KindUpstreamTimeout, "timeout fetching audio")}
	report := &fakeReportGenerator{}
	p := New(metadata, transcript, report)

	_, err := p.Analyze(context.Background(), "https://youtube.com/shorts/xyz")
	if err == nil {
		t.Fatal("Analyze() should fail when transcript fetch times out")
	}
	if !fault.IsKind(err, fault.KindUpstreamTimeout) {
		t.Errorf("error kind = %v, want upstream timeout", fault.KindOf(err, fault.KindUpstream))
	}
	if report.calls != 0 {
		t.Errorf("report generator must never run after transcript failure, got %d calls", report.calls)
	}
}

func TestAnalyzeClassifiesUntypedErrorsAsUpstream(t *testing.T) {
	metadata := &fakeMetadataFetcher{meta: &models.VideoMetadata{}}
	transcript := &fakeTranscriptFetcher{transcript: &models.Transcript{Text: "hi"}}
	report := &fakeReportGenerator{err: errors.New("connection reset by peer")}
	p := New(metadata, transcript, report)

	_, err := p.Analyze(context.Background(), "https://fb.watch/v/1")
	if err == nil {
		t.Fatal("Analyze() should fail when report generation fails")
	}
	if got := fault.KindOf(err, fault.KindInvalidInput); got != fault.KindUpstream {
		t.Errorf("untyped collaborator error classified as %v, want upstream", got)
	}
}
