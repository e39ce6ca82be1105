package models

import "time"

// VideoMetadata describes a remote short-form video as resolved by the
// metadata fetcher. It is produced once per pipeline run and embedded
// by value into the persisted result.
type VideoMetadata struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	Duration        string `json:"duration,omitempty"` // "m:ss"
	DurationSeconds int    `json:"durationSeconds,omitempty"`
	SourceURL       string `json:"sourceUrl"`
	Platform        string `json:"platform"` // tiktok | instagram | youtube | facebook | unknown
	Description     string `json:"description,omitempty"`
	ThumbnailURL    string `json:"thumbnailUrl,omitempty"`
	EmbedURL        string `json:"embedUrl,omitempty"`
	AudioURL        string `json:"audioUrl,omitempty"`
}

// Transcript holds the speech-to-text output for one video.
type Transcript struct {
	Text   string `json:"text"`
	Source string `json:"source,omitempty"` // which provider produced it
}

// ComponentFinding scores one structural element of a script (hook,
// golden nugget, call to action, bridge).
type ComponentFinding struct {
	Score      int    `json:"score"`
	Found      bool   `json:"found"`
	Content    string `json:"content,omitempty"`
	Feedback   string `json:"feedback"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ReportComponents groups the per-element findings of a report.
type ReportComponents struct {
	Hook         ComponentFinding `json:"hook"`
	GoldenNugget ComponentFinding `json:"goldenNugget"`
	CallToAction ComponentFinding `json:"callToAction"`
	Bridge       ComponentFinding `json:"bridge"`
}

// AnalysisReport is the structured coaching report produced from one
// (metadata, transcript) pair.
type AnalysisReport struct {
	OverallScore    int              `json:"overallScore"` // 1-10
	OverallFeedback string           `json:"overallFeedback,omitempty"`
	Components      ReportComponents `json:"components"`
	Insights        []string         `json:"insights,omitempty"`
	ImprovedScript  string           `json:"improvedScript,omitempty"`
}

// AnalysisRun bundles the outputs of one pipeline run, exactly as the
// three steps produced them. Persistence is a separate, explicit act.
type AnalysisRun struct {
	Metadata   *VideoMetadata  `json:"videoDetails"`
	Transcript *Transcript     `json:"transcript"`
	Report     *AnalysisReport `json:"analysisReport"`
}

// AnalysisResult is the persisted aggregate. The id and createdAt are
// assigned exactly once by the result store; the record is read-only
// afterward.
type AnalysisResult struct {
	ID         string          `json:"id"`
	Analysis   *AnalysisReport `json:"analysis"`
	Transcript *Transcript     `json:"transcript"`
	Metadata   *VideoMetadata  `json:"metadata"`
	OwnerID    string          `json:"ownerId,omitempty"` // empty = anonymous
	CreatedAt  time.Time       `json:"createdAt"`
}

// SummaryMetadata is the slice of VideoMetadata exposed in listings.
type SummaryMetadata struct {
	Title     string `json:"title"`
	SourceURL string `json:"sourceUrl"`
	Author    string `json:"author"`
	Duration  string `json:"duration,omitempty"`
}

// AnalysisSummary is the listing projection of an AnalysisResult. It is
// computed on read and never persisted.
type AnalysisSummary struct {
	ID           string          `json:"id"`
	CreatedAt    time.Time       `json:"createdAt"`
	OverallScore int             `json:"overallScore"`
	Metadata     SummaryMetadata `json:"metadata"`
}

// Summary projects a result for listing.
func (r *AnalysisResult) Summary() AnalysisSummary {
	s := AnalysisSummary{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
	}
	if r.Analysis != nil {
		s.OverallScore = r.Analysis.OverallScore
	}
	if r.Metadata != nil {
		s.Metadata = SummaryMetadata{
			Title:     r.Metadata.Title,
			SourceURL: r.Metadata.SourceURL,
			Author:    r.Metadata.Author,
			Duration:  r.Metadata.Duration,
		}
	}
	return s
}
