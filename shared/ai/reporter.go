package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"reelcoach/internal/fault"
	"reelcoach/internal/models"
	"reelcoach/shared/config"

	"google.golang.org/genai"
)

// Reporter generates a structured coaching report for one transcript.
type Reporter struct {
	client *genai.Client
	model  string
}

func NewReporter(cfg *config.AIConfig) (*Reporter, error) {
	client, err := newGenAIClient(cfg)
	if err != nil {
		return nil, err
	}

	return &Reporter{
		client: client,
		model:  cfg.Model,
	}, nil
}

// Generate produces an AnalysisReport from the video's metadata and
// transcript.
func (r *Reporter) Generate(ctx context.Context, meta *models.VideoMetadata, transcript *models.Transcript) (*models.AnalysisReport, error) {
	if transcript == nil || transcript.Text == "" {
		return nil, fault.New(fault.KindUpstream, "transcript is empty, cannot generate report")
	}

	prompt := buildReportPrompt(meta, transcript)

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(prompt)}, genai.RoleUser),
	}
	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.7),
		MaxOutputTokens: 3072,
	}

	log.Printf("[ai] Generating analysis report for %q", meta.Title)
	result, err := r.client.Models.GenerateContent(ctx, r.model, contents, genConfig)
	if err != nil {
		if isTimeout(err) {
			return nil, fault.Wrap(fault.KindUpstreamTimeout, err, "timeout generating analysis report")
		}
		return nil, fault.Wrap(fault.KindUpstream, err, "failed to generate analysis report")
	}

	text := result.Text()
	if text == "" {
		return nil, fault.New(fault.KindUpstream, "report generation produced no text")
	}

	report, err := ParseReportResponse(text)
	if err != nil {
		return nil, fault.Wrap(fault.KindUpstream, err, "failed to parse analysis report")
	}

	return report, nil
}

func buildReportPrompt(meta *models.VideoMetadata, transcript *models.Transcript) string {
	duration := meta.Duration
	if duration == "" {
		duration = "N/A"
	}

	return fmt.Sprintf(`You are an expert video script analyst for short-form social media videos (TikTok, Instagram Reels, Facebook Reels, YouTube Shorts). Analyze this video transcript against proven short-form script structures.

Video Title: %s
Video Author: %s
Video Duration: %s
Platform: %s

VIDEO TRANSCRIPT:
"""
%s
"""

ANALYSIS FRAMEWORK:
Evaluate how well this script follows these key components:

1. HOOK (first 3-5 seconds): Does it grab attention immediately? Should be surprising, controversial, or promise value.
2. GOLDEN NUGGET (main content): The core valuable information or insight that delivers on the hook's promise.
3. CALL TO ACTION (end): Clear instruction for what the viewer should do next (like, comment, follow, etc.).
4. BRIDGE/TRANSITIONS: Smooth connections between parts that maintain engagement.

SCORING CRITERIA:
- Score each component 1-10 (10 = excellent, follows best practices perfectly).
- Overall score should be a weighted average.
- Consider effectiveness, clarity, engagement, timing, structure.

RESPONSE FORMAT (JSON only, no markdown, no preamble):
{
  "overallScore": 7,
  "overallFeedback": "Brief overall assessment",
  "components": {
    "hook": {"score": 8, "found": true, "content": "Exact quote from transcript if found", "feedback": "Specific feedback about the hook", "suggestion": "Suggested improvement if score < 8"},
    "goldenNugget": {"score": 6, "found": true, "content": "Exact quote from transcript if found", "feedback": "Specific feedback about value delivery", "suggestion": "Suggested improvement if score < 8"},
    "callToAction": {"score": 4, "found": false, "content": null, "feedback": "Specific feedback about the CTA", "suggestion": "Suggested CTA if missing or weak"},
    "bridge": {"score": 7, "found": true, "content": "Exact quote showing a good transition", "feedback": "Feedback about transitions", "suggestion": "Suggested improvement if score < 8"}
  },
  "improvedScript": "Full rewritten script that follows the structure better (only if overall score < 7)",
  "insights": ["Key insight about what works well", "Key insight about what could improve"]
}

Analyze the transcript thoroughly and respond with valid JSON only.`,
		meta.Title,
		meta.Author,
		duration,
		meta.Platform,
		truncateString(transcript.Text, 12000),
	)
}

// ParseReportResponse extracts the JSON report from a model response,
// tolerating markdown fences and lightly malformed string values.
func ParseReportResponse(response string) (*models.AnalysisReport, error) {
	cleaned := stripCodeFences(response)

	startIdx := strings.Index(cleaned, "{")
	endIdx := strings.LastIndex(cleaned, "}")
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("no JSON found in response")
	}
	jsonStr := cleaned[startIdx : endIdx+1]

	var report models.AnalysisReport
	if err := json.Unmarshal([]byte(jsonStr), &report); err != nil {
		sanitized := sanitizeJSON(jsonStr)
		if sanitizedErr := json.Unmarshal([]byte(sanitized), &report); sanitizedErr != nil {
			return nil, fmt.Errorf("failed to unmarshal report JSON: %w (sanitized version also failed: %v)", err, sanitizedErr)
		}
		log.Printf("[ai] Warning: had to sanitize malformed report JSON")
	}

	if report.OverallScore == 0 && report.OverallFeedback == "" {
		return nil, fmt.Errorf("report response missing overall score and feedback")
	}

	report.OverallScore = clampScore(report.OverallScore)
	report.Components.Hook.Score = clampScore(report.Components.Hook.Score)
	report.Components.GoldenNugget.Score = clampScore(report.Components.GoldenNugget.Score)
	report.Components.CallToAction.Score = clampScore(report.Components.CallToAction.Score)
	report.Components.Bridge.Score = clampScore(report.Components.Bridge.Score)

	return &report, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[3:]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-3]
	}
	return strings.TrimSpace(s)
}

func clampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

// sanitizeJSON fixes the common failure mode of unescaped quotes inside
// string values of model-produced JSON.
func sanitizeJSON(jsonStr string) string {
	lines := strings.Split(jsonStr, "\n")
	var sanitizedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.Contains(line, ":") && strings.Contains(line, "\"") {
			colonIdx := strings.Index(line, ":")
			if colonIdx != -1 {
				beforeColon := line[:colonIdx+1]
				afterColon := strings.TrimSpace(line[colonIdx+1:])

				if strings.HasPrefix(afterColon, "\"") {
					lastQuoteIdx := strings.LastIndex(afterColon, "\"")
					if lastQuoteIdx > 0 {
						stringContent := afterColon[1:lastQuoteIdx]
						stringContent = strings.ReplaceAll(stringContent, "\"", "\\\"")
						remainder := afterColon[lastQuoteIdx+1:]
						line = beforeColon + " \"" + stringContent + "\"" + remainder
					}
				}
			}
		}

		sanitizedLines = append(sanitizedLines, line)
	}

	return strings.Join(sanitizedLines, "\n")
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + "..."
}
