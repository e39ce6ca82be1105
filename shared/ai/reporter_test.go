package ai

import (
	"strings"
	"testing"
)

const validReportJSON = `{
  "overallScore": 7,
  "overallFeedback": "Good pacing, weak ending",
  "components": {
    "hook": {"score": 8, "found": true, "content": "You are editing wrong", "feedback": "Strong curiosity gap"},
    "goldenNugget": {"score": 7, "found": true, "content": "Cut on motion", "feedback": "Clear value"},
    "callToAction": {"score": 3, "found": false, "feedback": "No CTA present", "suggestion": "Ask viewers to follow"},
    "bridge": {"score": 6, "found": true, "content": "But here is the thing", "feedback": "Decent transition"}
  },
  "insights": ["Hook lands within two seconds", "Ending trails off"]
}`

func TestParseReportResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "Plain JSON", response: validReportJSON},
		{name: "Fenced JSON", response: "```json\n" + validReportJSON + "\n```"},
		{name: "Fenced without language", response: "```\n" + validReportJSON + "\n```"},
		{name: "Preamble text", response: "Here is my analysis:\n" + validReportJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := ParseReportResponse(tt.response)
			if err != nil {
				t.Fatalf("ParseReportResponse() failed: %v", err)
			}
			if report.OverallScore != 7 {
				t.Errorf("overallScore = %d, want 7", report.OverallScore)
			}
			if report.Components.Hook.Score != 8 || !report.Components.Hook.Found {
				t.Errorf("hook = %+v", report.Components.Hook)
			}
			if report.Components.CallToAction.Found {
				t.Error("callToAction.found should be false")
			}
			if len(report.Insights) != 2 {
				t.Errorf("insights = %v", report.Insights)
			}
		})
	}
}

func TestParseReportResponseClampsScores(t *testing.T) {
	response := `{
  "overallScore": 14,
  "overallFeedback": "ok",
  "components": {
    "hook": {"score": 0, "found": false, "feedback": "none"},
    "goldenNugget": {"score": 11, "found": true, "feedback": "great"},
    "callToAction": {"score": -2, "found": false, "feedback": "none"},
    "bridge": {"score": 5, "found": true, "feedback": "fine"}
  }
}`

	report, err := ParseReportResponse(response)
	if err != nil {
		t.Fatalf("ParseReportResponse() failed: %v", err)
	}

	if report.OverallScore != 10 {
		t.Errorf("overallScore = %d, want clamped to 10", report.OverallScore)
	}
	if report.Components.Hook.Score != 1 {
		t.Errorf("hook score = %d, want clamped to 1", report.Components.Hook.Score)
	}
	if report.Components.GoldenNugget.Score != 10 {
		t.Errorf("goldenNugget score = %d, want clamped to 10", report.Components.GoldenNugget.Score)
	}
	if report.Components.CallToAction.Score != 1 {
		t.Errorf("callToAction score = %d, want clamped to 1", report.Components.CallToAction.Score)
	}
	if report.Components.Bridge.Score != 5 {
		t.Errorf("bridge score = %d, want 5 untouched", report.Components.Bridge.Score)
	}
}

func TestParseReportResponseRejectsGarbage(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "No JSON at all", response: "I could not analyze this video."},
		{name: "Empty response", response: ""},
		{name: "Empty object", response: "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseReportResponse(tt.response); err == nil {
				t.Error("ParseReportResponse() should fail")
			}
		})
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "No fences", input: `{"a": 1}`, expected: `{"a": 1}`},
		{name: "JSON fence", input: "```json\n{\"a\": 1}\n```", expected: `{"a": 1}`},
		{name: "Plain fence", input: "```\n{\"a\": 1}\n```", expected: `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFences(tt.input); got != tt.expected {
				t.Errorf("stripCodeFences() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("short", 10); got != "short" {
		t.Errorf("truncateString() = %q", got)
	}
	long := strings.Repeat("a", 20)
	if got := truncateString(long, 10); got != strings.Repeat("a", 10)+"..." {
		t.Errorf("truncateString() = %q", got)
	}
}
