// Package media resolves platform metadata for remote short-form videos.
package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"reelcoach/internal/fault"
	"reelcoach/internal/models"
	"reelcoach/shared/config"
)

// Fetcher resolves video metadata through the social-media-video-downloader
// API, preferring the YouTube Data API for YouTube URLs when a key is
// configured.
type Fetcher struct {
	config  *config.MediaConfig
	client  *http.Client
	baseURL string
	youtube *youtubeProvider
}

func NewFetcher(ctx context.Context, cfg *config.MediaConfig) (*Fetcher, error) {
	f := &Fetcher{
		config:  cfg,
		baseURL: "https://" + cfg.RapidAPIHost,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}

	if cfg.YouTubeAPIKey != "" {
		yt, err := newYouTubeProvider(ctx, cfg.YouTubeAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create YouTube provider: %w", err)
		}
		f.youtube = yt
	}

	return f, nil
}

// smvdLink is one downloadable rendition in the SMVD response.
type smvdLink struct {
	Link     string `json:"link"`
	Quality  string `json:"quality"`
	Type     string `json:"type"`
	MimeType string `json:"mimeType"`
}

// smvdResponse is the subset of the SMVD /get/all payload we consume.
type smvdResponse struct {
	Success bool    `json:"success"`
	Message *string `json:"message"`
	SrcURL  string  `json:"src_url"`
	Title   string  `json:"title"`
	ID      string  `json:"id"`
	Author  struct {
		Username string `json:"username"`
	} `json:"author"`
	Stats struct {
		Duration float64 `json:"duration"`
	} `json:"stats"`
	Meta struct {
		Source      string  `json:"source"`
		Thumbnail   string  `json:"thumbnail"`
		Duration    float64 `json:"duration"`
		Description string  `json:"description"`
	} `json:"meta"`
	Links  []smvdLink `json:"links"`
	Videos []string   `json:"videos"`
}

// Fetch resolves metadata for the given video URL.
func (f *Fetcher) Fetch(ctx context.Context, videoURL string) (*models.VideoMetadata, error) {
	if f.config.RapidAPIKey == "" {
		return nil, fault.Config("RapidAPI key missing")
	}

	if f.youtube != nil {
		if id, ok := ExtractYouTubeID(videoURL); ok {
			meta, err := f.youtube.Lookup(ctx, id, videoURL)
			if err == nil {
				return meta, nil
			}
			log.Printf("[media] YouTube lookup failed for %s, falling back to SMVD: %v", id, err)
		}
	}

	return f.fetchSMVD(ctx, videoURL)
}

func (f *Fetcher) fetchSMVD(ctx context.Context, videoURL string) (*models.VideoMetadata, error) {
	apiURL := fmt.Sprintf("%s/smvd/get/all?url=%s", f.baseURL, url.QueryEscape(videoURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fault.Wrap(fault.KindUpstream, err, "failed to create metadata request")
	}
	req.Header.Set("X-Rapidapi-Key", f.config.RapidAPIKey)
	req.Header.Set("X-Rapidapi-Host", f.config.RapidAPIHost)

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fault.Wrap(fault.KindUpstreamTimeout, err, "timeout fetching video details")
		}
		return nil, fault.Wrap(fault.KindUpstream, err, "failed to fetch video details")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fault.New(fault.KindUpstream, "metadata service returned status %d", resp.StatusCode)
	}

	var data smvdResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fault.Wrap(fault.KindUpstream, err, "failed to decode metadata response")
	}

	if !data.Success {
		msg := "metadata service indicated failure"
		if data.Message != nil && *data.Message != "" {
			msg = *data.Message
		}
		return nil, fault.New(fault.KindUpstream, "failed to fetch video information: %s", msg)
	}

	durationSeconds := data.Meta.Duration
	if durationSeconds == 0 {
		durationSeconds = data.Stats.Duration
	}

	embedURL := findBestEmbedURL(data.Links)
	if embedURL == "" && len(data.Videos) > 0 {
		embedURL = data.Videos[0]
	}

	title := data.Title
	if title == "" {
		title = "Untitled Video"
	}
	author := data.Author.Username
	if author == "" {
		author = "Unknown Author"
	}

	meta := &models.VideoMetadata{
		Title:           title,
		Author:          author,
		Duration:        FormatDuration(int(durationSeconds)),
		DurationSeconds: int(durationSeconds),
		SourceURL:       videoURL,
		Platform:        DetectPlatform(data.Meta.Source, videoURL),
		Description:     firstNonEmpty(data.Meta.Description, data.Title),
		ThumbnailURL:    data.Meta.Thumbnail,
		EmbedURL:        embedURL,
		AudioURL:        findBestAudioURL(data.Links),
	}

	log.Printf("[media] Resolved %s video %q by %s", meta.Platform, meta.Title, meta.Author)
	return meta, nil
}

// DetectPlatform identifies the hosting platform from the provider's source
// hint, falling back to URL substrings.
func DetectPlatform(sourceHint, videoURL string) string {
	if sourceHint != "" {
		source := strings.ToLower(sourceHint)
		switch {
		case strings.Contains(source, "instagram"):
			return "instagram"
		case strings.Contains(source, "tiktok"):
			return "tiktok"
		case strings.Contains(source, "youtube"):
			return "youtube"
		case strings.Contains(source, "facebook"):
			return "facebook"
		}
	}
	switch {
	case strings.Contains(videoURL, "instagram.com"):
		return "instagram"
	case strings.Contains(videoURL, "tiktok.com"):
		return "tiktok"
	case strings.Contains(videoURL, "youtube.com"), strings.Contains(videoURL, "youtu.be"):
		return "youtube"
	case strings.Contains(videoURL, "facebook.com"), strings.Contains(videoURL, "fb.watch"):
		return "facebook"
	}
	return "unknown"
}

// findBestAudioURL picks the audio rendition the transcriber should download.
func findBestAudioURL(links []smvdLink) string {
	for _, l := range links {
		if l.Link == "" {
			continue
		}
		if l.Quality == "audio_0" || l.Quality == "audio" || l.Type == "audio" {
			return l.Link
		}
	}
	for _, l := range links {
		if l.Link != "" && strings.HasPrefix(l.MimeType, "audio/") {
			return l.Link
		}
	}
	return ""
}

// findBestEmbedURL picks a playable video rendition, preferring direct MP4.
func findBestEmbedURL(links []smvdLink) string {
	for _, l := range links {
		if l.Link != "" && l.Type == "mp4" && l.MimeType == "video/mp4" {
			return l.Link
		}
	}
	for _, l := range links {
		if l.Link != "" && (l.Type == "mp4" || l.Type == "video" || strings.HasPrefix(l.MimeType, "video/")) {
			return l.Link
		}
	}
	return ""
}

// FormatDuration renders seconds as "m:ss".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
