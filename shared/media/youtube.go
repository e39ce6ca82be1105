package media

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"reelcoach/internal/fault"
	"reelcoach/internal/models"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// youtubeProvider resolves YouTube video metadata through the Data API,
// which is more reliable for YouTube links than the generic downloader.
type youtubeProvider struct {
	service *youtube.Service
}

func newYouTubeProvider(ctx context.Context, apiKey string) (*youtubeProvider, error) {
	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &youtubeProvider{service: service}, nil
}

func (p *youtubeProvider) Lookup(ctx context.Context, videoID, sourceURL string) (*models.VideoMetadata, error) {
	call := p.service.Videos.List([]string{"snippet", "contentDetails"}).
		Id(videoID).
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, fault.Wrap(fault.KindUpstream, err, "failed to look up YouTube video %s", videoID)
	}

	if len(resp.Items) == 0 {
		return nil, fault.New(fault.KindUpstream, "YouTube video %s not found", videoID)
	}

	item := resp.Items[0]
	durationSeconds := parseISO8601DurationSeconds(item.ContentDetails.Duration)

	meta := &models.VideoMetadata{
		Title:           item.Snippet.Title,
		Author:          item.Snippet.ChannelTitle,
		Duration:        FormatDuration(durationSeconds),
		DurationSeconds: durationSeconds,
		SourceURL:       sourceURL,
		Platform:        "youtube",
		Description:     item.Snippet.Description,
	}
	if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
		meta.ThumbnailURL = item.Snippet.Thumbnails.High.Url
	}

	log.Printf("[media] YouTube Data API resolved %q by %s", meta.Title, meta.Author)
	return meta, nil
}

// ExtractYouTubeID pulls the video ID out of watch, youtu.be and shorts URLs.
func ExtractYouTubeID(videoURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(videoURL))
	if err != nil {
		return "", false
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch host {
	case "youtu.be":
		id := strings.Trim(u.Path, "/")
		return id, id != ""
	case "youtube.com", "m.youtube.com":
		if id := u.Query().Get("v"); id != "" {
			return id, true
		}
		for _, prefix := range []string{"/shorts/", "/embed/"} {
			if strings.HasPrefix(u.Path, prefix) {
				id := strings.Trim(strings.TrimPrefix(u.Path, prefix), "/")
				if i := strings.Index(id, "/"); i >= 0 {
					id = id[:i]
				}
				return id, id != ""
			}
		}
	}
	return "", false
}

var iso8601Duration = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// parseISO8601DurationSeconds parses durations like "PT1M30S" or "PT45S".
func parseISO8601DurationSeconds(duration string) int {
	if duration == "" {
		return 0
	}

	matches := iso8601Duration.FindStringSubmatch(duration)
	if len(matches) == 0 {
		return 0
	}

	var totalSeconds int
	if matches[1] != "" {
		if hours, err := strconv.Atoi(matches[1]); err == nil {
			totalSeconds += hours * 3600
		}
	}
	if matches[2] != "" {
		if minutes, err := strconv.Atoi(matches[2]); err == nil {
			totalSeconds += minutes * 60
		}
	}
	if matches[3] != "" {
		if seconds, err := strconv.Atoi(matches[3]); err == nil {
			totalSeconds += seconds
		}
	}

	return totalSeconds
}
