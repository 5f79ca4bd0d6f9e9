package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sony/gobreaker"
	"github.com/tidwall/gjson"

	"docsum/internal/domain/entity"
	"docsum/internal/resilience/circuitbreaker"
	"docsum/internal/resilience/retry"
	"docsum/internal/utils/text"
)

const (
	// maxVideoDuration is the longest video accepted for transcript
	// extraction. Longer videos are rejected before any transcript fetch.
	maxVideoDuration = 3600 // seconds

	// maxWatchPageBytes bounds the watch page response body.
	maxWatchPageBytes = 4 << 20

	// maxTranscriptBytes bounds the caption track response body.
	maxTranscriptBytes = 8 << 20
)

// videoIDPatterns cover the common YouTube URL shapes: watch URLs, short
// youtu.be links, embeds, and shorts.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/shorts/)([A-Za-z0-9_-]{6,20})`),
}

// bracketNoise strips transcript artifacts like [Music] and (inaudible).
var bracketNoise = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)

// preferredCaptionLanguages in resolution order. Any available track is
// used when none of these match.
var preferredCaptionLanguages = []string{"en", "en-US", "en-GB"}

// YouTube resolves a video URL to its transcript. It scrapes the public
// watch page for the player response, which carries the caption track list
// and the video metadata, then fetches the chosen track as JSON.
type YouTube struct {
	client         *http.Client
	watchBase      string
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewYouTube creates a YouTube transcript extractor with the given HTTP
// client. The client should carry its own timeout.
func NewYouTube(client *http.Client) *YouTube {
	return &YouTube{
		client:         client,
		watchBase:      "https://www.youtube.com",
		circuitBreaker: circuitbreaker.New(circuitbreaker.TranscriptFetchConfig()),
		retryConfig:    retry.TranscriptFetchConfig(),
	}
}

// Extract resolves the transcript of the video behind rawURL. Fails with an
// invalid URL error when no video id can be parsed, and with a no
// transcript error when the video has no caption tracks. Transport failures
// are retried and, when they persist, surface as source fetch errors rather
// than missing transcripts.
func (y *YouTube) Extract(ctx context.Context, rawURL string) (entity.Document, error) {
	videoID, err := ParseVideoID(rawURL)
	if err != nil {
		return entity.Document{}, err
	}

	page, err := y.fetchWithRetry(ctx, y.watchBase+"/watch?v="+videoID, maxWatchPageBytes)
	if err != nil {
		// A transport failure reaching the watch page says nothing about
		// whether the video has captions.
		return entity.Document{}, entity.WrapPipelineError(entity.ErrSourceFetchFailed,
			fmt.Errorf("fetch watch page: %w", err))
	}

	meta, err := parseWatchPage(page)
	if err != nil {
		return entity.Document{}, entity.WrapPipelineError(entity.ErrNoTranscript, err)
	}

	if meta.duration > maxVideoDuration {
		return entity.Document{}, entity.WrapPipelineError(entity.ErrVideoTooLong,
			fmt.Errorf("video is %d seconds, limit is %d", meta.duration, maxVideoDuration))
	}
	if len(meta.captionTracks) == 0 {
		return entity.Document{}, entity.WrapPipelineError(entity.ErrNoTranscript,
			fmt.Errorf("video %s has no caption tracks", videoID))
	}

	track := pickCaptionTrack(meta.captionTracks)
	transcriptJSON, err := y.fetchWithRetry(ctx, track.baseURL+"&fmt=json3", maxTranscriptBytes)
	if err != nil {
		return entity.Document{}, entity.WrapPipelineError(entity.ErrSourceFetchFailed,
			fmt.Errorf("fetch caption track: %w", err))
	}

	transcript := CleanTranscript(parseTranscriptEvents(transcriptJSON))
	if transcript == "" {
		return entity.Document{}, entity.WrapPipelineError(entity.ErrNoTranscript,
			fmt.Errorf("caption track for %s is empty", videoID))
	}

	slog.Info("extracted youtube transcript",
		slog.String("video_id", videoID),
		slog.String("language", track.language),
		slog.Int("duration_seconds", meta.duration),
		slog.Int("chars", text.CountRunes(transcript)))

	return entity.Document{
		Text:            transcript,
		SourceType:      entity.SourceYouTube,
		Title:           meta.title,
		CharLength:      text.CountRunes(transcript),
		DurationSeconds: meta.duration,
	}, nil
}

// ParseVideoID extracts the video id from a YouTube URL.
func ParseVideoID(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", entity.ErrEmptyInput
	}
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(trimmed); m != nil {
			return m[1], nil
		}
	}
	return "", entity.WrapPipelineError(entity.ErrInvalidURL,
		fmt.Errorf("no video id in %q", trimmed))
}

// fetchWithRetry fetches a URL with retry and circuit breaker protection,
// returning the body up to limit bytes.
func (y *YouTube) fetchWithRetry(ctx context.Context, url string, limit int64) (string, error) {
	var body string

	retryErr := retry.WithBackoff(ctx, y.retryConfig, func() error {
		cbResult, err := y.circuitBreaker.Execute(func() (interface{}, error) {
			return y.doFetch(ctx, url, limit)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("transcript fetch circuit breaker open, request rejected",
					slog.String("state", y.circuitBreaker.State().String()))
				return fmt.Errorf("transcript service unavailable: circuit breaker open")
			}
			return err
		}
		body = cbResult.(string)
		return nil
	})

	return body, retryErr
}

func (y *YouTube) doFetch(ctx context.Context, url string, limit int64) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; docsum/1.0)")
	req.Header.Set("Accept-Language", "en")

	resp, err := y.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status: %s", resp.Status),
		}
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}
	return string(bodyBytes), nil
}

type captionTrack struct {
	baseURL  string
	language string
}

type watchPageMeta struct {
	title         string
	duration      int
	captionTracks []captionTrack
}

// playerResponsePattern locates the embedded player response JSON on the
// watch page.
var playerResponsePattern = regexp.MustCompile(`(?s)var ytInitialPlayerResponse\s*=\s*(\{.*?\});`)

// parseWatchPage pulls the title, duration, and caption track list out of a
// watch page. The title comes from the og:title meta tag; everything else
// from the embedded ytInitialPlayerResponse JSON.
func parseWatchPage(page string) (watchPageMeta, error) {
	var meta watchPageMeta

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(page)); err == nil {
		meta.title, _ = doc.Find(`meta[property="og:title"]`).Attr("content")
	}

	m := playerResponsePattern.FindStringSubmatch(page)
	if m == nil {
		return meta, fmt.Errorf("player response not found on watch page")
	}
	player := m[1]

	if d := gjson.Get(player, "videoDetails.lengthSeconds"); d.Exists() {
		if seconds, err := strconv.Atoi(d.String()); err == nil {
			meta.duration = seconds
		}
	}
	if meta.title == "" {
		meta.title = gjson.Get(player, "videoDetails.title").String()
	}

	tracks := gjson.Get(player, "captions.playerCaptionsTracklistRenderer.captionTracks")
	tracks.ForEach(func(_, track gjson.Result) bool {
		baseURL := track.Get("baseUrl").String()
		if baseURL == "" {
			return true
		}
		meta.captionTracks = append(meta.captionTracks, captionTrack{
			baseURL:  baseURL,
			language: track.Get("languageCode").String(),
		})
		return true
	})

	return meta, nil
}

// pickCaptionTrack returns the track in the first preferred language, or
// the first available track when none match.
func pickCaptionTrack(tracks []captionTrack) captionTrack {
	for _, lang := range preferredCaptionLanguages {
		for _, track := range tracks {
			if track.language == lang {
				return track
			}
		}
	}
	return tracks[0]
}

// parseTranscriptEvents extracts the caption text segments from a json3
// caption track response, in order.
func parseTranscriptEvents(transcriptJSON string) []string {
	var segments []string
	gjson.Get(transcriptJSON, "events").ForEach(func(_, event gjson.Result) bool {
		event.Get("segs").ForEach(func(_, seg gjson.Result) bool {
			if t := seg.Get("utf8").String(); t != "" {
				segments = append(segments, t)
			}
			return true
		})
		return true
	})
	return segments
}

// CleanTranscript assembles raw caption segments into readable prose:
// bracket noise like [Music] is dropped, whitespace is collapsed, and
// fragments are terminated so the sentence splitter downstream has
// boundaries to work with.
func CleanTranscript(segments []string) string {
	var b strings.Builder
	for _, segment := range segments {
		cleaned := bracketNoise.ReplaceAllString(segment, "")
		cleaned = strings.ReplaceAll(cleaned, "\n", " ")
		cleaned = strings.TrimSpace(cleaned)
		if cleaned == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(cleaned)
	}

	joined := text.NormalizeWhitespace(b.String())
	if joined == "" {
		return ""
	}
	return text.EnsureTerminated(joined)
}
