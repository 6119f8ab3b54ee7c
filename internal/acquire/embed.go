package acquire

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/clipscribe/clipscribe/internal/transcript"
)

// captionTracksRe pulls the caption track array out of the embed page's
// inline player configuration.
var captionTracksRe = regexp.MustCompile(`"captionTracks":\s*(\[.*?\])`)

const embedUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// EmbedStrategy scrapes the embeddable player page for caption track URLs.
// The embed page is served with fewer anti-bot measures than the watch
// page, and its script config carries the same track metadata.
type EmbedStrategy struct {
	baseURL string
	client  *http.Client
}

// NewEmbedStrategy creates the strategy. An empty baseURL selects the real
// site; tests point it at a local server.
func NewEmbedStrategy(baseURL string, timeout time.Duration) *EmbedStrategy {
	if baseURL == "" {
		baseURL = "https://www.youtube.com"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &EmbedStrategy{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *EmbedStrategy) Name() string { return "embed" }

// embedTrack is one entry of the page's captionTracks array.
type embedTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Name         struct {
		SimpleText string `json:"simpleText"`
	} `json:"name"`
}

func (s *EmbedStrategy) Attempt(ctx context.Context, videoID string) (*transcript.Transcript, error) {
	page, err := s.get(ctx, fmt.Sprintf("%s/embed/%s", s.baseURL, videoID))
	if err != nil {
		return nil, err
	}

	match := captionTracksRe.FindSubmatch(page)
	if match == nil {
		return nil, fmt.Errorf("no caption tracks in embed page")
	}

	var raw []embedTrack
	if err := json.Unmarshal(match[1], &raw); err != nil {
		return nil, fmt.Errorf("decode caption tracks: %w", err)
	}

	tracks := make([]transcript.CaptionTrack, 0, len(raw))
	for _, t := range raw {
		tracks = append(tracks, transcript.CaptionTrack{
			LanguageCode: t.LanguageCode,
			Label:        t.Name.SimpleText,
			URL:          t.BaseURL,
		})
	}
	track, ok := transcript.PickTrack(tracks)
	if !ok {
		return nil, fmt.Errorf("caption track list is empty")
	}

	body, err := s.get(ctx, track.URL+"&fmt=json3")
	if err != nil {
		return nil, err
	}
	words, err := transcript.Parse(transcript.FormatJSON3, body)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("caption track parsed to zero words")
	}

	return &transcript.Transcript{
		FullText: transcript.JoinWords(words),
		Words:    words,
	}, nil
}

func (s *EmbedStrategy) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", embedUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
