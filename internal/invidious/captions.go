package invidious

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"

	"github.com/clipscribe/clipscribe/internal/transcript"
)

// ErrNoCaptions reports that no instance yielded captions for the video.
// A total miss across instances is an expected outcome, not an error in the
// usual sense; callers advance to the next strategy.
var ErrNoCaptions = errors.New("no captions found on any instance")

// captionListing is the /api/v1/captions/{id} response.
type captionListing struct {
	Captions []struct {
		Label        string `json:"label"`
		LanguageCode string `json:"languageCode"`
		URL          string `json:"url"`
	} `json:"captions"`
}

// Captions fetches the caption word list for a video by probing a shuffled,
// bounded prefix of the instance pool. Per-instance failures (network,
// non-200, parse) are swallowed and the next instance is tried.
func (r *Registry) Captions(ctx context.Context, videoID string) ([]transcript.Word, error) {
	instances := r.Instances()
	rand.Shuffle(len(instances), func(i, j int) {
		instances[i], instances[j] = instances[j], instances[i]
	})

	limit := probeLimit
	if limit > len(instances) {
		limit = len(instances)
	}

	for _, instance := range instances[:limit] {
		words, err := r.captionsFrom(ctx, instance, videoID)
		if err != nil {
			r.log.Debug().Err(err).Str("instance", instance).Msg("instance probe failed")
			continue
		}
		r.log.Info().Str("instance", instance).Int("words", len(words)).Msg("captions fetched")
		return words, nil
	}

	return nil, ErrNoCaptions
}

func (r *Registry) captionsFrom(ctx context.Context, instance, videoID string) ([]transcript.Word, error) {
	listing, err := r.listCaptions(ctx, instance, videoID)
	if err != nil {
		return nil, err
	}

	tracks := make([]transcript.CaptionTrack, 0, len(listing.Captions))
	for _, c := range listing.Captions {
		url := c.URL
		if !strings.HasPrefix(url, "http") {
			url = instance + url
		}
		tracks = append(tracks, transcript.CaptionTrack{
			LanguageCode: c.LanguageCode,
			Label:        c.Label,
			URL:          url,
		})
	}

	track, ok := transcript.PickTrack(tracks)
	if !ok {
		return nil, fmt.Errorf("no caption tracks listed")
	}

	// Prefer the JSON variant; fall back to the raw track, which is VTT.
	if body, err := r.get(ctx, track.URL+"&fmt=json"); err == nil {
		if words, perr := transcript.Parse(transcript.FormatProxyJSON, body); perr == nil && len(words) > 0 {
			return words, nil
		}
	}

	body, err := r.get(ctx, track.URL)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(string(body), "WEBVTT") {
		return nil, fmt.Errorf("track content is neither JSON nor VTT")
	}
	words, err := transcript.Parse(transcript.FormatVTT, body)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("track parsed to zero words")
	}
	return words, nil
}

func (r *Registry) listCaptions(ctx context.Context, instance, videoID string) (*captionListing, error) {
	body, err := r.get(ctx, fmt.Sprintf("%s/api/v1/captions/%s", instance, videoID))
	if err != nil {
		return nil, err
	}

	var listing captionListing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("decode caption listing: %w", err)
	}
	return &listing, nil
}

func (r *Registry) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
