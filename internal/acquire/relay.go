package acquire

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/clipscribe/clipscribe/internal/stt"
	"github.com/clipscribe/clipscribe/internal/transcript"
)

// RelayStrategy asks a third-party relay service for a direct audio URL,
// downloads the audio to a scoped temp file, and runs speech-to-text on
// it. The relay fetches server-side, which sidesteps source-side rate
// limiting. Last automated resort: slow, but yields true per-word timing.
type RelayStrategy struct {
	endpoint string
	tempDir  string
	client   *http.Client
	stt      stt.Provider
}

// NewRelayStrategy creates the strategy. Empty endpoint and tempDir select
// the public relay and the OS temp directory.
func NewRelayStrategy(endpoint, tempDir string, timeout time.Duration, provider stt.Provider) *RelayStrategy {
	if endpoint == "" {
		endpoint = "https://api.cobalt.tools/api/json"
	}
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &RelayStrategy{
		endpoint: endpoint,
		tempDir:  tempDir,
		client:   &http.Client{Timeout: timeout},
		stt:      provider,
	}
}

func (s *RelayStrategy) Name() string { return "cobalt" }

type relayRequest struct {
	URL           string `json:"url"`
	VideoQuality  string `json:"videoQuality"`
	FilenameStyle string `json:"filenameStyle"`
	DownloadMode  string `json:"downloadMode"`
}

type relayResponse struct {
	Status string `json:"status"`
	URL    string `json:"url"`
	Text   string `json:"text"`
}

func (s *RelayStrategy) Attempt(ctx context.Context, videoID string) (*transcript.Transcript, error) {
	audioURL, err := s.resolveAudioURL(ctx, videoID)
	if err != nil {
		return nil, err
	}

	audioPath := filepath.Join(s.tempDir, uuid.NewString()+".mp3")
	if err := s.download(ctx, audioURL, audioPath); err != nil {
		return nil, err
	}
	defer os.Remove(audioPath)

	result, err := s.stt.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("transcribe relay audio: %w", err)
	}
	if len(result.Words) == 0 {
		return nil, fmt.Errorf("speech-to-text returned no words")
	}

	words := make([]transcript.Word, len(result.Words))
	for i, w := range result.Words {
		conf := w.Confidence
		if conf <= 0 {
			conf = 1.0
		}
		words[i] = transcript.Word{
			Text:       w.Text,
			Start:      w.Start,
			End:        w.End,
			Confidence: conf,
		}
	}

	return &transcript.Transcript{
		FullText: transcript.JoinWords(words),
		Words:    words,
	}, nil
}

func (s *RelayStrategy) resolveAudioURL(ctx context.Context, videoID string) (string, error) {
	payload, err := json.Marshal(relayRequest{
		URL:           "https://www.youtube.com/watch?v=" + videoID,
		VideoQuality:  "720",
		FilenameStyle: "basic",
		DownloadMode:  "audio",
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("relay request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("relay returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed relayResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode relay response: %w", err)
	}
	if parsed.URL == "" {
		return "", fmt.Errorf("relay returned no audio URL (status %q: %s)", parsed.Status, parsed.Text)
	}
	return parsed.URL, nil
}

func (s *RelayStrategy) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("download audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("audio download returned status %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return fmt.Errorf("write audio file: %w", err)
	}
	return f.Close()
}
