package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RemoteWhisper calls an OpenAI-compatible /v1/audio/transcriptions
// endpoint. Works with the official API, speaches, or any other compatible
// server.
type RemoteWhisper struct {
	url    string
	model  string
	apiKey string
	client *http.Client
}

// whisperResponse is the verbose_json response shape.
type whisperResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Words    []struct {
		Word  string  `json:"word"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"words"`
}

// NewRemoteWhisper creates the remote client. An empty url leaves the
// provider unconfigured; Transcribe then returns ErrNoCredentials.
func NewRemoteWhisper(url, model, apiKey string, timeout time.Duration) *RemoteWhisper {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &RemoteWhisper{
		url:    url,
		model:  model,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

func (w *RemoteWhisper) Name() string { return "whisper" }

// Transcribe uploads the audio as multipart/form-data and requests
// word-level timestamps via verbose_json.
func (w *RemoteWhisper) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	if w.url == "" {
		return nil, ErrNoCredentials
	}

	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("copy audio data: %w", err)
	}

	if w.model != "" {
		mw.WriteField("model", w.model)
	}
	mw.WriteField("language", "en")
	mw.WriteField("response_format", "verbose_json")
	mw.WriteField("timestamp_granularities[]", "word")
	mw.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if w.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+w.apiKey)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whisper API error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed whisperResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	result := &Result{
		Text:     strings.TrimSpace(parsed.Text),
		Language: parsed.Language,
	}
	for _, pw := range parsed.Words {
		text := strings.TrimSpace(pw.Word)
		if text == "" {
			continue
		}
		// verbose_json carries no per-word probability.
		result.Words = append(result.Words, Word{Text: text, Start: pw.Start, End: pw.End, Confidence: 1.0})
	}
	return result, nil
}
