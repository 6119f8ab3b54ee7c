// Package stt turns audio files into timestamped text. Providers are tried
// in a fixed order; the first usable one wins.
package stt

import (
	"context"
	"errors"
)

// ErrNoCredentials reports a provider that is not configured. The chain
// skips it silently and moves on.
var ErrNoCredentials = errors.New("provider not configured")

// Provider is the interface for speech-to-text backends.
type Provider interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
	Name() string // "whisper", "whisper.cpp"
}

// Result is the common transcription result from any provider.
type Result struct {
	Text     string
	Language string
	Words    []Word // nil if the provider has no word timestamps
}

// Word is a timestamped word from any provider. Confidence is the
// provider's own probability in [0,1]; providers that report none use 1.0.
type Word struct {
	Text       string
	Start      float64 // seconds
	End        float64 // seconds
	Confidence float64
}
