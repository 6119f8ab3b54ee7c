package stt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Chain tries each provider in order and returns the first success.
// Unconfigured providers are skipped without noise; real failures are
// logged and the next provider is tried.
type Chain struct {
	providers []Provider
	log       zerolog.Logger
}

// NewChain creates a Chain. Order matters; put the preferred provider first.
func NewChain(log zerolog.Logger, providers ...Provider) *Chain {
	return &Chain{providers: providers, log: log}
}

func (c *Chain) Name() string { return "chain" }

// Transcribe runs the chain. When every provider fails the aggregate error
// lists each provider's failure in order.
func (c *Chain) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	var failures []string
	for _, p := range c.providers {
		result, err := p.Transcribe(ctx, audioPath)
		if err != nil {
			if errors.Is(err, ErrNoCredentials) {
				c.log.Debug().Str("provider", p.Name()).Msg("provider not configured, skipping")
				failures = append(failures, fmt.Sprintf("%s: not configured", p.Name()))
				continue
			}
			c.log.Warn().Err(err).Str("provider", p.Name()).Msg("transcription failed")
			failures = append(failures, fmt.Sprintf("%s: %v", p.Name(), err))
			continue
		}
		c.log.Info().Str("provider", p.Name()).Int("words", len(result.Words)).Msg("transcription complete")
		return result, nil
	}

	if len(failures) == 0 {
		return nil, errors.New("no speech-to-text providers registered")
	}
	return nil, fmt.Errorf("all speech-to-text providers failed: %s", strings.Join(failures, "; "))
}
