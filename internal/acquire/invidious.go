package acquire

import (
	"context"

	"github.com/clipscribe/clipscribe/internal/invidious"
	"github.com/clipscribe/clipscribe/internal/transcript"
)

// InvidiousStrategy fetches captions through the alternate proxy instance
// pool. Highest priority: no scraping, no audio download, word timing
// synthesized from phrase intervals by the parser.
type InvidiousStrategy struct {
	registry *invidious.Registry
}

func NewInvidiousStrategy(registry *invidious.Registry) *InvidiousStrategy {
	return &InvidiousStrategy{registry: registry}
}

func (s *InvidiousStrategy) Name() string { return "invidious" }

func (s *InvidiousStrategy) Attempt(ctx context.Context, videoID string) (*transcript.Transcript, error) {
	words, err := s.registry.Captions(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return &transcript.Transcript{
		FullText: transcript.JoinWords(words),
		Words:    words,
	}, nil
}
