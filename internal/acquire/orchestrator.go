package acquire

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clipscribe/clipscribe/internal/metrics"
	"github.com/clipscribe/clipscribe/internal/transcript"
)

// MethodManual is the method recorded when the caller supplies the
// transcript text directly.
const MethodManual = "manual_input"

const defaultAttemptTimeout = 45 * time.Second

// Service walks the strategy chain in fixed priority order. It is safe for
// concurrent use; each call is synchronous and spawns no background work.
type Service struct {
	strategies     []Strategy
	attemptTimeout time.Duration
	log            zerolog.Logger
}

// NewService creates the orchestrator. Strategy order is priority order.
func NewService(log zerolog.Logger, attemptTimeout time.Duration, strategies ...Strategy) *Service {
	if attemptTimeout <= 0 {
		attemptTimeout = defaultAttemptTimeout
	}
	return &Service{
		strategies:     strategies,
		attemptTimeout: attemptTimeout,
		log:            log.With().Str("component", "acquire").Logger(),
	}
}

// GetTranscript returns a transcript for the video. A non-empty manual
// transcript short-circuits the chain entirely; manual input always wins
// and is never validated against automated results. Otherwise strategies
// run in order until one succeeds. On total failure the returned error is
// an *ExhaustedError carrying every attempt's failure in order.
func (s *Service) GetTranscript(ctx context.Context, videoID, manual string) (*transcript.Transcript, error) {
	if strings.TrimSpace(manual) != "" {
		words := transcript.ManualWords(manual)
		s.log.Info().Str("video_id", videoID).Int("words", len(words)).Msg("using manual transcript")
		return &transcript.Transcript{
			FullText: strings.TrimSpace(manual),
			Words:    words,
			Method:   MethodManual,
		}, nil
	}

	var attempts []AttemptError
	for _, strat := range s.strategies {
		attemptCtx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
		tr, err := strat.Attempt(attemptCtx, videoID)
		cancel()

		if err != nil {
			s.log.Warn().Err(err).
				Str("video_id", videoID).
				Str("strategy", strat.Name()).
				Msg("strategy failed")
			metrics.StrategyAttemptsTotal.WithLabelValues(strat.Name(), "failure").Inc()
			attempts = append(attempts, AttemptError{Strategy: strat.Name(), Message: err.Error()})
			continue
		}

		tr.Method = strat.Name()
		if tr.FullText == "" {
			tr.FullText = transcript.JoinWords(tr.Words)
		}
		s.log.Info().
			Str("video_id", videoID).
			Str("strategy", strat.Name()).
			Int("words", len(tr.Words)).
			Msg("transcript acquired")
		metrics.StrategyAttemptsTotal.WithLabelValues(strat.Name(), "success").Inc()
		return tr, nil
	}

	return nil, &ExhaustedError{VideoID: videoID, Attempts: attempts}
}
