// Package acquire obtains word-level transcripts for videos by walking an
// ordered chain of independent strategies. Each strategy is a single-purpose
// adapter over one upstream source; the first success wins.
package acquire

import (
	"context"
	"fmt"
	"strings"

	"github.com/clipscribe/clipscribe/internal/transcript"
)

// Strategy is one way of obtaining a transcript. Strategies are independent
// and share no mutable state apart from collaborators handed to them at
// construction.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, videoID string) (*transcript.Transcript, error)
}

// AttemptError records one strategy's failure within an exhausted chain.
type AttemptError struct {
	Strategy string `json:"strategy"`
	Message  string `json:"message"`
}

// ExhaustedError is the only terminal failure the orchestrator reports. It
// carries the full failure trail in attempt order; the caller is expected
// to fall back to asking the user for a manual transcript.
type ExhaustedError struct {
	VideoID  string
	Attempts []AttemptError
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = fmt.Sprintf("%s: %s", a.Strategy, a.Message)
	}
	return fmt.Sprintf("all transcript strategies failed for %s (manual transcript required): %s",
		e.VideoID, strings.Join(parts, "; "))
}

// ManualInputRequired always reports true. It exists so callers building a
// user-facing response do not have to infer the fallback from the type.
func (e *ExhaustedError) ManualInputRequired() bool { return true }
