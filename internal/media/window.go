package media

import (
	"fmt"
	"math"
)

// DefaultHalfWidth is the number of seconds kept on each side of the
// requested timestamp, yielding a 14s clip away from the media edges.
const DefaultHalfWidth = 7.0

// ClipWindow is a bounded extraction window within a media file. It is
// computed per request and consumed immediately; it is never persisted on
// its own.
type ClipWindow struct {
	Start    float64 `json:"start_time"`
	End      float64 `json:"end_time"`
	Duration float64 `json:"duration"`
}

// OutOfRangeError reports a requested timestamp outside the media. It is a
// caller error and is never retried.
type OutOfRangeError struct {
	Timestamp     float64
	TotalDuration float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("invalid timestamp %.2fs: media duration is %.2fs", e.Timestamp, e.TotalDuration)
}

// ComputeWindow clamps a symmetric window of ±halfWidth seconds around the
// requested timestamp to [0, totalDuration]. Near either edge the window is
// intentionally asymmetric and shorter than 2*halfWidth. A halfWidth of zero
// or less falls back to DefaultHalfWidth.
func ComputeWindow(timestamp, totalDuration, halfWidth float64) (ClipWindow, error) {
	if timestamp < 0 || timestamp > totalDuration {
		return ClipWindow{}, &OutOfRangeError{Timestamp: timestamp, TotalDuration: totalDuration}
	}
	if halfWidth <= 0 {
		halfWidth = DefaultHalfWidth
	}

	start := math.Max(0, timestamp-halfWidth)
	end := math.Min(totalDuration, timestamp+halfWidth)
	return ClipWindow{
		Start:    start,
		End:      end,
		Duration: end - start,
	}, nil
}
