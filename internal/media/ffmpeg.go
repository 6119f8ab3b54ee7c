package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// ErrNotFound reports a media file that does not exist on disk. This is a
// caller error, distinct from a tool failure.
var ErrNotFound = errors.New("media file not found")

// ToolError wraps an ffmpeg/ffprobe invocation failure with the tool's
// stderr output. A corrupt clip is worse than an explicit failure, so tool
// errors are surfaced as-is and never degraded.
type ToolError struct {
	Tool   string
	Err    error
	Output string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %v\n%s", e.Tool, e.Err, e.Output)
}

func (e *ToolError) Unwrap() error { return e.Err }

// ClipResult holds the paths of a matched video/audio sub-clip pair. Both
// cover the identical window, so a transcript derived from the audio aligns
// with the video.
type ClipResult struct {
	VideoPath string
	AudioPath string
	Window    ClipWindow
}

// Extractor shells out to ffmpeg and ffprobe. Audio output is always 16kHz
// mono s16le WAV, the representation the speech-to-text providers expect.
type Extractor struct {
	ffmpeg  string
	ffprobe string
	log     zerolog.Logger
}

// NewExtractor creates an Extractor. Empty paths fall back to the binaries
// in PATH.
func NewExtractor(ffmpegPath, ffprobePath string, log zerolog.Logger) *Extractor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Extractor{ffmpeg: ffmpegPath, ffprobe: ffprobePath, log: log}
}

// Check verifies both binaries are resolvable. Call once at startup.
func (e *Extractor) Check() error {
	if _, err := exec.LookPath(e.ffmpeg); err != nil {
		return fmt.Errorf("ffmpeg not found: %w", err)
	}
	if _, err := exec.LookPath(e.ffprobe); err != nil {
		return fmt.Errorf("ffprobe not found: %w", err)
	}
	return nil
}

// ProbeDuration returns the media duration in seconds.
func (e *Extractor) ProbeDuration(ctx context.Context, path string) (float64, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	cmd := exec.CommandContext(ctx, e.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, &ToolError{Tool: "ffprobe duration", Err: err, Output: string(out)}
	}

	s := strings.TrimSpace(string(out))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

// ExtractClip measures the media, computes the clamped window around the
// timestamp, and produces the matched video/audio sub-clip pair. The video
// clip lands at outVideo; the audio clip lands next to it with a .wav
// extension.
func (e *Extractor) ExtractClip(ctx context.Context, inPath string, timestamp, halfWidth float64, outVideo string) (*ClipResult, error) {
	total, err := e.ProbeDuration(ctx, inPath)
	if err != nil {
		return nil, err
	}

	window, err := ComputeWindow(timestamp, total, halfWidth)
	if err != nil {
		return nil, err
	}

	return e.ExtractWindow(ctx, inPath, window, outVideo)
}

// ExtractWindow cuts the given window out of inPath as both a re-encoded
// video clip and a 16kHz mono WAV with the same start and duration.
func (e *Extractor) ExtractWindow(ctx context.Context, inPath string, window ClipWindow, outVideo string) (*ClipResult, error) {
	if _, err := os.Stat(inPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, inPath)
	}

	outAudio := strings.TrimSuffix(outVideo, ".mp4") + ".wav"

	e.log.Info().
		Str("input", inPath).
		Float64("start", window.Start).
		Float64("duration", window.Duration).
		Msg("extracting clip window")

	// Re-encode rather than stream-copy so cuts land exactly on the window
	// boundary instead of the nearest keyframe.
	cmdVideo := exec.CommandContext(ctx, e.ffmpeg,
		"-ss", fmtSeconds(window.Start),
		"-i", inPath,
		"-t", fmtSeconds(window.Duration),
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-c:a", "aac",
		"-y",
		outVideo,
	)
	if out, err := cmdVideo.CombinedOutput(); err != nil {
		os.Remove(outVideo)
		return nil, &ToolError{Tool: "ffmpeg video clip", Err: err, Output: string(out)}
	}

	cmdAudio := exec.CommandContext(ctx, e.ffmpeg,
		"-ss", fmtSeconds(window.Start),
		"-i", inPath,
		"-t", fmtSeconds(window.Duration),
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-y",
		outAudio,
	)
	if out, err := cmdAudio.CombinedOutput(); err != nil {
		os.Remove(outVideo)
		os.Remove(outAudio)
		return nil, &ToolError{Tool: "ffmpeg audio clip", Err: err, Output: string(out)}
	}

	return &ClipResult{VideoPath: outVideo, AudioPath: outAudio, Window: window}, nil
}

// ExtractAudio converts a full media file to 16kHz mono s16le WAV.
func (e *Extractor) ExtractAudio(ctx context.Context, inPath, outWav string) error {
	if _, err := os.Stat(inPath); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, inPath)
	}

	cmd := exec.CommandContext(ctx, e.ffmpeg,
		"-i", inPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-y",
		outWav,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		os.Remove(outWav)
		return &ToolError{Tool: "ffmpeg extract audio", Err: err, Output: string(out)}
	}
	return nil
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
