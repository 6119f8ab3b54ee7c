package stt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// LocalWhisper shells out to a whisper.cpp binary. It is the last resort in
// the chain: slower than the remote API but needs no network or key.
type LocalWhisper struct {
	bin   string
	model string
}

// NewLocalWhisper creates the local provider. Empty bin or model paths
// leave it unconfigured.
func NewLocalWhisper(binPath, modelPath string) *LocalWhisper {
	return &LocalWhisper{bin: binPath, model: modelPath}
}

func (l *LocalWhisper) Name() string { return "whisper.cpp" }

// cppTranscript is whisper.cpp's -oj output shape. Word entries carry the
// model's per-word probability in "p".
type cppTranscript struct {
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
		Words []struct {
			Start float64 `json:"start"`
			End   float64 `json:"end"`
			Word  string  `json:"word"`
			P     float64 `json:"p"`
		} `json:"words"`
	} `json:"segments"`
}

// Transcribe runs whisper.cpp against a 16kHz mono WAV and reads back its
// JSON output. The JSON file is written beside a temp prefix and removed
// afterwards.
func (l *LocalWhisper) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	if l.bin == "" || l.model == "" {
		return nil, ErrNoCredentials
	}
	if _, err := exec.LookPath(l.bin); err != nil {
		return nil, fmt.Errorf("whisper.cpp binary: %w", err)
	}

	outDir, err := os.MkdirTemp("", "whispercpp")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(outDir)
	outPrefix := filepath.Join(outDir, "out")

	cmd := exec.CommandContext(ctx, l.bin,
		"-m", l.model,
		"-f", audioPath,
		"-oj",
		"-of", outPrefix,
	)
	if b, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("whisper.cpp failed: %w\n%s", err, string(b))
	}

	jb, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return nil, fmt.Errorf("read whisper.cpp output: %w", err)
	}
	return parseCppOutput(jb)
}

func parseCppOutput(jb []byte) (*Result, error) {
	var tr cppTranscript
	if err := json.Unmarshal(jb, &tr); err != nil {
		return nil, fmt.Errorf("decode whisper.cpp output: %w", err)
	}

	var (
		result Result
		texts  []string
	)
	for _, seg := range tr.Segments {
		if t := strings.TrimSpace(seg.Text); t != "" {
			texts = append(texts, t)
		}
		for _, w := range seg.Words {
			text := strings.TrimSpace(w.Word)
			if text == "" {
				continue
			}
			conf := w.P
			if conf <= 0 {
				conf = 1.0
			}
			result.Words = append(result.Words, Word{Text: text, Start: w.Start, End: w.End, Confidence: conf})
		}
	}
	result.Text = strings.Join(texts, " ")
	return &result, nil
}
