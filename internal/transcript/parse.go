package transcript

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Format identifies the native shape of a caption payload.
type Format string

const (
	// FormatJSON3 is YouTube's internal event-list caption format.
	FormatJSON3 Format = "json3"
	// FormatProxyJSON is the flat content/start/duration entry list served by
	// Invidious-style proxies with fmt=json.
	FormatProxyJSON Format = "proxy_json"
	// FormatVTT is WEBVTT subtitle text.
	FormatVTT Format = "vtt"
)

// ParseError reports a payload that did not match its declared format.
// Callers treat it like any other per-source failure: skip and continue.
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s captions: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse converts a raw caption payload into an ordered word list. The format
// set is closed; an unknown tag is a programming error, not a data error.
func Parse(format Format, raw []byte) ([]Word, error) {
	switch format {
	case FormatJSON3:
		return parseJSON3(raw)
	case FormatProxyJSON:
		return parseProxyJSON(raw)
	case FormatVTT:
		return parseVTT(string(raw)), nil
	default:
		return nil, fmt.Errorf("unknown caption format %q", format)
	}
}

// json3Event is one event in YouTube's JSON3 caption stream. Events without
// text (window styling, cue clears) have empty segs.
type json3Event struct {
	StartMs    float64 `json:"tStartMs"`
	DurationMs float64 `json:"dDurationMs"`
	Segs       []struct {
		UTF8 string `json:"utf8"`
	} `json:"segs"`
}

func parseJSON3(raw []byte) ([]Word, error) {
	var payload struct {
		Events []json3Event `json:"events"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &ParseError{Format: FormatJSON3, Err: err}
	}

	var words []Word
	for _, ev := range payload.Events {
		var sb strings.Builder
		for _, seg := range ev.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(sb.String())
		if text == "" {
			continue
		}
		words = append(words, SynthesizeWords(text, ev.StartMs/1000.0, ev.DurationMs/1000.0)...)
	}
	return words, nil
}

// proxyEntry is one caption phrase from an Invidious-style JSON feed.
type proxyEntry struct {
	Content  string  `json:"content"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

func parseProxyJSON(raw []byte) ([]Word, error) {
	var entries []proxyEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &ParseError{Format: FormatProxyJSON, Err: err}
	}

	var words []Word
	for _, e := range entries {
		words = append(words, SynthesizeWords(e.Content, e.Start, e.Duration)...)
	}
	return words, nil
}

// parseVTT is a minimal WEBVTT scanner: a "-->" line updates the current cue
// boundary, and any following non-blank, non-numeric, non-header line is cue
// text synthesized against that boundary. Zero-length cues are floored to
// 0.1s to avoid dividing the interval by nothing.
func parseVTT(text string) []Word {
	var (
		words    []Word
		cueStart float64
		cueEnd   float64
	)

	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "-->") {
			parts := strings.SplitN(line, "-->", 2)
			if len(parts) == 2 {
				cueStart = vttTimeToSeconds(strings.TrimSpace(parts[0]))
				cueEnd = vttTimeToSeconds(strings.TrimSpace(parts[1]))
			}
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isDigits(trimmed) || strings.Contains(line, "WEBVTT") {
			continue
		}

		duration := math.Max(0.1, cueEnd-cueStart)
		words = append(words, SynthesizeWords(trimmed, cueStart, duration)...)
	}
	return words
}

// vttTimeToSeconds converts "H:MM:SS.mmm" or "MM:SS.mmm" to total seconds.
// Malformed components fall back to zero rather than failing the whole cue.
func vttTimeToSeconds(ts string) float64 {
	// Trailing cue settings ("00:00:01.000 align:start") are not timing.
	if idx := strings.IndexByte(ts, ' '); idx >= 0 {
		ts = ts[:idx]
	}

	parts := strings.Split(ts, ":")
	seconds := 0.0
	switch len(parts) {
	case 3:
		seconds += parseFloatOrZero(parts[0]) * 3600
		seconds += parseFloatOrZero(parts[1]) * 60
		seconds += parseFloatOrZero(parts[2])
	case 2:
		seconds += parseFloatOrZero(parts[0]) * 60
		seconds += parseFloatOrZero(parts[1])
	}
	return seconds
}

func parseFloatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
