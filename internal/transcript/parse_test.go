package transcript

import (
	"errors"
	"testing"
)

func TestParseJSON3(t *testing.T) {
	raw := []byte(`{
		"events": [
			{"tStartMs": 0, "dDurationMs": 2000, "segs": [{"utf8": "hello "}, {"utf8": "world"}]},
			{"tStartMs": 2000, "dDurationMs": 1000, "segs": [{"utf8": "\n"}]},
			{"tStartMs": 3000, "dDurationMs": 1000, "segs": [{"utf8": "again"}]}
		]
	}`)

	words, err := Parse(FormatJSON3, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Blank event is skipped; "hello world" splits into two words.
	if len(words) != 3 {
		t.Fatalf("expected 3 words, got %d", len(words))
	}
	if words[0].Text != "hello" || words[0].Start != 0.0 || words[0].End != 1.0 {
		t.Errorf("unexpected first word: %+v", words[0])
	}
	if words[1].Text != "world" || words[1].Start != 1.0 || words[1].End != 2.0 {
		t.Errorf("unexpected second word: %+v", words[1])
	}
	if words[2].Text != "again" || words[2].Start != 3.0 {
		t.Errorf("unexpected third word: %+v", words[2])
	}
}

func TestParseJSON3_Malformed(t *testing.T) {
	_, err := Parse(FormatJSON3, []byte("<html>not json</html>"))
	if err == nil {
		t.Fatal("expected error for malformed payload")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Errorf("expected *ParseError, got %T", err)
	}
}

func TestParseProxyJSON(t *testing.T) {
	raw := []byte(`[
		{"content": "first phrase", "start": 0.0, "duration": 1.0},
		{"content": "", "start": 1.0, "duration": 1.0},
		{"content": "second", "start": 2.5, "duration": 0.5}
	]`)

	words, err := Parse(FormatProxyJSON, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(words) != 3 {
		t.Fatalf("expected 3 words, got %d", len(words))
	}
	if words[0].Start != 0.0 || words[0].End != 0.5 {
		t.Errorf("unexpected first word timing: %+v", words[0])
	}
	if words[2].Text != "second" || words[2].Start != 2.5 || words[2].End != 3.0 {
		t.Errorf("unexpected last word: %+v", words[2])
	}
}

func TestParseVTT(t *testing.T) {
	raw := []byte("WEBVTT\n\n1\n00:00:01.000 --> 00:00:03.000\nhello world\n")

	words, err := Parse(FormatVTT, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[0].Start != 1.0 {
		t.Errorf("expected first start=1.0, got %v", words[0].Start)
	}
	if words[1].Start != 2.0 {
		t.Errorf("expected second start=2.0, got %v", words[1].Start)
	}
}

func TestParseVTT_ShortTimestampFormat(t *testing.T) {
	raw := []byte("WEBVTT\n\n01:30.000 --> 01:32.000\nshort form\n")

	words, err := Parse(FormatVTT, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[0].Start != 90.0 {
		t.Errorf("expected start=90.0 for MM:SS.mmm format, got %v", words[0].Start)
	}
}

func TestParseVTT_ZeroLengthCue(t *testing.T) {
	// Identical start and end: duration floors at 0.1s instead of dividing by zero.
	raw := []byte("WEBVTT\n\n00:00:05.000 --> 00:00:05.000\nblip\n")

	words, err := Parse(FormatVTT, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(words) != 1 {
		t.Fatalf("expected 1 word, got %d", len(words))
	}
	if words[0].Start != 5.0 || words[0].End != 5.1 {
		t.Errorf("expected [5.0, 5.1], got [%v, %v]", words[0].Start, words[0].End)
	}
}

func TestParseVTT_SkipsCueNumbersAndHeaders(t *testing.T) {
	raw := []byte("WEBVTT Kind: captions\n\n42\n00:00:00.000 --> 00:00:01.000\ntext\n\n43\n")

	words, err := Parse(FormatVTT, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(words) != 1 {
		t.Fatalf("expected only cue text parsed, got %d words", len(words))
	}
	if words[0].Text != "text" {
		t.Errorf("expected %q, got %q", "text", words[0].Text)
	}
}

func TestParse_UnknownFormat(t *testing.T) {
	if _, err := Parse(Format("srt"), nil); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
