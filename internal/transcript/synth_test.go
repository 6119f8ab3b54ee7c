package transcript

import (
	"math"
	"testing"
)

func TestSynthesizeWords_TilesInterval(t *testing.T) {
	words := SynthesizeWords("one two three four", 10.0, 2.0)

	if len(words) != 4 {
		t.Fatalf("expected 4 words, got %d", len(words))
	}

	per := 2.0 / 4.0
	for i, w := range words {
		wantStart := round2(10.0 + float64(i)*per)
		wantEnd := round2(10.0 + float64(i+1)*per)
		if w.Start != wantStart {
			t.Errorf("word %d: expected start=%v, got %v", i, wantStart, w.Start)
		}
		if w.End != wantEnd {
			t.Errorf("word %d: expected end=%v, got %v", i, wantEnd, w.End)
		}
		if !w.Estimated {
			t.Errorf("word %d: synthesized timing should be marked estimated", i)
		}
		if w.Confidence != 1.0 {
			t.Errorf("word %d: expected confidence=1.0, got %v", i, w.Confidence)
		}
	}

	// Contiguous, non-overlapping tiling.
	for i := 1; i < len(words); i++ {
		if words[i].Start != words[i-1].End {
			t.Errorf("gap between word %d end (%v) and word %d start (%v)",
				i-1, words[i-1].End, i, words[i].Start)
		}
	}
	if words[len(words)-1].End != 12.0 {
		t.Errorf("expected last end=12.0, got %v", words[len(words)-1].End)
	}
}

func TestSynthesizeWords_EmptyPhrase(t *testing.T) {
	if words := SynthesizeWords("", 0, 5.0); words != nil {
		t.Errorf("expected nil for empty phrase, got %v", words)
	}
	if words := SynthesizeWords("   \t\n  ", 0, 5.0); words != nil {
		t.Errorf("expected nil for whitespace-only phrase, got %v", words)
	}
}

func TestSynthesizeWords_SingleToken(t *testing.T) {
	words := SynthesizeWords("hello", 3.5, 1.5)
	if len(words) != 1 {
		t.Fatalf("expected 1 word, got %d", len(words))
	}
	if words[0].Start != 3.5 || words[0].End != 5.0 {
		t.Errorf("expected [3.5, 5.0], got [%v, %v]", words[0].Start, words[0].End)
	}
}

func TestSynthesizeWords_Rounding(t *testing.T) {
	// 1.0s across 3 tokens: per-token 0.333... rounds to 2 decimals.
	words := SynthesizeWords("a b c", 0, 1.0)
	if len(words) != 3 {
		t.Fatalf("expected 3 words, got %d", len(words))
	}
	if words[1].Start != 0.33 {
		t.Errorf("expected second start=0.33, got %v", words[1].Start)
	}
	if words[2].Start != 0.67 {
		t.Errorf("expected third start=0.67, got %v", words[2].Start)
	}
}

func TestManualWords_FixedRate(t *testing.T) {
	words := ManualWords("this is a manual transcript")

	if len(words) != 5 {
		t.Fatalf("expected 5 words, got %d", len(words))
	}
	if words[0].Start != 0.0 {
		t.Errorf("expected first start=0.0, got %v", words[0].Start)
	}
	// Last word's end is 0.4 * token count.
	want := round2(0.4 * 5)
	if got := words[len(words)-1].End; got != want {
		t.Errorf("expected last end=%v, got %v", want, got)
	}
	for i := 1; i < len(words); i++ {
		if math.Abs(words[i].Start-words[i-1].End) > 1e-9 {
			t.Errorf("word %d: expected start to follow previous end, got %v after %v",
				i, words[i].Start, words[i-1].End)
		}
	}
}

func TestManualWords_Empty(t *testing.T) {
	if words := ManualWords(""); words != nil {
		t.Errorf("expected nil for empty input, got %v", words)
	}
}

func TestJoinWords(t *testing.T) {
	words := []Word{{Text: "hello"}, {Text: "there"}, {Text: "world"}}
	if got := JoinWords(words); got != "hello there world" {
		t.Errorf("expected %q, got %q", "hello there world", got)
	}
	if got := JoinWords(nil); got != "" {
		t.Errorf("expected empty string for nil words, got %q", got)
	}
}

func TestPickTrack(t *testing.T) {
	tracks := []CaptionTrack{
		{LanguageCode: "de", Label: "Deutsch"},
		{LanguageCode: "en", Label: "English"},
	}
	picked, ok := PickTrack(tracks)
	if !ok || picked.LanguageCode != "en" {
		t.Errorf("expected english track, got %+v ok=%v", picked, ok)
	}

	// No English: first track wins.
	tracks = []CaptionTrack{
		{LanguageCode: "fr", Label: "Français"},
		{LanguageCode: "es", Label: "Español"},
	}
	picked, ok = PickTrack(tracks)
	if !ok || picked.LanguageCode != "fr" {
		t.Errorf("expected first track fallback, got %+v ok=%v", picked, ok)
	}

	if _, ok := PickTrack(nil); ok {
		t.Error("expected ok=false for empty track list")
	}
}
