package stt

import "testing"

const cppOutput = `{
	"segments": [
		{
			"start": 0.0, "end": 2.0, "text": " hello world",
			"words": [
				{"start": 0.0, "end": 0.8, "word": " hello", "p": 0.91},
				{"start": 0.8, "end": 2.0, "word": " world", "p": 0.42}
			]
		},
		{
			"start": 2.0, "end": 3.0, "text": " again",
			"words": [
				{"start": 2.0, "end": 3.0, "word": " again"}
			]
		}
	]
}`

func TestParseCppOutput(t *testing.T) {
	result, err := parseCppOutput([]byte(cppOutput))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "hello world again" {
		t.Errorf("text = %q", result.Text)
	}
	if len(result.Words) != 3 {
		t.Fatalf("expected 3 words, got %d", len(result.Words))
	}
	if result.Words[0].Text != "hello" || result.Words[0].Confidence != 0.91 {
		t.Errorf("unexpected first word: %+v", result.Words[0])
	}
	if result.Words[1].Confidence != 0.42 {
		t.Errorf("per-word probability dropped: %+v", result.Words[1])
	}
	// Entries without a probability default to 1.0.
	if result.Words[2].Confidence != 1.0 {
		t.Errorf("missing probability should default to 1.0: %+v", result.Words[2])
	}
}

func TestParseCppOutput_Malformed(t *testing.T) {
	if _, err := parseCppOutput([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed output")
	}
}
