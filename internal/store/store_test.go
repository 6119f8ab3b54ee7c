package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/clipscribe/clipscribe/internal/transcript"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	return s
}

func TestAppend_NewestFirst(t *testing.T) {
	s := newTestStore(t)

	if err := s.Append(Record{Type: "youtube", Filename: "a.mp4", VideoID: "aaa11111111"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Append(Record{Type: "youtube", Filename: "b.mp4", VideoID: "bbb22222222"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	records, err := s.Records()
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Filename != "b.mp4" {
		t.Errorf("expected newest record first, got %q", records[0].Filename)
	}
	if records[0].CreatedAt == "" {
		t.Error("expected CreatedAt to be stamped")
	}
}

func TestRecords_FiltersMissingBackingData(t *testing.T) {
	s := newTestStore(t)

	// Upload whose file exists.
	present := filepath.Join(s.UploadsDir(), "kept.mp4")
	if err := os.WriteFile(present, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	s.Append(Record{Type: "upload", Filename: "kept.mp4"})
	// Upload whose file is gone.
	s.Append(Record{Type: "upload", Filename: "gone.mp4"})
	// Youtube entry missing its video id.
	s.Append(Record{Type: "youtube", Filename: "broken.mp4"})

	records, err := s.Records()
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(records) != 1 || records[0].Filename != "kept.mp4" {
		t.Errorf("expected only the backed record, got %+v", records)
	}
}

func TestTranscript_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	tr := &transcript.Transcript{
		FullText: "hello world",
		Method:   "invidious",
		Words: []transcript.Word{
			{Text: "hello", Start: 0, End: 1, Confidence: 1.0, Estimated: true},
			{Text: "world", Start: 1, End: 2, Confidence: 1.0, Estimated: true},
		},
	}
	if err := s.SaveTranscript("video.mp4", tr); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Transcript("video.mp4")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.FullText != "hello world" || got.Method != "invidious" {
		t.Errorf("unexpected transcript: %+v", got)
	}
	if len(got.Words) != 2 || !got.Words[0].Estimated {
		t.Errorf("unexpected words: %+v", got.Words)
	}
}

func TestTranscript_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Transcript("missing.mp4")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_RemovesAllArtifacts(t *testing.T) {
	s := newTestStore(t)

	video := filepath.Join(s.UploadsDir(), "clip.mp4")
	wav := filepath.Join(s.UploadsDir(), "clip.wav")
	for _, p := range []string{video, wav} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	s.Append(Record{Type: "upload", Filename: "clip.mp4"})
	s.SaveTranscript("clip.mp4", &transcript.Transcript{FullText: "x"})

	if err := s.Delete("clip.mp4"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	for _, p := range []string{video, wav, s.transcriptPath("clip.mp4")} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("expected %s to be removed", p)
		}
	}
	if _, err := s.Get("clip.mp4"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected metadata entry removed, got %v", err)
	}
}

func TestDelete_UnknownFilename(t *testing.T) {
	s := newTestStore(t)
	if err := s.Delete("nope.mp4"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
