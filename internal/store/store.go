// Package store persists video metadata and transcripts as flat files
// under a single data directory. The metadata log is a JSON array ordered
// newest-first; transcripts live one file per video.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/clipscribe/clipscribe/internal/transcript"
)

// ErrNotFound reports a missing metadata entry or transcript file.
var ErrNotFound = errors.New("record not found")

// Record is one entry in the metadata log.
type Record struct {
	Type              string  `json:"type"` // "youtube" or "upload"
	Source            string  `json:"source,omitempty"`
	Filename          string  `json:"filename"`
	VideoID           string  `json:"video_id,omitempty"`
	Title             string  `json:"title,omitempty"`
	Duration          float64 `json:"duration,omitempty"`
	VideoURL          string  `json:"video_url,omitempty"`
	TranscriptSummary string  `json:"transcript_summary,omitempty"`
	CreatedAt         string  `json:"created_at"`
}

// Store owns the data directory layout:
//
//	<dir>/metadata.json
//	<dir>/uploads/
//	<dir>/processed/
//	<dir>/transcripts/
type Store struct {
	dir string
	mu  sync.Mutex
	log zerolog.Logger
}

// New creates the directory layout and returns the store.
func New(dir string, log zerolog.Logger) (*Store, error) {
	for _, sub := range []string{"", "uploads", "processed", "transcripts"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", sub, err)
		}
	}
	return &Store{dir: dir, log: log.With().Str("component", "store").Logger()}, nil
}

func (s *Store) UploadsDir() string   { return filepath.Join(s.dir, "uploads") }
func (s *Store) ProcessedDir() string { return filepath.Join(s.dir, "processed") }

func (s *Store) metadataPath() string { return filepath.Join(s.dir, "metadata.json") }

func (s *Store) transcriptPath(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return filepath.Join(s.dir, "transcripts", base+".json")
}

// Append prepends a record to the metadata log, newest first. The stamp is
// set here so callers cannot forget it.
func (s *Store) Append(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	records, err := s.readAll()
	if err != nil {
		return err
	}
	records = append([]Record{rec}, records...)
	return s.writeAll(records)
}

// Records returns the metadata log, filtered to entries whose backing data
// still exists: youtube entries need a video id, uploads need the file on
// disk.
func (s *Store) Records() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(all))
	for _, rec := range all {
		switch rec.Type {
		case "youtube":
			if rec.VideoID == "" {
				continue
			}
		default:
			if _, err := os.Stat(filepath.Join(s.UploadsDir(), rec.Filename)); err != nil {
				continue
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// Get looks up a metadata entry by filename.
func (s *Store) Get(filename string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return Record{}, err
	}
	for _, rec := range records {
		if rec.Filename == filename {
			return rec, nil
		}
	}
	return Record{}, fmt.Errorf("%w: %s", ErrNotFound, filename)
}

// SaveTranscript writes the transcript file for a video.
func (s *Store) SaveTranscript(filename string, tr *transcript.Transcript) error {
	data, err := json.MarshalIndent(tr, "", "  ")
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	return atomicWrite(s.transcriptPath(filename), data)
}

// Transcript reads the transcript file for a video.
func (s *Store) Transcript(filename string) (*transcript.Transcript, error) {
	data, err := os.ReadFile(s.transcriptPath(filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: transcript for %s", ErrNotFound, filename)
		}
		return nil, err
	}
	var tr transcript.Transcript
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	return &tr, nil
}

// Delete removes the video file, its extracted audio sibling, its
// transcript, and its metadata entry. Missing files are not errors; the
// metadata entry must exist.
func (s *Store) Delete(filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return err
	}

	idx := -1
	for i, rec := range records {
		if rec.Filename == filename {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, filename)
	}

	videoPath := filepath.Join(s.UploadsDir(), filename)
	wavPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".wav"
	for _, p := range []string{videoPath, wavPath, s.transcriptPath(filename)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}

	records = append(records[:idx], records[idx+1:]...)
	if err := s.writeAll(records); err != nil {
		return err
	}
	s.log.Info().Str("filename", filename).Msg("video deleted")
	return nil
}

func (s *Store) readAll() ([]Record, error) {
	data, err := os.ReadFile(s.metadataPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return records, nil
}

func (s *Store) writeAll(records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	return atomicWrite(s.metadataPath(), data)
}

// atomicWrite is temp file + rename so readers never observe a torn file.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".store-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
