package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clipscribe/clipscribe/internal/acquire"
	"github.com/clipscribe/clipscribe/internal/media"
	"github.com/clipscribe/clipscribe/internal/metrics"
	"github.com/clipscribe/clipscribe/internal/store"
	"github.com/clipscribe/clipscribe/internal/summary"
	"github.com/clipscribe/clipscribe/internal/transcript"
)

// TranscriptFetcher is the orchestrator surface the handlers need.
type TranscriptFetcher interface {
	GetTranscript(ctx context.Context, videoID, manual string) (*transcript.Transcript, error)
}

// Clipper is the media extraction surface the handlers need.
type Clipper interface {
	ExtractClip(ctx context.Context, inPath string, timestamp, halfWidth float64, outVideo string) (*media.ClipResult, error)
	ExtractAudio(ctx context.Context, inPath, outWav string) error
}

// Transcriber turns an audio file into timestamped text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*transcript.Transcript, error)
}

// VideoHandler serves transcript acquisition, uploads, clip extraction,
// history and deletion.
type VideoHandler struct {
	fetcher     TranscriptFetcher
	clipper     Clipper
	transcriber Transcriber
	store       *store.Store
	halfWidth   float64
	log         zerolog.Logger
}

func NewVideoHandler(fetcher TranscriptFetcher, clipper Clipper, transcriber Transcriber, st *store.Store, halfWidth float64, log zerolog.Logger) *VideoHandler {
	return &VideoHandler{
		fetcher:     fetcher,
		clipper:     clipper,
		transcriber: transcriber,
		store:       st,
		halfWidth:   halfWidth,
		log:         log.With().Str("handler", "videos").Logger(),
	}
}

// Routes registers the video endpoints.
func (h *VideoHandler) Routes(r chi.Router) {
	r.Post("/process-url", h.ProcessURL)
	r.Post("/upload", h.Upload)
	r.Post("/extract-clip", h.ExtractClip)
	r.Post("/generate-summary", h.GenerateSummary)
	r.Get("/transcript/{filename}", h.Transcript)
	r.Get("/history", h.History)
	r.Delete("/video/{filename}", h.Delete)
}

type processURLRequest struct {
	URL              string `json:"url"`
	ManualTranscript string `json:"manual_transcript"`
}

type processURLResponse struct {
	VideoID    string                 `json:"video_id"`
	Method     string                 `json:"method"`
	WordCount  int                    `json:"word_count"`
	Transcript *transcript.Transcript `json:"transcript"`
}

// exhaustedResponse is the terminal acquisition failure. It must never look
// like a generic error: it carries the full trail and tells the caller what
// to do next.
type exhaustedResponse struct {
	Error        string                 `json:"error"`
	ErrorType    string                 `json:"error_type"`
	Attempts     []acquire.AttemptError `json:"attempts"`
	Instructions []string               `json:"instructions"`
}

// ProcessURL handles POST /api/process-url. Accepts a video URL or bare id
// plus an optional manual transcript that bypasses acquisition entirely.
func (h *VideoHandler) ProcessURL(w http.ResponseWriter, r *http.Request) {
	var req processURLRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	videoID, err := ExtractVideoID(req.URL)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	tr, err := h.fetcher.GetTranscript(r.Context(), videoID, req.ManualTranscript)
	if err != nil {
		var exhausted *acquire.ExhaustedError
		if errors.As(err, &exhausted) {
			WriteJSON(w, http.StatusBadRequest, exhaustedResponse{
				Error:     "could not fetch a transcript automatically",
				ErrorType: "transcript_fetch_failed",
				Attempts:  exhausted.Attempts,
				Instructions: []string{
					"Open the video and copy its transcript text.",
					"Resubmit this request with the text in the manual_transcript field.",
				},
			})
			return
		}
		h.log.Error().Err(err).Str("video_id", videoID).Msg("transcript acquisition failed")
		WriteError(w, http.StatusInternalServerError, "transcript acquisition failed")
		return
	}

	filename := videoID + ".mp4"
	if err := h.store.SaveTranscript(filename, tr); err != nil {
		h.log.Error().Err(err).Msg("save transcript")
		WriteError(w, http.StatusInternalServerError, "failed to persist transcript")
		return
	}
	if err := h.store.Append(store.Record{
		Type:              "youtube",
		Source:            req.URL,
		Filename:          filename,
		VideoID:           videoID,
		VideoURL:          "https://www.youtube.com/watch?v=" + videoID,
		TranscriptSummary: truncateWords(tr.FullText, 30),
	}); err != nil {
		h.log.Error().Err(err).Msg("append metadata")
		WriteError(w, http.StatusInternalServerError, "failed to persist metadata")
		return
	}

	WriteJSON(w, http.StatusOK, processURLResponse{
		VideoID:    videoID,
		Method:     tr.Method,
		WordCount:  len(tr.Words),
		Transcript: tr,
	})
}

// Upload handles POST /api/upload. Stores the video under a fresh name,
// extracts its audio, and transcribes it with the speech-to-text chain.
func (h *VideoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("video")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "missing video file field")
		return
	}
	defer file.Close()

	if err := ValidateUploadFilename(header.Filename); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	filename := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	videoPath := filepath.Join(h.store.UploadsDir(), filename)
	dst, err := os.Create(videoPath)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(videoPath)
		WriteError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	dst.Close()

	wavPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".wav"
	if err := h.clipper.ExtractAudio(r.Context(), videoPath, wavPath); err != nil {
		os.Remove(videoPath)
		h.log.Error().Err(err).Msg("audio extraction failed")
		WriteError(w, http.StatusInternalServerError, "failed to extract audio from upload")
		return
	}

	var tr *transcript.Transcript
	if h.transcriber != nil {
		tr, err = h.transcriber.Transcribe(r.Context(), wavPath)
		if err != nil {
			// Upload still succeeds; the transcript can be supplied manually.
			h.log.Warn().Err(err).Str("filename", filename).Msg("upload transcription failed")
			tr = nil
		}
	}
	if tr != nil {
		if err := h.store.SaveTranscript(filename, tr); err != nil {
			h.log.Error().Err(err).Msg("save transcript")
		}
	}

	rec := store.Record{
		Type:     "upload",
		Source:   header.Filename,
		Filename: filename,
		VideoURL: "/static/uploads/" + filename,
	}
	if tr != nil {
		rec.TranscriptSummary = truncateWords(tr.FullText, 30)
	}
	if err := h.store.Append(rec); err != nil {
		h.log.Error().Err(err).Msg("append metadata")
		WriteError(w, http.StatusInternalServerError, "failed to persist metadata")
		return
	}

	resp := map[string]any{
		"filename":  filename,
		"video_url": rec.VideoURL,
	}
	if tr != nil {
		resp["transcript"] = tr
	}
	WriteJSON(w, http.StatusCreated, resp)
}

type extractClipRequest struct {
	Filename  string  `json:"filename"`
	Timestamp float64 `json:"timestamp"`
	Keyword   string  `json:"keyword"`
}

type extractClipResponse struct {
	ClipURL  string           `json:"clip_url"`
	AudioURL string           `json:"audio_url"`
	Window   media.ClipWindow `json:"window"`
	Summary  summary.Summary  `json:"summary"`
}

// ExtractClip handles POST /api/extract-clip. Cuts a bounded window around
// the timestamp out of a stored video and describes it.
func (h *VideoHandler) ExtractClip(w http.ResponseWriter, r *http.Request) {
	var req extractClipRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Filename == "" {
		WriteError(w, http.StatusBadRequest, "filename is required")
		return
	}

	rec, err := h.store.Get(req.Filename)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.ClipExtractionsTotal.WithLabelValues("not_found").Inc()
			WriteError(w, http.StatusNotFound, "video not found: "+req.Filename)
			return
		}
		WriteError(w, http.StatusInternalServerError, "metadata lookup failed")
		return
	}

	inPath := filepath.Join(h.store.UploadsDir(), req.Filename)
	outName := fmt.Sprintf("clip_%s_%s.mp4", strings.TrimSuffix(req.Filename, filepath.Ext(req.Filename)), uuid.NewString()[:8])
	outPath := filepath.Join(h.store.ProcessedDir(), outName)

	result, err := h.clipper.ExtractClip(r.Context(), inPath, req.Timestamp, h.halfWidth, outPath)
	if err != nil {
		var oor *media.OutOfRangeError
		var tool *media.ToolError
		switch {
		case errors.Is(err, media.ErrNotFound):
			metrics.ClipExtractionsTotal.WithLabelValues("not_found").Inc()
			// YouTube entries hold only a transcript; there is no local media
			// to cut from, which is a different caller error than a vanished
			// upload.
			if rec.Type == "youtube" {
				WriteError(w, http.StatusNotFound, "this YouTube entry is transcript-only: no local media is stored, upload the video to extract clips")
			} else {
				WriteError(w, http.StatusNotFound, "video file not found on disk")
			}
		case errors.As(err, &oor):
			metrics.ClipExtractionsTotal.WithLabelValues("out_of_range").Inc()
			WriteError(w, http.StatusBadRequest, oor.Error())
		case errors.As(err, &tool):
			metrics.ClipExtractionsTotal.WithLabelValues("tool_error").Inc()
			h.log.Error().Err(err).Msg("clip extraction tool failure")
			WriteErrorDetail(w, http.StatusInternalServerError, "media tool failure", tool.Tool)
		default:
			metrics.ClipExtractionsTotal.WithLabelValues("error").Inc()
			h.log.Error().Err(err).Msg("clip extraction failed")
			WriteError(w, http.StatusInternalServerError, "clip extraction failed")
		}
		return
	}
	metrics.ClipExtractionsTotal.WithLabelValues("success").Inc()

	clipText, before, after := h.windowText(req.Filename, result.Window)
	sum := summary.Generate(clipText, req.Keyword, before, after)

	WriteJSON(w, http.StatusOK, extractClipResponse{
		ClipURL:  "/static/processed/" + filepath.Base(result.VideoPath),
		AudioURL: "/static/processed/" + filepath.Base(result.AudioPath),
		Window:   result.Window,
		Summary:  sum,
	})
}

// windowText slices the stored transcript into the words inside the window
// plus ten seconds of context on each side. Missing transcripts are fine;
// the summary degrades to a keyword placeholder.
func (h *VideoHandler) windowText(filename string, window media.ClipWindow) (clip, before, after string) {
	tr, err := h.store.Transcript(filename)
	if err != nil {
		return "", "", ""
	}
	var clipW, beforeW, afterW []transcript.Word
	for _, w := range tr.Words {
		switch {
		case w.End >= window.Start && w.Start <= window.End:
			clipW = append(clipW, w)
		case w.End >= window.Start-10 && w.End < window.Start:
			beforeW = append(beforeW, w)
		case w.Start > window.End && w.Start <= window.End+10:
			afterW = append(afterW, w)
		}
	}
	return transcript.JoinWords(clipW), transcript.JoinWords(beforeW), transcript.JoinWords(afterW)
}

type generateSummaryRequest struct {
	ClipTranscript string `json:"clip_transcript"`
	Keyword        string `json:"keyword"`
	ContextBefore  string `json:"context_before"`
	ContextAfter   string `json:"context_after"`
}

// GenerateSummary handles POST /api/generate-summary: the summary
// generator on caller-supplied text, without extracting anything.
func (h *VideoHandler) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	var req generateSummaryRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Keyword == "" {
		WriteError(w, http.StatusBadRequest, "keyword is required")
		return
	}
	WriteJSON(w, http.StatusOK, summary.Generate(req.ClipTranscript, req.Keyword, req.ContextBefore, req.ContextAfter))
}

// Transcript handles GET /api/transcript/{filename}.
func (h *VideoHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	tr, err := h.store.Transcript(filename)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "transcript not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "transcript read failed")
		return
	}
	WriteJSON(w, http.StatusOK, tr)
}

// History handles GET /api/history.
func (h *VideoHandler) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.Records()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "history read failed")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"videos": records})
}

// Delete handles DELETE /api/video/{filename}.
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if err := h.store.Delete(filename); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "video not found")
			return
		}
		h.log.Error().Err(err).Str("filename", filename).Msg("delete failed")
		WriteError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted", "filename": filename})
}

func truncateWords(text string, n int) string {
	fields := strings.Fields(text)
	if len(fields) <= n {
		return text
	}
	return strings.Join(fields[:n], " ") + "..."
}
