package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/clipscribe/clipscribe/internal/acquire"
	"github.com/clipscribe/clipscribe/internal/api"
	"github.com/clipscribe/clipscribe/internal/config"
	"github.com/clipscribe/clipscribe/internal/invidious"
	"github.com/clipscribe/clipscribe/internal/media"
	"github.com/clipscribe/clipscribe/internal/store"
	"github.com/clipscribe/clipscribe/internal/stt"
	"github.com/clipscribe/clipscribe/internal/transcript"
)

var version = "dev"

// uploadTranscriber adapts the speech-to-text chain to the transcript shape
// the upload handler persists.
type uploadTranscriber struct {
	chain *stt.Chain
}

func (u *uploadTranscriber) Transcribe(ctx context.Context, audioPath string) (*transcript.Transcript, error) {
	result, err := u.chain.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	words := make([]transcript.Word, len(result.Words))
	for i, w := range result.Words {
		conf := w.Confidence
		if conf <= 0 {
			conf = 1.0
		}
		words[i] = transcript.Word{Text: w.Text, Start: w.Start, End: w.End, Confidence: conf}
	}
	tr := &transcript.Transcript{
		FullText: result.Text,
		Words:    words,
		Method:   "upload_stt",
	}
	if tr.FullText == "" {
		tr.FullText = transcript.JoinWords(words)
	}
	return tr, nil
}

func main() {
	startTime := time.Now()

	var overrides config.Overrides
	flag.StringVar(&overrides.EnvFile, "env-file", "", "path to .env file")
	flag.StringVar(&overrides.HTTPAddr, "addr", "", "http listen address")
	flag.StringVar(&overrides.LogLevel, "log-level", "", "log level")
	flag.StringVar(&overrides.DataDir, "data-dir", "", "data directory")
	flag.Parse()

	cfg, err := config.Load(overrides)
	if err != nil {
		early := zerolog.New(os.Stderr).With().Timestamp().Logger()
		early.Fatal().Err(err).Msg("failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logWriter := io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, "clipscribe.log"),
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
	})
	log := zerolog.New(logWriter).With().Timestamp().Logger().Level(level)
	log.Info().Str("version", version).Msg("clipscribe starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	st, err := store.New(cfg.DataDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize data directory")
	}

	// Media tools
	extractor := media.NewExtractor(cfg.FFmpegPath, cfg.FFprobePath, log.With().Str("component", "media").Logger())
	if err := extractor.Check(); err != nil {
		log.Warn().Err(err).Msg("media tools unavailable, clip extraction will fail")
	}

	// Speech-to-text chain: remote API first, local binary as fallback.
	sttChain := stt.NewChain(log.With().Str("component", "stt").Logger(),
		stt.NewRemoteWhisper(cfg.WhisperURL, cfg.WhisperModel, cfg.WhisperAPIKey, cfg.WhisperTimeout),
		stt.NewLocalWhisper(cfg.WhisperCppBin, cfg.WhisperCppModel),
	)

	// Transcript acquisition chain
	registry := invidious.NewRegistry(invidious.Options{
		DirectoryURL: cfg.InvidiousDirectoryURL,
		Log:          log.With().Str("component", "invidious").Logger(),
	})
	orchestrator := acquire.NewService(log, cfg.AttemptTimeout,
		acquire.NewInvidiousStrategy(registry),
		acquire.NewEmbedStrategy("", 0),
		acquire.NewRelayStrategy(cfg.CobaltURL, "", 0, sttChain),
	)

	// HTTP server
	httpLog := log.With().Str("component", "http").Logger()
	videos := api.NewVideoHandler(orchestrator, extractor, &uploadTranscriber{chain: sttChain}, st, cfg.ClipHalfWidth, httpLog)
	health := api.NewHealthHandler(extractor, cfg.DataDir, version, startTime)
	srv := api.NewServer(cfg, videos, health, st, httpLog)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
	}

	log.Info().Msg("clipscribe stopped")
}
