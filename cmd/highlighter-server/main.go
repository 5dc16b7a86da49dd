package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"yashubustudio/highlighter/emb"
	"yashubustudio/highlighter/highlighter"
	"yashubustudio/highlighter/internal/server"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to config.json (default: ./config.json)")
		addr       = flag.String("addr", ":8080", "Listen address")
		debug      = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	logger, err := buildLogger(*debug)
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(*configPath, *addr, logger); err != nil {
		logger.Fatal("highlighter-server failed", zap.Error(err))
	}
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(configPath, addr string, logger *zap.Logger) error {
	cfg, err := highlighter.LoadConfig(configPath)
	if err != nil {
		return err
	}

	segmenter, err := highlighter.NewPunktSegmenter()
	if err != nil {
		return err
	}
	tok, err := highlighter.NewWordPieceTokenizer(cfg.TokenizerPath, cfg.MaxLength, cfg.Stride)
	if err != nil {
		return err
	}
	head, err := emb.LoadHead(cfg.Encoder.HeadPath)
	if err != nil {
		return err
	}
	encoder := emb.NewEncoder(emb.Config{
		OrtDLL:    cfg.Encoder.OrtDLL,
		ModelPath: cfg.Encoder.ModelPath,
		PoolSize:  cfg.Encoder.PoolSize,
	}, logger)
	// Fail at startup, not on the first request.
	if err := encoder.Warmup(); err != nil {
		return err
	}
	defer encoder.Close()

	svc, err := highlighter.NewService(segmenter, tok, encoder, head, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.New(svc, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
