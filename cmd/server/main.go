// Command server serves the lemma conversion HTTP API.
//
// Usage:
//
//	go run ./cmd/server [-config configs/development.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/api/handler"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/api/router"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/api/validator"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/cache"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/lemmatizer"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/lexicon"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/middleware"
	pkgredis "github.com/Adithya-Monish-Kumar-K/tdzlemma/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	slog.Info("starting lemma server", "port", cfg.Server.Port, "lexicon_source", cfg.Lexicon.Source)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.DefaultRegisterer)
	if cfg.Metrics.Enabled {
		ms := metrics.NewServer(cfg.Metrics.Port, prometheus.DefaultGatherer)
		ms.Start()
		defer ms.Shutdown(context.Background())
	}

	lex, db, err := lexicon.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to load lexicon", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	processors, err := newProcessors(cfg, lex, m)
	if err != nil {
		slog.Error("failed to build pipelines", "error", err)
		os.Exit(1)
	}

	checker := health.NewChecker()
	if db != nil {
		checker.Register("lexicon_store", health.PingCheck(db, false))
	}

	var sentenceCache *cache.SentenceCache
	if cfg.Redis.Enabled {
		redisClient, err := pkgredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, sentence caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			sentenceCache = cache.New(redisClient, cfg.Redis.CacheTTL, m)
			checker.Register("redis", health.PingCheck(redisClient, true))
			slog.Info("sentence cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	h := handler.New(processors, sentenceCache, validator.Limits{
		MaxSentences: cfg.Server.MaxSentences,
		MaxTokens:    cfg.Server.MaxTokens,
	})

	opts := router.Options{
		Metrics:        m,
		Timeout:        cfg.Server.RequestTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
	if cfg.Server.RateLimit > 0 {
		opts.Limiter = middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)
		go sweep(ctx, opts.Limiter)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router.New(h, checker, opts),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("lemma server listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("lemma server stopped")
}

func newProcessors(cfg *config.Config, lex *lexicon.Lexicon, m *metrics.Metrics) (map[lemmatizer.Mode]handler.Processor, error) {
	lem, err := lemmatizer.New(lemmatizer.Config{
		Mode:             lemmatizer.Lemmatize,
		MultiplePrefixes: cfg.Pipeline.MultiplePrefixes,
	}, lex, m)
	if err != nil {
		return nil, err
	}
	delem, err := lemmatizer.New(lemmatizer.Config{Mode: lemmatizer.Delemmatize}, nil, m)
	if err != nil {
		return nil, err
	}
	return map[lemmatizer.Mode]handler.Processor{
		lemmatizer.Lemmatize:   lem,
		lemmatizer.Delemmatize: delem,
	}, nil
}

func sweep(ctx context.Context, l *middleware.RateLimiter) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}
