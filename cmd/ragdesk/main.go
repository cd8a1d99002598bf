package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdesk/internal/chunker"
	"github.com/kailas-cloud/ragdesk/internal/config"
	dbValkey "github.com/kailas-cloud/ragdesk/internal/db/valkey"
	"github.com/kailas-cloud/ragdesk/internal/domain"
	logpkg "github.com/kailas-cloud/ragdesk/internal/logger"
	"github.com/kailas-cloud/ragdesk/internal/metrics"
	"github.com/kailas-cloud/ragdesk/internal/repository/embcache"
	indexrepo "github.com/kailas-cloud/ragdesk/internal/repository/index"
	sessionrepo "github.com/kailas-cloud/ragdesk/internal/repository/session"
	chiTransport "github.com/kailas-cloud/ragdesk/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/ragdesk/internal/transport/openai"
	answeruc "github.com/kailas-cloud/ragdesk/internal/usecase/answer"
	embeddinguc "github.com/kailas-cloud/ragdesk/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/ragdesk/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/ragdesk/internal/usecase/ingest"
	retrieveuc "github.com/kailas-cloud/ragdesk/internal/usecase/retrieve"
	sessionuc "github.com/kailas-cloud/ragdesk/internal/usecase/session"
	"github.com/kailas-cloud/ragdesk/internal/version"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting ragdesk server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// valkey and redis speak the same FT.* dialect through rueidis
	store, err := dbValkey.NewStore(dbValkey.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register collectors explicitly (no init())
	metrics.Register()

	docEmbedder := buildEmbedder(&cfg, store, logger)
	var queryEmbedder domain.Embedder = docEmbedder
	if cfg.Embedding.QueryInstruction != "" {
		queryEmbedder = domain.NewPrefixEmbedder(docEmbedder, cfg.Embedding.QueryInstruction)
	}
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.Bool("cache", cfg.Embedding.Cache.Enabled),
	)

	completer := openaiTransport.NewCompleter(&openaiTransport.CompleterConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: time.Duration(cfg.LLM.TimeoutSec) * time.Second,
		Logger:  logger,
	})

	// Repositories
	indexRepo := indexrepo.New(store, cfg.Storage.KeyPrefix, cfg.Embedding.Dimensions).
		WithHNSW(indexrepo.HNSWConfig{
			M:           cfg.Index.HNSWM,
			EFConstruct: cfg.Index.HNSWEFConstruct,
		})
	sessionTTL := time.Duration(cfg.Session.TTLHours) * time.Hour
	sessionRepo := sessionrepo.New(store, cfg.Storage.KeyPrefix, sessionTTL)

	// Use cases
	splitter := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.Size),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)
	ingestSvc := ingestuc.New(splitter, docEmbedder, indexRepo)
	retrieveSvc := retrieveuc.New(indexRepo, queryEmbedder)
	answerSvc := answeruc.New(completer, cfg.LLM.FallbackAnswer)
	sessionSvc := sessionuc.New(sessionRepo)
	healthSvc := healthuc.New(store, docEmbedder, completer)

	server := chiTransport.NewServer(ingestSvc, retrieveSvc, answerSvc, sessionSvc, healthSvc, logger).
		WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes)

	router := chiTransport.NewRouter(chiTransport.RouterConfig{
		Server:   server,
		Sessions: sessionSvc,
		Cookie: chiTransport.CookieConfig{
			Name:   cfg.Session.CookieName,
			MaxAge: sessionTTL,
			Secure: cfg.Session.Secure,
		},
		APIKeys:   cfg.Auth.APIKeys,
		StaticDir: cfg.Static.Dir,
		Logger:    logger,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr), zap.String("static_dir", cfg.Static.Dir))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented.
func buildEmbedder(cfg *config.Config, store *dbValkey.Store, logger *zap.Logger) *embeddinguc.InstrumentedEmbedder {
	// Base provider (with transport metrics built-in)
	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Timeout:    time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if cfg.Embedding.Cache.Enabled {
		embedder = embcache.New(base, store, embcache.Options{
			KeyPrefix: cfg.Storage.KeyPrefix,
			Model:     cfg.Embedding.Model,
			TTL:       time.Duration(cfg.Embedding.Cache.TTLHours) * time.Hour,
		}, metrics.EmbeddingCacheTotal, logger)
	}

	return embeddinguc.NewInstrumentedEmbedder(
		embedder, cfg.Embedding.Provider, cfg.Embedding.Model, cfg.Embedding.Dimensions,
	)
}
