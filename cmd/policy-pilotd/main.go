package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/CryptoTuck/policy-pilot-sub000/internal/common"
	"github.com/CryptoTuck/policy-pilot-sub000/internal/export"
	"github.com/CryptoTuck/policy-pilot-sub000/internal/grading/openai"
	"github.com/CryptoTuck/policy-pilot-sub000/internal/pipeline"
	"github.com/CryptoTuck/policy-pilot-sub000/internal/repository"
	"github.com/CryptoTuck/policy-pilot-sub000/internal/server"
)

func main() {
	// Logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	log := logger.Sugar()

	// Env (.env is optional, real env always wins)
	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(slogger)

	// DB Pool
	pool, err := repository.NewPool(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, slogger)
	if err != nil {
		log.Fatalf("creating DB pool: %v", err)
	}
	defer pool.Close()

	// Healthcheck DB on startup
	if err := repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout); err != nil {
		log.Fatalf("DB health failed: %v", err)
	}
	log.Infow("DB health OK")

	accountsRepo := repository.NewAccountRepository(pool, slogger)
	policiesRepo := repository.NewPolicyRepository(pool, slogger)
	reportsRepo := repository.NewReportRepository(pool, slogger)

	grader := openai.NewClient(openai.Config{
		APIKey:      cfg.Grader.APIKey,
		BaseURL:     cfg.Grader.BaseURL,
		Model:       cfg.Grader.Model,
		Temperature: cfg.Grader.Temperature,
		Timeout:     cfg.Grader.Timeout,
	}, slogger)

	processor := pipeline.NewProcessor(slogger, grader, accountsRepo, policiesRepo, reportsRepo)
	exporter := export.NewService(reportsRepo, policiesRepo, slogger)
	srv := server.New(slogger, processor, exporter, pool, cfg.Server.WebhookSecret)

	httpServer := &fasthttp.Server{
		Handler: srv.Handler,
		Name:    "policy-pilot",
	}

	log.Infof("HTTP serving on %s", cfg.Server.Addr)
	go func() {
		if err := httpServer.ListenAndServe(cfg.Server.Addr); err != nil {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	_ = httpServer.Shutdown()
	fmt.Println("stopped.")
}
