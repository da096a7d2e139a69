package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	grpchealth "github.com/dtroode/evalca-server/internal/api/grpc/health"
	grpcrouter "github.com/dtroode/evalca-server/internal/api/grpc/router"
	grpcserver "github.com/dtroode/evalca-server/internal/api/grpc/server"
	httpctx "github.com/dtroode/evalca-server/internal/api/http/context"
	httprouter "github.com/dtroode/evalca-server/internal/api/http/router"
	httpserver "github.com/dtroode/evalca-server/internal/api/http/server"
	"github.com/dtroode/evalca-server/internal/config"
	"github.com/dtroode/evalca-server/internal/jobs"
	"github.com/dtroode/evalca-server/internal/llm"
	"github.com/dtroode/evalca-server/internal/logger"
	"github.com/dtroode/evalca-server/internal/model"
	"github.com/dtroode/evalca-server/internal/password"
	"github.com/dtroode/evalca-server/internal/repository/postgres"
	"github.com/dtroode/evalca-server/internal/repository/redis"
	"github.com/dtroode/evalca-server/internal/server"
	"github.com/dtroode/evalca-server/internal/service"
	storage "github.com/dtroode/evalca-server/internal/storage/minio"
	"github.com/dtroode/evalca-server/internal/telemetry"
	"github.com/dtroode/evalca-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const (
	shutdownTimeout     = 10 * time.Second
	healthCheckInterval = 15 * time.Second
	healthCheckTimeout  = 2 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.LogFormat)

	logAppVersion()

	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.Telemetry.Endpoint, cfg.Telemetry.ServiceName)
	if err != nil {
		logger.Fatal("failed to initialize tracing", "error", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to flush traces", "error", err)
		}
	}()

	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

	db, err := postgres.NewConection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	roles, err := model.LoadRoleCatalog(ctx, postgres.NewRoleRepository(db), model.RoleTeacher, model.RoleAdmin)
	if err != nil {
		logger.Fatal("failed to load roles", "error", err)
	}

	blacklist, closeBlacklist := newBlacklistStore(ctx, cfg.Redis, db, logger)
	defer closeBlacklist()

	hasher, err := password.New(cfg.Password.Algorithm, cfg.Password.BcryptCost, password.KDFParams{
		Time:   cfg.KDF.Time,
		MemKiB: cfg.KDF.MemKiB,
		Par:    cfg.KDF.Par,
	})
	if err != nil {
		logger.Fatal("failed to initialize password hasher", "error", err)
	}

	tokenManager := token.NewJWT(token.Options{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	})
	tokenService := service.NewTokenService(tokenManager, blacklist, metrics, logger)
	authService := service.NewAuth(postgres.NewUserRepository(db), roles, hasher, tokenService, metrics, logger)

	llmClient := llm.NewClient(llm.Options{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		VisionModel: cfg.LLM.VisionModel,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	archive := newArchive(ctx, cfg.Storage, logger)
	ocrService := service.NewOCR(llmClient, archive, service.OCRLimits{
		MaxQuestionFiles: cfg.Limits.MaxQuestionFiles,
		MaxAnswerFiles:   cfg.Limits.MaxAnswerFiles,
	}, metrics, logger)
	evaluationService := service.NewEvaluation(llmClient, service.EvaluationLimits{
		MaxQuestionWords: cfg.Limits.MaxQuestionWords,
		MaxAnswerWords:   cfg.Limits.MaxAnswerWords,
	}, metrics, logger)

	router := httprouter.New(httprouter.Services{
		Auth:          authService,
		Authenticator: authService,
		OCR:           ocrService,
		Evaluation:    evaluationService,
	}, httpctx.NewManager(), httprouter.Options{
		CORSAllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
		MaxUploadBytes:     cfg.Limits.MaxUploadBytes,
	}, logger)
	httpSrv := httpserver.NewHTTPServer(router.Register(), cfg.HTTP.Address, cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout)

	checker := grpchealth.NewChecker(db.SQLDB(), healthCheckTimeout, logger)
	grpcSrv := grpcserver.NewGRPCServer(grpcrouter.New(checker.Server(), logger).Register(), fmt.Sprintf(":%s", cfg.GRPC.Port))

	sl := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	var wg sync.WaitGroup
	servers := []model.Server{httpSrv, grpcSrv}
	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}(s)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		checker.Run(ctx, healthCheckInterval)
	}()

	if cfg.Purge.Enabled {
		purge := jobs.NewBlacklistPurge(tokenService, cfg.Purge.Interval, cfg.Purge.Timeout, logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			purge.Run(ctx)
		}()
	}

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

// newBlacklistStore returns the Postgres ledger, fronted by Redis when configured.
func newBlacklistStore(ctx context.Context, cfg config.Redis, db *postgres.Connection, logger *logger.Logger) (model.BlacklistStore, func()) {
	repo := postgres.NewBlacklistRepository(db)
	if cfg.Addr == "" {
		return repo, func() {}
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis is unreachable, blacklist cache will fall back to postgres",
			"addr", cfg.Addr,
			"error", err.Error())
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close redis client", "error", err)
		}
	}
	return redis.NewBlacklistCache(client, repo, logger), closeFn
}

// newArchive returns nil when uploads should not be archived.
func newArchive(ctx context.Context, cfg config.Storage, logger *logger.Logger) model.Storage {
	if cfg.Endpoint == "" {
		logger.Info("object storage is not configured, uploaded images will not be archived")
		return nil
	}

	client, err := storage.NewClient(ctx, storage.Options{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}
	return client
}
