package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"diabetes-risk/internal/classifier"
	"diabetes-risk/internal/config"
	"diabetes-risk/internal/db"
	apihttp "diabetes-risk/internal/http"
	"diabetes-risk/internal/llm"
	"diabetes-risk/internal/metrics"
	"diabetes-risk/internal/repository"
	"diabetes-risk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	gin.SetMode(cfg.GinMode)

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	schemas, err := service.LoadSchemaFile(cfg.FeatureSchemaPath)
	if err != nil {
		logger.Fatal("load feature schemas", zap.Error(err))
	}
	schema, err := schemas.Get(cfg.FeatureSchema)
	if err != nil {
		logger.Fatal("select feature schema", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	holder := classifier.NewHolder(func() (classifier.Classifier, error) {
		return classifier.Load(cfg.ModelPaths, schema)
	})

	riskSvc := service.NewRiskService(schema, holder, service.SimulationRule{
		Enabled:   cfg.SimulationEnabled,
		Column:    cfg.SimulationColumn,
		Threshold: cfg.SimulationThreshold,
	}, m, logger)

	var (
		recCache    service.RecommendationCache = service.NewMemoryRecommendationCache()
		limiter     service.AdvisorRateLimiter
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			recCache = service.NewRedisRecommendationCache(redisClient)
			limiter = service.NewRedisAdvisorRateLimiter(redisClient, cfg.FeatureSchema, cfg.AdvisorRateWindow, cfg.AdvisorRateLimit)
		}
		cancel()
		defer redisClient.Close()
	}

	llmClient, err := llm.NewProviderClient(cfg.LLMProvider, cfg.LLMBaseURL, cfg.AdvisorAPIKey(), llm.Options{
		Model:           cfg.LLMModel,
		Temperature:     cfg.LLMTemperature,
		TopP:            cfg.LLMTopP,
		MaxOutputTokens: cfg.LLMMaxOutputTokens,
		Timeout:         cfg.LLMTimeout,
	}, logger)
	if err != nil {
		logger.Fatal("llm client", zap.Error(err))
	}
	advisorSvc := service.NewRecommendationService(llmClient, service.RecommendationOptions{
		Language: cfg.AdvisorLanguage,
		Cache:    recCache,
		CacheTTL: cfg.RecommendationCacheTTL,
		Limiter:  limiter,
		Metrics:  m,
		Logger:   logger,
	})
	assessmentSvc := service.NewAssessmentService(riskSvc, advisorSvc, logger)

	var datasetRepo repository.DatasetRepository
	switch cfg.DatasetSource {
	case "postgres":
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		if err := db.Ping(ctx, pool); err != nil {
			logger.Warn("db ping failed", zap.Error(err))
		}
		datasetRepo = repository.NewPgDatasetRepository(pool, cfg.DatasetTable)
	default:
		datasetRepo = repository.NewFileDatasetRepository(cfg.DatasetPath)
	}
	datasetSvc := service.NewDatasetService(datasetRepo, cfg.DatasetRiskFactors, logger)

	// carga temprana solo para informar; un fallo no impide arrancar
	if riskSvc.PredictionEnabled() {
		logger.Info("classifier loaded", zap.String("schema", schema.Name))
	} else {
		_, loadErr := holder.State()
		logger.Warn("classifier unavailable, predictions disabled", zap.Error(loadErr))
	}

	health := apihttp.NewHealthHandler(map[string]apihttp.ReadinessCheck{
		"classifier": func(context.Context) error {
			_, err := holder.Get()
			return err
		},
		"dataset": datasetSvc.Ready,
	})
	router := apihttp.NewRouter(
		logger,
		registry,
		cfg.CORSAllowedOrigins,
		health,
		apihttp.NewAssessmentHandler(logger, schemas, riskSvc, assessmentSvc, advisorSvc),
		apihttp.NewDatasetHandler(logger, datasetSvc),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// el asesor puede tardar hasta LLM_TIMEOUT
		WriteTimeout: cfg.LLMTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

func waitForShutdown(server *http.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
