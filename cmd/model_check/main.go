package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"diabetes-risk/internal/classifier"
	"diabetes-risk/internal/config"
	"diabetes-risk/internal/db"
	"diabetes-risk/internal/repository"
	"diabetes-risk/internal/service"
)

// model_check evalua el artefacto sobre el dataset configurado.
// MODEL_CHECK_LIMIT limita la cantidad de filas (0 = todas).
func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	schemas, err := service.LoadSchemaFile(cfg.FeatureSchemaPath)
	if err != nil {
		log.Fatalf("load schemas: %v", err)
	}
	schema, err := schemas.Get(cfg.FeatureSchema)
	if err != nil {
		log.Fatalf("select schema: %v", err)
	}

	var repo repository.DatasetRepository = repository.NewFileDatasetRepository(cfg.DatasetPath)
	if cfg.DatasetSource == "postgres" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db pool: %v", err)
		}
		defer pool.Close()
		if err := db.Ping(ctx, pool); err != nil {
			log.Fatalf("db ping: %v", err)
		}
		repo = repository.NewPgDatasetRepository(pool, cfg.DatasetTable)
	}
	ds, err := repo.Load(ctx)
	if err != nil {
		log.Fatalf("load dataset %s: %v", repo.Describe(), err)
	}

	holder := classifier.NewHolder(func() (classifier.Classifier, error) {
		return classifier.Load(cfg.ModelPaths, schema)
	})
	riskSvc := service.NewRiskService(schema, holder, service.SimulationRule{}, nil, logger)

	limit, _ := strconv.Atoi(os.Getenv("MODEL_CHECK_LIMIT"))
	report, err := service.CheckModel(riskSvc, ds, limit)
	if err != nil {
		log.Fatalf("check model: %v", err)
	}

	mode := "probability"
	if report.LabelOnly {
		mode = "label-only"
	}
	fmt.Printf("=== Model check (%s, schema=%s) ===\n", repo.Describe(), schema.Name)
	fmt.Printf("rows=%d skipped=%d mode=%s\n", report.Rows, report.Skipped, mode)
	fmt.Printf("accuracy=%.4f\n", report.Accuracy())
	fmt.Println("confusion (rows=actual, cols=predicted):")
	fmt.Printf("        pred=0  pred=1\n")
	fmt.Printf("true=0  %6d  %6d\n", report.Confusion[0][0], report.Confusion[0][1])
	fmt.Printf("true=1  %6d  %6d\n", report.Confusion[1][0], report.Confusion[1][1])
}
