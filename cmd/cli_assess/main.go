package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"diabetes-risk/internal/classifier"
	"diabetes-risk/internal/config"
	"diabetes-risk/internal/domain"
	"diabetes-risk/internal/llm"
	"diabetes-risk/internal/service"
)

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	schemas, err := service.LoadSchemaFile(cfg.FeatureSchemaPath)
	if err != nil {
		log.Fatal(err)
	}
	schema, err := schemas.Get(cfg.FeatureSchema)
	if err != nil {
		log.Fatal(err)
	}

	holder := classifier.NewHolder(func() (classifier.Classifier, error) {
		return classifier.Load(cfg.ModelPaths, schema)
	})
	riskSvc := service.NewRiskService(schema, holder, service.SimulationRule{
		Enabled:   cfg.SimulationEnabled,
		Column:    cfg.SimulationColumn,
		Threshold: cfg.SimulationThreshold,
	}, nil, logger)

	llmClient, err := llm.NewProviderClient(cfg.LLMProvider, cfg.LLMBaseURL, cfg.AdvisorAPIKey(), llm.Options{
		Model:           cfg.LLMModel,
		Temperature:     cfg.LLMTemperature,
		TopP:            cfg.LLMTopP,
		MaxOutputTokens: cfg.LLMMaxOutputTokens,
		Timeout:         cfg.LLMTimeout,
	}, logger)
	if err != nil {
		log.Fatal(err)
	}
	advisorSvc := service.NewRecommendationService(llmClient, service.RecommendationOptions{
		Language: cfg.AdvisorLanguage,
		Cache:    service.NewMemoryRecommendationCache(),
		CacheTTL: cfg.RecommendationCacheTTL,
		Logger:   logger,
	})
	assessmentSvc := service.NewAssessmentService(riskSvc, advisorSvc, logger)

	if !riskSvc.PredictionEnabled() {
		_, loadErr := holder.State()
		fmt.Printf("Modelo no disponible: %v\n", loadErr)
		if !riskSvc.SimulationEnabled() {
			os.Exit(1)
		}
		fmt.Println("Usando modo SIMULADO (no es una prediccion real).")
	}

	for {
		fmt.Printf("===== Evaluacion de riesgo (%s) =====\n", schema.Name)
		profile, err := askProfile(reader, schema)
		if err != nil {
			log.Fatalf("leer perfil: %v", err)
		}

		withAdvice := askYesNo(reader, "Pedir consejos al asesor? (s/n): ")
		var a domain.Assessment
		if riskSvc.PredictionEnabled() {
			a, err = assessmentSvc.Assess(ctx, "cli", profile, withAdvice)
		} else {
			a, err = assessmentSvc.Simulate(ctx, "cli", profile, withAdvice)
		}
		if err != nil {
			fmt.Printf("No se pudo evaluar: %v\n", err)
		} else {
			printAssessment(a)
		}

		if !askYesNo(reader, "Otra evaluacion? (s/n): ") {
			return
		}
	}
}

func askProfile(reader *bufio.Reader, schema domain.FeatureSchema) (domain.RawHealthProfile, error) {
	record := make(map[string]float64, len(schema.Columns))
	var ageYears *int
	for _, col := range schema.Columns {
		for {
			if col.Name == domain.ColumnAge {
				fmt.Print("Edad en anos: ")
			} else {
				fmt.Printf("%s%s: ", prompt(col), optionsHint(col))
			}
			line, err := reader.ReadString('\n')
			if err != nil {
				return domain.RawHealthProfile{}, err
			}
			line = strings.TrimSpace(line)
			if line == "" && col.Default != nil {
				record[col.Name] = *col.Default
				break
			}
			if col.Name == domain.ColumnAge {
				years, err := strconv.Atoi(line)
				if err != nil || years < 0 {
					fmt.Println("Ingresa una edad entera.")
					continue
				}
				ageYears = &years
				break
			}
			v, err := parseAnswer(col, line)
			if err != nil {
				fmt.Println(err)
				continue
			}
			record[col.Name] = v
			break
		}
	}
	profile := domain.ProfileFromRecord(record)
	profile.AgeYears = ageYears
	return profile, nil
}

func prompt(col domain.Column) string {
	if col.Prompt != "" {
		return col.Prompt
	}
	return col.Name
}

func optionsHint(col domain.Column) string {
	if len(col.Labels) == 0 {
		if col.Min != nil && col.Max != nil {
			return fmt.Sprintf(" [%v-%v]", *col.Min, *col.Max)
		}
		return ""
	}
	keys := make([]int, 0, len(col.Labels))
	for k := range col.Labels {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%d=%s", k, col.Labels[k]))
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// parseAnswer acepta el numero o la etiqueta declarada en el schema.
func parseAnswer(col domain.Column, line string) (float64, error) {
	for k, label := range col.Labels {
		if strings.EqualFold(label, line) {
			return float64(k), nil
		}
	}
	v, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, errors.New("valor numerico invalido")
	}
	if col.Type == domain.ColumnTypeInt && v != math.Trunc(v) {
		return 0, errors.New("se espera un entero")
	}
	if !col.InDomain(v) {
		return 0, errors.New("valor fuera de rango")
	}
	return v, nil
}

func askYesNo(reader *bufio.Reader, question string) bool {
	fmt.Print(question)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "si", "y", "yes", "ya":
		return true
	}
	return false
}

func printAssessment(a domain.Assessment) {
	p := a.Prediction
	fmt.Println("----- Resultado -----")
	if p.Source == domain.SourceSimulated {
		fmt.Println("[SIMULADO] Resultado de regla de umbral, no del modelo.")
	}
	risk := "BAJO"
	if p.HighRisk() {
		risk = "ALTO"
	}
	fmt.Printf("Riesgo: %s (label=%d)\n", risk, p.Label)
	if p.LabelOnly {
		fmt.Println("Probabilidad: no disponible para este modelo")
	} else {
		fmt.Printf("Probabilidad: %.1f%%\n", p.Probability*100)
	}
	fmt.Printf("Guia (%s):\n", a.Guidance.Tier)
	for _, item := range a.Guidance.Items {
		fmt.Printf("  - %s\n", item)
	}
	if a.Recommendation != nil {
		fmt.Printf("Asesor [%s]:\n%s\n", a.Recommendation.Status, a.Recommendation.Text)
	}
}
