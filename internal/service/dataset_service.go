package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"diabetes-risk/internal/domain"
	"diabetes-risk/internal/repository"
)

const datasetSourceLabel = "BRFSS 2015"

// datasetLoadTimeout acota la carga, que no depende del request que la dispara.
const datasetLoadTimeout = 30 * time.Second

// DatasetService expone las vistas de exploracion sobre la encuesta.
// El dataset se carga una vez; un fallo de carga se reintenta en la
// siguiente llamada.
type DatasetService struct {
	repo        repository.DatasetRepository
	riskFactors []string
	logger      *zap.Logger

	mu     sync.Mutex
	loaded bool
	data   domain.Dataset
}

func NewDatasetService(repo repository.DatasetRepository, riskFactors []string, logger *zap.Logger) *DatasetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DatasetService{
		repo:        repo,
		riskFactors: append([]string(nil), riskFactors...),
		logger:      logger,
	}
}

func (s *DatasetService) dataset(ctx context.Context) (domain.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.data, nil
	}
	if s.repo == nil {
		return domain.Dataset{}, fmt.Errorf("%w: no dataset source configured", domain.ErrDatasetUnavailable)
	}

	// Un request cancelado no debe dejar la vista sin datos.
	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), datasetLoadTimeout)
	defer cancel()
	ds, err := s.repo.Load(loadCtx)
	if err != nil {
		s.logger.Error("dataset load failed", zap.String("source", s.repo.Describe()), zap.Error(err))
		return domain.Dataset{}, fmt.Errorf("%w: %w", domain.ErrDatasetUnavailable, err)
	}
	s.data = ds
	s.loaded = true
	s.logger.Info("dataset loaded",
		zap.String("source", s.repo.Describe()),
		zap.Int("rows", len(ds.Rows)),
		zap.Int("columns", len(ds.Columns)),
	)
	return s.data, nil
}

// Summary: respondentes y cantidad de features (todas las columnas menos Diabetes).
func (s *DatasetService) Summary(ctx context.Context) (domain.DatasetSummary, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return domain.DatasetSummary{}, err
	}
	return domain.DatasetSummary{
		Respondents: len(ds.Rows),
		Features:    len(ds.Columns) - 1,
		Source:      datasetSourceLabel,
	}, nil
}

// DiabetesDistribution cuenta respondentes por valor de Diabetes, ordenado por valor.
func (s *DatasetService) DiabetesDistribution(ctx context.Context) ([]domain.ClassCount, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	idx := ds.ColumnIndex(domain.ColumnDiabetes)
	counts := make(map[float64]int)
	for _, row := range ds.Rows {
		counts[row[idx]]++
	}
	out := make([]domain.ClassCount, 0, len(counts))
	for _, v := range sortedKeys(counts) {
		out = append(out, domain.ClassCount{Value: v, Count: counts[v]})
	}
	return out, nil
}

// BMIByDiabetes devuelve estadisticas de boxplot del BMI por clase.
func (s *DatasetService) BMIByDiabetes(ctx context.Context) ([]domain.BoxStats, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	dIdx := ds.ColumnIndex(domain.ColumnDiabetes)
	bIdx := ds.ColumnIndex(domain.ColumnBMI)
	groups := make(map[float64][]float64)
	sizes := make(map[float64]int)
	for _, row := range ds.Rows {
		groups[row[dIdx]] = append(groups[row[dIdx]], row[bIdx])
		sizes[row[dIdx]]++
	}
	out := make([]domain.BoxStats, 0, len(groups))
	for _, class := range sortedKeys(sizes) {
		out = append(out, boxStats(class, groups[class]))
	}
	return out, nil
}

// RiskFactors devuelve los factores destacados presentes en el dataset.
func (s *DatasetService) RiskFactors(ctx context.Context) ([]string, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(s.riskFactors))
	for _, f := range s.riskFactors {
		if f != domain.ColumnDiabetes && ds.ColumnIndex(f) >= 0 {
			out = append(out, f)
		}
	}
	return out, nil
}

// Crosstab cuenta respondentes por valor de column y de Diabetes.
func (s *DatasetService) Crosstab(ctx context.Context, column string) (domain.Crosstab, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return domain.Crosstab{}, err
	}
	fIdx := ds.ColumnIndex(column)
	if fIdx < 0 || column == domain.ColumnDiabetes {
		return domain.Crosstab{}, fmt.Errorf("%w: %s", domain.ErrUnknownColumn, column)
	}
	dIdx := ds.ColumnIndex(domain.ColumnDiabetes)

	factorSeen := make(map[float64]int)
	diabetesSeen := make(map[float64]int)
	type cell struct{ f, d float64 }
	cells := make(map[cell]int)
	for _, row := range ds.Rows {
		f, d := row[fIdx], row[dIdx]
		factorSeen[f]++
		diabetesSeen[d]++
		cells[cell{f, d}]++
	}

	ct := domain.Crosstab{
		Factor:         column,
		FactorValues:   sortedKeys(factorSeen),
		DiabetesValues: sortedKeys(diabetesSeen),
	}
	ct.Counts = make([][]int, len(ct.FactorValues))
	for i, f := range ct.FactorValues {
		ct.Counts[i] = make([]int, len(ct.DiabetesValues))
		for j, d := range ct.DiabetesValues {
			ct.Counts[i][j] = cells[cell{f, d}]
		}
	}
	return ct, nil
}

// Ready fuerza la carga e informa si el dataset esta disponible.
func (s *DatasetService) Ready(ctx context.Context) error {
	_, err := s.dataset(ctx)
	return err
}
