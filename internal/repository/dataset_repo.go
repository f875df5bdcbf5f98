package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"diabetes-risk/internal/domain"
)

// DatasetRepository carga la tabla de la encuesta completa.
type DatasetRepository interface {
	Load(ctx context.Context) (domain.Dataset, error)
	Describe() string
}

// tableFromStrings convierte encabezado + filas de texto en un Dataset numerico.
// Las filas totalmente vacias se ignoran.
func tableFromStrings(header []string, records [][]string) (domain.Dataset, error) {
	if len(header) == 0 {
		return domain.Dataset{}, fmt.Errorf("dataset has no header row")
	}
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
		if cols[i] == "" {
			return domain.Dataset{}, fmt.Errorf("dataset column %d has empty name", i+1)
		}
	}

	ds := domain.Dataset{Columns: cols, Rows: make([][]float64, 0, len(records))}
	for i, rec := range records {
		if blankRecord(rec) {
			continue
		}
		if len(rec) > len(cols) {
			return domain.Dataset{}, fmt.Errorf("dataset row %d has %d values, want %d", i+2, len(rec), len(cols))
		}
		row := make([]float64, len(cols))
		for j := range cols {
			if j >= len(rec) || strings.TrimSpace(rec[j]) == "" {
				return domain.Dataset{}, fmt.Errorf("dataset row %d column %s is empty", i+2, cols[j])
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[j]), 64)
			if err != nil {
				return domain.Dataset{}, fmt.Errorf("dataset row %d column %s: %w", i+2, cols[j], err)
			}
			row[j] = v
		}
		ds.Rows = append(ds.Rows, row)
	}
	if err := ds.Validate(); err != nil {
		return domain.Dataset{}, err
	}
	return ds, nil
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
