package service

import (
	"errors"
	"fmt"

	"diabetes-risk/internal/domain"
)

// ModelReport resume el desempeno del clasificador sobre el dataset.
type ModelReport struct {
	Rows      int
	Skipped   int
	Correct   int
	LabelOnly bool
	// Confusion[actual][predicho]
	Confusion [2][2]int
}

func (r ModelReport) Accuracy() float64 {
	evaluated := r.Rows - r.Skipped
	if evaluated == 0 {
		return 0
	}
	return float64(r.Correct) / float64(evaluated)
}

// CheckModel predice cada fila del dataset y la compara con Diabetes.
// Las filas que el schema no puede codificar se cuentan como omitidas.
// limit <= 0 evalua todas las filas.
func CheckModel(risk *RiskService, ds domain.Dataset, limit int) (ModelReport, error) {
	dIdx := ds.ColumnIndex(domain.ColumnDiabetes)
	if dIdx < 0 {
		return ModelReport{}, fmt.Errorf("dataset missing %s column", domain.ColumnDiabetes)
	}
	n := len(ds.Rows)
	if limit > 0 && limit < n {
		n = limit
	}

	var report ModelReport
	for i := 0; i < n; i++ {
		report.Rows++
		actual := int(ds.Rows[i][dIdx])
		if actual != 0 && actual != 1 {
			report.Skipped++
			continue
		}
		res, err := risk.AssessRisk(domain.ProfileFromRecord(ds.Record(i)))
		if errors.Is(err, domain.ErrClassifierUnavailable) {
			return ModelReport{}, err
		}
		if err != nil {
			report.Skipped++
			continue
		}
		report.LabelOnly = res.LabelOnly
		report.Confusion[actual][res.Label]++
		if actual == res.Label {
			report.Correct++
		}
	}
	return report, nil
}
