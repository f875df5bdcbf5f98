package domain

import "fmt"

// Dataset es la tabla de la encuesta en forma numerica, solo lectura.
type Dataset struct {
	Columns []string
	Rows    [][]float64
}

// ColumnIndex devuelve la posicion de una columna o -1.
func (d Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Validate exige las columnas minimas (Diabetes y BMI) y filas rectangulares.
func (d Dataset) Validate() error {
	for _, required := range []string{ColumnDiabetes, ColumnBMI} {
		if d.ColumnIndex(required) < 0 {
			return fmt.Errorf("dataset missing required column %s", required)
		}
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Columns) {
			return fmt.Errorf("dataset row %d has %d values, want %d", i+1, len(row), len(d.Columns))
		}
	}
	return nil
}

// Record devuelve la fila i como mapa columna -> valor.
func (d Dataset) Record(i int) map[string]float64 {
	out := make(map[string]float64, len(d.Columns))
	for j, c := range d.Columns {
		out[c] = d.Rows[i][j]
	}
	return out
}

type ClassCount struct {
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// BoxStats son las estadisticas de un boxplot por clase.
type BoxStats struct {
	Class        float64 `json:"class"`
	Count        int     `json:"count"`
	Min          float64 `json:"min"`
	Q1           float64 `json:"q1"`
	Median       float64 `json:"median"`
	Q3           float64 `json:"q3"`
	Max          float64 `json:"max"`
	LowerWhisker float64 `json:"lower_whisker"`
	UpperWhisker float64 `json:"upper_whisker"`
	Outliers     int     `json:"outliers"`
}

type DatasetSummary struct {
	Respondents int    `json:"respondents"`
	Features    int    `json:"features"`
	Source      string `json:"source"`
}

// Crosstab cuenta respondentes por valor del factor y estado de diabetes.
type Crosstab struct {
	Factor         string    `json:"factor"`
	FactorValues   []float64 `json:"factor_values"`
	DiabetesValues []float64 `json:"diabetes_values"`
	Counts         [][]int   `json:"counts"`
}
