// Package classifier carga y evalua el clasificador binario de riesgo
// entrenado fuera de este repositorio.
package classifier

import "math"

// Classifier es el contrato minimo: una etiqueta 0/1 por vector.
type Classifier interface {
	Predict(features []float64) (int, error)
}

// ProbabilityEstimator lo implementan los modelos que exponen la
// probabilidad de la clase positiva. Los que no, son "label-only".
type ProbabilityEstimator interface {
	PredictProba(features []float64) (float64, error)
}

// FeatureCounter permite validar la longitud del vector antes de evaluar.
type FeatureCounter interface {
	NumFeatures() int
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
