package classifier

import (
	"errors"
	"fmt"
)

// Scaler es un StandardScaler previo al modelo: (x - mean) / scale.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// LogisticRegression es un modelo lineal con salida sigmoide.
type LogisticRegression struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Threshold    float64   `json:"threshold"`
	Scaler       *Scaler   `json:"scaler,omitempty"`
}

func (m *LogisticRegression) validate() error {
	n := len(m.Coefficients)
	if n == 0 {
		return errors.New("logistic regression has no coefficients")
	}
	if m.Scaler != nil {
		if len(m.Scaler.Mean) != n || len(m.Scaler.Scale) != n {
			return fmt.Errorf("scaler size mismatch: want %d values", n)
		}
		for i, s := range m.Scaler.Scale {
			if s == 0 {
				return fmt.Errorf("scaler scale[%d] is zero", i)
			}
		}
	}
	if m.Threshold == 0 {
		m.Threshold = 0.5
	}
	if m.Threshold <= 0 || m.Threshold >= 1 {
		return fmt.Errorf("threshold %v outside (0,1)", m.Threshold)
	}
	return nil
}

func (m *LogisticRegression) NumFeatures() int { return len(m.Coefficients) }

func (m *LogisticRegression) PredictProba(features []float64) (float64, error) {
	if len(features) != len(m.Coefficients) {
		return 0, fmt.Errorf("expected %d features, got %d", len(m.Coefficients), len(features))
	}
	z := m.Intercept
	for i, x := range features {
		if m.Scaler != nil {
			x = (x - m.Scaler.Mean[i]) / m.Scaler.Scale[i]
		}
		z += m.Coefficients[i] * x
	}
	return sigmoid(z), nil
}

func (m *LogisticRegression) Predict(features []float64) (int, error) {
	p, err := m.PredictProba(features)
	if err != nil {
		return 0, err
	}
	if p >= m.Threshold {
		return 1, nil
	}
	return 0, nil
}
