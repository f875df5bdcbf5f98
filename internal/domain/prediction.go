package domain

import "time"

// FeatureVector es el input ordenado que consume el clasificador.
type FeatureVector struct {
	Schema  string    `json:"schema"`
	Columns []string  `json:"columns"`
	Values  []float64 `json:"values"`
}

func (v FeatureVector) Len() int { return len(v.Values) }

// Value busca una columna por nombre.
func (v FeatureVector) Value(column string) (float64, bool) {
	for i, c := range v.Columns {
		if c == column {
			return v.Values[i], true
		}
	}
	return 0, false
}

func (v FeatureVector) Map() map[string]float64 {
	out := make(map[string]float64, len(v.Columns))
	for i, c := range v.Columns {
		out[c] = v.Values[i]
	}
	return out
}

// PredictionSource distingue un resultado del modelo de uno simulado.
type PredictionSource string

const (
	SourceModel     PredictionSource = "model"
	SourceSimulated PredictionSource = "simulated"
)

// PredictionResult se crea una vez por perfil enviado y no se muta.
type PredictionResult struct {
	Label       int              `json:"label"`
	Probability float64          `json:"probability"`
	LabelOnly   bool             `json:"label_only"`
	Source      PredictionSource `json:"source"`
	Schema      string           `json:"schema"`
}

// HighRisk es true para la clase positiva.
func (r PredictionResult) HighRisk() bool { return r.Label == 1 }

// Assessment es la respuesta completa de una evaluacion. No se persiste.
type Assessment struct {
	ID             string           `json:"id"`
	CreatedAt      time.Time        `json:"created_at"`
	Prediction     PredictionResult `json:"prediction"`
	Features       FeatureVector    `json:"features"`
	Guidance       Guidance         `json:"guidance"`
	Recommendation *Recommendation  `json:"recommendation,omitempty"`
}

// GuidanceTier agrupa los consejos estaticos por nivel de probabilidad.
type GuidanceTier string

const (
	TierLow      GuidanceTier = "low"
	TierModerate GuidanceTier = "moderate"
	TierHigh     GuidanceTier = "high"
)

type Guidance struct {
	Tier  GuidanceTier `json:"tier"`
	Items []string     `json:"items"`
}

// RecommendationStatus resume el resultado de pedir consejos al asesor externo.
type RecommendationStatus string

const (
	RecommendationOK                RecommendationStatus = "ok"
	RecommendationNoCredential      RecommendationStatus = "no_credential"
	RecommendationRateLimited       RecommendationStatus = "rate_limited"
	RecommendationInvalidCredential RecommendationStatus = "invalid_credential"
	RecommendationPermissionDenied  RecommendationStatus = "permission_denied"
	RecommendationError             RecommendationStatus = "error"
)

// Recommendation es texto del asesor o un mensaje sustituto etiquetado.
type Recommendation struct {
	Status RecommendationStatus `json:"status"`
	Text   string               `json:"text"`
	Cached bool                 `json:"cached,omitempty"`
}

// AdvisorSummary son los campos clinicos que se envian al asesor.
type AdvisorSummary struct {
	BMI          float64 `json:"bmi"`
	HighBP       bool    `json:"high_bp"`
	HighChol     bool    `json:"high_chol"`
	Smoker       bool    `json:"smoker"`
	PhysActivity bool    `json:"phys_activity"`
	AgeCategory  int     `json:"age_category"`
	HighRisk     bool    `json:"high_risk"`
}
