package service

import "diabetes-risk/internal/domain"

var guidanceByTier = map[domain.GuidanceTier][]string{
	domain.TierLow: {
		"Keep up your healthy lifestyle.",
		"Stay physically active on a regular basis.",
		"Keep a balanced diet.",
	},
	domain.TierModerate: {
		"Increase your physical activity.",
		"Cut down on food high in sugar and fat.",
		"Get regular health check-ups.",
	},
	domain.TierHigh: {
		"Consult a healthcare professional.",
		"Follow a low-sugar, low-fat diet.",
		"Increase your physical activity.",
		"Monitor your blood sugar regularly.",
	},
}

// GuidanceFor elige los consejos estaticos. Con probabilidad: < 0.3 bajo,
// < 0.6 moderado, resto alto. Sin probabilidad se usa la etiqueta.
func GuidanceFor(res domain.PredictionResult) domain.Guidance {
	var tier domain.GuidanceTier
	switch {
	case res.LabelOnly && res.Label == 1:
		tier = domain.TierHigh
	case res.LabelOnly:
		tier = domain.TierLow
	case res.Probability < 0.3:
		tier = domain.TierLow
	case res.Probability < 0.6:
		tier = domain.TierModerate
	default:
		tier = domain.TierHigh
	}
	items := make([]string, len(guidanceByTier[tier]))
	copy(items, guidanceByTier[tier])
	return domain.Guidance{Tier: tier, Items: items}
}
