package service

import (
	"math"
	"sort"

	"diabetes-risk/internal/domain"
)

// percentile usa interpolacion lineal entre rangos vecinos (0 <= p <= 1).
// sorted debe venir ordenado y no vacio.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// boxStats calcula cuartiles y bigotes a 1.5*IQR, limitados a valores observados.
func boxStats(class float64, values []float64) domain.BoxStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	st := domain.BoxStats{Class: class, Count: len(sorted)}
	if len(sorted) == 0 {
		return st
	}
	st.Min = sorted[0]
	st.Max = sorted[len(sorted)-1]
	st.Q1 = percentile(sorted, 0.25)
	st.Median = percentile(sorted, 0.5)
	st.Q3 = percentile(sorted, 0.75)

	iqr := st.Q3 - st.Q1
	lowFence := st.Q1 - 1.5*iqr
	highFence := st.Q3 + 1.5*iqr
	st.LowerWhisker = st.Q1
	st.UpperWhisker = st.Q3
	for _, v := range sorted {
		if v >= lowFence {
			st.LowerWhisker = v
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= highFence {
			st.UpperWhisker = sorted[i]
			break
		}
	}
	for _, v := range sorted {
		if v < lowFence || v > highFence {
			st.Outliers++
		}
	}
	return st
}

func sortedKeys(m map[float64]int) []float64 {
	keys := make([]float64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Float64s(keys)
	return keys
}
