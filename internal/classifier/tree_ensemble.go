package classifier

import (
	"errors"
	"fmt"
	"math"
)

const (
	ObjectiveLogistic = "binary:logistic"
	ObjectiveHinge    = "binary:hinge"
)

// TreeNode es un nodo de un arbol de decision en formato plano.
// Un nodo hoja tiene Leaf; uno interno envia x < Threshold a Yes y el
// resto a No (NaN va a Missing).
type TreeNode struct {
	Feature   int      `json:"feature"`
	Threshold float64  `json:"threshold"`
	Yes       int      `json:"yes"`
	No        int      `json:"no"`
	Missing   int      `json:"missing"`
	Leaf      *float64 `json:"leaf,omitempty"`
}

type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// TreeEnsemble es un ensamble de arboles con boosting (volcado tipo XGBoost).
// Su salida es un margen; la interpretacion depende del objetivo.
type TreeEnsemble struct {
	Objective  string  `json:"objective"`
	BaseMargin float64 `json:"base_margin"`
	Features   int     `json:"num_features"`
	Trees      []Tree  `json:"trees"`
}

func (e *TreeEnsemble) validate() error {
	switch e.Objective {
	case ObjectiveLogistic, ObjectiveHinge:
	default:
		return fmt.Errorf("unsupported objective %q", e.Objective)
	}
	if e.Features <= 0 {
		return errors.New("num_features must be positive")
	}
	if len(e.Trees) == 0 {
		return errors.New("ensemble has no trees")
	}
	for t, tree := range e.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", t)
		}
		for i, n := range tree.Nodes {
			if n.Leaf != nil {
				continue
			}
			if n.Feature < 0 || n.Feature >= e.Features {
				return fmt.Errorf("tree %d node %d: feature %d out of range", t, i, n.Feature)
			}
			// Los hijos siempre apuntan hacia adelante: la evaluacion termina.
			for _, child := range []int{n.Yes, n.No, n.Missing} {
				if child <= i || child >= len(tree.Nodes) {
					return fmt.Errorf("tree %d node %d: invalid child %d", t, i, child)
				}
			}
		}
	}
	return nil
}

func (e *TreeEnsemble) NumFeatures() int { return e.Features }

// Margin suma las hojas alcanzadas en cada arbol mas el margen base.
func (e *TreeEnsemble) Margin(features []float64) (float64, error) {
	if len(features) != e.Features {
		return 0, fmt.Errorf("expected %d features, got %d", e.Features, len(features))
	}
	sum := e.BaseMargin
	for _, tree := range e.Trees {
		sum += tree.leafValue(features)
	}
	return sum, nil
}

func (t Tree) leafValue(features []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf != nil {
			return *n.Leaf
		}
		x := features[n.Feature]
		switch {
		case math.IsNaN(x):
			i = n.Missing
		case x < n.Threshold:
			i = n.Yes
		default:
			i = n.No
		}
	}
}

// Predict: logistic -> sigmoid(margin) > 0.5, hinge -> margin > 0.
// Ambos equivalen a margin > 0.
func (e *TreeEnsemble) Predict(features []float64) (int, error) {
	m, err := e.Margin(features)
	if err != nil {
		return 0, err
	}
	if m > 0 {
		return 1, nil
	}
	return 0, nil
}

// probabilisticEnsemble expone PredictProba solo para binary:logistic.
type probabilisticEnsemble struct {
	*TreeEnsemble
}

func (e probabilisticEnsemble) PredictProba(features []float64) (float64, error) {
	m, err := e.Margin(features)
	if err != nil {
		return 0, err
	}
	return sigmoid(m), nil
}
