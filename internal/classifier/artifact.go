package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"diabetes-risk/internal/domain"
)

const (
	ArtifactFormat  = "diabrisk.classifier"
	ArtifactVersion = 1

	KindLogisticRegression = "logistic_regression"
	KindTreeEnsemble       = "tree_ensemble"
)

// Artifact es el sobre JSON del modelo serializado.
type Artifact struct {
	Format       string          `json:"format"`
	Version      int             `json:"version"`
	Kind         string          `json:"kind"`
	FeatureNames []string        `json:"feature_names,omitempty"`
	Model        json.RawMessage `json:"model"`
}

// Decode lee un artefacto y construye el clasificador que describe.
func Decode(r io.Reader) (Classifier, []string, error) {
	var a Artifact
	dec := json.NewDecoder(r)
	if err := dec.Decode(&a); err != nil {
		return nil, nil, fmt.Errorf("decode artifact: %w", err)
	}
	if a.Format != ArtifactFormat {
		return nil, nil, fmt.Errorf("unexpected artifact format %q", a.Format)
	}
	if a.Version != ArtifactVersion {
		return nil, nil, fmt.Errorf("unsupported artifact version %d", a.Version)
	}

	var (
		clf Classifier
		n   int
	)
	switch a.Kind {
	case KindLogisticRegression:
		var m LogisticRegression
		if err := json.Unmarshal(a.Model, &m); err != nil {
			return nil, nil, fmt.Errorf("decode logistic regression: %w", err)
		}
		if err := m.validate(); err != nil {
			return nil, nil, err
		}
		clf, n = &m, m.NumFeatures()
	case KindTreeEnsemble:
		var m TreeEnsemble
		if err := json.Unmarshal(a.Model, &m); err != nil {
			return nil, nil, fmt.Errorf("decode tree ensemble: %w", err)
		}
		if err := m.validate(); err != nil {
			return nil, nil, err
		}
		n = m.NumFeatures()
		if m.Objective == ObjectiveLogistic {
			clf = probabilisticEnsemble{&m}
		} else {
			clf = &m
		}
	default:
		return nil, nil, fmt.Errorf("unknown artifact kind %q", a.Kind)
	}

	if len(a.FeatureNames) > 0 && len(a.FeatureNames) != n {
		return nil, nil, fmt.Errorf("artifact lists %d feature names for a %d-feature model", len(a.FeatureNames), n)
	}
	return clf, a.FeatureNames, nil
}

// LoadFile abre y decodifica un artefacto desde disco.
func LoadFile(path string) (Classifier, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Load prueba las rutas en orden y devuelve el primer artefacto valido.
// Si el artefacto declara feature_names, deben coincidir con el schema en
// el mismo orden. Cualquier fallo se reporta como ErrClassifierUnavailable.
func Load(paths []string, schema domain.FeatureSchema) (Classifier, error) {
	var errs []error
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		clf, names, err := LoadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		if err := checkFeatures(clf, names, schema); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		return clf, nil
	}
	if len(errs) == 0 {
		errs = append(errs, errors.New("no model path configured"))
	}
	return nil, fmt.Errorf("%w: %w", domain.ErrClassifierUnavailable, errors.Join(errs...))
}

func checkFeatures(clf Classifier, names []string, schema domain.FeatureSchema) error {
	want := schema.ColumnNames()
	if fc, ok := clf.(FeatureCounter); ok && fc.NumFeatures() != len(want) {
		return fmt.Errorf("model expects %d features, schema %s has %d", fc.NumFeatures(), schema.Name, len(want))
	}
	if len(names) == 0 {
		return nil
	}
	for i := range want {
		if names[i] != want[i] {
			return fmt.Errorf("feature %d is %s in artifact but %s in schema %s", i, names[i], want[i], schema.Name)
		}
	}
	return nil
}
