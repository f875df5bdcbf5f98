package domain

// ColumnType es el tipo numerico declarado de una columna.
type ColumnType string

const (
	ColumnTypeFloat ColumnType = "float"
	ColumnTypeInt   ColumnType = "int"
)

// Column describe una feature tal como el clasificador fue entrenado.
type Column struct {
	Name    string         `yaml:"name" json:"name"`
	Type    ColumnType     `yaml:"type" json:"type"`
	Min     *float64       `yaml:"min,omitempty" json:"min,omitempty"`
	Max     *float64       `yaml:"max,omitempty" json:"max,omitempty"`
	Default *float64       `yaml:"default,omitempty" json:"default,omitempty"`
	Prompt  string         `yaml:"prompt,omitempty" json:"prompt,omitempty"`
	Labels  map[int]string `yaml:"labels,omitempty" json:"labels,omitempty"`
}

// InDomain valida el rango declarado (si lo hay).
func (c Column) InDomain(v float64) bool {
	if c.Min != nil && v < *c.Min {
		return false
	}
	if c.Max != nil && v > *c.Max {
		return false
	}
	return true
}

// FeatureSchema es una lista ordenada de columnas con nombre.
// El orden es la unica fuente de verdad para construir el vector.
type FeatureSchema struct {
	Name        string   `yaml:"-" json:"name"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Columns     []Column `yaml:"columns" json:"columns"`
}

// ColumnNames devuelve los nombres en orden de schema.
func (s FeatureSchema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}
