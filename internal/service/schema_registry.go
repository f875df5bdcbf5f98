package service

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"diabetes-risk/internal/domain"
)

// SchemaRegistry guarda los schemas de features con nombre cargados desde configuracion.
type SchemaRegistry struct {
	schemas map[string]domain.FeatureSchema
}

type schemaFile struct {
	Schemas map[string]domain.FeatureSchema `yaml:"schemas"`
}

// LoadSchemaFile lee y valida un archivo YAML de schemas.
func LoadSchemaFile(path string) (*SchemaRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	return ParseSchemas(data)
}

// ParseSchemas valida cada schema: columnas unicas, atributos conocidos,
// tipos validos y defaults dentro del dominio.
func ParseSchemas(data []byte) (*SchemaRegistry, error) {
	var file schemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse schema file: %w", err)
	}
	if len(file.Schemas) == 0 {
		return nil, errors.New("schema file declares no schemas")
	}

	reg := &SchemaRegistry{schemas: make(map[string]domain.FeatureSchema, len(file.Schemas))}
	for name, schema := range file.Schemas {
		schema.Name = name
		if err := validateSchema(schema); err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
		reg.schemas[name] = schema
	}
	return reg, nil
}

func validateSchema(schema domain.FeatureSchema) error {
	if len(schema.Columns) == 0 {
		return errors.New("no columns")
	}
	seen := make(map[string]struct{}, len(schema.Columns))
	for _, col := range schema.Columns {
		if _, dup := seen[col.Name]; dup {
			return fmt.Errorf("duplicate column %s", col.Name)
		}
		seen[col.Name] = struct{}{}

		if !domain.IsProfileAttribute(col.Name) {
			return fmt.Errorf("column %s is not a profile attribute", col.Name)
		}
		switch col.Type {
		case domain.ColumnTypeFloat, domain.ColumnTypeInt:
		default:
			return fmt.Errorf("column %s has unknown type %q", col.Name, col.Type)
		}
		if col.Min != nil && col.Max != nil && *col.Min > *col.Max {
			return fmt.Errorf("column %s has min > max", col.Name)
		}
		if col.Default != nil {
			d := *col.Default
			if math.IsNaN(d) || math.IsInf(d, 0) || !col.InDomain(d) {
				return fmt.Errorf("column %s default %v outside its domain", col.Name, d)
			}
			if col.Type == domain.ColumnTypeInt && d != math.Trunc(d) {
				return fmt.Errorf("column %s default %v is not an integer", col.Name, d)
			}
		}
	}
	return nil
}

// Get devuelve un schema por nombre.
func (r *SchemaRegistry) Get(name string) (domain.FeatureSchema, error) {
	schema, ok := r.schemas[name]
	if !ok {
		return domain.FeatureSchema{}, fmt.Errorf("%w: %s", domain.ErrUnknownSchema, name)
	}
	return schema, nil
}

// Names devuelve los nombres ordenados alfabeticamente.
func (r *SchemaRegistry) Names() []string {
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
