package service

import (
	"math"

	"diabetes-risk/internal/domain"
)

// ageBandUpperBounds son los limites superiores (inclusive) de las bandas BRFSS 1..12.
// Todo lo que supere el ultimo limite cae en la banda 13.
var ageBandUpperBounds = [...]int{24, 29, 34, 39, 44, 49, 54, 59, 64, 69, 74, 79}

// BandAge convierte una edad en anos a la categoria BRFSS 1..13.
func BandAge(years int) int {
	for i, upper := range ageBandUpperBounds {
		if years <= upper {
			return i + 1
		}
	}
	return len(ageBandUpperBounds) + 1
}

// ResolveAgeCategory prioriza la categoria explicita sobre la edad en anos.
func ResolveAgeCategory(p domain.RawHealthProfile) (int, bool) {
	if p.AgeCategory != nil {
		return *p.AgeCategory, true
	}
	if p.AgeYears != nil {
		return BandAge(*p.AgeYears), true
	}
	return 0, false
}

// FeatureEncoder transforma perfiles crudos en vectores segun un schema.
// Es puro: no guarda estado entre llamadas.
type FeatureEncoder struct{}

// Encode recorre el schema en orden y emite un valor por columna.
func (FeatureEncoder) Encode(p domain.RawHealthProfile, schema domain.FeatureSchema) (domain.FeatureVector, error) {
	vec := domain.FeatureVector{
		Schema:  schema.Name,
		Columns: make([]string, 0, len(schema.Columns)),
		Values:  make([]float64, 0, len(schema.Columns)),
	}

	for _, col := range schema.Columns {
		if !domain.IsProfileAttribute(col.Name) {
			return domain.FeatureVector{}, &domain.FieldError{Column: col.Name, Reason: "not a profile attribute", Err: domain.ErrSchemaMismatch}
		}

		v, ok := attributeValue(p, col.Name)
		if !ok {
			if col.Default == nil {
				return domain.FeatureVector{}, &domain.FieldError{Column: col.Name, Reason: "missing and no default declared", Err: domain.ErrSchemaMismatch}
			}
			v = *col.Default
		}

		v, err := coerce(col, v)
		if err != nil {
			return domain.FeatureVector{}, err
		}
		vec.Columns = append(vec.Columns, col.Name)
		vec.Values = append(vec.Values, v)
	}
	return vec, nil
}

func attributeValue(p domain.RawHealthProfile, column string) (float64, bool) {
	if column == domain.ColumnAge {
		age, ok := ResolveAgeCategory(p)
		return float64(age), ok
	}
	return p.Attribute(column)
}

func coerce(col domain.Column, v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &domain.FieldError{Column: col.Name, Reason: "not a finite number", Err: domain.ErrOutOfDomain}
	}
	if col.Type == domain.ColumnTypeInt && v != math.Trunc(v) {
		return 0, &domain.FieldError{Column: col.Name, Reason: "must be an integer", Err: domain.ErrOutOfDomain}
	}
	if !col.InDomain(v) {
		return 0, &domain.FieldError{Column: col.Name, Reason: "outside declared range", Err: domain.ErrOutOfDomain}
	}
	return v, nil
}
