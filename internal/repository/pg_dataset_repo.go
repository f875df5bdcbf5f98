package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"diabetes-risk/internal/domain"
)

type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PgDatasetRepository lee la encuesta de una tabla Postgres con columnas numericas.
type PgDatasetRepository struct {
	pool  pgQuerier
	table string
}

// NewPgDatasetRepository acepta un *pgxpool.Pool; el nombre de tabla se escapa
// como identificador completo (schema.tabla).
func NewPgDatasetRepository(pool pgQuerier, table string) *PgDatasetRepository {
	return &PgDatasetRepository{pool: pool, table: table}
}

func (r *PgDatasetRepository) Describe() string {
	return "postgres:" + r.table
}

func (r *PgDatasetRepository) Load(ctx context.Context) (domain.Dataset, error) {
	query := "SELECT * FROM " + tableIdentifier(r.table).Sanitize()
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("query dataset: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	ds := domain.Dataset{Columns: make([]string, len(fields))}
	for i, fd := range fields {
		ds.Columns[i] = fd.Name
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("scan dataset row: %w", err)
		}
		row := make([]float64, len(values))
		for i, v := range values {
			f, err := toFloat(v)
			if err != nil {
				return domain.Dataset{}, fmt.Errorf("dataset row %d column %s: %w", len(ds.Rows)+1, ds.Columns[i], err)
			}
			row[i] = f
		}
		ds.Rows = append(ds.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return domain.Dataset{}, err
	}
	if err := ds.Validate(); err != nil {
		return domain.Dataset{}, err
	}
	return ds, nil
}

func tableIdentifier(table string) pgx.Identifier {
	return pgx.Identifier(strings.Split(strings.TrimSpace(table), "."))
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, fmt.Errorf("null value")
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int:
		return float64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	case pgtype.Numeric:
		f, err := n.Float64Value()
		if err != nil {
			return 0, err
		}
		if !f.Valid {
			return 0, fmt.Errorf("null value")
		}
		return f.Float64, nil
	}
	return 0, fmt.Errorf("non numeric value of type %T", v)
}
