package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"diabetes-risk/internal/domain"
)

// FileDatasetRepository lee el dataset desde un CSV o un XLSX (primera hoja).
type FileDatasetRepository struct {
	path string
}

func NewFileDatasetRepository(path string) *FileDatasetRepository {
	return &FileDatasetRepository{path: path}
}

func (r *FileDatasetRepository) Describe() string {
	return "file:" + r.path
}

func (r *FileDatasetRepository) Load(ctx context.Context) (domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, err
	}
	switch strings.ToLower(filepath.Ext(r.path)) {
	case ".xlsx", ".xlsm":
		return r.loadXLSX()
	case ".csv", "":
		return r.loadCSV()
	default:
		return domain.Dataset{}, fmt.Errorf("unsupported dataset file extension %q", filepath.Ext(r.path))
	}
}

func (r *FileDatasetRepository) loadCSV() (domain.Dataset, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("read dataset csv: %w", err)
	}
	if len(records) == 0 {
		return domain.Dataset{}, fmt.Errorf("dataset csv %s is empty", r.path)
	}
	return tableFromStrings(records[0], records[1:])
}

func (r *FileDatasetRepository) loadXLSX() (domain.Dataset, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("open dataset xlsx: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return domain.Dataset{}, fmt.Errorf("dataset xlsx %s has no sheets", r.path)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("read dataset rows: %w", err)
	}
	if len(rows) == 0 {
		return domain.Dataset{}, fmt.Errorf("dataset sheet %s is empty", sheetName)
	}
	return tableFromStrings(rows[0], rows[1:])
}
