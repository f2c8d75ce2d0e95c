package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/certcredit/internal/domain/model"
)

// FileSource reads a catalog file: a JSON or YAML list of
// {certificate_name, credit_points} objects. The format follows the file
// extension; anything other than .yaml/.yml is read as JSON.
type FileSource struct {
	Path string
}

// record keeps pointer fields so missing keys can be told apart from zero values.
type record struct {
	Name   *string  `json:"certificate_name" yaml:"certificate_name"`
	Points *float64 `json:"credit_points" yaml:"credit_points"`
}

// Entries implements Source.
func (f FileSource) Entries(_ context.Context) ([]model.CatalogEntry, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, errors.New("catalog file is empty")
	}

	var records []record
	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &records)
	default:
		err = json.Unmarshal(b, &records)
	}
	if err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", f.Path, err)
	}
	if records == nil {
		return nil, fmt.Errorf("catalog file %s is not a list of records", f.Path)
	}
	return toEntries(records)
}

func toEntries(records []record) ([]model.CatalogEntry, error) {
	out := make([]model.CatalogEntry, 0, len(records))
	for i, r := range records {
		switch {
		case r.Name == nil:
			return nil, fmt.Errorf("record %d: missing certificate_name", i)
		case r.Points == nil:
			return nil, fmt.Errorf("record %d: missing credit_points", i)
		}
		out = append(out, model.CatalogEntry{Name: *r.Name, Points: *r.Points})
	}
	return out, nil
}
