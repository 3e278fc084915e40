package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"hotels-etl/models"
)

// CSVWriter writes a dataset to a CSV file, overwriting it on every Replace.
type CSVWriter struct {
	path string
}

func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

func (c *CSVWriter) Name() string { return "csv" }

// Path returns the file the writer targets.
func (c *CSVWriter) Path() string { return c.path }

// Replace truncates the file and writes the header plus one row per record.
// Intermediate directories are created automatically.
func (c *CSVWriter) Replace(_ context.Context, ds *models.Dataset) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", c.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(models.Columns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	if ds != nil {
		for _, r := range ds.Records {
			if err := w.Write(csvRow(r)); err != nil {
				return fmt.Errorf("csv: write row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	return f.Close()
}

// Close is a no-op; the file is closed at the end of every Replace.
func (c *CSVWriter) Close() error { return nil }

func csvRow(r *models.Record) []string {
	return []string{
		r.Name,
		r.Link,
		r.Location,
		formatNumber(r.Price),
		formatNumber(r.Rating),
		string(r.RatingCategory),
		r.ScrapedAt.Format(models.TimestampLayout),
	}
}

// formatNumber leaves missing values as an empty cell.
func formatNumber(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
