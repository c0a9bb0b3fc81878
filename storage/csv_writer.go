package storage

import (
	"encoding/csv"
	"fmt"
	"io"

	"analytics-dashboard/models"
)

// CSVWriter exports a projected table view as CSV: one header row followed
// by the rows in view order.
type CSVWriter struct{}

func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// WriteTable writes view to w. A view with no columns writes nothing.
func (c *CSVWriter) WriteTable(w io.Writer, view *models.TableView) error {
	if view == nil || len(view.Columns) == 0 {
		return nil
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(view.Columns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, row := range view.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
