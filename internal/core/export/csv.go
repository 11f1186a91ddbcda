package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVExporter writes the table as plain CSV
type CSVExporter struct{}

// NewCSVExporter creates a new CSV exporter
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

func (e *CSVExporter) Export(data *Data, writer io.Writer) error {
	w := csv.NewWriter(writer)

	if err := w.Write(data.Headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range data.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

func (e *CSVExporter) ContentType() string {
	return "text/csv"
}

func (e *CSVExporter) FileExtension() string {
	return "csv"
}
