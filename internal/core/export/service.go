package export

import (
	"bytes"
	"fmt"
)

// Service provides high-level export functionality
type Service struct {
	exporters map[Format]Exporter
}

// NewService creates a new export service
func NewService() *Service {
	return &Service{
		exporters: map[Format]Exporter{
			FormatPDF:   NewPDFExporter(),
			FormatExcel: NewExcelExporter(),
			FormatCSV:   NewCSVExporter(),
		},
	}
}

// Export renders data in the given format and returns the bytes, the
// content type and the file extension.
func (s *Service) Export(data *Data, format Format) ([]byte, string, string, error) {
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, "", "", fmt.Errorf("unsupported export format: %s", format)
	}

	var buf bytes.Buffer
	if err := exporter.Export(data, &buf); err != nil {
		return nil, "", "", fmt.Errorf("export failed: %w", err)
	}
	return buf.Bytes(), exporter.ContentType(), exporter.FileExtension(), nil
}
