package export

import (
	"io"
	"time"
)

// Format represents the export file format
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatExcel Format = "xlsx"
	FormatCSV   Format = "csv"
)

// ParseFormat maps a query-string value to a Format.
func ParseFormat(raw string) (Format, bool) {
	switch raw {
	case "pdf":
		return FormatPDF, true
	case "xlsx", "excel":
		return FormatExcel, true
	case "csv":
		return FormatCSV, true
	}
	return "", false
}

// Exporter is the interface for all export formats
type Exporter interface {
	Export(data *Data, writer io.Writer) error
	ContentType() string
	FileExtension() string
}

// Data represents the table to be exported
type Data struct {
	Title     string
	CreatedAt time.Time

	Headers []string
	Rows    [][]string
}
