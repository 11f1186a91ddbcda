package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExcelExporter implements Excel export using excelize
type ExcelExporter struct {
	sheetName string
}

// NewExcelExporter creates a new Excel exporter
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{
		sheetName: "Transactions",
	}
}

// Export writes the table as an .xlsx workbook
func (e *ExcelExporter) Export(data *Data, writer io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", e.sheetName)

	rowIndex := 1
	if data.Title != "" {
		f.SetCellValue(e.sheetName, fmt.Sprintf("A%d", rowIndex), data.Title)
		titleStyle, _ := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 14},
		})
		f.SetCellStyle(e.sheetName, fmt.Sprintf("A%d", rowIndex), fmt.Sprintf("A%d", rowIndex), titleStyle)
		rowIndex += 2
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headerRow := rowIndex
	for colIdx, header := range data.Headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, headerRow)
		f.SetCellValue(e.sheetName, cell, header)
	}
	if len(data.Headers) > 0 {
		first, _ := excelize.CoordinatesToCellName(1, headerRow)
		last, _ := excelize.CoordinatesToCellName(len(data.Headers), headerRow)
		f.SetCellStyle(e.sheetName, first, last, headerStyle)
	}
	rowIndex++

	for _, row := range data.Rows {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIndex)
			f.SetCellValue(e.sheetName, cell, value)
		}
		rowIndex++
	}

	if err := f.Write(writer); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (e *ExcelExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *ExcelExporter) FileExtension() string {
	return "xlsx"
}
