package rename

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// LogSheetName лист XLSX-журнала
const LogSheetName = "Rename Log"

// LogHeader заголовки журнала
var LogHeader = []string{"Old Name", "New Name", "Match %", "Error"}

// LogRow строка журнала переименования
type LogRow struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
	Score   int    `json:"score"`
	Error   string `json:"error,omitempty"`
}

// BuildLog строит по строке на элемент плана в исходном порядке
func BuildLog(plan Plan) []LogRow {
	rows := make([]LogRow, len(plan.Entries))
	for i, e := range plan.Entries {
		rows[i] = LogRow{
			OldName: e.SourcePath,
			NewName: e.Name,
			Score:   e.Score,
			Error:   e.Error,
		}
	}
	return rows
}

// WriteCSV пишет журнал в CSV
func WriteCSV(w io.Writer, rows []LogRow) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(LogHeader); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for _, row := range rows {
		record := []string{row.OldName, row.NewName, strconv.Itoa(row.Score), row.Error}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteXLSX пишет журнал в книгу Excel со стилизованной строкой заголовков
func WriteXLSX(w io.Writer, rows []LogRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", LogSheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	// Стиль заголовков
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range LogHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(LogSheetName, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	if err := f.SetCellStyle(LogSheetName, "A1", "D1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []interface{}{row.OldName, row.NewName, row.Score, row.Error}
		if err := f.SetSheetRow(LogSheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	widths := []float64{45, 45, 10, 30}
	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(LogSheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
