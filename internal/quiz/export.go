package quiz

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/letsssgooo/quizwebapp/internal/domain/models"
)

const resultsSheet = "Results"

var exportHeaders = []string{"Rank", "Name", "Score", "Total"}

// ExportCSV экспортирует таблицу результатов в CSV.
func ExportCSV(entries []models.LeaderboardEntry) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	_ = w.Write(exportHeaders)

	for i, entry := range entries {
		_ = w.Write([]string{
			strconv.Itoa(i + 1),
			sanitizeForExcel(entry.Name),
			strconv.Itoa(entry.Score),
			strconv.Itoa(entry.Total),
		})
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush buffer: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportXLSX экспортирует таблицу результатов в Excel.
func ExportXLSX(entries []models.LeaderboardEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(resultsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream writer: %w", err)
	}

	headers := make([]interface{}, 0, len(exportHeaders))
	for _, h := range exportHeaders {
		headers = append(headers, h)
	}

	if err = sw.SetRow("A1", headers); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}

	for i, entry := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}

		row := []interface{}{i + 1, sanitizeForExcel(entry.Name), entry.Score, entry.Total}
		if err = sw.SetRow(cell, row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err = sw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush stream writer: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeForExcel экранирует значения, которые Excel принял бы за формулу.
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}

	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}

	return s
}
