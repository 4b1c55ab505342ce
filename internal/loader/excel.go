package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

func OpenFile(filename string) (*excelize.File, error) {
	return excelize.OpenFile(filename)
}

func readWorkbook(path, sheet string) ([][]string, error) {
	f, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSheet(f, sheet)
}

// ReadSheet returns the rows of a sheet with the header as the first row.
// Short rows are padded to the header width, longer ones are cut, and fully
// blank rows are dropped.
func ReadSheet(f *excelize.File, sheetName string) ([][]string, error) {
	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheetName = sheets[0]
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrNoHeader
	}

	width := len(rows[0])
	records := make([][]string, 0, len(rows))
	for i, row := range rows {
		if i > 0 && blank(row) {
			continue
		}
		rec := make([]string, width)
		copy(rec, row)
		records = append(records, rec)
	}
	return records, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
