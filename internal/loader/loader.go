package loader

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Cells matching one of these become nulls.
var nanValues = []string{"", "NA", "NaN", "<nil>"}

var ErrNoHeader = errors.New("no header row")

type Options struct {
	// Delimiter for text tables. 0 picks ',' (or '\t' for .tsv).
	Delimiter rune
	// Sheet selects a workbook sheet. Empty means the first sheet.
	Sheet string
}

// Load reads a tabular file into a frame, keeping column names and row order
// exactly as stored. The reader is chosen by file extension.
func Load(path string, opts Options) (dataframe.DataFrame, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		records, err = readWorkbook(path, opts.Sheet)
	case ".tsv":
		if opts.Delimiter == 0 {
			opts.Delimiter = '\t'
		}
		records, err = readDelimited(path, opts.Delimiter)
	default:
		records, err = readDelimited(path, opts.Delimiter)
	}
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("load %s: %w", path, err)
	}
	df, err := FromRecords(records)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("load %s: %w", path, err)
	}
	return df, nil
}

// FromRecords builds a frame from a header row followed by data rows.
// A header without rows yields an empty frame that still carries the columns.
func FromRecords(records [][]string) (dataframe.DataFrame, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return dataframe.DataFrame{}, ErrNoHeader
	}
	if len(records) == 1 {
		cols := make([]series.Series, 0, len(records[0]))
		for _, name := range records[0] {
			cols = append(cols, series.New([]string{}, series.String, name))
		}
		df := dataframe.New(cols...)
		return df, df.Err
	}
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(nanValues),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}

func readDelimited(path string, delimiter rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	if delimiter != 0 {
		r.Comma = delimiter
	}
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoHeader
	}
	// Spreadsheet exports often start with a byte order mark.
	records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	return padRecords(records)
}

// padRecords fills short rows with empty (null) cells up to the header width.
// A row wider than the header is an error.
func padRecords(records [][]string) ([][]string, error) {
	width := len(records[0])
	for i, row := range records[1:] {
		switch {
		case len(row) > width:
			return nil, fmt.Errorf("row %d: expected %d fields, saw %d", i+2, width, len(row))
		case len(row) < width:
			padded := make([]string, width)
			copy(padded, row)
			records[i+1] = padded
		}
	}
	return records, nil
}

// HasColumns reports whether every named column exists in df.
func HasColumns(df dataframe.DataFrame, names ...string) bool {
	have := make(map[string]bool, df.Ncol())
	for _, n := range df.Names() {
		have[n] = true
	}
	for _, n := range names {
		if !have[n] {
			return false
		}
	}
	return true
}

// Head returns the first n data rows as text, without the header.
func Head(df dataframe.DataFrame, n int) [][]string {
	records := df.Records()
	if len(records) <= 1 {
		return nil
	}
	rows := records[1:]
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}
