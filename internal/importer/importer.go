// Package importer reads card rows out of CSV and XLSX uploads. It only
// parses; persisting the rows is the caller's job.
package importer

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = stderrors.New("unsupported file format, expected .csv or .xlsx")
	ErrTooManyRows       = stderrors.New("too many rows")
	ErrSheetNotFound     = stderrors.New("sheet not found")
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Options controls which cells become which card fields.
type Options struct {
	SkipHeader  bool
	Sheet       string // XLSX only; empty means the first sheet
	MaxRows     int    // 0 means unlimited
	FrontColumn string
	BackColumn  string
	NoteColumn  string
}

func DefaultOptions() Options {
	return Options{
		SkipHeader:  true,
		FrontColumn: "A",
		BackColumn:  "B",
		NoteColumn:  "C",
	}
}

// Row is one importable card. Line is the 1-based line or row number in the
// source file.
type Row struct {
	Line  int
	Front string
	Back  string
	Note  string
}

type Result struct {
	Rows    []Row
	Skipped int
	Errors  []string
}

// FormatOf maps a file name to a supported format.
func FormatOf(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// Parse reads every row of r, picking the reader by filename extension.
func Parse(r io.Reader, filename string, opts Options) (*Result, error) {
	format, err := FormatOf(filename)
	if err != nil {
		return nil, err
	}

	var records []record
	switch format {
	case FormatCSV:
		records, err = readCSV(r)
	case FormatXLSX:
		records, err = readXLSX(r, opts.Sheet)
	}
	if err != nil {
		return nil, err
	}
	return collect(records, opts)
}

// record is one source row with its 1-based line number.
type record struct {
	line  int
	cells []string
}

func readCSV(r io.Reader) ([]record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records []record
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if len(records) == 0 && len(cells) > 0 {
			cells[0] = strings.TrimPrefix(cells[0], "\ufeff")
		}
		records = append(records, record{line: line, cells: cells})
	}
	return records, nil
}

func readXLSX(r io.Reader, sheet string) ([]record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if sheet == "" {
		if len(sheets) == 0 {
			return nil, ErrSheetNotFound
		}
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	records := make([]record, len(rows))
	for i, cells := range rows {
		records[i] = record{line: i + 1, cells: cells}
	}
	return records, nil
}

func collect(records []record, opts Options) (*Result, error) {
	front, err := columnIndex(opts.FrontColumn, "A")
	if err != nil {
		return nil, err
	}
	back, err := columnIndex(opts.BackColumn, "B")
	if err != nil {
		return nil, err
	}
	note, err := columnIndex(opts.NoteColumn, "C")
	if err != nil {
		return nil, err
	}

	res := &Result{Errors: []string{}}
	data := 0
	for i, rec := range records {
		line := rec.line
		if opts.SkipHeader && i == 0 {
			continue
		}
		if blank(rec.cells) {
			continue
		}

		data++
		if opts.MaxRows > 0 && data > opts.MaxRows {
			return nil, fmt.Errorf("%w: limit is %d", ErrTooManyRows, opts.MaxRows)
		}

		row := Row{
			Line:  line,
			Front: cell(rec.cells, front),
			Back:  cell(rec.cells, back),
			Note:  cell(rec.cells, note),
		}
		switch {
		case row.Front == "" && row.Back == "":
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: front and back are empty", line))
		case row.Front == "":
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: front is empty", line))
		case row.Back == "":
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: back is empty", line))
		default:
			res.Rows = append(res.Rows, row)
			continue
		}
		res.Skipped++
	}
	return res, nil
}

func columnIndex(name, fallback string) (int, error) {
	if name == "" {
		name = fallback
	}
	n, err := excelize.ColumnNameToNumber(name)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", name, err)
	}
	return n - 1, nil
}

func cell(cells []string, idx int) string {
	if idx < len(cells) {
		return strings.TrimSpace(cells[idx])
	}
	return ""
}

func blank(cells []string) bool {
	for _, v := range cells {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
