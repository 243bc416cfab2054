package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseFile decodes an uploaded file into a Table, dispatching on the
// declared filename extension. Unrecognized extensions fail with
// ErrUnsupportedFileType; decode failures wrap ErrParse. Both name the file.
func ParseFile(filename string, data []byte) (Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		t, err := ParseCSV(data)
		if err != nil {
			return Table{}, fmt.Errorf("%s: %w: %v", filename, ErrParse, err)
		}
		return t, nil
	case ".xls", ".xlsx":
		t, err := ParseExcel(data)
		if err != nil {
			return Table{}, fmt.Errorf("%s: %w: %v", filename, ErrParse, err)
		}
		return t, nil
	default:
		return Table{}, fmt.Errorf("%s: %w", filename, ErrUnsupportedFileType)
	}
}

// ParseCSV decodes CSV bytes into a Table. The first record is the header;
// ragged rows are padded or truncated to the header width. A leading UTF-8
// BOM is stripped.
func ParseCSV(data []byte) (Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return Table{}, nil
	}
	if err != nil {
		return Table{}, fmt.Errorf("failed to read header: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("failed to read record %d: %w", len(rows)+1, err)
		}
		if len(record) > len(header) {
			record = record[:len(header)]
		}
		rows = append(rows, record)
	}

	return NewTable(header, rows), nil
}

// ParseExcel decodes an Excel workbook into a Table using the first sheet.
// The first row is the header.
func ParseExcel(data []byte) (Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Table{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return Table{}, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return Table{}, nil
	}

	slog.Debug("parsed excel sheet",
		slog.String("sheet", sheet),
		slog.Int("rows", len(rows)-1))

	return NewTable(rows[0], rows[1:]), nil
}
