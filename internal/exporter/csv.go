package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"leadscli/internal/dataprocessing"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// EncodeOptions configures CSV encoding behavior.
type EncodeOptions struct {
	// BOMPrefix adds a UTF-8 BOM so Excel recognizes the encoding.
	BOMPrefix bool
}

// EncodeCSV serializes a table as UTF-8 CSV bytes, header first.
func EncodeCSV(t dataprocessing.Table, options EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer

	if options.BOMPrefix {
		buf.Write(utf8BOM)
	}

	writer := csv.NewWriter(&buf)
	if err := writer.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
