package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ContentTypeCSV is the media type written by WriteCSV.
const ContentTypeCSV = "text/csv; charset=utf-8"

// Dataset defines tabular export content. Rows shorter than Headers are padded.
type Dataset struct {
	Headers []string
	Rows    [][]string
}

// WriteCSV streams the dataset as CSV.
func WriteCSV(w io.Writer, data Dataset) error {
	if len(data.Headers) == 0 {
		return fmt.Errorf("csv requires at least one header")
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(data.Headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	record := make([]string, len(data.Headers))
	for i, row := range data.Rows {
		if len(row) > len(data.Headers) {
			return fmt.Errorf("csv row %d has %d columns, want at most %d", i, len(row), len(data.Headers))
		}
		for j := range record {
			record[j] = ""
			if j < len(row) {
				record[j] = row[j]
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
