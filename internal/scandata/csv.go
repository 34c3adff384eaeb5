package scandata

import (
	"bytes"
	"encoding/csv"

	"github.com/ataluts/photo-scan-tools/internal/files/filesystem"
)

// WriteCSV renders the records as a CSV table. The column set is the
// union over all records in first-seen order, with the File column
// moved to the front; cells missing from a record stay empty.
func WriteCSV(fs filesystem.Provider, outputPath string, records []*Record) error {
	var columns []string
	seen := make(map[string]bool)
	for _, record := range records {
		for _, key := range record.Keys() {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
	}
	for i, column := range columns {
		if column == "File" {
			columns = append(columns[:i], columns[i+1:]...)
			columns = append([]string{"File"}, columns...)
			break
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return err
	}
	for _, record := range records {
		row := make([]string, len(columns))
		for i, column := range columns {
			row[i], _ = record.Get(column)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return fs.WriteFile(outputPath, buf.Bytes())
}
