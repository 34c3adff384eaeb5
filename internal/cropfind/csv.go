package cropfind

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/ataluts/photo-scan-tools/internal/files/filesystem"
	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

var csvColumns = []string{"file", "left", "top", "width", "height", "status"}

// WriteCSV stores detection results so a later rename run can pick
// them up without re-scanning the images.
func WriteCSV(fs filesystem.Provider, outputPath string, results []Result) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvColumns); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.File,
			strconv.Itoa(r.Left),
			strconv.Itoa(r.Top),
			strconv.Itoa(r.Width),
			strconv.Itoa(r.Height),
			r.Status,
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

// ReadCSV loads results written by WriteCSV.
func ReadCSV(fs filesystem.Provider, inputPath string) ([]Result, error) {
	data, err := fs.ReadFile(inputPath)
	if err != nil {
		return nil, err
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", photoscan.ErrDecode, inputPath, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s: empty table", photoscan.ErrDecode, inputPath)
	}

	results := make([]Result, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != len(csvColumns) {
			return nil, fmt.Errorf("%w: %s: row has %d columns", photoscan.ErrDecode, inputPath, len(row))
		}
		coords := make([]int, 4)
		for i := range coords {
			v, err := strconv.Atoi(row[i+1])
			if err != nil {
				return nil, fmt.Errorf("%w: %s: bad coordinate %q", photoscan.ErrDecode, inputPath, row[i+1])
			}
			coords[i] = v
		}
		results = append(results, Result{
			File:   row[0],
			Left:   coords[0],
			Top:    coords[1],
			Width:  coords[2],
			Height: coords[3],
			Status: row[5],
		})
	}
	return results, nil
}
