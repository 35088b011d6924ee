// Package manifest reads the CSV manifest listing candidate videos.
package manifest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"video_ingestor/internal/domain"
)

var requiredColumns = []string{"video_id", "video_url", "delivery_type"}

// Reader streams manifest rows one at a time so arbitrarily large
// manifests never have to fit in memory.
type Reader struct {
	file    *os.File
	csv     *csv.Reader
	columns map[string]int
	line    int
}

// Open opens the manifest at path and consumes its header row. It fails
// when any of the required columns is missing.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}

	cr := csv.NewReader(file)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read manifest header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			file.Close()
			return nil, fmt.Errorf("manifest is missing column %q", name)
		}
	}

	return &Reader{file: file, csv: cr, columns: columns}, nil
}

// Next returns the next data row, or io.EOF when the manifest is
// exhausted. Row fields missing from a short record are left empty.
func (r *Reader) Next() (*domain.ManifestRow, error) {
	record, err := r.csv.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest row: %w", err)
	}

	r.line++
	return &domain.ManifestRow{
		Line:         r.line,
		VideoID:      r.field(record, "video_id"),
		VideoURL:     r.field(record, "video_url"),
		DeliveryType: r.field(record, "delivery_type"),
	}, nil
}

func (r *Reader) field(record []string, name string) string {
	idx := r.columns[name]
	if idx >= len(record) {
		return ""
	}
	return record[idx]
}

func (r *Reader) Close() error {
	return r.file.Close()
}
