package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// readCSV parses a delimited text file into a header and records.
// Rows may have differing widths; quotes are handled leniently.
func readCSV(path string, comma rune) (header []string, records [][]string, bytesRead int64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, 0, err
	}
	defer f.Close()

	text, counter := newTextReader(f)

	r := csv.NewReader(text)
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = false

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, counter.BytesRead, fmt.Errorf("parse csv: %w", err)
		}
		if header == nil {
			if isBlank(rec) {
				continue
			}
			header = rec
			continue
		}
		records = append(records, rec)
	}

	return header, records, counter.BytesRead, nil
}

func isBlank(rec []string) bool {
	for _, cell := range rec {
		if cell != "" {
			return false
		}
	}
	return true
}
