// Package source discovers and parses the tabular property export.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/PropLoad/internal/config"
	"github.com/JonMunkholm/PropLoad/internal/core"
	"github.com/JonMunkholm/PropLoad/internal/logging"
)

// Loader reads the first parseable file from an ordered list of candidates.
type Loader struct {
	candidates []string
	sheet      string
}

// NewLoader creates a loader for the configured candidate paths.
func NewLoader(cfg config.SourceConfig) *Loader {
	return &Loader{
		candidates: append([]string(nil), cfg.CandidatePaths...),
		sheet:      cfg.Sheet,
	}
}

// Load tries each candidate in order and returns the first dataset that
// parses. When none does, the error wraps core.ErrSourceNotFound together
// with every candidate's failure.
func (l *Loader) Load(ctx context.Context) (*core.Dataset, error) {
	logger := logging.WithFields(ctx, "stage", "source")

	var errs []error
	for _, path := range l.candidates {
		ds, bytesRead, err := ReadFile(path, l.sheet)
		if err != nil {
			logger.Debug("candidate rejected", "path", path, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}

		rows, cols := ds.Shape()
		logger.Info("source loaded",
			"path", path,
			"rows", rows,
			"columns", cols,
			"bytes", bytesRead,
		)
		logger.Debug("source columns", "columns", ds.Columns)
		return ds, nil
	}

	return nil, fmt.Errorf("%w (tried %s): %w",
		core.ErrSourceNotFound, strings.Join(l.candidates, ", "), errors.Join(errs...))
}

// ReadFile parses one file into a dataset, choosing the reader by extension.
// bytesRead is the file size consumed, when known.
func ReadFile(path, sheet string) (ds *core.Dataset, bytesRead int64, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, err
	}
	if info.IsDir() {
		return nil, 0, fmt.Errorf("is a directory")
	}

	var header []string
	var records [][]string

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		header, records, bytesRead, err = readCSV(path, ',')
	case ".tsv":
		header, records, bytesRead, err = readCSV(path, '\t')
	case ".xlsx", ".xlsm":
		header, records, err = readXLSX(path, sheet)
		bytesRead = info.Size()
	default:
		return nil, 0, fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, bytesRead, err
	}
	if len(header) == 0 {
		return nil, bytesRead, core.ErrSourceEmpty
	}

	return core.NewDataset(path, header, records), bytesRead, nil
}
