// Package pipeline runs one property import from source file to verified
// tables.
//
// Stages run strictly in sequence: provision the schema, load the source,
// clean it, replace each registered table in load order, then verify. Any
// failure before verification aborts the run; verification only reports.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/JonMunkholm/PropLoad/internal/config"
	"github.com/JonMunkholm/PropLoad/internal/core"
	"github.com/JonMunkholm/PropLoad/internal/logging"
	"github.com/JonMunkholm/PropLoad/internal/store"
)

// Source produces the raw dataset for a run.
type Source interface {
	Load(ctx context.Context) (*core.Dataset, error)
}

// TableResult describes what happened to one destination table.
type TableResult struct {
	Table    string
	Label    string
	Rows     int64
	Skipped  bool // minimum columns absent; the table was left untouched
	Duration time.Duration
}

// Report summarizes a run.
type Report struct {
	RunID        string
	Source       string
	RunDate      time.Time
	Headers      core.HeaderReport
	Clean        core.CleanStats
	Tables       []TableResult
	Verification store.Verification
	Duration     time.Duration
}

// Pipeline wires the stages of a run together.
type Pipeline struct {
	store  *store.Store
	source Source
	cfg    config.PipelineConfig
	out    io.Writer
	now    func() time.Time
}

// New creates a Pipeline. The verification report is written to out.
func New(st *store.Store, src Source, cfg config.PipelineConfig, out io.Writer) *Pipeline {
	if out == nil {
		out = io.Discard
	}
	return &Pipeline{store: st, source: src, cfg: cfg, out: out, now: time.Now}
}

// Run executes every stage once.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	start := p.now()

	runID := logging.RunID(ctx)
	if runID == "" {
		ctx, runID = logging.WithRunID(ctx)
	}
	logger := logging.FromContext(ctx)

	report := &Report{RunID: runID}

	runDate, err := p.runDate()
	if err != nil {
		return report, err
	}
	report.RunDate = runDate

	logger.Info("run started", "run_date", runDate.Format(config.RunDateLayout), "atomic", p.cfg.Atomic)

	if err := p.store.Provision(ctx); err != nil {
		return report, err
	}

	ds, err := p.source.Load(ctx)
	if err != nil {
		return report, err
	}
	report.Source = ds.Source

	headers := core.InspectHeaders(ds)
	report.Headers = headers
	if !headers.HasIdentity {
		logger.Warn("source has no property title column, every row will be dropped", "source", ds.Source)
	}
	if len(headers.Unrecognized) > 0 || len(headers.Duplicates) > 0 {
		logger.Info("source columns ignored", "unrecognized", headers.Unrecognized, "duplicates", headers.Duplicates)
	}

	report.Clean = core.Clean(ds)
	rows, cols := ds.Shape()
	logger.Info("dataset cleaned",
		"rows_in", report.Clean.RowsIn,
		"rows_dropped", report.Clean.RowsDropped,
		"numeric_missing", report.Clean.NumericMissing,
		"text_missing", report.Clean.TextMissing,
		"rows", rows,
		"columns", cols,
	)
	for _, rej := range report.Clean.Rejected {
		logger.Debug("cell rejected", "row", rej.Row, "field", rej.Field, "value", rej.Value, "reason", rej.Message)
	}

	bc := core.BuildContext{RunDate: runDate}
	err = p.store.Load(ctx, p.cfg.Atomic, func(r store.Replacer) error {
		for _, def := range core.All() {
			res, err := loadTable(ctx, r, def, ds, bc)
			if err != nil {
				return err
			}
			report.Tables = append(report.Tables, res)
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	report.Verification = p.store.Verify(ctx, core.Keys(), p.cfg.SampleSize)
	if err := RenderReport(p.out, report); err != nil {
		logger.Warn("failed to write verification report", "error", err)
	}

	report.Duration = p.now().Sub(start)
	logger.Info("run complete",
		"source", report.Source,
		"tables", len(report.Tables),
		"verified", report.Verification.OK(),
		"duration", report.Duration,
	)
	return report, nil
}

func (p *Pipeline) runDate() (time.Time, error) {
	if t, ok, err := p.cfg.ParsedRunDate(); err != nil {
		return time.Time{}, fmt.Errorf("run date: %w", err)
	} else if ok {
		return t, nil
	}
	now := p.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
}

func loadTable(ctx context.Context, r store.Replacer, def core.TableDefinition, ds *core.Dataset, bc core.BuildContext) (TableResult, error) {
	start := time.Now()
	res := TableResult{Table: def.Info.Key, Label: def.Info.Label}
	logger := logging.WithFields(ctx, "table", def.Info.Key)

	records, ok := def.Build(ds, bc)
	if !ok {
		res.Skipped = true
		logger.Warn("required columns missing, table skipped")
		return res, nil
	}

	rows := make([][]any, len(records))
	for i, rec := range records {
		rows[i] = def.CopyRow(rec)
	}

	n, err := r.Replace(ctx, def.Info.Key, def.Columns, rows)
	if err != nil {
		return res, fmt.Errorf("load %s: %w", def.Info.Key, err)
	}

	res.Rows = n
	res.Duration = time.Since(start)
	logger.Info("table loaded", "rows", n, "duration", res.Duration)
	return res, nil
}
