package pipeline

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderReport writes the per-table summary and the property sample to w.
func RenderReport(w io.Writer, r *Report) error {
	loaded := make(map[string]TableResult, len(r.Tables))
	for _, tr := range r.Tables {
		loaded[tr.Table] = tr
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Table", "Loaded", "Rows"})
	for _, c := range r.Verification.Counts {
		status := "-"
		if tr, ok := loaded[c.Table]; ok {
			if tr.Skipped {
				status = "skipped"
			} else {
				status = fmt.Sprint(tr.Rows)
			}
		}
		count := fmt.Sprint(c.Rows)
		if c.Err != nil {
			count = "error: " + c.Err.Error()
		}
		t.AppendRow(table.Row{c.Table, status, count})
	}
	t.Render()

	if r.Verification.SampleErr != nil {
		_, err := fmt.Fprintf(w, "sample unavailable: %v\n", r.Verification.SampleErr)
		return err
	}
	if len(r.Verification.Sample) == 0 {
		return nil
	}

	s := table.NewWriter()
	s.SetOutputMirror(w)
	s.SetStyle(table.StyleLight)
	s.AppendHeader(table.Row{"Property", "Address"})
	for _, p := range r.Verification.Sample {
		addr := "(none)"
		if p.Address.Valid {
			addr = p.Address.String
		}
		s.AppendRow(table.Row{p.PropertyID, addr})
	}
	s.Render()

	_, err := fmt.Fprintf(w, "(%d of %d properties shown)\n", len(r.Verification.Sample), propertyCount(r))
	return err
}

func propertyCount(r *Report) int64 {
	for _, c := range r.Verification.Counts {
		if c.Table == "properties" {
			return c.Rows
		}
	}
	return 0
}
