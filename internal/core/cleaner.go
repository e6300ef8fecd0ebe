package core

import "strings"

// CleanStats summarizes what Clean changed.
type CleanStats struct {
	RowsIn         int
	RowsDropped    int               // rows without a usable property title
	NumericMissing int               // numeric cells that could not be parsed
	TextMissing    int               // text cells that were empty or a null sentinel
	Rejected       []ValidationError // first MaxRejectSamples cells that failed their type check
}

// Clean normalizes the dataset in place before any table is built:
//
//   - the identity column becomes text; rows whose identity is missing are dropped
//   - numeric columns are parsed; anything unparseable becomes missing, never zero
//   - text and date columns are trimmed; null sentinels become missing
//
// Only raw cells are touched, so running Clean again on its own output
// changes nothing.
func Clean(ds *Dataset) CleanStats {
	stats := CleanStats{RowsIn: len(ds.Rows)}

	specs := make([]*FieldSpec, len(ds.Columns))
	for i, col := range ds.Columns {
		if spec, ok := fieldsByName[col]; ok && spec.Key == col {
			specs[i] = &spec
		}
	}

	kept := ds.Rows[:0]
	for n, row := range ds.Rows {
		for i, spec := range specs {
			if spec == nil || i >= len(row) || row[i].Kind != KindRaw {
				continue
			}
			row[i] = cleanCell(row[i].Text, spec, &stats, n+1)
		}

		if ds.Get(row, ColPropertyTitle).IsMissing() {
			stats.RowsDropped++
			continue
		}
		kept = append(kept, row)
	}

	// Release dropped rows for the garbage collector.
	for i := len(kept); i < len(ds.Rows); i++ {
		ds.Rows[i] = nil
	}
	ds.Rows = kept

	return stats
}

func cleanCell(raw string, spec *FieldSpec, stats *CleanStats, rowNum int) Value {
	switch spec.Type {
	case FieldNumeric:
		n := ParseNumber(raw)
		if !n.Valid {
			stats.NumericMissing++
			stats.reject(rowNum, spec, raw)
			return MissingValue()
		}
		if spec.Integer {
			stats.reject(rowNum, spec, raw)
		}
		return NumberValue(n.Decimal)

	case FieldIdentity:
		s := CleanCell(raw)
		if IsNullSentinel(s) {
			return MissingValue()
		}
		return TextValue(s)

	default:
		s := strings.TrimSpace(raw)
		if IsNullSentinel(s) {
			stats.TextMissing++
			return MissingValue()
		}
		if spec.Normalizer != nil {
			s = spec.Normalizer(s)
		}
		if s == "" {
			stats.TextMissing++
			return MissingValue()
		}
		if spec.Type == FieldDate {
			stats.reject(rowNum, spec, s)
		}
		return TextValue(s)
	}
}

// reject records raw as a sample when it is present but fails validation.
func (s *CleanStats) reject(rowNum int, spec *FieldSpec, raw string) {
	if len(s.Rejected) >= MaxRejectSamples {
		return
	}
	err := ValidateCell(raw, *spec)
	if err == nil {
		return
	}
	s.Rejected = append(s.Rejected, ValidationError{
		Row:     rowNum,
		Field:   spec.Key,
		Value:   strings.TrimSpace(raw),
		Message: err.Error(),
	})
}
