package source

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// readXLSX reads one worksheet of a workbook into a header and records.
// An empty sheet name selects the first sheet.
func readXLSX(path, sheet string) (header []string, records [][]string, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	for _, row := range rows {
		if header == nil {
			if isBlank(row) {
				continue
			}
			header = row
			continue
		}
		records = append(records, row)
	}
	return header, records, nil
}
