package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"izboricli/pkg/contracts/domain"
)

// coerce types a raw cell the way the source data intends: integer first,
// then float, then text. Blank cells are absent.
func coerce(s string) domain.Value {
	if s == "" {
		return domain.AbsentValue()
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return domain.IntValue(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return domain.FloatValue(f)
	}
	return domain.TextValue(s)
}

// ParseRows reads a headered CSV stream into raw rows with cells typed per
// coerce. A malformed numeric-looking cell stays text rather than failing
// the row.
func ParseRows(r io.Reader) ([]domain.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []domain.RawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}

		row := make(domain.RawRow, len(header))
		for i, col := range header {
			if i >= len(record) {
				row[col] = domain.AbsentValue()
				continue
			}
			row[col] = coerce(record[i])
		}
		rows = append(rows, row)
	}

	return rows, nil
}
