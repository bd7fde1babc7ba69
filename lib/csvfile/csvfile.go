package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/artie-labs/csvload/lib/typing"
)

var ErrNoColumns = errors.New("no columns to parse from file")

const utf8BOM = "\ufeff"

type Options struct {
	// ParseDates enables datetime inference, otherwise datetimes are kept as strings.
	ParseDates bool
}

type Column struct {
	Name  string
	DType typing.DType
}

// Dataset is a CSV file held in memory. Missing values are nil.
type Dataset struct {
	columns []Column
	rows    [][]any
}

func (d *Dataset) Columns() []Column {
	return d.columns
}

func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, col := range d.columns {
		names[i] = col.Name
	}

	return names
}

func (d *Dataset) Rows() [][]any {
	return d.rows
}

func (d *Dataset) NumRows() int {
	return len(d.rows)
}

func Read(fp string, opts Options) (*Dataset, error) {
	file, err := os.Open(fp)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	defer file.Close()
	dataset, err := Parse(file, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", fp, err)
	}

	return dataset, nil
}

func Parse(r io.Reader, opts Options) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoColumns
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	names, err := columnNames(header)
	if err != nil {
		return nil, err
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		if len(record) > len(names) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("expected %d fields in line %d, saw %d", len(names), line, len(record))
		}

		for len(record) < len(names) {
			record = append(record, "")
		}

		records = append(records, record)
	}

	columns := make([]Column, len(names))
	for i, name := range names {
		dtype := inferDType(records, i, opts)
		columns[i] = Column{Name: name, DType: dtype}
	}

	rows := make([][]any, len(records))
	for rowIdx, record := range records {
		row := make([]any, len(columns))
		for colIdx, col := range columns {
			value, err := convertValue(col.DType, record[colIdx])
			if err != nil {
				return nil, fmt.Errorf("failed to convert value for column %q: %w", col.Name, err)
			}

			row[colIdx] = value
		}

		rows[rowIdx] = row
	}

	return &Dataset{columns: columns, rows: rows}, nil
}

// columnNames de-duplicates the header ("A", "A.1", ...) and upper cases it.
func columnNames(header []string) ([]string, error) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	seen := make(map[string]bool)
	counts := make(map[string]int)
	names := make([]string, len(header))
	for i, name := range header {
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}

		if seen[name] {
			base := name
			for seen[name] {
				counts[base]++
				name = fmt.Sprintf("%s.%d", base, counts[base])
			}
		}

		seen[name] = true
		names[i] = name
	}

	upperNames := make(map[string]string)
	for i, name := range names {
		upper := strings.ToUpper(name)
		if original, isOk := upperNames[upper]; isOk {
			return nil, fmt.Errorf("columns %q and %q are both %q once upper cased", original, name, upper)
		}

		upperNames[upper] = name
		names[i] = upper
	}

	return names, nil
}

func inferDType(records [][]string, colIdx int, opts Options) typing.DType {
	if len(records) == 0 {
		return typing.Object
	}

	var nonMissing int
	var hasMissing bool
	// allIntegral also accepts integers that overflow an int64.
	allInt, allIntegral, allFloat, allBool, allDatetime := true, true, true, true, opts.ParseDates
	for _, record := range records {
		value := record[colIdx]
		if typing.IsMissing(value) {
			hasMissing = true
			continue
		}

		nonMissing++
		if allIntegral {
			if _, err := typing.ParseInt(value); err != nil {
				allInt = false
				allIntegral = typing.IsIntegerOverflow(err)
			}
		}

		if allFloat {
			if _, err := typing.ParseFloat(value); err != nil {
				allFloat = false
			}
		}

		if allBool {
			if _, err := typing.ParseBool(value); err != nil {
				allBool = false
			}
		}

		if allDatetime {
			if _, err := typing.ParseDatetime(value); err != nil {
				allDatetime = false
			}
		}
	}

	switch {
	case nonMissing == 0:
		return typing.Float64
	case allIntegral && !allInt:
		// Integers that don't fit in an int64 are kept as strings so that no digits are lost.
		return typing.Object
	case allInt && !hasMissing:
		return typing.Int64
	case allInt, allFloat:
		return typing.Float64
	case allBool && !hasMissing:
		return typing.Bool
	case allBool:
		return typing.Object
	case allDatetime:
		return typing.Datetime64
	default:
		return typing.Object
	}
}

func convertValue(dtype typing.DType, value string) (any, error) {
	if typing.IsMissing(value) {
		return nil, nil
	}

	if dtype.IsInteger() {
		return typing.ParseInt(value)
	}

	switch dtype {
	case typing.Float64:
		return typing.ParseFloat(value)
	case typing.Bool:
		return typing.ParseBool(value)
	case typing.Datetime64:
		return typing.ParseDatetime(value)
	default:
		return value, nil
	}
}
