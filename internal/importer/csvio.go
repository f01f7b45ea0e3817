package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/brightclass/roster/internal/pkg/apperrors"
)

// utf8BOM is stripped from the front of uploaded files; spreadsheet exports
// routinely carry it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row is one data row of an import file. Number is the row's 1-based
// position in the file, counting the header as row 1, so the first data
// row is row 2.
type Row struct {
	Number int
	Cells  []string
}

// Table is a parsed import file: the header row plus all surviving data rows.
type Table struct {
	Header []string
	Rows   []Row
}

// ParseTable parses raw delimited text into a header and data rows.
// Quoted fields may contain commas, newlines and doubled-quote escapes;
// both \r\n and \n line endings are accepted, as is a trailing line
// without a terminator. Fully blank rows are dropped.
func ParseTable(raw []byte) (*Table, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var table Table
	number := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed delimited text: %w", err)
		}

		number++
		if isBlankRow(record) {
			continue
		}

		if table.Header == nil {
			table.Header = record
			continue
		}

		table.Rows = append(table.Rows, Row{Number: number, Cells: record})
	}

	if table.Header == nil {
		return nil, apperrors.ErrMissingHeaderRow
	}

	return &table, nil
}

// isBlankRow reports whether every cell is empty after trimming
func isBlankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
