package importer_test

import (
	"errors"
	"testing"

	"github.com/brightclass/roster/internal/importer"
	"github.com/brightclass/roster/internal/pkg/apperrors"
)

func TestParseTable(t *testing.T) {
	raw := []byte("admissionNo,firstName,lastName\nSTU-1,Ada,Obi\nSTU-2,Chidi,Eze\n")

	table, err := importer.ParseTable(raw)
	if err != nil {
		t.Fatalf("ParseTable returned error: %v", err)
	}

	if len(table.Header) != 3 || table.Header[0] != "admissionNo" {
		t.Errorf("unexpected header: %v", table.Header)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[0].Number != 2 || table.Rows[1].Number != 3 {
		t.Errorf("row numbers = %d, %d, want 2, 3", table.Rows[0].Number, table.Rows[1].Number)
	}
	if table.Rows[1].Cells[1] != "Chidi" {
		t.Errorf("unexpected cell: %q", table.Rows[1].Cells[1])
	}
}

func TestParseTableStripsBOM(t *testing.T) {
	raw := []byte("\xEF\xBB\xBFadmissionNo,firstName\nSTU-1,Ada\n")

	table, err := importer.ParseTable(raw)
	if err != nil {
		t.Fatalf("ParseTable returned error: %v", err)
	}
	if table.Header[0] != "admissionNo" {
		t.Errorf("BOM not stripped, header[0] = %q", table.Header[0])
	}
}

func TestParseTableQuotedFields(t *testing.T) {
	raw := []byte("admissionNo,parentName\nSTU-1,\"Obi, Ada \"\"Mrs\"\"\"\nSTU-2,\"Two\nLines\"\n")

	table, err := importer.ParseTable(raw)
	if err != nil {
		t.Fatalf("ParseTable returned error: %v", err)
	}
	if got := table.Rows[0].Cells[1]; got != `Obi, Ada "Mrs"` {
		t.Errorf("quoted field = %q", got)
	}
	if got := table.Rows[1].Cells[1]; got != "Two\nLines" {
		t.Errorf("embedded newline field = %q", got)
	}
}

func TestParseTableDropsBlankRows(t *testing.T) {
	raw := []byte("admissionNo,firstName\nSTU-1,Ada\n,\n   ,  \nSTU-2,Chidi\n")

	table, err := importer.ParseTable(raw)
	if err != nil {
		t.Fatalf("ParseTable returned error: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows after dropping blanks, got %d", len(table.Rows))
	}
	// Blank rows still occupy their file position
	if table.Rows[1].Number != 5 {
		t.Errorf("second data row number = %d, want 5", table.Rows[1].Number)
	}
}

func TestParseTableCRLF(t *testing.T) {
	raw := []byte("admissionNo,firstName\r\nSTU-1,Ada\r\nSTU-2,Chidi")

	table, err := importer.ParseTable(raw)
	if err != nil {
		t.Fatalf("ParseTable returned error: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[0].Cells[0] != "STU-1" {
		t.Errorf("unexpected cell: %q", table.Rows[0].Cells[0])
	}
}

func TestParseTableRaggedRows(t *testing.T) {
	raw := []byte("admissionNo,firstName,lastName\nSTU-1,Ada\nSTU-2,Chidi,Eze,extra\n")

	table, err := importer.ParseTable(raw)
	if err != nil {
		t.Fatalf("ParseTable returned error: %v", err)
	}
	if len(table.Rows[0].Cells) != 2 || len(table.Rows[1].Cells) != 4 {
		t.Errorf("ragged rows not preserved: %d, %d cells", len(table.Rows[0].Cells), len(table.Rows[1].Cells))
	}
}

func TestParseTableMissingHeader(t *testing.T) {
	for _, raw := range [][]byte{nil, []byte(""), []byte("\n , \n")} {
		_, err := importer.ParseTable(raw)
		if !errors.Is(err, apperrors.ErrMissingHeaderRow) {
			t.Errorf("ParseTable(%q) error = %v, want ErrMissingHeaderRow", raw, err)
		}
	}
}
