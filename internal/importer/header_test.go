package importer_test

import (
	"testing"

	"github.com/brightclass/roster/internal/importer"
)

func TestResolveHeaderAliases(t *testing.T) {
	header := []string{"Admission No", "FIRST NAME", "Surname", "Guardian Phone", "Parent Email", "Class", "Term", "Session"}
	m := importer.ResolveHeader(header)

	want := map[string]int{
		importer.FieldAdmissionNo: 0,
		importer.FieldFirstName:   1,
		importer.FieldLastName:    2,
		importer.FieldParentPhone: 3,
		importer.FieldParentEmail: 4,
		importer.FieldClassGroup:  5,
		importer.FieldTerm:        6,
		importer.FieldSession:     7,
	}
	for field, pos := range want {
		if m[field] != pos {
			t.Errorf("field %s resolved to column %d, want %d", field, m[field], pos)
		}
	}
}

func TestResolveHeaderCanonicalNames(t *testing.T) {
	header := []string{"admissionNo", "firstName", "lastName", "parentPhone", "classGroupId", "termId"}
	m := importer.ResolveHeader(header)

	if m[importer.FieldAdmissionNo] != 0 {
		t.Errorf("canonical admissionNo not matched: %d", m[importer.FieldAdmissionNo])
	}
	if m[importer.FieldClassGroupID] != 4 {
		t.Errorf("canonical classGroupId not matched: %d", m[importer.FieldClassGroupID])
	}
	if m[importer.FieldTermID] != 5 {
		t.Errorf("canonical termId not matched: %d", m[importer.FieldTermID])
	}
}

func TestResolveHeaderPunctuationInsensitive(t *testing.T) {
	header := []string{"Admission_No.", "First-Name", "Parent/Guardian Name"}
	m := importer.ResolveHeader(header)

	if m[importer.FieldAdmissionNo] != 0 {
		t.Errorf("punctuated admission header not matched: %d", m[importer.FieldAdmissionNo])
	}
	if m[importer.FieldFirstName] != 1 {
		t.Errorf("punctuated first name header not matched: %d", m[importer.FieldFirstName])
	}
	if m[importer.FieldParentName] != 2 {
		t.Errorf("parent/guardian name header not matched: %d", m[importer.FieldParentName])
	}
}

func TestResolveHeaderDuplicateColumns(t *testing.T) {
	header := []string{"First Name", "First Name", "Last Name"}
	m := importer.ResolveHeader(header)

	// First occurrence wins
	if m[importer.FieldFirstName] != 0 {
		t.Errorf("duplicate header resolved to column %d, want 0", m[importer.FieldFirstName])
	}
}

func TestResolveHeaderAbsentColumns(t *testing.T) {
	header := []string{"Admission No", "First Name"}
	m := importer.ResolveHeader(header)

	for _, field := range []string{importer.FieldLastName, importer.FieldParentPhone, importer.FieldClassGroup} {
		if m[field] != -1 {
			t.Errorf("absent field %s resolved to %d, want -1", field, m[field])
		}
	}
}

func TestHeaderValue(t *testing.T) {
	m := importer.ResolveHeader([]string{"Admission No", "First Name", "Last Name"})
	row := importer.Row{Number: 2, Cells: []string{"  STU-1 ", "Ada"}}

	if got := m.Value(row, importer.FieldAdmissionNo); got != "STU-1" {
		t.Errorf("Value admissionNo = %q, want STU-1", got)
	}
	// Row shorter than the header
	if got := m.Value(row, importer.FieldLastName); got != "" {
		t.Errorf("Value on short row = %q, want empty", got)
	}
	// Column absent from the file
	if got := m.Value(row, importer.FieldParentPhone); got != "" {
		t.Errorf("Value on absent column = %q, want empty", got)
	}
}
